// Package config loads pageflow configuration from a TOML file and the
// environment.
//
// Values are resolved in order: built-in defaults, the TOML file, then
// PAGEFLOW_* environment variables. A sample file:
//
//	[page]
//	size = "LETTER"
//	orientation = "landscape"
//
//	[text]
//	font_size = 12
//
//	[pagination]
//	max_fragments = 500
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pageflow/pkg/boxes"
	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/paginate"
	"github.com/matzehuels/pageflow/pkg/text"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete pageflow configuration.
type Config struct {
	Page       PageConfig       `toml:"page"`
	Text       text.Metrics     `toml:"text"`
	Pagination PaginationConfig `toml:"pagination"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
}

// PageConfig sets the default page size. Explicit Width and Height win
// over Size.
type PageConfig struct {
	Size        string  `toml:"size"`
	Orientation string  `toml:"orientation"`
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
}

// PaginationConfig bounds pagination work.
type PaginationConfig struct {
	MaxFragments int `toml:"max_fragments"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Duration is a time.Duration decoded from strings such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Page:       PageConfig{Size: "A4", Orientation: "portrait"},
		Text:       text.DefaultMetrics(),
		Pagination: PaginationConfig{MaxFragments: paginate.DefaultMaxFragments},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     Duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxBodyBytes:   10 << 20,
			RequestTimeout: Duration{30 * time.Second},
		},
	}
}

// DefaultCacheDir returns the per-user cache directory for pageflow.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "pageflow")
	}
	return filepath.Join(os.TempDir(), "pageflow-cache")
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pageflow", "config.toml")
	}
	return ""
}

// Load reads the configuration file at path over the defaults and applies
// environment overrides. An empty path skips the file; a missing file at
// DefaultPath is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values pagination cannot use.
func (c Config) Validate() error {
	if _, err := c.PageSize(); err != nil {
		return err
	}
	if c.Text.FontSize < 0 || c.Text.LineHeight < 0 || c.Text.Advance < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "text metrics must not be negative")
	}
	if c.Pagination.MaxFragments < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "max_fragments must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return perrors.New(perrors.ErrCodeInvalidConfig, "cache backend redis needs redis_addr")
		}
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "max_body_bytes must be positive")
	}
	return nil
}

// PageSize returns the default page size.
func (c Config) PageSize() (boxes.Size, error) {
	size := boxes.A4
	if c.Page.Size != "" {
		s, ok := boxes.LookupSize(c.Page.Size)
		if !ok {
			return boxes.Size{}, perrors.New(perrors.ErrCodeInvalidConfig, "unknown page size %q", c.Page.Size)
		}
		size = s
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait":
	case "landscape":
		size = size.Landscape()
	default:
		return boxes.Size{}, perrors.New(perrors.ErrCodeInvalidConfig, "unknown orientation %q", c.Page.Orientation)
	}
	if c.Page.Width != 0 {
		size.Width = c.Page.Width
	}
	if c.Page.Height != 0 {
		size.Height = c.Page.Height
	}
	if err := perrors.ValidatePageSize(size.Width, size.Height); err != nil {
		return boxes.Size{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "page")
	}
	return size, nil
}

func applyEnv(c *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *Duration) {
		if v := os.Getenv(key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}

	str("PAGEFLOW_PAGE_SIZE", &c.Page.Size)
	str("PAGEFLOW_PAGE_ORIENTATION", &c.Page.Orientation)
	float("PAGEFLOW_PAGE_WIDTH", &c.Page.Width)
	float("PAGEFLOW_PAGE_HEIGHT", &c.Page.Height)
	float("PAGEFLOW_FONT_SIZE", &c.Text.FontSize)
	float("PAGEFLOW_LINE_HEIGHT", &c.Text.LineHeight)
	integer("PAGEFLOW_MAX_FRAGMENTS", &c.Pagination.MaxFragments)
	str("PAGEFLOW_CACHE_BACKEND", &c.Cache.Backend)
	str("PAGEFLOW_CACHE_DIR", &c.Cache.Dir)
	duration("PAGEFLOW_CACHE_TTL", &c.Cache.TTL)
	str("PAGEFLOW_REDIS_ADDR", &c.Cache.RedisAddr)
	str("PAGEFLOW_REDIS_PASSWORD", &c.Cache.RedisPassword)
	integer("PAGEFLOW_REDIS_DB", &c.Cache.RedisDB)
	str("PAGEFLOW_ADDR", &c.Server.Addr)
	duration("PAGEFLOW_REQUEST_TIMEOUT", &c.Server.RequestTimeout)

	if len(errs) > 0 {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, errors.Join(errs...), "environment")
	}
	return nil
}
