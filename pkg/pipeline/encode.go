package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	pio "github.com/matzehuels/pageflow/pkg/io"
	"github.com/matzehuels/pageflow/pkg/paginate"
)

// cachedLayout is the cache representation of a pagination result.
type cachedLayout struct {
	Document json.RawMessage    `json:"document"`
	Warnings []paginate.Warning `json:"warnings,omitempty"`
}

func encodeLayout(res *paginate.Result) ([]byte, error) {
	doc, err := json.Marshal(res.Document)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cachedLayout{Document: doc, Warnings: res.Warnings})
}

func decodeLayout(data []byte) (*paginate.Result, error) {
	var c cachedLayout
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	doc, err := pio.ReadJSON(bytes.NewReader(c.Document))
	if err != nil {
		return nil, err
	}
	return &paginate.Result{Document: doc, Warnings: c.Warnings}, nil
}

// WriteResult writes result as indented JSON to w.
func WriteResult(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
