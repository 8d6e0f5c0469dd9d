// Package text breaks TEXT content into lines and decides how many lines fit
// a given height.
//
// Line breaking follows the Unicode line breaking algorithm (UAX #14) via
// github.com/rivo/uniseg, and measures runs in terminal-style cells: every
// cell advances by a fixed fraction of the font size. This is a metric
// model, not glyph shaping; it is deterministic, which is what pagination
// needs from its line-fitting collaborator.
//
// # Metrics
//
// [Metrics] carries the font size, the line-height factor and the per-cell
// advance. TEXT styles may override FontSize and LineHeight; everything else
// comes from the configured defaults.
//
// # Fitting
//
// [Fitter] implements the line-fitting contract used by package split:
// given a laid-out TEXT node and an available height it returns the prefix
// of lines that fit and the lines that remain, honoring the node's orphans
// and widows props.
package text
