package report

import (
	"encoding/json"
	"io"
)

// JSONRenderer writes the report as indented JSON, the canonical machine
// format. Output is byte-stable for identical input.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (JSONRenderer) Ext() string { return "json" }
