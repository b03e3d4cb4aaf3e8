package render

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/jiapu/pkg/layout"
)

type jsonOutput struct {
	layout.Layout
	Stats layout.Stats `json:"stats"`
}

// JSON encodes l with its statistics, indented, without HTML escaping.
func JSON(l layout.Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonOutput{Layout: l, Stats: l.Stats()}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
