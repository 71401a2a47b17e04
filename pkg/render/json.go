package render

import (
	"encoding/json"

	"github.com/dkoosis/bugreg/pkg/table"
)

// JSON renders blocks as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Version string      `json:"version"`
	Blocks  []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	Kind string      `json:"kind"`
	Data table.Block `json:"data"`
}

// Render formats all blocks as JSON.
func (j *JSON) Render(blocks []table.Block) string {
	out := jsonOutput{
		Version: "1",
		Blocks:  make([]jsonBlock, 0, len(blocks)),
	}

	for _, b := range blocks {
		out.Blocks = append(out.Blocks, jsonBlock{
			Kind: string(b.Kind()),
			Data: b,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
