package report

import (
	"encoding/json"
	"io"
)

// generateJSON writes the collected document as indented JSON
func (g *Generator) generateJSON(w io.Writer) error {
	data, err := json.MarshalIndent(g.doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
