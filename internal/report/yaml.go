package report

import (
	"io"

	"gopkg.in/yaml.v3"
)

// generateYAML writes the collected document as YAML
func (g *Generator) generateYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.doc); err != nil {
		return err
	}
	return enc.Close()
}
