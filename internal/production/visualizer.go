// Package production provides production integrations: visualization, record
// publishing, reports and Prometheus metrics.
// Everything here works on label-only primitives so it never depends on a
// machine's type parameters.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx/internal/primitives"
)

// DefaultVisualizer renders edge lists as Graphviz DOT or PlantUML text.
// Edges are rendered in the order given; callers pass them canonically sorted.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source with one edge per transition labeled by its event.
func (v *DefaultVisualizer) ExportDOT(edges []primitives.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph StateMachine {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, edge := range edges {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", dotQuote(edge.From), dotQuote(edge.To), dotQuote(edge.Event))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportPlantUML generates a PlantUML state diagram.
func (v *DefaultVisualizer) ExportPlantUML(edges []primitives.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("@startuml\n")
	for _, edge := range edges {
		fmt.Fprintf(&buf, "%s --> %s : %s\n", umlName(edge.From), umlName(edge.To), edge.Event)
	}
	buf.WriteString("@enduml\n")
	return buf.String()
}

// ExportJSON serializes a table description to indented JSON.
func (v *DefaultVisualizer) ExportJSON(desc primitives.Description) ([]byte, error) {
	return json.MarshalIndent(desc, "", "  ")
}

// ExportYAML serializes a table description to YAML.
func (v *DefaultVisualizer) ExportYAML(desc primitives.Description) ([]byte, error) {
	data, err := yaml.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// umlName quotes state names PlantUML would not accept bare.
func umlName(s string) string {
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
		}
	}
	if s == "" {
		return `""`
	}
	return s
}
