package report

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// RenderText renders the flat UTF-8 text form of a report: a title line,
// then one section-name line per section with indented "label: value"
// lines, sections separated by blank lines. The dashboard viewport and the
// export file both go through this function, so what is displayed and what
// is exported can never diverge.
func RenderText(r Report) string {
	var b strings.Builder

	b.WriteString("HOSTSCOPE SYSTEM REPORT - ")
	b.WriteString(r.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 60))
	b.WriteString("\n")

	for i, section := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.Name)
		b.WriteString(":\n")
		for _, f := range section.Fields {
			b.WriteString("  ")
			b.WriteString(f.Label)
			b.WriteString(": ")
			b.WriteString(f.Value)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// EncodeJSON renders the report as indented JSON.
func EncodeJSON(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// EncodeYAML renders the report as YAML.
func EncodeYAML(r Report) ([]byte, error) {
	return yaml.Marshal(r)
}
