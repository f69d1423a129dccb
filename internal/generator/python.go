package generator

import (
	"bytes"
	"fmt"

	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/selection"
)

// GeneratePython renders a Python extraction function. Missing or
// mismatched steps resolve to None. A leading key step equal to the
// column name is stripped: upstream path collection may prepend the
// column as a pseudo-root, and Python consumers walk the bare record.
func GeneratePython(selections []selection.FieldSelection, column string) string {
	if len(selections) == 0 {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "def %s(record):\n", snakeName("extract", column))
	buf.WriteString("    \"\"\"Extract the selected fields from one parsed JSON record.\"\"\"\n")
	buf.WriteString("    def pick(value, path):\n")
	buf.WriteString("        for step in path:\n")
	buf.WriteString("            if isinstance(step, int):\n")
	buf.WriteString("                if not isinstance(value, list) or step < 0 or step >= len(value):\n")
	buf.WriteString("                    return None\n")
	buf.WriteString("                value = value[step]\n")
	buf.WriteString("            elif isinstance(value, dict) and step in value:\n")
	buf.WriteString("                value = value[step]\n")
	buf.WriteString("            else:\n")
	buf.WriteString("                return None\n")
	buf.WriteString("        return value\n")
	buf.WriteString("\n")
	buf.WriteString("    return {\n")
	for _, sel := range selections {
		fmt.Fprintf(&buf, "        %s: pick(record, %s),\n", quote(sel.FieldName), pathLiteral(stripColumn(sel.Path, column)))
	}
	buf.WriteString("    }\n")
	return buf.String()
}

// stripColumn drops a leading key step equal to the column name.
func stripColumn(p pathing.Path, column string) pathing.Path {
	if len(p) > 0 && !p[0].IsIndex && p[0].Key == column {
		return p[1:]
	}
	return p
}
