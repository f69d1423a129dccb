package generator

import (
	"bytes"
	"fmt"

	"github.com/fieldsift/fieldsift/internal/selection"
)

// GenerateTypeScript renders a typed variant of the JavaScript extractor.
func GenerateTypeScript(selections []selection.FieldSelection, column string) string {
	if len(selections) == 0 {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("type JsonValue = null | boolean | number | string | JsonValue[] | { [key: string]: JsonValue };\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "function %s(record: JsonValue): Record<string, JsonValue> {\n", camelName("extract", column))
	buf.WriteString("  const pick = (value: JsonValue, path: (string | number)[]): JsonValue => {\n")
	buf.WriteString("    for (const step of path) {\n")
	buf.WriteString("      if (typeof step === \"number\") {\n")
	buf.WriteString("        if (!Array.isArray(value) || step < 0 || step >= value.length) {\n")
	buf.WriteString("          return null;\n")
	buf.WriteString("        }\n")
	buf.WriteString("        value = value[step];\n")
	buf.WriteString("      } else if (value !== null && typeof value === \"object\" && !Array.isArray(value) && step in value) {\n")
	buf.WriteString("        value = value[step];\n")
	buf.WriteString("      } else {\n")
	buf.WriteString("        return null;\n")
	buf.WriteString("      }\n")
	buf.WriteString("    }\n")
	buf.WriteString("    return value;\n")
	buf.WriteString("  };\n")
	buf.WriteString("\n  return {\n")
	for _, sel := range selections {
		fmt.Fprintf(&buf, "    %s: pick(record, %s),\n", sel.FieldName, pathLiteral(sel.Path))
	}
	buf.WriteString("  };\n")
	buf.WriteString("}\n")
	return buf.String()
}
