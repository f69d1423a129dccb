package generator

import (
	"bytes"
	"fmt"

	"github.com/fieldsift/fieldsift/internal/selection"
)

// GenerateJavaScript renders a JavaScript extraction function. Missing or
// mismatched steps resolve to null. Unlike Python, the path is consumed
// unmodified against an already-parsed record.
func GenerateJavaScript(selections []selection.FieldSelection, column string) string {
	if len(selections) == 0 {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "function %s(record) {\n", camelName("extract", column))
	buf.WriteString(jsPickBody)
	buf.WriteString("\n  return {\n")
	for _, sel := range selections {
		fmt.Fprintf(&buf, "    %s: pick(record, %s),\n", sel.FieldName, pathLiteral(sel.Path))
	}
	buf.WriteString("  };\n")
	buf.WriteString("}\n")
	return buf.String()
}

// jsPickBody is shared verbatim by the JavaScript and TypeScript targets
// apart from the type annotations the latter adds.
const jsPickBody = `  const pick = (value, path) => {
    for (const step of path) {
      if (typeof step === "number") {
        if (!Array.isArray(value) || step < 0 || step >= value.length) {
          return null;
        }
        value = value[step];
      } else if (value !== null && typeof value === "object" && !Array.isArray(value) && step in value) {
        value = value[step];
      } else {
        return null;
      }
    }
    return value;
  };
`
