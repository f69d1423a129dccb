package generator

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/selection"
)

// GenerateRust renders a Rust extraction function over serde_json
// values. Missing or mismatched steps resolve to Value::Null via the
// Option chain.
func GenerateRust(selections []selection.FieldSelection, column string) string {
	if len(selections) == 0 {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("use serde_json::Value;\n")
	buf.WriteString("\n")
	buf.WriteString("/// Extract the selected fields from one parsed JSON record.\n")
	fmt.Fprintf(&buf, "pub fn %s(record: &Value) -> Vec<(&'static str, Value)> {\n", snakeName("extract", column))
	buf.WriteString("    let field = |v: Option<&Value>| v.cloned().unwrap_or(Value::Null);\n")
	buf.WriteString("    vec![\n")
	for _, sel := range selections {
		fmt.Fprintf(&buf, "        (%s, field(%s)),\n", strconv.Quote(sel.FieldName), rustChain(sel.Path))
	}
	buf.WriteString("    ]\n")
	buf.WriteString("}\n")
	return buf.String()
}

// rustChain renders a path as an Option chain rooted at the record.
// serde_json's Value::get accepts both string keys and usize indices, so
// every step is a get regardless of container kind.
func rustChain(p pathing.Path) string {
	if len(p) == 0 {
		return "Some(record)"
	}
	var buf bytes.Buffer
	buf.WriteString("record")
	for i, step := range p {
		arg := strconv.Quote(step.Key)
		if step.IsIndex {
			arg = strconv.Itoa(step.Index)
		}
		if i == 0 {
			fmt.Fprintf(&buf, ".get(%s)", arg)
		} else {
			fmt.Fprintf(&buf, ".and_then(|v| v.get(%s))", arg)
		}
	}
	return buf.String()
}
