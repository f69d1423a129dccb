package generator

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/iancoleman/strcase"

	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/selection"
)

// GenerateGo renders a Go extraction function over encoding/json shapes
// (map[string]any, []any). Missing or mismatched steps resolve to nil.
func GenerateGo(selections []selection.FieldSelection, column string) string {
	if len(selections) == 0 {
		return ""
	}

	funcName := "Extract" + strcase.ToCamel(column)

	var buf bytes.Buffer
	buf.WriteString("package main\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "// %s pulls the selected fields out of one decoded JSON record.\n", funcName)
	fmt.Fprintf(&buf, "func %s(record any) map[string]any {\n", funcName)
	buf.WriteString("\tpick := func(value any, path ...any) any {\n")
	buf.WriteString("\t\tfor _, step := range path {\n")
	buf.WriteString("\t\t\tswitch s := step.(type) {\n")
	buf.WriteString("\t\t\tcase int:\n")
	buf.WriteString("\t\t\t\tarr, ok := value.([]any)\n")
	buf.WriteString("\t\t\t\tif !ok || s < 0 || s >= len(arr) {\n")
	buf.WriteString("\t\t\t\t\treturn nil\n")
	buf.WriteString("\t\t\t\t}\n")
	buf.WriteString("\t\t\t\tvalue = arr[s]\n")
	buf.WriteString("\t\t\tcase string:\n")
	buf.WriteString("\t\t\t\tobj, ok := value.(map[string]any)\n")
	buf.WriteString("\t\t\t\tif !ok {\n")
	buf.WriteString("\t\t\t\t\treturn nil\n")
	buf.WriteString("\t\t\t\t}\n")
	buf.WriteString("\t\t\t\tnext, ok := obj[s]\n")
	buf.WriteString("\t\t\t\tif !ok {\n")
	buf.WriteString("\t\t\t\t\treturn nil\n")
	buf.WriteString("\t\t\t\t}\n")
	buf.WriteString("\t\t\t\tvalue = next\n")
	buf.WriteString("\t\t\t}\n")
	buf.WriteString("\t\t}\n")
	buf.WriteString("\t\treturn value\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\n")
	buf.WriteString("\treturn map[string]any{\n")
	for _, sel := range selections {
		fmt.Fprintf(&buf, "\t\t%s: pick(record%s),\n", strconv.Quote(sel.FieldName), goPathArgs(sel.Path))
	}
	buf.WriteString("\t}\n")
	buf.WriteString("}\n")
	return buf.String()
}

// goPathArgs renders a path as trailing variadic arguments.
func goPathArgs(p pathing.Path) string {
	var buf bytes.Buffer
	for _, step := range p {
		buf.WriteString(", ")
		if step.IsIndex {
			buf.WriteString(strconv.Itoa(step.Index))
		} else {
			buf.WriteString(strconv.Quote(step.Key))
		}
	}
	return buf.String()
}
