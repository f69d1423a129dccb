// Package generator renders extraction source text for each supported
// target language from the current selection list. Generators are pure:
// the same selections and column name always produce the same text, and
// an empty selection list produces the empty string for every target.
//
// The generated code shares one behavioral contract across targets: each
// field walks its path against a parsed record, and any step that does
// not fit (wrong container kind, missing key, index out of range) yields
// the target's null-equivalent instead of an error. Field names arrive
// already sanitized from the selection registry and are never reshaped
// here, only quoted or formatted.
package generator

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/fieldsift/fieldsift/internal/errors"
	"github.com/fieldsift/fieldsift/internal/models"
	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/selection"
)

// Target names a supported output language.
type Target string

const (
	TargetPython     Target = "python"
	TargetJavaScript Target = "javascript"
	TargetTypeScript Target = "typescript"
	TargetGo         Target = "go"
	TargetRust       Target = "rust"
)

// Targets lists every supported target in display order.
func Targets() []Target {
	return []Target{TargetPython, TargetJavaScript, TargetTypeScript, TargetGo, TargetRust}
}

// ParseTarget resolves a user-supplied target name, accepting the common
// short aliases.
func ParseTarget(name string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "python", "py":
		return TargetPython, nil
	case "javascript", "js":
		return TargetJavaScript, nil
	case "typescript", "ts":
		return TargetTypeScript, nil
	case "go", "golang":
		return TargetGo, nil
	case "rust", "rs":
		return TargetRust, nil
	default:
		return "", errors.NewGenerateError("unsupported target '"+name+"'", errors.ErrUnknownTarget)
	}
}

// Generate renders extraction code for one target. Output field order
// always equals selection insertion order.
func Generate(target Target, selections []selection.FieldSelection, column string) (string, error) {
	switch target {
	case TargetPython:
		return GeneratePython(selections, column), nil
	case TargetJavaScript:
		return GenerateJavaScript(selections, column), nil
	case TargetTypeScript:
		return GenerateTypeScript(selections, column), nil
	case TargetGo:
		return GenerateGo(selections, column), nil
	case TargetRust:
		return GenerateRust(selections, column), nil
	default:
		return "", errors.NewGenerateError("unsupported target '"+string(target)+"'", errors.ErrUnknownTarget)
	}
}

// pathLiteral renders a path as a bracketed literal usable verbatim in
// Python, JavaScript and TypeScript: string steps JSON-quoted, index
// steps bare.
func pathLiteral(p pathing.Path) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, step := range p {
		if i > 0 {
			sb.WriteString(", ")
		}
		if step.IsIndex {
			sb.WriteString(strconv.Itoa(step.Index))
		} else {
			sb.WriteString(quote(step.Key))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func quote(s string) string {
	return models.EncodeString(s)
}

// camelName builds lowerCamel function names such as extractRows.
func camelName(prefix, column string) string {
	return prefix + strcase.ToCamel(column)
}

// snakeName builds snake_case function names such as extract_rows.
func snakeName(prefix, column string) string {
	return prefix + "_" + strcase.ToSnake(column)
}
