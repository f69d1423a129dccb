package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/fieldsift/fieldsift/internal/config"
	"github.com/fieldsift/fieldsift/internal/diff"
	"github.com/fieldsift/fieldsift/internal/engine"
	"github.com/fieldsift/fieldsift/internal/errors"
	"github.com/fieldsift/fieldsift/internal/generator"
	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/store"
)

// CLI defines the command-line interface
var CLI struct {
	Input     string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output    string   `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Column    string   `help:"Source column name used in generated code." short:"c" default:"data"`
	Target    string   `help:"Code generation target: python, javascript, typescript, go, rust." short:"t" default:"python"`
	Select    []string `help:"Toggle-select a field by dotted path, e.g. items[0].v. Repeatable." short:"s"`
	Subtree   []string `help:"Select every leaf under the given dotted path. Repeatable."`
	Rename    []string `help:"Rename a selection, as fieldname=newname."`
	Diff      string   `help:"Path to a second JSON file to compare against." type:"path"`
	Search    string   `help:"Search node display text for this query."`
	Regex     bool     `help:"Treat the search query as a regular expression."`
	Query     string   `help:"Evaluate a JSONPath expression against the document." short:"q"`
	Stats     bool     `help:"Print document statistics instead of generated code."`
	Bookmark  string   `help:"Save the first selected path as a bookmark with this label."`
	Bookmarks bool     `help:"List saved bookmarks."`
	Config    string   `help:"Path to a config file. Discovered automatically when omitted." type:"path"`
	Version   bool     `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("fieldsift"),
		kong.Description("Inspect a JSON document, pick fields, and generate extraction code"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("fieldsift version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: fieldsift --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Column, CLI.Target)
	if err != nil {
		return err
	}

	var st store.Store
	if cfg.Store.Enabled && cfg.Store.Path != "" {
		fileStore, err := store.OpenFile(cfg.Store.Path)
		if err != nil {
			return err
		}
		st = fileStore
	}

	eng, err := engine.New(cfg, st)
	if err != nil {
		return err
	}

	if CLI.Bookmarks {
		return printBookmarks(eng)
	}

	if err := loadInput(eng); err != nil {
		return err
	}

	if err := applySelections(eng); err != nil {
		return err
	}

	if CLI.Bookmark != "" {
		if len(CLI.Select) == 0 {
			return errors.NewInputError("--bookmark requires at least one --select path", nil)
		}
		p, err := pathing.ParseDotted(CLI.Select[0])
		if err != nil {
			return errors.NewInputError("invalid bookmark path", err)
		}
		bm, err := eng.AddBookmark(CLI.Bookmark, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved bookmark %s (%s)\n", bm.Label, bm.ID)
	}

	out, err := render(eng, cfg)
	if err != nil {
		return err
	}
	return writeOutput(out)
}

// loadInput parses JSON from file or stdin into the engine
func loadInput(eng *engine.Engine) error {
	if CLI.Input != "" {
		_, err := eng.LoadFile(CLI.Input)
		return err
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		return errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	_, err = eng.Load(string(jsonData))
	return err
}

// applySelections replays the toggle, subtree, and rename intents from
// the flags in order.
func applySelections(eng *engine.Engine) error {
	for _, expr := range CLI.Select {
		p, err := pathing.ParseDotted(expr)
		if err != nil {
			return errors.NewSelectionError(fmt.Sprintf("invalid path '%s'", expr), err)
		}
		if _, _, err := eng.ToggleSelect(p); err != nil {
			return err
		}
	}
	for _, expr := range CLI.Subtree {
		p, err := pathing.ParseDotted(expr)
		if err != nil {
			return errors.NewSelectionError(fmt.Sprintf("invalid path '%s'", expr), err)
		}
		if _, _, err := eng.SelectSubtree(p); err != nil {
			return err
		}
	}
	for _, spec := range CLI.Rename {
		name, newName, ok := strings.Cut(spec, "=")
		if !ok {
			return errors.NewSelectionError(fmt.Sprintf("invalid rename '%s', expected fieldname=newname", spec), nil)
		}
		if err := renameByFieldName(eng, name, newName); err != nil {
			return err
		}
	}
	return nil
}

// renameByFieldName resolves a field name to its selection key, since
// keys are an internal detail users never type.
func renameByFieldName(eng *engine.Engine, fieldName, newName string) error {
	for _, sel := range eng.Selections() {
		if sel.FieldName == fieldName {
			return eng.Rename(sel.Key, newName)
		}
	}
	return errors.NewSelectionError(fmt.Sprintf("no selection named '%s'", fieldName), nil)
}

// render produces the requested output text.
func render(eng *engine.Engine, cfg *config.Config) (string, error) {
	switch {
	case CLI.Diff != "":
		other, err := os.ReadFile(CLI.Diff)
		if err != nil {
			return "", errors.NewInputError(fmt.Sprintf("failed to read '%s'", CLI.Diff), err)
		}
		result, err := eng.CompareWith(string(other))
		if err != nil {
			return "", err
		}
		return formatDiff(result), nil

	case CLI.Search != "":
		matches, err := eng.Search(CLI.Search, CLI.Regex || cfg.Search.Regex)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&sb, "%s\t%s\n", pathing.Encode(m.Path), m.DisplayKey)
		}
		return sb.String(), nil

	case CLI.Query != "":
		values, err := eng.Query(CLI.Query)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, v := range values {
			raw, err := json.Marshal(v)
			if err != nil {
				return "", errors.NewQueryError("failed to encode query result", err)
			}
			sb.Write(raw)
			sb.WriteByte('\n')
		}
		return sb.String(), nil

	case CLI.Stats:
		doc := eng.Document()
		stats := doc.Stats
		var sb strings.Builder
		fmt.Fprintf(&sb, "size class:  %s\n", doc.SizeClass)
		fmt.Fprintf(&sb, "total nodes: %d\n", stats.TotalNodes)
		fmt.Fprintf(&sb, "total keys:  %d\n", stats.KeyCount)
		fmt.Fprintf(&sb, "max depth:   %d\n", stats.MaxDepth)
		fmt.Fprintf(&sb, "byte size:   %d\n", stats.ByteSize)
		kinds := make([]string, 0, len(stats.Kinds))
		for kind, count := range stats.Kinds {
			kinds = append(kinds, fmt.Sprintf("%s=%d", kind, count))
		}
		sort.Strings(kinds)
		fmt.Fprintf(&sb, "kinds:       %s\n", strings.Join(kinds, " "))
		return sb.String(), nil

	default:
		target, err := generator.ParseTarget(cfg.Target)
		if err != nil {
			return "", err
		}
		return eng.Generate(target)
	}
}

// formatDiff renders a diff map with stable ordering.
func formatDiff(result map[string]diff.Status) string {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%-9s %s\n", result[k], k)
	}
	return sb.String()
}

func printBookmarks(eng *engine.Engine) error {
	list, err := eng.Bookmarks()
	if err != nil {
		return err
	}
	for _, bm := range list {
		fmt.Printf("%s\t%s\t%s\n", bm.ID, bm.Label, bm.Path)
	}
	return nil
}

// writeOutput writes text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(text), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}
	_, err := fmt.Println(strings.TrimRight(text, "\n"))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
