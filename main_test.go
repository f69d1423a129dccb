package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsift/fieldsift/internal/diff"
	"github.com/fieldsift/fieldsift/internal/engine"
)

func resetCLI(t *testing.T) {
	t.Helper()
	originalCLI := CLI
	t.Cleanup(func() { CLI = originalCLI })
	CLI.Input = ""
	CLI.Output = ""
	CLI.Column = ""
	CLI.Target = ""
	CLI.Select = nil
	CLI.Subtree = nil
	CLI.Rename = nil
	CLI.Diff = ""
	CLI.Search = ""
	CLI.Regex = false
	CLI.Query = ""
	CLI.Stats = false
	CLI.Bookmark = ""
	CLI.Bookmarks = false
	CLI.Config = ""
}

func writeTempJSON(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const testDoc = `{"items":[{"v":1},{"v":2}],"total":3}`

func TestRun_GeneratesPython(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Output = filepath.Join(t.TempDir(), "out.py")
	CLI.Select = []string{"items[0].v", "total"}

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)

	outputStr := string(output)
	assert.Contains(t, outputStr, "def extract_data(record):")
	assert.Contains(t, outputStr, `"v": pick(record, ["items", 0, "v"]),`)
	assert.Contains(t, outputStr, `"total": pick(record, ["total"]),`)
}

func TestRun_TargetFlag(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Output = filepath.Join(t.TempDir(), "out.rs")
	CLI.Target = "rust"
	CLI.Select = []string{"total"}

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(output), "pub fn extract_data(record: &Value)")
}

func TestRun_RenameSelection(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Output = filepath.Join(t.TempDir(), "out.py")
	CLI.Select = []string{"total"}
	CLI.Rename = []string{"total=grand_total"}

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(output), `"grand_total": pick(record, ["total"]),`)
}

func TestRun_RenameUnknownField(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Select = []string{"total"}
	CLI.Rename = []string{"nope=renamed"}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no selection named 'nope'")
}

func TestRun_Diff(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Diff = writeTempJSON(t, `{"items":[{"v":1},{"v":9}],"total":3,"extra":true}`)
	CLI.Output = filepath.Join(t.TempDir(), "diff.txt")

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)

	outputStr := string(output)
	assert.Contains(t, outputStr, `modified  ["items",1,"v"]`)
	assert.Contains(t, outputStr, `added     ["extra"]`)
}

func TestRun_Search(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Search = "total"
	CLI.Output = filepath.Join(t.TempDir(), "search.txt")

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(output), "[\"total\"]\ttotal")
}

func TestRun_Query(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Query = "$.items[*].v"
	CLI.Output = filepath.Join(t.TempDir(), "query.txt")

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", string(output))
}

func TestRun_Stats(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Stats = true
	CLI.Output = filepath.Join(t.TempDir(), "stats.txt")

	require.NoError(t, run())

	output, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)

	outputStr := string(output)
	assert.Contains(t, outputStr, "size class:  small")
	assert.Contains(t, outputStr, "total keys:  4")
}

func TestRun_InvalidSelectPath(t *testing.T) {
	resetCLI(t)

	CLI.Input = writeTempJSON(t, testDoc)
	CLI.Select = []string{"items[oops"}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid path")
}

func TestLoadInput_FromStdin(t *testing.T) {
	resetCLI(t)

	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(testDoc)
	}()
	os.Stdin = r
	defer func() { _ = r.Close() }()

	eng, err := engine.New(nil, nil)
	require.NoError(t, err)

	require.NoError(t, loadInput(eng))
	assert.NotNil(t, eng.Document())
}

func TestLoadInput_NonExistentFile(t *testing.T) {
	resetCLI(t)
	CLI.Input = "/non/existent/file.json"

	eng, err := engine.New(nil, nil)
	require.NoError(t, err)
	assert.Error(t, loadInput(eng))
}

func TestWriteOutput_ToFile(t *testing.T) {
	resetCLI(t)

	path := filepath.Join(t.TempDir(), "out.txt")
	CLI.Output = path

	require.NoError(t, writeOutput("generated text"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "generated text", string(content))
}

func TestWriteOutput_FileError(t *testing.T) {
	resetCLI(t)
	CLI.Output = "/non/existent/dir/output.txt"

	assert.Error(t, writeOutput("text"))
}

func TestFormatDiff_SortedAndAligned(t *testing.T) {
	out := formatDiff(map[string]diff.Status{
		`["z"]`: diff.StatusRemoved,
		`["a"]`: diff.StatusAdded,
	})
	assert.Equal(t, "added     [\"a\"]\nremoved   [\"z\"]\n", out)
}

func TestFormatDiff_Empty(t *testing.T) {
	assert.Equal(t, "", formatDiff(nil))
}
