// File: cmd/generate_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/render"
)

// runCommand executes a fresh root command with the given args, capturing
// stdout and stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGenerateFromExample(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCommand(t, "generate", "--example", "--out", dir)
	require.NoError(t, err)

	for _, name := range []string{render.DOCXFilename, render.HTMLFilename, render.XLSXFilename} {
		path := filepath.Join(dir, name)
		assert.Contains(t, stdout, path)
		info, err := os.Stat(path)
		require.NoError(t, err, "expected %s to be written", name)
		assert.Positive(t, info.Size())
	}
}

func TestGenerateFromJSONFile(t *testing.T) {
	dir := t.TempDir()
	model := schemas.ExampleModel()
	data, err := json.Marshal(model)
	require.NoError(t, err)

	input := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(input, data, 0o644))

	_, _, err = runCommand(t, "generate", input, "--out", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, render.DOCXFilename))
	assert.NoError(t, err)
}

func TestGenerateRejectsInvalidModel(t *testing.T) {
	dir := t.TempDir()
	model := schemas.ExampleModel()
	model.Summary.Pass = 10
	model.Summary.Fail = 5
	model.Summary.Total = 14
	data, err := json.Marshal(model)
	require.NoError(t, err)

	input := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(input, data, 0o644))

	_, errOut, err := runCommand(t, "generate", input, "--out", dir)
	require.Error(t, err)
	assert.Contains(t, errOut, "не равна общему количеству")

	// Nothing may be written on a validation failure.
	_, statErr := os.Stat(filepath.Join(dir, render.DOCXFilename))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateRequiresInput(t *testing.T) {
	_, _, err := runCommand(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--example")
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, Version)
}
