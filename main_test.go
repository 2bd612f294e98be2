package main

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nishanthkj/llmkit/internal/config"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/logging"
)

func testContext() *Context {
	return &Context{Config: config.NewConfig(), Logger: logging.Discard()}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readBundle(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var bundle map[string]string
	require.NoError(t, json.Unmarshal(data, &bundle))
	return bundle
}

func TestRun_SimpleJSON(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = writeTemp(t, "input.json", `{"a":1,"b":"x"}`)
	CLI.Output = filepath.Join(t.TempDir(), "bundle.json")

	require.NoError(t, run(testContext()))

	bundle := readBundle(t, CLI.Output)
	assert.Equal(t, "json", bundle["Format"])
	assert.Equal(t, `{"a":1,"b":"x"}`, bundle["Original"])
	assert.Equal(t, `{"a":1,"b":"x"}`, bundle["normal"])
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": \"x\"\n}", bundle["Beautified"])
	assert.Equal(t, "a: 1\nb: x\n", bundle["yaml"])
	assert.Equal(t, "a = 1\nb = \"x\"\n", bundle["toml"])
	assert.NotContains(t, bundle, "csv")
}

func TestRun_WithTargets(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = writeTemp(t, "input.csv", "name,age\nAlice,30\nBob,25\n")
	CLI.Output = filepath.Join(t.TempDir(), "bundle.json")

	ctx := testContext()
	ctx.Config.Targets = []string{"csv"}
	require.NoError(t, run(ctx))

	bundle := readBundle(t, CLI.Output)
	assert.Equal(t, "csv", bundle["Format"])
	assert.Equal(t, "name,age\nAlice,30\nBob,25\n", bundle["csv"])
	assert.NotContains(t, bundle, "yaml")
	assert.Len(t, bundle, 5)
}

func TestRun_UnknownFormat(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = writeTemp(t, "input.txt", "nothing structured here.")

	err := run(testContext())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownFormat))
	assert.Contains(t, errors.UserFriendlyError(err), "Detection error")
}

func TestRun_ParseFailure(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = writeTemp(t, "input.toml", `title = "unterminated`)

	err := run(testContext())
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "toml parsing error")
}

func TestReadInput_FromFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = writeTemp(t, "input.yaml", "a: 1\n")

	data, err := readInput()
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestReadInput_FromStdin(t *testing.T) {
	originalCLI := CLI
	originalStdin := os.Stdin
	defer func() {
		CLI = originalCLI
		os.Stdin = originalStdin
	}()

	CLI.File = ""

	r, w, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString("```json\n[1, 2]\n```\n")
	}()
	os.Stdin = r

	data, err := readInput()
	require.NoError(t, err)
	assert.Equal(t, "```json\n[1, 2]\n```\n", string(data))
}

func TestReadInput_NonExistentFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = "/non/existent/input.json"

	_, err := readInput()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
}

func TestReadInput_Directory(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = t.TempDir()

	_, err := readInput()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidFilePath))
	assert.Contains(t, errors.UserFriendlyError(err), "is a directory")
}

func TestWriteOutput_ToFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput([]byte("{}\n")))

	data, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestWriteOutput_FileError(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = "/non/existent/dir/out.json"

	err := writeOutput([]byte("{}"))
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "Output error")
}

func TestEncodeBundle_KeepsHTML(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.File = writeTemp(t, "input.json", `{"tag":"<b>"}`)
	CLI.Output = filepath.Join(t.TempDir(), "bundle.json")

	ctx := testContext()
	ctx.Config.Targets = []string{"json"}
	require.NoError(t, run(ctx))

	data, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<b>`)
	assert.NotContains(t, string(data), `\u003c`)
}

func TestNewContext_FormatOverridesTargets(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()
	t.Chdir(t.TempDir())
	for _, name := range []string{config.EnvTargets, config.EnvLogLevel, "LOG_LEVEL"} {
		t.Setenv(name, "")
	}

	CLI.Config = writeTemp(t, "llmkit.yml", "targets: [json]\n")
	CLI.Targets = []string{"yaml"}
	CLI.Format = "toml"

	ctx, err := newContext()
	require.NoError(t, err)
	assert.Equal(t, []string{"toml"}, ctx.Config.Targets)
}

func TestNewContext_InvalidLogLevel(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()
	t.Chdir(t.TempDir())

	CLI.Config = writeTemp(t, "llmkit.yml", "")
	CLI.LogLevel = "loud"

	_, err := newContext()
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "Configuration error")
}
