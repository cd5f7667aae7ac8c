package grammarbundle_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatahodovan/picireny/grammarbundle"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadParsesDescriptor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	descriptor := filepath.Join(dir, "bundle.yaml")
	writeFile(t, descriptor, `
grammar: JSON
start: json
files:
  - grammars/*.g4
replacements:
  value: "null"
islands:
  - rule: STRING_CONTENT
    grammar: Regex
    start: pattern
`)

	b, err := grammarbundle.Load(descriptor)
	require.NoError(t, err)
	assert.Equal(t, "JSON", b.Grammar)
	assert.Equal(t, "json", b.Start)
	assert.Equal(t, []string{"grammars/*.g4"}, b.Files)
	rep, ok := b.Replacement("value")
	assert.True(t, ok)
	assert.Equal(t, "null", rep)
	require.Len(t, b.Islands, 1)
	assert.Equal(t, "STRING_CONTENT", b.Islands[0].Rule)
}

func TestLoadRejectsMissingStartRule(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	descriptor := filepath.Join(dir, "bundle.yaml")
	writeFile(t, descriptor, "grammar: JSON\nfiles: []\n")

	_, err := grammarbundle.Load(descriptor)
	require.Error(t, err)
}

func TestResolveFilesExpandsGlobsRelativeToBaseDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "grammars", "JSONLexer.g4"), "lexer grammar JSONLexer;")
	writeFile(t, filepath.Join(dir, "grammars", "JSONParser.g4"), "parser grammar JSONParser;")
	writeFile(t, filepath.Join(dir, "grammars", "notes.txt"), "irrelevant")

	b := &grammarbundle.Bundle{Grammar: "JSON", Start: "json", Files: []string{"grammars/*.g4"}}
	files, err := b.ResolveFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Contains(t, f, ".g4")
	}
}

func TestResolveFilesRejectsInvalidPattern(t *testing.T) {
	t.Parallel()
	b := &grammarbundle.Bundle{Grammar: "JSON", Start: "json", Files: []string{"["}}
	_, err := b.ResolveFiles(t.TempDir())
	require.Error(t, err)
}
