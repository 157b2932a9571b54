package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/career-leader/internal/adapter/httpserver"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_BundledCatalog(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err, out)
	assert.Contains(t, out, "catalog version")
	assert.Contains(t, out, "  EI: 3")
	assert.Contains(t, out, "INTJ -> ")
}

func TestRoot_IncompleteCatalogFails(t *testing.T) {
	dir := t.TempDir()
	qp := filepath.Join(dir, "q.yaml")
	require.NoError(t, os.WriteFile(qp, []byte("- {id: a, dimension: EI, sideA: I, sideB: E}\n"), 0o600))
	out, err := execute(t, "--questions", qp)
	require.Error(t, err)
	assert.Contains(t, out, "  SN: 0")
}

func TestRoot_InvalidCatalogFails(t *testing.T) {
	dir := t.TempDir()
	cp := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(cp, []byte(`[{"id":"x"}]`), 0o600))
	_, err := execute(t, "--careers", cp)
	require.Error(t, err)
}

func TestRecommendCommand(t *testing.T) {
	out, err := execute(t, "recommend", "INTJ", "-i", "data", "--limit", "3")
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], " 1. "))
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := execute(t, "hash-password", "s3cret")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "argon2id$"))
	assert.True(t, httpserver.VerifyPassword("s3cret", hash))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "catalogcheck version: unknown\n", out)
}
