package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvadl/lsp-release/internal/config"
	"github.com/openvadl/lsp-release/internal/prompt"
)

// TestInitCommand writes the default settings once and refuses to overwrite them.
// Not parallel: cobra flags are package globals.
func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsp-release.yaml")

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", "--config", path})

	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	rootCmd.SetArgs([]string{"init", "--config", path})
	require.ErrorIs(t, rootCmd.Execute(), os.ErrExist)

	configPath = ""
}

// TestRootCommand_ConflictingAnswers rejects --yes together with --no.
func TestRootCommand_ConflictingAnswers(t *testing.T) {
	rootCmd.SetArgs([]string{"--yes", "--no", "--dir", t.TempDir()})
	require.ErrorIs(t, rootCmd.Execute(), errConflictingAnswers)

	assumeYes, assumeNo = false, false
}

// TestRootCommand_UnknownLogLevel fails before running the pipeline.
func TestRootCommand_UnknownLogLevel(t *testing.T) {
	rootCmd.SetArgs([]string{"--log-level", "chatty", "--dir", t.TempDir()})
	require.ErrorIs(t, rootCmd.Execute(), errUnknownLogLevel)

	logLevel = "info"
}

// TestNewPrompter maps the flags to a policy.
func TestNewPrompter(t *testing.T) {
	assumeYes = true

	p, ok := newPrompter().(*prompt.Policy)
	require.True(t, ok)
	require.True(t, p.Approve)

	assumeYes, assumeNo = false, true

	p, ok = newPrompter().(*prompt.Policy)
	require.True(t, ok)
	require.False(t, p.Approve)

	assumeNo = false

	_, ok = newPrompter().(*prompt.Policy)
	require.False(t, ok)
}
