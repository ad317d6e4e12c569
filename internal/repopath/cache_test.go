package repopath

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// countingAsker returns a fixed answer and counts how often it was asked.
type countingAsker struct {
	answer string
	err    error
	calls  int
}

func (a *countingAsker) Ask(_ context.Context, _ string) (string, error) {
	a.calls++

	return a.answer, a.err
}

// TestCache_PromptsOnceAndPersists covers the first run: one prompt, one file.
func TestCache_PromptsOnceAndPersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "openvadl-path.txt")
	asker := &countingAsker{answer: "  /src/openvadl \n"}

	c := New(file, asker)

	got, err := c.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/src/openvadl", got)
	require.Equal(t, 1, asker.calls)

	contents, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, "/src/openvadl\n", string(contents))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Same process: memoized, no prompt and no read even if the file disappears.
	require.NoError(t, os.Remove(file))

	got, err = c.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/src/openvadl", got)
	require.Equal(t, 1, asker.calls)
}

// TestCache_HitDoesNotPrompt simulates a fresh process with an existing cache file.
func TestCache_HitDoesNotPrompt(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "openvadl-path.txt")
	require.NoError(t, os.WriteFile(file, []byte("/home/dev/openvadl"), 0o600))

	asker := &countingAsker{answer: "/elsewhere"}

	got, err := New(file, asker).Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/home/dev/openvadl", got)
	require.Zero(t, asker.calls)
}

// TestCache_SecondProcessReusesFirst chains two caches over the same file.
func TestCache_SecondProcessReusesFirst(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "openvadl-path.txt")

	first := &countingAsker{answer: "../openvadl"}
	_, err := New(file, first).Get(context.Background())
	require.NoError(t, err)

	second := &countingAsker{answer: "ignored"}
	got, err := New(file, second).Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "../openvadl", got)
	require.Zero(t, second.calls)
}

// TestCache_Errors covers prompt failures, empty answers and empty cache files.
func TestCache_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	errBoom := errors.New("stdin closed")

	_, err := New(filepath.Join(dir, "a.txt"), &countingAsker{err: errBoom}).Get(context.Background())
	require.ErrorIs(t, err, errBoom)

	_, err = New(filepath.Join(dir, "b.txt"), &countingAsker{answer: "   "}).Get(context.Background())
	require.ErrorIs(t, err, errEmptyPath)

	_, err = os.Stat(filepath.Join(dir, "b.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))

	_, err = New(empty, &countingAsker{answer: "x"}).Get(context.Background())
	require.ErrorIs(t, err, errEmptyPath)
}
