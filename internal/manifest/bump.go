package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/openvadl/lsp-release/internal/logger"
)

// ErrVersionNotFound is returned when the manifest has no version assignment.
var ErrVersionNotFound = errors.New("version not found")

// versionAssignment matches `version = "X.Y.Z"`; groups 1-3 are the components.
var versionAssignment = regexp.MustCompile(`version = "(\d+)\.(\d+)\.(\d+)"`)

// patchGroup is the submatch index of the patch component.
const patchGroup = 3

// Result describes a performed patch bump.
type Result struct {
	// Old is the version found in the manifest.
	Old Version
	// New is the version written back.
	New Version
	// Content is the rewritten manifest.
	Content []byte
}

// Bump increments the patch component of the first version assignment in content.
// The input slice is not modified.
func Bump(content []byte) (*Result, error) {
	loc := versionAssignment.FindSubmatchIndex(content)
	if loc == nil {
		return nil, ErrVersionNotFound
	}

	group := func(i int) string {
		return string(content[loc[2*i]:loc[2*i+1]])
	}

	old := Version{Major: group(1), Minor: group(2), Patch: group(patchGroup)}

	next, err := old.BumpPatch()
	if err != nil {
		return nil, err
	}

	patchStart, patchEnd := loc[2*patchGroup], loc[2*patchGroup+1]

	out := make([]byte, 0, len(content)+1)
	out = append(out, content[:patchStart]...)
	out = append(out, next.Patch...)
	out = append(out, content[patchEnd:]...)

	return &Result{
		Old:     old,
		New:     next,
		Content: out,
	}, nil
}

// BumpFile bumps the patch version of the manifest at path in place.
// The new content is swapped in with a rename, so readers never see a partial file,
// and no backup is kept. The file is left untouched when no version is found.
func BumpFile(ctx context.Context, path string) (*Result, error) {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	res, err := Bump(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: info.Mode().Perm(),
	}

	if err = goupdate.Apply(bytes.NewReader(res.Content), options); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	oldFileName := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".old")
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	// The swapped-in file is created under the umask.
	if err = os.Chmod(path, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("restore manifest mode: %w", err)
	}

	logger.DebugKV(ctx, "Manifest rewritten", "path", path, "bytes", len(res.Content))

	return res, nil
}
