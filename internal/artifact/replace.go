// Package artifact replaces a directory with a copy of a build output tree.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openvadl/lsp-release/internal/logger"
)

// dirMode is used for created parent directories.
const dirMode = 0o755

// ErrNotDirectory is returned when the copy source is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Stats summarizes a finished copy.
type Stats struct {
	Dirs     int
	Files    int
	Symlinks int
	Bytes    int64
}

// Replace removes dst and recreates it as a copy of src.
// Regular files keep their permission bits and symlinks are copied as links.
// The source is checked before dst is touched.
func Replace(ctx context.Context, src, dst string) (*Stats, error) {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("artifact source: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("artifact source %s: %w", src, ErrNotDirectory)
	}

	if err = os.RemoveAll(dst); err != nil {
		return nil, fmt.Errorf("remove %s: %w", dst, err)
	}

	if err = os.MkdirAll(filepath.Dir(dst), dirMode); err != nil {
		return nil, fmt.Errorf("create parent of %s: %w", dst, err)
	}

	stats := new(Stats)

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		return copyEntry(path, target, d, stats)
	})
	if err != nil {
		return nil, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	logger.InfoKV(ctx, "Artifacts copied",
		"from", src, "to", dst, "files", stats.Files, "dirs", stats.Dirs, "bytes", stats.Bytes)

	return stats, nil
}

func copyEntry(path, target string, d fs.DirEntry, stats *Stats) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	switch mode := info.Mode(); {
	case mode.IsDir():
		stats.Dirs++

		return os.MkdirAll(target, mode.Perm()|0o700)
	case mode&fs.ModeSymlink != 0:
		link, err := os.Readlink(path)
		if err != nil {
			return err
		}

		stats.Symlinks++

		return os.Symlink(link, target)
	case mode.IsRegular():
		n, err := copyFile(path, target, mode.Perm())
		if err != nil {
			return err
		}

		stats.Files++
		stats.Bytes += n

		return nil
	default:
		return fmt.Errorf("%s: unsupported file type %s", path, mode.Type())
	}
}

func copyFile(src, dst string, perm fs.FileMode) (int64, error) {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return n, err
	}

	// OpenFile permissions are subject to the umask.
	return n, os.Chmod(dst, perm)
}
