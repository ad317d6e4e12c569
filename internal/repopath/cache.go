package repopath

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openvadl/lsp-release/internal/logger"
)

// PromptLabel is shown when the cache file does not exist yet.
const PromptLabel = "Enter the path to the OpenVADL repo"

// cacheFileMode is the permission of a newly written cache file.
const cacheFileMode = 0o600

// Asker obtains a free-form answer from the user.
type Asker interface {
	Ask(ctx context.Context, label string) (string, error)
}

// Cache resolves the repository path, prompting only when nothing is cached.
type Cache struct {
	// path is the cache file location.
	path string
	// asker is consulted on a cache miss.
	asker Asker
	// value memoizes the resolved path for the lifetime of the Cache.
	value string
}

var errEmptyPath = errors.New("repository path is empty")

// New returns a Cache backed by the file at path.
func New(path string, asker Asker) *Cache {
	return &Cache{
		path:  filepath.Clean(path),
		asker: asker,
	}
}

// Get returns the cached repository path, asking for it and persisting it on first use.
func (c *Cache) Get(ctx context.Context) (string, error) {
	if c.value != "" {
		return c.value, nil
	}

	contents, err := os.ReadFile(c.path)

	switch {
	case err == nil:
		c.value = strings.TrimSpace(string(contents))
		if c.value == "" {
			return "", fmt.Errorf("%s: %w", c.path, errEmptyPath)
		}

		logger.DebugKV(ctx, "Using cached repository path", "path", c.value, "cache", c.path)

		return c.value, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read path cache: %w", err)
	}

	value, err := c.asker.Ask(ctx, PromptLabel)
	if err != nil {
		return "", fmt.Errorf("ask repository path: %w", err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", errEmptyPath
	}

	if err = os.WriteFile(c.path, []byte(value+"\n"), cacheFileMode); err != nil {
		return "", fmt.Errorf("write path cache: %w", err)
	}

	logger.InfoKV(ctx, "Repository path cached", "path", value, "cache", c.path)

	c.value = value

	return value, nil
}
