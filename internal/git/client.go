// Package git wraps the few git operations the release needs on the external checkout.
package git

import (
	"context"
	"strings"

	"github.com/openvadl/lsp-release/internal/runner"
)

// Client runs git inside a single working tree.
type Client struct {
	// Binary is the git executable.
	Binary string
	// Dir is the working tree.
	Dir string
	// Runner executes the git processes.
	Runner runner.Runner
}

// CurrentBranch returns the checked out branch, or "HEAD" when detached.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// Checkout switches the working tree to branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", branch)

	return err
}

// Pull fetches and integrates the upstream of the current branch.
func (c *Client) Pull(ctx context.Context) error {
	_, err := c.run(ctx, "pull")

	return err
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	binary := c.Binary
	if binary == "" {
		binary = "git"
	}

	res, err := c.Runner.Run(ctx, runner.Command{
		Dir:  c.Dir,
		Name: binary,
		Args: args,
	})
	if err != nil {
		return "", err
	}

	return res.Stdout, nil
}
