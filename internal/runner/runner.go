package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/mattn/go-shellwords"

	"github.com/openvadl/lsp-release/internal/logger"
)

// Runner executes a command and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Command describes a single external process invocation.
type Command struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Name is the executable, looked up in PATH unless it contains a separator.
	Name string
	// Args are passed to the executable as is.
	Args []string
}

// String renders the command line with shell quoting for logs and errors.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Name}, c.Args...))
}

// Result holds the buffered output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	// Command is the quoted command line.
	Command string
	// Dir is the working directory the command ran in.
	Dir string
	// ExitCode is the process exit status.
	ExitCode int
	// Stderr is the captured standard error.
	Stderr string
}

// Error implements error.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %s exited with code %d", e.Command, e.ExitCode)
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}

	return msg
}

var errEmptyCommand = errors.New("empty command")

// waitDelay bounds how long output is drained after the child was killed.
const waitDelay = 5 * time.Second

// Exec runs commands as child processes of the current one.
type Exec struct {
	// Out receives the progress indicator; nil disables it.
	Out io.Writer
	// TTY selects the animated spinner over plain progress lines.
	TTY bool
}

// Run starts the command, blocks until it exits and returns its output.
func (e *Exec) Run(ctx context.Context, c Command) (*Result, error) {
	if c.Name == "" {
		return nil, errEmptyCommand
	}

	line := c.String()
	logger.InfoKV(ctx, "Running command", "command", line, "dir", c.Dir)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren such as a Gradle daemon may keep the pipes open after a kill.
	cmd.WaitDelay = waitDelay

	stop := e.spin(line)
	err := cmd.Run()

	stop()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return res, nil
	}

	// A child killed by cancellation is an interrupt, not a failed build.
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1

		return res, fmt.Errorf("run %s: %w", line, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()

		return res, &ExitError{
			Command:  line,
			Dir:      c.Dir,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	return res, fmt.Errorf("run %s: %w", line, err)
}

func (e *Exec) spin(message string) func() {
	if e.Out == nil {
		return func() {}
	}

	return Spin(message, e.TTY, e.Out)
}

// ParseCommandLine splits a configured command string into argv using shell word rules.
// Environment variables are not expanded.
func ParseCommandLine(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}

	if len(args) == 0 {
		return nil, errEmptyCommand
	}

	return args, nil
}

// FromLine builds a Command from a configured command string.
func FromLine(dir, line string) (Command, error) {
	args, err := ParseCommandLine(line)
	if err != nil {
		return Command{}, err
	}

	return Command{
		Dir:  dir,
		Name: args[0],
		Args: args[1:],
	}, nil
}

// lastLine returns the last non-blank line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")

	return strings.TrimSpace(lines[len(lines)-1])
}
