package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/openvadl/lsp-release/internal/logger"
)

// Prompter obtains answers from the operator.
type Prompter interface {
	// Ask returns a free-form answer for label.
	Ask(ctx context.Context, label string) (string, error)
	// Confirm asks a yes/no question for label.
	Confirm(ctx context.Context, label string) (bool, error)
}

var errBlankAnswer = errors.New("answer must not be blank")

// ParseConfirmation reports whether answer means yes: "y" or "yes", any case.
func ParseConfirmation(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ForTerminal returns an Interactive prompter when in is a terminal and a Line prompter otherwise.
//
//nolint:ireturn // Callers only need the interface.
func ForTerminal(in, out *os.File) Prompter {
	if term.IsTerminal(int(in.Fd())) { //nolint:gosec // File descriptors fit in int.
		return &Interactive{
			Stdin:  in,
			Stdout: out,
		}
	}

	return NewLine(in, out)
}

// Interactive prompts on a terminal using promptui.
type Interactive struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Ask implements Prompter.
func (p *Interactive) Ask(_ context.Context, label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: notBlank,
		Stdin:    p.Stdin,
		Stdout:   p.Stdout,
	}

	answer, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}

	return answer, nil
}

// Confirm implements Prompter.
func (p *Interactive) Confirm(_ context.Context, label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:  label + " (y/n)",
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}

	answer, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}

	return ParseConfirmation(answer), nil
}

// Line reads answers line by line from any reader, such as a pipe in CI.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine returns a Line prompter reading from in and printing labels to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask implements Prompter.
func (p *Line) Ask(_ context.Context, label string) (string, error) {
	answer, err := p.readLine(label + ":")
	if err != nil {
		return "", err
	}

	if err = notBlank(answer); err != nil {
		return "", err
	}

	return answer, nil
}

// Confirm implements Prompter.
func (p *Line) Confirm(_ context.Context, label string) (bool, error) {
	answer, err := p.readLine(label + " (y/n):")
	if err != nil {
		return false, err
	}

	return ParseConfirmation(answer), nil
}

func (p *Line) readLine(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label+" ")

	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", io.ErrUnexpectedEOF)
		}

		return "", fmt.Errorf("read answer: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Policy answers confirmations with a fixed decision and forwards other questions.
type Policy struct {
	// Approve is the answer given to every confirmation.
	Approve bool
	// Fallback answers free-form questions.
	Fallback Prompter
}

// Ask implements Prompter.
func (p *Policy) Ask(ctx context.Context, label string) (string, error) {
	return p.Fallback.Ask(ctx, label)
}

// Confirm implements Prompter.
func (p *Policy) Confirm(ctx context.Context, label string) (bool, error) {
	logger.InfoKV(ctx, "Answering confirmation from policy", "question", label, "approve", p.Approve)

	return p.Approve, nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errBlankAnswer
	}

	return nil
}
