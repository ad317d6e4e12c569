package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// nonTTYTickInterval is how often a progress dot is printed without a terminal.
//
//nolint:gochecknoglobals // Tests shorten the interval.
var nonTTYTickInterval = 30 * time.Second

// Spin shows progress for message on out until the returned function is called.
// A terminal gets an animated spinner, anything else a line followed by periodic dots.
func Spin(message string, tty bool, out io.Writer) func() {
	if tty {
		indicator := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(out))
		indicator.Suffix = " " + message
		indicator.Start()

		return indicator.Stop
	}

	_, _ = fmt.Fprintln(out, "\t"+message)

	ticker := time.NewTicker(nonTTYTickInterval)
	done := make(chan struct{})
	finished := make(chan struct{})
	dotted := false

	go func() {
		defer close(finished)

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_, _ = fmt.Fprint(out, ".")
				dotted = true
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
		<-finished

		if dotted {
			_, _ = fmt.Fprintln(out)
		}
	}
}
