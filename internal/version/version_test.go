package version

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), "lsp-release "+Short())
}

func TestFromBuildSettings(t *testing.T) {
	t.Parallel()

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-10-18T09:00:00Z"},
	}

	commit, built := fromBuildSettings(settings, "none", "unknown")
	require.Equal(t, "0123456", commit)
	require.Equal(t, "2026-10-18T09:00:00Z", built)

	// Injected values win.
	commit, built = fromBuildSettings(settings, "abc1234", "2026-01-01")
	require.Equal(t, "abc1234", commit)
	require.Equal(t, "2026-01-01", built)
}

// TestAttachCobraVersionCommand runs the attached subcommand and checks its output.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{name: "Full", args: []string{"version"}, want: Full() + "\n"},
		{name: "Short", args: []string{"version", "--short"}, want: Short() + "\n"},
	} {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := &cobra.Command{Use: "lsp-release"}
			AttachCobraVersionCommand(root)

			var out bytes.Buffer

			root.SetOut(&out)
			root.SetArgs(tc.args)

			require.NoError(t, root.Execute())
			require.Equal(t, tc.want, out.String())
		})
	}
}
