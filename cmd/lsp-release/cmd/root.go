package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openvadl/lsp-release/internal/config"
	"github.com/openvadl/lsp-release/internal/logger"
	"github.com/openvadl/lsp-release/internal/prompt"
	"github.com/openvadl/lsp-release/internal/service/release"
	"github.com/openvadl/lsp-release/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// projectDir is the plugin project to release.
	projectDir string
	// assumeYes approves the branch switch without asking.
	assumeYes bool
	// assumeNo declines the branch switch without asking.
	assumeNo bool
	// logLevel is the minimum level of diagnostic output.
	logLevel string

	errConflictingAnswers = errors.New("--yes and --no are mutually exclusive")
	errUnknownLogLevel    = errors.New("unknown log level")

	// rootCmd builds the LSP, bumps the plugin version and builds the plugin.
	rootCmd = &cobra.Command{
		Use:   "lsp-release",
		Short: "Release the OpenVADL IntelliJ plugin with a freshly built LSP",
		Long: "Builds the OpenVADL language server in the external checkout, copies it into the plugin " +
			"resources, bumps the plugin patch version, builds the plugin and prints the manual " +
			"publishing steps.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if assumeYes && assumeNo {
				return errConflictingAnswers
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &release.Options{
				ConfigPath: configPath,
				ProjectDir: projectDir,
				Prompter:   newPrompter(),
				Stdout:     cmd.OutOrStdout(),
				TTY:        term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec // File descriptors fit in int.
			}

			return release.Run(ctx, options)
		},
	}

	// initCmd writes the default settings so they can be customized.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultConfigFilename
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s: %w", path, os.ErrExist)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Settings written to", path)

			return nil
		},
	}
)

// newPrompter picks the prompt implementation from the flags and the terminal.
//
//nolint:ireturn // The pipeline only needs the interface.
func newPrompter() prompt.Prompter {
	interactive := prompt.ForTerminal(os.Stdin, os.Stdout)

	switch {
	case assumeYes:
		return &prompt.Policy{Approve: true, Fallback: interactive}
	case assumeNo:
		return &prompt.Policy{Approve: false, Fallback: interactive}
	default:
		return interactive
	}
}

// Execute runs the lsp-release CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "Release failed", "error", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to settings file (default lsp-release.yaml in the project dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVarP(&projectDir, "dir", "C", ".", "plugin project directory")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "switch the external repository to the main branch without asking")
	rootCmd.Flags().BoolVar(&assumeNo, "no", false, "never switch branches; abort when not on the main branch")

	rootCmd.AddCommand(initCmd)
}
