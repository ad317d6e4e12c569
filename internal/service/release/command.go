package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/openvadl/lsp-release/internal/config"
	"github.com/openvadl/lsp-release/internal/git"
	"github.com/openvadl/lsp-release/internal/logger"
	"github.com/openvadl/lsp-release/internal/prompt"
	"github.com/openvadl/lsp-release/internal/repopath"
	"github.com/openvadl/lsp-release/internal/runner"
)

// SuccessMarker is printed after every stage has finished.
const SuccessMarker = "Done ✨"

// Options contains inputs for the release entry point.
type Options struct {
	// ConfigPath is an optional settings file; defaults to lsp-release.yaml in ProjectDir.
	ConfigPath string
	// ProjectDir is the plugin project; defaults to the current directory.
	ProjectDir string
	// Prompter answers the repository path and branch questions.
	// Defaults to a line prompter on stdin.
	Prompter prompt.Prompter
	// Runner executes git and the build tool. Defaults to runner.Exec.
	Runner runner.Runner
	// Stdout receives the release report. Defaults to os.Stdout.
	Stdout io.Writer
	// TTY enables the animated progress spinner of the default runner.
	TTY bool
}

// Settings is resolved once at startup and shared by every stage.
type Settings struct {
	// Config holds the release settings.
	Config *config.Config
	// ProjectDir is the absolute plugin project directory.
	ProjectDir string
	// RepoPath is the external OpenVADL checkout.
	RepoPath string
}

// ProjectPath resolves a configured path against the project directory.
func (s *Settings) ProjectPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(s.ProjectDir, path)
}

// RepositoryPath resolves a configured path against the external repository.
func (s *Settings) RepositoryPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(s.RepoPath, path)
}

// errAborted ends the pipeline early without failing the run.
var errAborted = errors.New("release aborted by user")

// pipeline runs the release stages in order.
type pipeline struct {
	settings *Settings
	git      *git.Client
	runner   runner.Runner
	prompter prompt.Prompter
	out      io.Writer
	report   *report
}

// Run executes the release workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "lsp-release")

	p, err := newPipeline(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize release: %w", err)
	}

	return p.Run(ctx)
}

// newPipeline fills defaults, loads the settings and resolves the repository path.
func newPipeline(ctx context.Context, opts *Options) (*pipeline, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	prompter := opts.Prompter
	if prompter == nil {
		prompter = prompt.NewLine(os.Stdin, out)
	}

	run := opts.Runner
	if run == nil {
		run = &runner.Exec{
			Out: out,
			TTY: opts.TTY,
		}
	}

	settings, err := resolveSettings(ctx, opts, prompter)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Release settings resolved",
		"project", settings.ProjectDir, "repository", settings.RepoPath, "branch", settings.Config.MainBranch)

	return &pipeline{
		settings: settings,
		git: &git.Client{
			Binary: settings.Config.GitBinary,
			Dir:    settings.RepoPath,
			Runner: run,
		},
		runner:   run,
		prompter: prompter,
		out:      out,
		report:   newReport(),
	}, nil
}

// resolveSettings builds the Settings object, prompting for the repository path on first use.
func resolveSettings(ctx context.Context, opts *Options, asker repopath.Asker) (*Settings, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}

	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}

	settings := &Settings{
		ProjectDir: projectDir,
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = settings.ProjectPath(config.DefaultConfigFilename)
	}

	if settings.Config, err = config.Load(configPath); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	cache := repopath.New(settings.ProjectPath(settings.Config.PathCacheFile), asker)

	repoPath, err := cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.RepoPath = settings.ProjectPath(repoPath)

	return settings, nil
}

// Run executes every stage, stopping at the first failure or when the user aborts.
func (p *pipeline) Run(ctx context.Context) error {
	stages := p.stages()

	for i, s := range stages {
		if i > 0 {
			p.println()
		}

		if s.header != "" {
			p.println(s.header)
		}

		stageCtx := logger.WithKV(ctx, "stage", s.name)

		result, err := s.run(stageCtx)
		if errors.Is(err, errAborted) {
			p.report.add(s.name, StatusAborted, result.detail)
			p.report.skipRest(stages[i+1:])
			logger.Warn(stageCtx, "Release aborted")
			p.println()
			p.printReport()

			return nil
		}

		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}

		p.report.add(s.name, result.status, result.detail)
	}

	p.println()
	p.printReport()
	p.println()
	p.println(SuccessMarker)

	logger.Info(ctx, "Release completed successfully")

	return nil
}

// println writes a line of the release report.
func (p *pipeline) println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// printReport renders the stage summary.
func (p *pipeline) printReport() {
	p.println(p.report.render())
}
