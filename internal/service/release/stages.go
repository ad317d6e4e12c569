package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/openvadl/lsp-release/internal/artifact"
	"github.com/openvadl/lsp-release/internal/logger"
	"github.com/openvadl/lsp-release/internal/manifest"
	"github.com/openvadl/lsp-release/internal/runner"
)

// Stage names used in logs and the summary.
const (
	StageBuildLSP       = "build-lsp"
	StageCopyLSP        = "copy-lsp"
	StageUpdateMetadata = "update-metadata"
	StageBuildPlugin    = "build-plugin"
	StagePublish        = "publish"
)

// stage is one step of the release.
type stage struct {
	name   string
	header string
	run    func(ctx context.Context) (stageResult, error)
}

// stageResult is what a finished stage contributes to the summary.
type stageResult struct {
	status Status
	detail string
}

// stages lists the release steps in execution order.
func (p *pipeline) stages() []stage {
	return []stage{
		{name: StageBuildLSP, header: "1) Building LSP", run: p.buildLSP},
		{name: StageCopyLSP, header: "2) Copy LSP results", run: p.copyLSP},
		{name: StageUpdateMetadata, header: "3) Update Metadata", run: p.updateMetadata},
		{name: StageBuildPlugin, header: "4) Building plugin", run: p.buildPlugin},
		// The notice prints its own heading.
		{name: StagePublish, run: p.publish},
	}
}

// buildLSP makes sure the external checkout is on the main branch, updates it and builds the LSP.
func (p *pipeline) buildLSP(ctx context.Context) (stageResult, error) {
	mainBranch := p.settings.Config.MainBranch

	current, err := p.git.CurrentBranch(ctx)
	if err != nil {
		return stageResult{}, err
	}

	if current != mainBranch {
		p.println(fmt.Sprintf("Not on %s branch (%s).", mainBranch, current))

		var approved bool

		approved, err = p.prompter.Confirm(ctx, fmt.Sprintf("Can we switch to %s?", mainBranch))
		if err != nil {
			return stageResult{}, fmt.Errorf("confirm branch switch: %w", err)
		}

		if !approved {
			p.println("Aborting LSP build.")

			return stageResult{detail: "on " + current + ", switch declined"}, errAborted
		}

		logger.InfoKV(ctx, "Switching branch", "from", current, "to", mainBranch)
	}

	if err = p.git.Checkout(ctx, mainBranch); err != nil {
		return stageResult{}, err
	}

	if err = p.git.Pull(ctx); err != nil {
		return stageResult{}, err
	}

	cmd, err := runner.FromLine(p.settings.RepoPath, p.settings.Config.LSPBuildCommand)
	if err != nil {
		return stageResult{}, err
	}

	if _, err = p.runner.Run(ctx, cmd); err != nil {
		return stageResult{}, err
	}

	return stageResult{
		status: StatusDone,
		detail: mainBranch + ": " + cmd.String(),
	}, nil
}

// copyLSP replaces the plugin resource directory with the freshly built image.
func (p *pipeline) copyLSP(ctx context.Context) (stageResult, error) {
	src := p.settings.RepositoryPath(p.settings.Config.LSPArtifactDir)
	dst := p.settings.ProjectPath(p.settings.Config.ResourceDir)

	stats, err := artifact.Replace(ctx, src, dst)
	if err != nil {
		return stageResult{}, err
	}

	return stageResult{
		status: StatusDone,
		detail: fmt.Sprintf("%d files to %s", stats.Files, p.settings.Config.ResourceDir),
	}, nil
}

// updateMetadata bumps the patch version in the build manifest.
// A manifest without a version is reported and skipped.
func (p *pipeline) updateMetadata(ctx context.Context) (stageResult, error) {
	name := p.settings.Config.ManifestFile

	res, err := manifest.BumpFile(ctx, p.settings.ProjectPath(name))
	if errors.Is(err, manifest.ErrVersionNotFound) {
		p.println("\tWarning: Could not find version in " + name)
		logger.WarnKV(ctx, "Version not found, manifest left unchanged", "manifest", name)

		return stageResult{
			status: StatusWarning,
			detail: "version not found in " + name,
		}, nil
	}

	if err != nil {
		return stageResult{}, err
	}

	p.println(fmt.Sprintf("\tUpdated version from %s to %s", res.Old, res.New))

	return stageResult{
		status: StatusDone,
		detail: res.Old.String() + " -> " + res.New.String(),
	}, nil
}

// buildPlugin packages the plugin in the project directory.
func (p *pipeline) buildPlugin(ctx context.Context) (stageResult, error) {
	cmd, err := runner.FromLine(p.settings.ProjectDir, p.settings.Config.PluginBuildCommand)
	if err != nil {
		return stageResult{}, err
	}

	if _, err = p.runner.Run(ctx, cmd); err != nil {
		return stageResult{}, err
	}

	return stageResult{
		status: StatusDone,
		detail: cmd.String(),
	}, nil
}

// publish prints the manual publishing instructions.
func (p *pipeline) publish(ctx context.Context) (stageResult, error) {
	archives := p.findArchives(ctx)

	_, _ = fmt.Fprint(p.out, publishNotice(p.settings.Config, archives))

	return stageResult{
		status: StatusManual,
		detail: fmt.Sprintf("%d archive(s) ready for upload", len(archives)),
	}, nil
}
