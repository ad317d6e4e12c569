package release

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/openvadl/lsp-release/internal/config"
	"github.com/openvadl/lsp-release/internal/logger"
)

// archivePattern matches plugin archives produced by the build.
const archivePattern = "**/*.zip"

// findArchives lists the plugin archives in the distributions directory.
// A missing directory simply yields no archives.
func (p *pipeline) findArchives(ctx context.Context) []string {
	dir := p.settings.ProjectPath(p.settings.Config.DistributionsDir)

	matches, err := doublestar.Glob(os.DirFS(dir), archivePattern)
	if err != nil {
		logger.WarnKV(ctx, "Unable to list plugin archives", "dir", dir, "error", err)
		return nil
	}

	sort.Strings(matches)

	return matches
}

// publishNotice renders the manual publishing instructions.
func publishNotice(cfg *config.Config, archives []string) string {
	var builder strings.Builder

	builder.WriteString("5) Publishing LSP\n")
	builder.WriteString("At the moment we are still awaiting approval from JetBrains. ")
	builder.WriteString("So all updates have to be done manually.\n")
	builder.WriteString(cfg.MarketplaceURL)
	builder.WriteString("\n\nBuild plugin is at:\n")
	builder.WriteString(strings.TrimSuffix(filepath.ToSlash(cfg.DistributionsDir), "/"))
	builder.WriteString("/\n")

	for _, name := range archives {
		builder.WriteString("\t")
		builder.WriteString(name)
		builder.WriteString("\n")
	}

	return builder.String()
}
