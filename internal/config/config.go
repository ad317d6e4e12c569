package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openvadl/lsp-release/internal/runner"
)

// Config holds the release settings shared by all pipeline stages.
type Config struct {
	// MainBranch is the branch the external repository must be on before building.
	MainBranch string `yaml:"main_branch"`
	// PathCacheFile stores the path to the external repository between runs.
	PathCacheFile string `yaml:"path_cache_file"`
	// GitBinary is the version-control client executable.
	GitBinary string `yaml:"git_binary"`
	// LSPBuildCommand builds the language server inside the external repository.
	LSPBuildCommand string `yaml:"lsp_build_command"`
	// LSPArtifactDir is the build output, relative to the external repository.
	LSPArtifactDir string `yaml:"lsp_artifact_dir"`
	// ResourceDir is the plugin resource directory replaced with the artifact tree.
	ResourceDir string `yaml:"resource_dir"`
	// ManifestFile is the build manifest holding the plugin version.
	ManifestFile string `yaml:"manifest_file"`
	// PluginBuildCommand packages the plugin in the project directory.
	PluginBuildCommand string `yaml:"plugin_build_command"`
	// DistributionsDir is where the plugin build leaves its archives.
	DistributionsDir string `yaml:"distributions_dir"`
	// MarketplaceURL is the plugin page used for the manual upload.
	MarketplaceURL string `yaml:"marketplace_url"`
}

const (
	// DefaultConfigFilename is the default filename for release settings.
	DefaultConfigFilename = "lsp-release.yaml"

	// DefaultMainBranch is the branch the LSP is released from.
	DefaultMainBranch = "master"

	// DefaultPathCacheFilename is the file caching the external repository path.
	DefaultPathCacheFilename = "openvadl-path.txt"

	// DefaultGitBinary is the git executable looked up in PATH.
	DefaultGitBinary = "git"

	// DefaultLSPBuildCommand produces the jlink image of the language server.
	DefaultLSPBuildCommand = "./gradlew :vadl-lsp:jlink"

	// DefaultLSPArtifactDir is the jlink image location inside the external repository.
	DefaultLSPArtifactDir = "vadl-lsp/build/image"

	// DefaultResourceDir is the bundled language server location inside the plugin.
	DefaultResourceDir = "src/main/resources/openvadl-lsp"

	// DefaultManifestFile is the Gradle build script carrying the plugin version.
	DefaultManifestFile = "build.gradle.kts"

	// DefaultPluginBuildCommand builds the distributable plugin archive.
	DefaultPluginBuildCommand = "./gradlew buildPlugin"

	// DefaultDistributionsDir is where buildPlugin writes the archive.
	DefaultDistributionsDir = "build/distributions"

	// DefaultMarketplaceURL is the edit page of the plugin on the JetBrains marketplace.
	DefaultMarketplaceURL = "https://plugins.jetbrains.com/plugin/29659-openvadl/edit"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAbsolutePath is returned when a path that must live inside a tree is absolute.
	errAbsolutePath = errors.New("path must be relative")
)

// Default returns the settings used when no file is present.
func Default() *Config {
	cfg := new(Config)

	// Validate only fills defaults on an empty config.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the rest for formatting.
//
//nolint:cyclop // A flat list of defaults reads better than a table here.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	setDefault(&cfg.MainBranch, DefaultMainBranch)
	setDefault(&cfg.PathCacheFile, DefaultPathCacheFilename)
	setDefault(&cfg.GitBinary, DefaultGitBinary)
	setDefault(&cfg.LSPBuildCommand, DefaultLSPBuildCommand)
	setDefault(&cfg.LSPArtifactDir, DefaultLSPArtifactDir)
	setDefault(&cfg.ResourceDir, DefaultResourceDir)
	setDefault(&cfg.ManifestFile, DefaultManifestFile)
	setDefault(&cfg.PluginBuildCommand, DefaultPluginBuildCommand)
	setDefault(&cfg.DistributionsDir, DefaultDistributionsDir)
	setDefault(&cfg.MarketplaceURL, DefaultMarketplaceURL)

	if _, err := runner.ParseCommandLine(cfg.LSPBuildCommand); err != nil {
		return fmt.Errorf("invalid lsp build command: %w", err)
	}

	if _, err := runner.ParseCommandLine(cfg.PluginBuildCommand); err != nil {
		return fmt.Errorf("invalid plugin build command: %w", err)
	}

	if filepath.IsAbs(cfg.LSPArtifactDir) {
		return fmt.Errorf("lsp artifact dir %q: %w", cfg.LSPArtifactDir, errAbsolutePath)
	}

	if _, err := url.ParseRequestURI(cfg.MarketplaceURL); err != nil {
		return fmt.Errorf("invalid marketplace URL: %w", err)
	}

	return nil
}

// setDefault assigns value to *field when the field is blank.
func setDefault(field *string, value string) {
	*field = strings.TrimSpace(*field)
	if *field == "" {
		*field = value
	}
}
