package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks default filling and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Empty config gets every default.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultMainBranch, cfg.MainBranch)
	require.Equal(t, DefaultPathCacheFilename, cfg.PathCacheFile)
	require.Equal(t, DefaultLSPBuildCommand, cfg.LSPBuildCommand)
	require.Equal(t, DefaultResourceDir, cfg.ResourceDir)
	require.Equal(t, DefaultManifestFile, cfg.ManifestFile)

	// Unbalanced quotes in a command.
	cfg = &Config{
		PluginBuildCommand: `./gradlew "buildPlugin`,
	}
	require.Error(t, Validate(cfg))

	// Artifact dir must be inside the external repository.
	cfg = &Config{
		LSPArtifactDir: "/opt/image",
	}
	require.ErrorIs(t, Validate(cfg), errAbsolutePath)

	// Bad marketplace URL.
	cfg = &Config{
		MarketplaceURL: "not a url",
	}
	require.Error(t, Validate(cfg))

	// Custom values are kept.
	cfg = &Config{
		MainBranch:      " main ",
		LSPBuildCommand: "make lsp",
	}
	require.NoError(t, Validate(cfg))
	require.Equal(t, "main", cfg.MainBranch)
	require.Equal(t, "make lsp", cfg.LSPBuildCommand)
}

// TestLoad_MissingFileYieldsDefaults ensures the settings file is optional.
func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoad_InvalidYAML reports decoding errors.
func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("main_branch: [unclosed"), DefaultFilePermissions))

	_, err := Load(path)
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		MainBranch:      "main",
		ResourceDir:     "resources/lsp",
		LSPBuildCommand: "./gradlew :vadl-lsp:installDist",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.Error(t, Save(path, nil))
}
