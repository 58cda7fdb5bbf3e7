package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace directory does not exist and could not be created")
	ErrOutputNotSet      = errors.New("output directory is not configured")
)

// Config represents the application configuration
type Config struct {
	Workspace string        `yaml:"workspace"`
	Output    string        `yaml:"output"`
	Profile   string        `yaml:"profile,omitempty"`
	GitHub    GitHubConfig  `yaml:"github"`
	Makepkg   MakepkgConfig `yaml:"makepkg"`
}

// GitHubConfig holds GitHub API settings
type GitHubConfig struct {
	Token string `yaml:"token"` // Personal access token for higher rate limits
}

// MakepkgConfig holds settings for the package build step
type MakepkgConfig struct {
	Command string   `yaml:"command"`        // Build command, default "makepkg"
	Args    []string `yaml:"args,omitempty"` // Extra arguments passed through
	Env     []string `yaml:"env,omitempty"`  // KEY=VALUE pairs added to the build environment
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/kforge/config.yaml (XDG standard - priority)
// 2. ~/.kforge/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// Check XDG_CONFIG_HOME first, fallback to ~/.config
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "kforge", "config.yaml"),
		filepath.Join(home, ".kforge", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	// No config exists, return default (XDG) path for creation
	return paths[0], nil
}

// defaultWorkspace returns the default workspace cache directory
func defaultWorkspace() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".kforge-cache")
	}

	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache == "" {
		xdgCache = filepath.Join(home, ".cache")
	}

	return filepath.Join(xdgCache, "kforge")
}

// defaults returns a config populated with default values
func defaults() *Config {
	return &Config{
		Workspace: defaultWorkspace(),
		Output:    "package",
		Makepkg: MakepkgConfig{
			Command: "makepkg",
		},
	}
}

// Load reads configuration from the first available config file
// Priority: ~/.config/kforge/config.yaml > ~/.kforge/config.yaml
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is created with defaults; missing fields fall back to
// defaults after parsing.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaults()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in zero-valued fields
func (c *Config) applyDefaults() {
	if c.Workspace == "" {
		c.Workspace = defaultWorkspace()
	}
	if c.Output == "" {
		c.Output = "package"
	}
	if c.Makepkg.Command == "" {
		c.Makepkg.Command = "makepkg"
	}
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ExpandPath expands a leading ~/ (or a bare ~) to the user home directory.
// ~user paths are left alone.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// WorkspaceDir returns the workspace directory, creating it if needed
func (c *Config) WorkspaceDir() (string, error) {
	path, err := ExpandPath(c.Workspace)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return "", errors.Join(ErrWorkspaceNotFound, err)
	}

	return path, nil
}

// OutputDir returns the output directory for generated package files
func (c *Config) OutputDir() (string, error) {
	if c.Output == "" {
		return "", ErrOutputNotSet
	}
	return ExpandPath(c.Output)
}
