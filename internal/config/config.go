package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the folder settings of the repository generator.
type Config struct {
	// ZipsFolder is the directory tree scanned recursively for *.zip archives.
	ZipsFolder string `yaml:"zips_folder"`
	// OutputFolder is the directory receiving addons.xml and addons.xml.md5.
	OutputFolder string `yaml:"output_folder"`
}

const (
	// DefaultConfigFilename is the default filename for generator settings.
	DefaultConfigFilename = "repo-generator-settings.yaml"

	// DefaultZipsFolder is scanned when no archive folder is configured.
	DefaultZipsFolder = "zips"

	// DefaultOutputFolder receives the generated files when none is configured.
	DefaultOutputFolder = "."

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and applies defaults for
// unset fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
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

// Validate fills defaults for unset fields and normalizes the folder paths.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ZipsFolder == "" {
		cfg.ZipsFolder = DefaultZipsFolder
	}

	if cfg.OutputFolder == "" {
		cfg.OutputFolder = DefaultOutputFolder
	}

	cfg.ZipsFolder = filepath.Clean(cfg.ZipsFolder)
	cfg.OutputFolder = filepath.Clean(cfg.OutputFolder)

	return nil
}
