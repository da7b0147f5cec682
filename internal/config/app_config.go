// Package config loads and merges gitree configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/gitree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user's home directory lookup.
	HomeDirectory string
}

// ApplicationConfiguration holds the defaults applied before command line flags.
type ApplicationConfiguration struct {
	Tree   TreeConfiguration   `mapstructure:"tree"`
	Output OutputConfiguration `mapstructure:"output"`
}

// TreeConfiguration configures traversal and filtering.
type TreeConfiguration struct {
	MaxDepth       *int     `mapstructure:"max_depth"`
	ShowHidden     *bool    `mapstructure:"show_hidden"`
	Exclude        []string `mapstructure:"exclude"`
	Include        []string `mapstructure:"include"`
	UseGitignore   *bool    `mapstructure:"use_gitignore"`
	GitignoreDepth *int     `mapstructure:"gitignore_depth"`
	MaxItems       *int     `mapstructure:"max_items"`
	NoLimit        *bool    `mapstructure:"no_limit"`
	NoFiles        *bool    `mapstructure:"no_files"`
}

// OutputConfiguration configures rendering.
type OutputConfiguration struct {
	Format string `mapstructure:"format"`
	Style  string `mapstructure:"style"`
	Copy   *bool  `mapstructure:"copy"`
}

// LoadApplicationConfiguration loads the global file, then overlays the local
// (or explicitly named) file. Missing files are skipped.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath := resolveGlobalConfigPath(options.HomeDirectory); globalPath != "" {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if len(merged.Tree.Exclude) > 0 {
		merged.Tree.Exclude = utils.DeduplicatePatterns(merged.Tree.Exclude)
	}
	if len(merged.Tree.Include) > 0 {
		merged.Tree.Include = utils.DeduplicatePatterns(merged.Tree.Include)
	}

	return merged, nil
}

// GlobalConfigPath returns the global configuration file location for homeDirectory.
func GlobalConfigPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

func resolveGlobalConfigPath(homeDirectory string) string {
	if homeDirectory == "" {
		userHome, err := os.UserHomeDir()
		if err != nil || userHome == "" {
			return ""
		}
		homeDirectory = userHome
	}
	return GlobalConfigPath(homeDirectory)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	result.Output = result.Output.merge(override.Output)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.ShowHidden != nil {
		result.ShowHidden = cloneBool(override.ShowHidden)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.GitignoreDepth != nil {
		result.GitignoreDepth = cloneInt(override.GitignoreDepth)
	}
	if override.MaxItems != nil {
		result.MaxItems = cloneInt(override.MaxItems)
	}
	if override.NoLimit != nil {
		result.NoLimit = cloneBool(override.NoLimit)
	}
	if override.NoFiles != nil {
		result.NoFiles = cloneBool(override.NoFiles)
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
