package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/gitree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .gitree.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes config.yaml into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `tree:
  # max_depth: 3
  show_hidden: false
  exclude: []
  include: []
  use_gitignore: true
  # gitignore_depth: 2
  max_items: 20
  no_limit: false
  no_files: false
output:
  format: text
  style: icon
  copy: false
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns its path. Existing files are kept unless Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			userHome, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", err)
			}
			homeDirectory = userHome
		}
		destinationPath = GlobalConfigPath(homeDirectory)
		if err := os.MkdirAll(filepath.Dir(destinationPath), 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", filepath.Dir(destinationPath), err)
		}
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
