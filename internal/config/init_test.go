package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/gitree/internal/utils"
)

func TestInitializeConfigurationTargets(testingHandle *testing.T) {
	testCases := []struct {
		name   string
		target InitTarget
	}{
		{name: "local", target: InitTargetLocal},
		{name: "global", target: InitTargetGlobal},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			workingDirectory := subTest.TempDir()
			homeDirectory := subTest.TempDir()
			options := InitOptions{Target: testCase.target, WorkingDirectory: workingDirectory, HomeDirectory: homeDirectory}

			writtenPath, err := InitializeConfiguration(options)
			if err != nil {
				subTest.Fatalf("initialize: %v", err)
			}
			expectedPath := filepath.Join(workingDirectory, utils.LocalConfigFileName)
			if testCase.target == InitTargetGlobal {
				expectedPath = GlobalConfigPath(homeDirectory)
			}
			if writtenPath != expectedPath {
				subTest.Fatalf("expected %s, got %s", expectedPath, writtenPath)
			}
			content, readErr := os.ReadFile(writtenPath)
			if readErr != nil {
				subTest.Fatalf("read: %v", readErr)
			}
			if !strings.Contains(string(content), "max_items: 20") {
				subTest.Fatalf("template missing defaults:\n%s", content)
			}

			if _, secondErr := InitializeConfiguration(options); secondErr == nil {
				subTest.Fatalf("expected error when file exists without force")
			}
			options.Force = true
			if _, forcedErr := InitializeConfiguration(options); forcedErr != nil {
				subTest.Fatalf("forced initialize: %v", forcedErr)
			}
		})
	}
}

func TestInitializedConfigurationLoads(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	if _, err := InitializeConfiguration(InitOptions{Target: InitTargetLocal, WorkingDirectory: workingDirectory}); err != nil {
		testingHandle.Fatalf("initialize: %v", err)
	}
	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: testingHandle.TempDir()})
	if err != nil {
		testingHandle.Fatalf("load: %v", err)
	}
	if loaded.Tree.MaxItems == nil || *loaded.Tree.MaxItems != 20 {
		testingHandle.Fatalf("expected max_items 20, got %v", loaded.Tree.MaxItems)
	}
	if loaded.Output.Style != "icon" {
		testingHandle.Fatalf("expected icon style, got %q", loaded.Output.Style)
	}
}

func TestInitializeConfigurationUnknownTarget(testingHandle *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: "elsewhere", WorkingDirectory: testingHandle.TempDir()}); err == nil {
		testingHandle.Fatalf("expected error for unknown target")
	}
}
