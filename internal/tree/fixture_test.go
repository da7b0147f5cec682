package tree_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/gitree/internal/types"
)

// createFixture materializes relative paths under a temporary root. Paths
// ending in "/" become directories, everything else files with the given content.
func createFixture(testingHandle *testing.T, files map[string]string) string {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	for relativePath, content := range files {
		absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if strings.HasSuffix(relativePath, "/") {
			if makeError := os.MkdirAll(absolutePath, 0o755); makeError != nil {
				testingHandle.Fatalf("mkdir %s: %v", relativePath, makeError)
			}
			continue
		}
		if makeError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeError != nil {
			testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(relativePath), makeError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
			testingHandle.Fatalf("write %s: %v", relativePath, writeError)
		}
	}
	return rootDirectory
}

// childNames returns the names of node's children in order.
func childNames(node *types.TreeNode) []string {
	names := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		names = append(names, child.Name)
	}
	return names
}

// findChild returns the direct child named name.
func findChild(testingHandle *testing.T, node *types.TreeNode, name string) *types.TreeNode {
	testingHandle.Helper()
	for _, child := range node.Children {
		if child.Name == name {
			return child
		}
	}
	testingHandle.Fatalf("child %s not found under %s (have %v)", name, node.Name, childNames(node))
	return nil
}

// collectFiles gathers every file node path below node.
func collectFiles(node *types.TreeNode) []string {
	var filePaths []string
	for _, child := range node.Children {
		switch child.Kind {
		case types.NodeKindFile:
			filePaths = append(filePaths, child.Path)
		case types.NodeKindDirectory:
			filePaths = append(filePaths, collectFiles(child)...)
		}
	}
	return filePaths
}
