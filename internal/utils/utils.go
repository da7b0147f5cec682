// Package utils contains general helper functions used across gitree.
package utils

import (
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate and blank patterns from a slice while
// preserving order. The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the forward-slash relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// PathSegments splits a forward-slash relative path into its segments.
// The root itself ("" or ".") has no segments.
func PathSegments(relativePath string) []string {
	normalizedPath := strings.Trim(strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator), pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return nil
	}
	return strings.Split(normalizedPath, pathSegmentSeparator)
}

// JoinRelativePath appends name to a forward-slash relative directory path.
func JoinRelativePath(relativeDirectory, name string) string {
	if relativeDirectory == "" || relativeDirectory == "." {
		return name
	}
	return relativeDirectory + pathSegmentSeparator + name
}

// IsWithinDirectory reports whether candidatePath lies strictly inside
// directoryPath. The comparison is segment aware, so "/a/bc" is not treated
// as an ancestor of "/a/bcd/x".
func IsWithinDirectory(candidatePath, directoryPath string) bool {
	cleanCandidate := filepath.Clean(candidatePath)
	cleanDirectory := filepath.Clean(directoryPath)
	if cleanCandidate == cleanDirectory {
		return false
	}
	directoryPrefix := cleanDirectory
	if !strings.HasSuffix(directoryPrefix, string(filepath.Separator)) {
		directoryPrefix += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanCandidate, directoryPrefix)
}
