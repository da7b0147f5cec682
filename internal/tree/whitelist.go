package tree

import (
	"path/filepath"

	"github.com/temirov/gitree/internal/utils"
)

// Whitelist is a set of absolute file paths a tree is narrowed to.
type Whitelist struct {
	files map[string]struct{}
}

// NewWhitelist builds a whitelist from absolute paths. Relative inputs are
// resolved against the working directory.
func NewWhitelist(paths []string) *Whitelist {
	whitelist := &Whitelist{files: make(map[string]struct{}, len(paths))}
	for _, inputPath := range paths {
		absolutePath, absoluteError := filepath.Abs(inputPath)
		if absoluteError != nil {
			continue
		}
		whitelist.files[filepath.Clean(absolutePath)] = struct{}{}
	}
	return whitelist
}

// AllowsFile reports whether the file at absolutePath is whitelisted.
func (whitelist *Whitelist) AllowsFile(absolutePath string) bool {
	if whitelist == nil {
		return true
	}
	_, present := whitelist.files[filepath.Clean(absolutePath)]
	return present
}

// AllowsDirectory reports whether some whitelisted file lies, at any depth,
// inside the directory at absolutePath.
func (whitelist *Whitelist) AllowsDirectory(absolutePath string) bool {
	if whitelist == nil {
		return true
	}
	for filePath := range whitelist.files {
		if utils.IsWithinDirectory(filePath, absolutePath) {
			return true
		}
	}
	return false
}

// Allows applies the file or directory rule to entry.
func (whitelist *Whitelist) Allows(entry Entry) bool {
	if entry.IsDirectory {
		return whitelist.AllowsDirectory(entry.Path)
	}
	return whitelist.AllowsFile(entry.Path)
}
