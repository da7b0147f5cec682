package tree

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitree/internal/ignore"
	"github.com/temirov/gitree/internal/utils"
)

const (
	hiddenEntryPrefix = "."

	logUnreadableDirectoryMessage = "treating unreadable directory as empty"
)

// Entry is one listed child of a directory.
type Entry struct {
	Name string
	// Path is the absolute path of the entry.
	Path string
	// RelativePath is the forward-slash path relative to the traversal root.
	RelativePath string
	IsDirectory  bool
	// IsSymlink marks entries reached through a symbolic link.
	IsSymlink bool
}

// ListingResult holds the filtered children of one directory.
type ListingResult struct {
	Entries []Entry
	// TruncatedCount is the number of entries dropped by the item cap.
	TruncatedCount int
}

// ListRequest configures ListEntries.
type ListRequest struct {
	// Root is the absolute traversal root used to compute relative paths.
	Root            string
	Matcher         *ignore.Matcher
	ShowHidden      bool
	ExcludePatterns []string
	IncludePatterns []string
	MaxItems        int
	NoFiles         bool
	Logger          *zap.Logger
}

// ListEntries lists the immediate children of directory and narrows them,
// in order, by hidden-file policy, ignore rules, exclude globs, include globs
// and the no-files flag. Survivors are sorted directories first, then by
// case-insensitive name, and capped at MaxItems. An unreadable directory
// yields an empty result.
func ListEntries(directory string, request ListRequest) ListingResult {
	directoryEntries, readDirectoryError := os.ReadDir(directory)
	if readDirectoryError != nil {
		utils.LoggerOrNop(request.Logger).Debug(logUnreadableDirectoryMessage, zap.String("directory", directory), zap.Error(readDirectoryError))
		return ListingResult{Entries: []Entry{}}
	}

	relativeDirectory := utils.RelativePathOrSelf(directory, request.Root)
	entries := make([]Entry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if !request.ShowHidden && strings.HasPrefix(entryName, hiddenEntryPrefix) {
			continue
		}
		entry := describeEntry(directory, relativeDirectory, directoryEntry)
		if request.Matcher.Ignored(entry.RelativePath, entry.IsDirectory) {
			continue
		}
		if MatchesAnyGlob(request.ExcludePatterns, entry.RelativePath, entryName) {
			continue
		}
		if !entry.IsDirectory && len(request.IncludePatterns) > 0 && !MatchesAnyGlob(request.IncludePatterns, entry.RelativePath, entryName) {
			continue
		}
		if request.NoFiles && !entry.IsDirectory {
			continue
		}
		entries = append(entries, entry)
	}

	SortEntries(entries)

	truncatedCount := 0
	if request.MaxItems >= 0 && len(entries) > request.MaxItems {
		truncatedCount = len(entries) - request.MaxItems
		entries = entries[:request.MaxItems]
	}
	return ListingResult{Entries: entries, TruncatedCount: truncatedCount}
}

// describeEntry classifies a directory entry, following symbolic links to
// decide whether they point at directories. Broken links are files.
func describeEntry(directory string, relativeDirectory string, directoryEntry fs.DirEntry) Entry {
	entryName := directoryEntry.Name()
	entry := Entry{
		Name:         entryName,
		Path:         filepath.Join(directory, entryName),
		RelativePath: utils.JoinRelativePath(relativeDirectory, entryName),
		IsDirectory:  directoryEntry.IsDir(),
		IsSymlink:    directoryEntry.Type()&fs.ModeSymlink != 0,
	}
	if entry.IsSymlink {
		if targetInfo, statError := os.Stat(entry.Path); statError == nil {
			entry.IsDirectory = targetInfo.IsDir()
		}
	}
	return entry
}

// MatchesAnyGlob reports whether relativePath or name matches one of the
// patterns. Malformed patterns match nothing.
func MatchesAnyGlob(patterns []string, relativePath string, name string) bool {
	for _, pattern := range patterns {
		if globMatches(pattern, relativePath) || globMatches(pattern, name) {
			return true
		}
	}
	return false
}

func globMatches(pattern string, candidate string) bool {
	isMatched, matchError := path.Match(pattern, candidate)
	return matchError == nil && isMatched
}

// SortEntries orders directories before files, then by case-insensitive name.
// The sort is stable so equal keys keep their directory order.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(left, right Entry) int {
		if left.IsDirectory != right.IsDirectory {
			if left.IsDirectory {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(left.Name), strings.ToLower(right.Name))
	})
}
