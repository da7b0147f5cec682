package tree

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/gitree/internal/ignore"
	"github.com/temirov/gitree/internal/types"
	"github.com/temirov/gitree/internal/utils"
)

const (
	logRootNotDirectoryMessage = "root is not a traversable directory"
	logSymlinkNotFollowed      = "not following symlinked directory"
)

// Builder builds directory trees using configured options.
type Builder struct {
	options Options
	logger  *zap.Logger
}

// NewBuilder returns a Builder for options.
func NewBuilder(options Options) *Builder {
	return &Builder{options: options, logger: utils.LoggerOrNop(options.Logger)}
}

// walkState is the explicit recursion context for one directory.
type walkState struct {
	accumulator ignore.Accumulator
	root        string
	directory   string
	depth       int
	rules       ignore.Context
}

// Build walks rootPath and returns its tree. The root is always a directory
// node; a missing or non-directory root yields a node without children.
func (builder *Builder) Build(rootPath string) *types.TreeNode {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		absoluteRootPath = filepath.Clean(rootPath)
	}
	rootNode := &types.TreeNode{
		Name:     filepath.Base(absoluteRootPath),
		Kind:     types.NodeKindDirectory,
		Path:     absoluteRootPath,
		Children: []*types.TreeNode{},
	}

	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil || !rootInfo.IsDir() {
		builder.logger.Debug(logRootNotDirectoryMessage, zap.String("root", absoluteRootPath), zap.Error(rootStatError))
		return rootNode
	}

	rootState := walkState{
		accumulator: ignore.NewAccumulator(absoluteRootPath, builder.options.RespectGitignore, builder.options.GitignoreDepth, builder.logger),
		root:        absoluteRootPath,
		directory:   absoluteRootPath,
		depth:       0,
	}
	rootNode.Children = builder.buildChildren(rootState)
	return rootNode
}

// buildChildren lists state.directory and recurses into surviving directories.
func (builder *Builder) buildChildren(state walkState) []*types.TreeNode {
	children := []*types.TreeNode{}
	if builder.options.MaxDepth >= 0 && state.depth >= builder.options.MaxDepth {
		return children
	}

	directoryRules := state.accumulator.Enter(state.rules, state.directory, state.depth)
	var matcher *ignore.Matcher
	if state.accumulator.Enabled() {
		matcher = directoryRules.Matcher()
	}

	listing := ListEntries(state.directory, ListRequest{
		Root:            state.root,
		Matcher:         matcher,
		ShowHidden:      builder.options.ShowHidden,
		ExcludePatterns: builder.options.ExcludePatterns,
		IncludePatterns: builder.options.IncludePatterns,
		MaxItems:        builder.options.MaxItems,
		NoFiles:         builder.options.NoFiles,
		Logger:          builder.logger,
	})

	for _, entry := range listing.Entries {
		if builder.options.Whitelist != nil && !builder.options.Whitelist.Allows(entry) {
			continue
		}
		if !entry.IsDirectory {
			children = append(children, &types.TreeNode{Name: entry.Name, Kind: types.NodeKindFile, Path: entry.Path})
			continue
		}
		directoryNode := &types.TreeNode{Name: entry.Name, Kind: types.NodeKindDirectory, Path: entry.Path, Children: []*types.TreeNode{}}
		if entry.IsSymlink {
			builder.logger.Debug(logSymlinkNotFollowed, zap.String("path", entry.Path))
		} else {
			directoryNode.Children = builder.buildChildren(walkState{
				accumulator: state.accumulator,
				root:        state.root,
				directory:   entry.Path,
				depth:       state.depth + 1,
				rules:       directoryRules,
			})
		}
		children = append(children, directoryNode)
	}

	if listing.TruncatedCount > 0 {
		children = append(children, types.NewTruncatedNode(listing.TruncatedCount))
	}
	return children
}

// Build is a convenience wrapper building one tree with options.
func Build(rootPath string, options Options) *types.TreeNode {
	return NewBuilder(options).Build(rootPath)
}
