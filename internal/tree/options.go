// Package tree builds filtered, depth-bounded directory trees.
package tree

import "go.uber.org/zap"

// Unlimited disables a depth bound or item cap. Any negative value behaves the same.
const Unlimited = -1

// Options configures a traversal.
type Options struct {
	// MaxDepth bounds recursion: children are listed through depth MaxDepth-1,
	// directories at depth MaxDepth are emitted without children.
	MaxDepth int
	// ShowHidden keeps dot-prefixed entries.
	ShowHidden bool
	// ExcludePatterns are globs tested against the root-relative path and the bare name.
	ExcludePatterns []string
	// IncludePatterns, when non-empty, restrict files to those matching one glob.
	IncludePatterns []string
	// RespectGitignore enables .gitignore handling.
	RespectGitignore bool
	// GitignoreDepth is the deepest directory whose .gitignore is read.
	GitignoreDepth int
	// MaxItems caps the entries listed per directory.
	MaxItems int
	// NoFiles drops plain files.
	NoFiles bool
	// Whitelist restricts the tree to the listed files and their ancestors.
	Whitelist *Whitelist
	Logger    *zap.Logger
}

// DefaultOptions mirrors the command line defaults except for the item cap,
// which is left unlimited.
func DefaultOptions() Options {
	return Options{
		MaxDepth:         Unlimited,
		RespectGitignore: true,
		GitignoreDepth:   Unlimited,
		MaxItems:         Unlimited,
	}
}
