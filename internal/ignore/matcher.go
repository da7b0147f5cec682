package ignore

import (
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/gitree/internal/utils"
)

// Matcher decides whether root-relative paths are excluded by an ordered rule list.
// The last matching rule wins: a later negated rule re-includes a path an
// earlier rule excluded, and a later plain rule excludes it again.
type Matcher struct {
	matcher   gitignore.Matcher
	ruleCount int
}

// NewMatcher compiles rules in accumulation order.
func NewMatcher(rules []Rule) *Matcher {
	patterns := make([]gitignore.Pattern, 0, len(rules))
	for _, rule := range rules {
		patterns = append(patterns, rule.compile())
	}
	return &Matcher{
		matcher:   gitignore.NewMatcher(patterns),
		ruleCount: len(patterns),
	}
}

// CompilePatterns compiles root-relative pattern lines. A leading "!" negates
// a line; blank lines and comments are skipped.
func CompilePatterns(lines []string) *Matcher {
	rules := make([]Rule, 0, len(lines))
	for _, line := range lines {
		if rule, ok := NewRule(line, nil); ok {
			rules = append(rules, rule)
		}
	}
	return NewMatcher(rules)
}

// Ignored reports whether the forward-slash relativePath is excluded.
// Directory-only patterns ("build/") match only when isDirectory is set.
// Malformed patterns never match.
func (matcher *Matcher) Ignored(relativePath string, isDirectory bool) bool {
	if matcher == nil || matcher.ruleCount == 0 {
		return false
	}
	pathSegments := utils.PathSegments(relativePath)
	if len(pathSegments) == 0 {
		return false
	}
	return matcher.matcher.Match(pathSegments, isDirectory)
}
