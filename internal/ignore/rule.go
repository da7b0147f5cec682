// Package ignore implements gitignore rule accumulation and matching.
//
// Rules are scoped to the directory whose .gitignore defined them. A rule
// context is an immutable snapshot: extending it for a subdirectory yields a
// new context and never changes the one it was derived from, so sibling
// subtrees never observe each other's local rules.
package ignore

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	negationPrefix   = "!"
	commentPrefix    = "#"
	anchorSeparator  = "/"
	segmentSeparator = "/"
)

// Rule is one compiled ignore line.
type Rule struct {
	// Pattern is the line as written in its .gitignore, without the negation marker.
	Pattern string
	// Negated marks a "!" line that re-includes earlier matches.
	Negated bool
	// Domain holds the path segments, relative to the traversal root, of the
	// directory that defined the rule. It is empty for root rules.
	Domain []string
}

// NewRule builds a rule from a single ignore line scoped to domain. Blank
// lines and comments yield false.
func NewRule(line string, domain []string) (Rule, bool) {
	trimmedLine := strings.TrimSpace(line)
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
		return Rule{}, false
	}
	negated := strings.HasPrefix(trimmedLine, negationPrefix)
	if negated {
		trimmedLine = strings.TrimPrefix(trimmedLine, negationPrefix)
	}
	if trimmedLine == "" {
		return Rule{}, false
	}
	return Rule{
		Pattern: trimmedLine,
		Negated: negated,
		Domain:  append([]string(nil), domain...),
	}, true
}

// SourceDepth is the depth, relative to the root, of the directory that defined the rule.
func (rule Rule) SourceDepth() int {
	return len(rule.Domain)
}

// RootRelative renders the rule rewritten relative to the traversal root,
// e.g. "!sub/keep.log" for "!keep.log" read from sub/.gitignore.
func (rule Rule) RootRelative() string {
	rewritten := strings.TrimPrefix(rule.Pattern, anchorSeparator)
	if len(rule.Domain) > 0 {
		rewritten = strings.Join(rule.Domain, segmentSeparator) + segmentSeparator + rewritten
	}
	if rule.Negated {
		return negationPrefix + rewritten
	}
	return rewritten
}

func (rule Rule) compile() gitignore.Pattern {
	line := rule.Pattern
	if rule.Negated {
		line = negationPrefix + line
	}
	return gitignore.ParsePattern(line, rule.Domain)
}
