package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitree/internal/utils"
)

const (
	// unlimitedDepth disables the gitignore depth bound.
	unlimitedDepth = -1

	replacementCharacter = "�"

	errorReadIgnoreFileFormat = "reading %s: %w"
	logSkipIgnoreFileMessage  = "skipping unreadable ignore file"
	logLoadedRulesMessage     = "loaded ignore rules"
)

// Accumulator produces the rule context effective in each directory of a traversal.
type Accumulator struct {
	root     string
	enabled  bool
	maxDepth int
	logger   *zap.Logger
}

// NewAccumulator configures rule accumulation below root. When enabled is
// false every directory gets an empty context. maxDepth bounds, inclusively,
// the directory depth whose .gitignore is still read; a negative value means
// unlimited.
func NewAccumulator(root string, enabled bool, maxDepth int, logger *zap.Logger) Accumulator {
	if maxDepth < 0 {
		maxDepth = unlimitedDepth
	}
	return Accumulator{
		root:     root,
		enabled:  enabled,
		maxDepth: maxDepth,
		logger:   utils.LoggerOrNop(logger),
	}
}

// Enabled reports whether .gitignore files are honored.
func (accumulator Accumulator) Enabled() bool {
	return accumulator.enabled
}

// WithinDepth reports whether a directory at depth (root = 0) still has its .gitignore read.
func (accumulator Accumulator) WithinDepth(depth int) bool {
	return accumulator.maxDepth == unlimitedDepth || depth <= accumulator.maxDepth
}

// Enter returns the context effective inside directory, which sits at depth
// below the root: the parent context extended by the directory's own
// .gitignore rules. Unreadable files contribute no rules.
func (accumulator Accumulator) Enter(parent Context, directory string, depth int) Context {
	if !accumulator.enabled || !accumulator.WithinDepth(depth) {
		return parent
	}
	domain := utils.PathSegments(utils.RelativePathOrSelf(directory, accumulator.root))
	localRules, loadError := LoadRules(directory, domain)
	if loadError != nil {
		accumulator.logger.Debug(logSkipIgnoreFileMessage, zap.String("directory", directory), zap.Error(loadError))
		return parent
	}
	if len(localRules) > 0 {
		rootRelativePatterns := make([]string, 0, len(localRules))
		for _, rule := range localRules {
			rootRelativePatterns = append(rootRelativePatterns, rule.RootRelative())
		}
		accumulator.logger.Debug(logLoadedRulesMessage, zap.String("directory", directory), zap.Strings("patterns", rootRelativePatterns))
	}
	return parent.Extend(localRules)
}

// LoadRules reads the .gitignore directly inside directory and scopes its
// rules to domain. A missing file yields no rules and no error.
//
// #nosec G304
func LoadRules(directory string, domain []string) ([]Rule, error) {
	ignoreFilePath := filepath.Join(directory, utils.GitIgnoreFileName)
	fileInfo, statError := os.Stat(ignoreFilePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, statError)
	}
	if fileInfo.IsDir() {
		return nil, nil
	}
	content, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, readError)
	}
	return ParseRules(string(content), domain), nil
}

// ParseRules parses .gitignore content. Invalid UTF-8 is replaced rather than rejected.
func ParseRules(content string, domain []string) []Rule {
	decodedContent := strings.ToValidUTF8(content, replacementCharacter)
	var rules []Rule
	for _, line := range strings.Split(decodedContent, "\n") {
		if rule, ok := NewRule(strings.TrimSuffix(line, "\r"), domain); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}
