package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitree/internal/types"
)

const (
	jsonExtension     = ".json"
	textExtension     = ".txt"
	markdownExtension = ".md"

	outputFilePermissions = 0o644

	errorRenderOutputFormat = "rendering %s output: %w"
	errorWriteOutputFormat  = "writing %s output to %s: %w"

	destinationKindJSON     = "json"
	destinationKindText     = "text"
	destinationKindMarkdown = "markdown"
)

// Destinations lists the files a tree is written to. Empty paths are skipped.
type Destinations struct {
	JSONPath     string
	TextPath     string
	MarkdownPath string
}

// IsEmpty reports whether no destination is configured.
func (destinations Destinations) IsEmpty() bool {
	return destinations.JSONPath == "" && destinations.TextPath == "" && destinations.MarkdownPath == ""
}

// Normalize appends the expected extension to destinations that lack one.
func (destinations Destinations) Normalize() Destinations {
	return Destinations{
		JSONPath:     ensureExtension(destinations.JSONPath, jsonExtension),
		TextPath:     ensureExtension(destinations.TextPath, textExtension),
		MarkdownPath: ensureExtension(destinations.MarkdownPath, markdownExtension),
	}
}

func ensureExtension(destinationPath string, extension string) string {
	if destinationPath == "" || filepath.Ext(destinationPath) != "" {
		return destinationPath
	}
	return strings.TrimRight(destinationPath, ".") + extension
}

// WriteOutputs renders trees once per configured destination and writes every
// file independently and concurrently. The first failure is returned; files
// already written are left in place.
func WriteOutputs(ctx context.Context, trees []*types.TreeNode, destinations Destinations, style Style) error {
	group, _ := errgroup.WithContext(ctx)

	if destinations.JSONPath != "" {
		group.Go(func() error {
			content, renderError := FormatJSONForest(trees)
			if renderError != nil {
				return fmt.Errorf(errorRenderOutputFormat, destinationKindJSON, renderError)
			}
			return writeDestination(destinationKindJSON, destinations.JSONPath, content)
		})
	}
	if destinations.TextPath != "" {
		group.Go(func() error {
			return writeDestination(destinationKindText, destinations.TextPath, FormatTextForest(trees, style))
		})
	}
	if destinations.MarkdownPath != "" {
		group.Go(func() error {
			return writeDestination(destinationKindMarkdown, destinations.MarkdownPath, FormatMarkdownForest(trees, style))
		})
	}

	return group.Wait()
}

func writeDestination(kind string, destinationPath string, content string) error {
	if writeError := os.WriteFile(destinationPath, []byte(content), outputFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, kind, destinationPath, writeError)
	}
	return nil
}
