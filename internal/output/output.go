// Package output renders built trees as text, JSON and markdown, and writes
// them to destination files.
package output

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/temirov/gitree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	fileIcon      = "📄"
	directoryIcon = "📂"
	iconSeparator = " "

	directorySuffix = "/"
	lineSeparator   = "\n"
	treeSeparator   = "\n\n"

	markdownFence = "```"
)

// FormatText renders node as an indented tree whose first line is the root name.
func FormatText(node *types.TreeNode, style Style) string {
	lines := []string{node.Name}
	lines = appendTextLines(lines, node, "", style)
	return strings.Join(lines, lineSeparator)
}

// FormatTextForest renders several trees separated by blank lines.
func FormatTextForest(nodes []*types.TreeNode, style Style) string {
	renderedTrees := make([]string, 0, len(nodes))
	for _, node := range nodes {
		renderedTrees = append(renderedTrees, FormatText(node, style))
	}
	return strings.Join(renderedTrees, treeSeparator)
}

func appendTextLines(lines []string, node *types.TreeNode, prefix string, style Style) []string {
	for childIndex, child := range node.Children {
		isLast := childIndex == len(node.Children)-1
		connector := treeBranchConnector
		childPadding := treeBranchPadding
		if isLast {
			connector = treeLastConnector
			childPadding = treeLastPadding
		}
		lines = append(lines, prefix+connector+decorateName(child, style))
		if child.IsDirectory() && len(child.Children) > 0 {
			lines = appendTextLines(lines, child, prefix+childPadding, style)
		}
	}
	return lines
}

// decorateName applies the style to a node name. Truncation markers stay plain.
func decorateName(node *types.TreeNode, style Style) string {
	switch node.Kind {
	case types.NodeKindTruncated:
		return node.Name
	case types.NodeKindDirectory:
		if style == StyleSlashSuffix {
			return node.Name + directorySuffix
		}
		return directoryIcon + iconSeparator + node.Name
	default:
		if style == StyleSlashSuffix {
			return node.Name
		}
		return fileIcon + iconSeparator + node.Name
	}
}

// FormatMarkdown renders the text tree inside a fenced code block.
func FormatMarkdown(node *types.TreeNode, style Style) string {
	return wrapMarkdown(FormatText(node, style))
}

// FormatMarkdownForest renders several text trees inside one fenced code block.
func FormatMarkdownForest(nodes []*types.TreeNode, style Style) string {
	return wrapMarkdown(FormatTextForest(nodes, style))
}

func wrapMarkdown(text string) string {
	return markdownFence + lineSeparator + text + lineSeparator + markdownFence + lineSeparator
}

// FormatJSON renders node as an indented JSON document. Non-ASCII and HTML
// characters in names are written verbatim.
func FormatJSON(node *types.TreeNode) (string, error) {
	return encodeIndented(node)
}

// FormatJSONForest renders one tree as an object and several as an array.
func FormatJSONForest(nodes []*types.TreeNode) (string, error) {
	if len(nodes) == 1 {
		return encodeIndented(nodes[0])
	}
	if nodes == nil {
		nodes = []*types.TreeNode{}
	}
	return encodeIndented(nodes)
}

func encodeIndented(value interface{}) (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(indentPrefix, indentSpacer)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return "", encodeError
	}
	return strings.TrimRight(buffer.String(), lineSeparator), nil
}
