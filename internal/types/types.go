// Package types defines every cross‑package data structure used by the gitree CLI.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NodeKind classifies a TreeNode.
type NodeKind string

const (
	NodeKindFile      NodeKind = "file"
	NodeKindDirectory NodeKind = "directory"
	NodeKindTruncated NodeKind = "truncated"

	FormatText = "text"
	FormatJSON = "json"

	truncatedMessageFormat = "... and %d more items"
	unknownNodeKindFormat  = "unknown node type %q"
)

// TreeNode represents one filesystem entry of a rendered tree.
// Children is meaningful only for directories; a directory that was not
// descended into carries an empty, non-nil slice.
type TreeNode struct {
	Name     string
	Kind     NodeKind
	Path     string
	Children []*TreeNode
}

// NewTruncatedNode builds the marker appended after a capped listing.
func NewTruncatedNode(truncatedCount int) *TreeNode {
	return &TreeNode{
		Name: fmt.Sprintf(truncatedMessageFormat, truncatedCount),
		Kind: NodeKindTruncated,
	}
}

// IsDirectory reports whether the node is a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Kind == NodeKindDirectory
}

// treeNodeDocument is the serialized shape of a TreeNode.
type treeNodeDocument struct {
	Name     string       `json:"name"`
	Type     NodeKind     `json:"type"`
	Children *[]*TreeNode `json:"children,omitempty"`
}

// MarshalJSON encodes the node as {"name", "type", "children"}. Directories
// always carry a children array, other kinds omit it. HTML characters are
// left unescaped so names render verbatim.
func (node *TreeNode) MarshalJSON() ([]byte, error) {
	document := treeNodeDocument{Name: node.Name, Type: node.Kind}
	if node.Kind == NodeKindDirectory {
		children := node.Children
		if children == nil {
			children = []*TreeNode{}
		}
		document.Children = &children
	}
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return nil, encodeError
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes a node previously produced by MarshalJSON.
func (node *TreeNode) UnmarshalJSON(data []byte) error {
	var document treeNodeDocument
	if decodeError := json.Unmarshal(data, &document); decodeError != nil {
		return decodeError
	}
	switch document.Type {
	case NodeKindFile, NodeKindDirectory, NodeKindTruncated:
	default:
		return fmt.Errorf(unknownNodeKindFormat, document.Type)
	}
	node.Name = document.Name
	node.Kind = document.Type
	node.Children = nil
	if document.Children != nil {
		node.Children = *document.Children
	}
	if node.Kind == NodeKindDirectory && node.Children == nil {
		node.Children = []*TreeNode{}
	}
	return nil
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}
