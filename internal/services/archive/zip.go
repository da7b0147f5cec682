// Package archive packs the files of built trees into ZIP archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/temirov/gitree/internal/types"
)

const (
	zipExtension = ".zip"

	archiveFilePermissions = 0o644

	errorCreateArchiveFormat = "creating archive %s: %w"
	errorAddFileFormat       = "adding %s to archive: %w"
	errorCloseArchiveFormat  = "closing archive %s: %w"
)

// NormalizeArchivePath appends ".zip" when destinationPath has no extension.
func NormalizeArchivePath(destinationPath string) string {
	if filepath.Ext(destinationPath) != "" {
		return destinationPath
	}
	return destinationPath + zipExtension
}

// WriteZip stores every file node of trees in a ZIP archive at destinationPath.
// Entries are named "<root name>/<path inside the root>" with forward slashes.
// Directory, truncation and depth-limited nodes contribute no entries. It
// returns the number of files archived.
//
// #nosec G304
func WriteZip(destinationPath string, trees []*types.TreeNode) (archivedCount int, err error) {
	archiveFile, createError := os.OpenFile(destinationPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, archiveFilePermissions)
	if createError != nil {
		return 0, fmt.Errorf(errorCreateArchiveFormat, destinationPath, createError)
	}
	defer func() {
		if closeError := archiveFile.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseArchiveFormat, destinationPath, closeError)
		}
	}()

	archiveWriter := zip.NewWriter(archiveFile)
	for _, rootNode := range trees {
		added, addError := addTree(archiveWriter, rootNode, rootNode.Name)
		archivedCount += added
		if addError != nil {
			_ = archiveWriter.Close()
			return archivedCount, addError
		}
	}
	if closeError := archiveWriter.Close(); closeError != nil {
		return archivedCount, fmt.Errorf(errorCloseArchiveFormat, destinationPath, closeError)
	}
	return archivedCount, nil
}

func addTree(archiveWriter *zip.Writer, node *types.TreeNode, entryPrefix string) (int, error) {
	addedCount := 0
	for _, child := range node.Children {
		entryName := path.Join(entryPrefix, child.Name)
		switch child.Kind {
		case types.NodeKindFile:
			if addError := addFile(archiveWriter, child.Path, entryName); addError != nil {
				return addedCount, addError
			}
			addedCount++
		case types.NodeKindDirectory:
			added, addError := addTree(archiveWriter, child, entryName)
			addedCount += added
			if addError != nil {
				return addedCount, addError
			}
		}
	}
	return addedCount, nil
}

// #nosec G304
func addFile(archiveWriter *zip.Writer, sourcePath string, entryName string) error {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return fmt.Errorf(errorAddFileFormat, sourcePath, openError)
	}
	defer sourceFile.Close()

	sourceInfo, statError := sourceFile.Stat()
	if statError != nil {
		return fmt.Errorf(errorAddFileFormat, sourcePath, statError)
	}
	header, headerError := zip.FileInfoHeader(sourceInfo)
	if headerError != nil {
		return fmt.Errorf(errorAddFileFormat, sourcePath, headerError)
	}
	header.Name = strings.TrimPrefix(entryName, "/")
	header.Method = zip.Deflate

	entryWriter, entryError := archiveWriter.CreateHeader(header)
	if entryError != nil {
		return fmt.Errorf(errorAddFileFormat, sourcePath, entryError)
	}
	if _, copyError := io.Copy(entryWriter, sourceFile); copyError != nil {
		return fmt.Errorf(errorAddFileFormat, sourcePath, copyError)
	}
	return nil
}
