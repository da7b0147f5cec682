package tree_test

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/gitree/internal/ignore"
	"github.com/temirov/gitree/internal/tree"
)

func entryNames(result tree.ListingResult) []string {
	names := make([]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		names = append(names, entry.Name)
	}
	return names
}

// TestListEntriesFilters verifies each narrowing step of the listing pipeline.
func TestListEntriesFilters(testingHandle *testing.T) {
	rootDirectory := createFixture(testingHandle, map[string]string{
		".hidden":       "x",
		"a.txt":         "a",
		"b.py":          "b",
		"debug.log":     "d",
		"sub/c.txt":     "c",
		"Zeta/":         "",
		"build/out.bin": "o",
	})
	testCases := []struct {
		testName string
		request  tree.ListRequest
		expected []string
	}{
		{
			testName: "hidden dropped and directories first",
			request:  tree.ListRequest{MaxItems: tree.Unlimited},
			expected: []string{"build", "sub", "Zeta", "a.txt", "b.py", "debug.log"},
		},
		{
			testName: "hidden shown",
			request:  tree.ListRequest{ShowHidden: true, MaxItems: tree.Unlimited},
			expected: []string{"build", "sub", "Zeta", ".hidden", "a.txt", "b.py", "debug.log"},
		},
		{
			testName: "ignore matcher",
			request:  tree.ListRequest{Matcher: ignore.CompilePatterns([]string{"*.log", "build/"}), MaxItems: tree.Unlimited},
			expected: []string{"sub", "Zeta", "a.txt", "b.py"},
		},
		{
			testName: "exclude by name",
			request:  tree.ListRequest{ExcludePatterns: []string{"*.py", "sub"}, MaxItems: tree.Unlimited},
			expected: []string{"build", "Zeta", "a.txt", "debug.log"},
		},
		{
			testName: "include keeps directories",
			request:  tree.ListRequest{IncludePatterns: []string{"*.txt"}, MaxItems: tree.Unlimited},
			expected: []string{"build", "sub", "Zeta", "a.txt"},
		},
		{
			testName: "no files",
			request:  tree.ListRequest{NoFiles: true, MaxItems: tree.Unlimited},
			expected: []string{"build", "sub", "Zeta"},
		},
		{
			testName: "malformed exclude glob matches nothing",
			request:  tree.ListRequest{ExcludePatterns: []string{"["}, MaxItems: tree.Unlimited},
			expected: []string{"build", "sub", "Zeta", "a.txt", "b.py", "debug.log"},
		},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.testName, func(subTest *testing.T) {
			request := testCase.request
			request.Root = rootDirectory
			result := tree.ListEntries(rootDirectory, request)
			if actual := entryNames(result); !reflect.DeepEqual(actual, testCase.expected) {
				subTest.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
			if result.TruncatedCount != 0 {
				subTest.Fatalf("unexpected truncation %d", result.TruncatedCount)
			}
		})
	}
}

// TestListEntriesExcludeByRelativePath verifies exclude globs against root-relative paths.
func TestListEntriesExcludeByRelativePath(testingHandle *testing.T) {
	rootDirectory := createFixture(testingHandle, map[string]string{
		"sub/c.txt": "c",
		"sub/d.txt": "d",
	})
	subdirectory := filepath.Join(rootDirectory, "sub")
	result := tree.ListEntries(subdirectory, tree.ListRequest{
		Root:            rootDirectory,
		ExcludePatterns: []string{"sub/c.txt"},
		MaxItems:        tree.Unlimited,
	})
	if actual := entryNames(result); !reflect.DeepEqual(actual, []string{"d.txt"}) {
		testingHandle.Fatalf("expected [d.txt], got %v", actual)
	}
	if result.Entries[0].RelativePath != "sub/d.txt" {
		testingHandle.Fatalf("unexpected relative path %s", result.Entries[0].RelativePath)
	}
}

// TestListEntriesCap verifies truncation counts for capped listings.
func TestListEntriesCap(testingHandle *testing.T) {
	files := map[string]string{}
	for fileIndex := 0; fileIndex < 25; fileIndex++ {
		files[fmt.Sprintf("file%02d.txt", fileIndex)] = "data"
	}
	rootDirectory := createFixture(testingHandle, files)
	testCases := []struct {
		testName          string
		maxItems          int
		expectedEntries   int
		expectedTruncated int
	}{
		{testName: "cap exceeded", maxItems: 20, expectedEntries: 20, expectedTruncated: 5},
		{testName: "cap equal to count", maxItems: 25, expectedEntries: 25, expectedTruncated: 0},
		{testName: "unlimited", maxItems: tree.Unlimited, expectedEntries: 25, expectedTruncated: 0},
		{testName: "zero cap", maxItems: 0, expectedEntries: 0, expectedTruncated: 25},
	}
	for _, testCase := range testCases {
		result := tree.ListEntries(rootDirectory, tree.ListRequest{Root: rootDirectory, MaxItems: testCase.maxItems})
		if len(result.Entries) != testCase.expectedEntries || result.TruncatedCount != testCase.expectedTruncated {
			testingHandle.Errorf("%s: expected %d entries and %d truncated, got %d and %d",
				testCase.testName, testCase.expectedEntries, testCase.expectedTruncated, len(result.Entries), result.TruncatedCount)
		}
	}
	capped := tree.ListEntries(rootDirectory, tree.ListRequest{Root: rootDirectory, MaxItems: 20})
	if capped.Entries[19].Name != "file19.txt" {
		testingHandle.Fatalf("cap must keep the first entries in sorted order, got %s", capped.Entries[19].Name)
	}
}

// TestListEntriesUnreadableDirectory verifies that listing failures yield an empty result.
func TestListEntriesUnreadableDirectory(testingHandle *testing.T) {
	missingDirectory := filepath.Join(testingHandle.TempDir(), "missing")
	result := tree.ListEntries(missingDirectory, tree.ListRequest{Root: missingDirectory, MaxItems: 3})
	if len(result.Entries) != 0 || result.TruncatedCount != 0 {
		testingHandle.Fatalf("expected empty listing, got %+v", result)
	}
}

// TestSortEntries verifies directory-first, case-insensitive ordering.
func TestSortEntries(testingHandle *testing.T) {
	entries := []tree.Entry{
		{Name: "beta.txt"},
		{Name: "Alpha", IsDirectory: true},
		{Name: "alpha.txt"},
		{Name: "Charlie.txt"},
		{Name: "bravo", IsDirectory: true},
	}
	tree.SortEntries(entries)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	expected := []string{"Alpha", "bravo", "alpha.txt", "beta.txt", "Charlie.txt"}
	if !reflect.DeepEqual(names, expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, names)
	}
}
