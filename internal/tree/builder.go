// Package tree scans a directory into an immutable TreeEntry tree and flattens it into render order.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/svgtree/internal/ignore"
	"github.com/temirov/svgtree/internal/types"
	"github.com/temirov/svgtree/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorStatRootFormat is used when the scan root cannot be inspected.
	errorStatRootFormat = "inspecting scan root %s: %w"
	// errorRootNotDirectoryFormat is used when the scan root is a file.
	errorRootNotDirectoryFormat = "scan root %s is not a directory"
	// warningReadDirectoryFormat is reported when a directory cannot be listed.
	warningReadDirectoryFormat = "skipping unreadable directory %s: %v"
)

// Options controls a scan.
type Options struct {
	// MaxDepth is inclusive. The root's children are depth 0, so a MaxDepth of
	// 0 lists the top level without descending.
	MaxDepth int
	Matcher  *ignore.Matcher
	// Progress is invoked once per visited entry that survived filtering.
	Progress func(entry *types.TreeEntry)
	// Warn receives recovered problems such as unreadable directories.
	Warn func(message string)
}

// Build scans rootDirectoryPath and returns the root entry owning the filtered,
// depth-limited, sorted tree. Unreadable directories yield zero children.
func Build(rootDirectoryPath string, options Options) (*types.TreeEntry, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	rootInfo, statError := os.Stat(absoluteRootPath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, absoluteRootPath)
	}

	rootName := filepath.Base(absoluteRootPath)
	if rootName == string(filepath.Separator) || rootName == "." {
		rootName = absoluteRootPath
	}
	rootEntry := &types.TreeEntry{
		Name:   rootName,
		Path:   absoluteRootPath,
		Depth:  types.RootDepth,
		IsDir:  true,
		IsLast: true,
	}
	builder := &treeBuilder{rootPath: absoluteRootPath, options: options}
	rootEntry.Children = builder.buildChildren(absoluteRootPath, 0)
	return rootEntry, nil
}

type treeBuilder struct {
	rootPath string
	options  Options
}

// buildChildren lists directoryPath and returns its filtered, sorted children at depth.
func (builder *treeBuilder) buildChildren(directoryPath string, depth int) []*types.TreeEntry {
	if depth > builder.options.MaxDepth {
		return nil
	}
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		builder.warn(fmt.Sprintf(warningReadDirectoryFormat, directoryPath, readDirectoryError))
		return nil
	}

	kept := make([]scannedEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		scanned := scannedEntry{name: directoryEntry.Name(), isDir: resolveIsDir(childPath, directoryEntry)}
		if builder.isIgnored(scanned, childPath) {
			continue
		}
		kept = append(kept, scanned)
	}
	sortEntries(kept)

	children := make([]*types.TreeEntry, 0, len(kept))
	for index, scanned := range kept {
		childPath := filepath.Join(directoryPath, scanned.name)
		child := &types.TreeEntry{
			Name:   scanned.name,
			Path:   childPath,
			Depth:  depth,
			IsDir:  scanned.isDir,
			IsLast: index == len(kept)-1,
		}
		if builder.options.Progress != nil {
			builder.options.Progress(child)
		}
		if child.IsDir {
			child.Children = builder.buildChildren(childPath, depth+1)
		}
		children = append(children, child)
	}
	return children
}

// scannedEntry is a listed name with its kind resolved through symlinks.
type scannedEntry struct {
	name  string
	isDir bool
}

// resolveIsDir follows a symlink to report whether it leads to a directory.
// Dangling links are files. Link cycles end at MaxDepth.
func resolveIsDir(childPath string, directoryEntry os.DirEntry) bool {
	if directoryEntry.Type()&os.ModeSymlink == 0 {
		return directoryEntry.IsDir()
	}
	targetInfo, statError := os.Stat(childPath)
	if statError != nil {
		return false
	}
	return targetInfo.IsDir()
}

func (builder *treeBuilder) isIgnored(scanned scannedEntry, childPath string) bool {
	if builder.options.Matcher.Empty() {
		return false
	}
	if builder.options.Matcher.MatchesEntry(scanned.name, scanned.isDir) {
		return true
	}
	return builder.options.Matcher.MatchesEntry(utils.RelativePathOrSelf(childPath, builder.rootPath), scanned.isDir)
}

func (builder *treeBuilder) warn(message string) {
	if builder.options.Warn != nil {
		builder.options.Warn(message)
	}
}

// sortEntries orders directories before files, then names case-insensitively.
func sortEntries(entries []scannedEntry) {
	sort.SliceStable(entries, func(left, right int) bool {
		if entries[left].isDir != entries[right].isDir {
			return entries[left].isDir
		}
		leftName := strings.ToLower(entries[left].name)
		rightName := strings.ToLower(entries[right].name)
		if leftName != rightName {
			return leftName < rightName
		}
		return entries[left].name < entries[right].name
	})
}
