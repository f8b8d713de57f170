// Package utils contains general helper functions used across svgtree.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"

	// GitDirectoryName is the Git metadata directory.
	GitDirectoryName = ".git"
	patternSeparator = ","
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// SplitPatterns expands comma-separated pattern lists, trimming whitespace and
// dropping empty items. Each input value may itself hold several patterns.
func SplitPatterns(values []string) []string {
	var patterns []string
	for _, value := range values {
		for _, item := range strings.Split(value, patternSeparator) {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" {
				continue
			}
			patterns = append(patterns, trimmed)
		}
	}
	return DeduplicatePatterns(patterns)
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)
	if cleanPath == cleanAbsoluteRoot {
		return "."
	}
	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ReplaceExtension swaps the extension of path for newExtension when the
// current extension is one of fromExtensions. Other paths are returned unchanged.
func ReplaceExtension(path string, newExtension string, fromExtensions ...string) string {
	currentExtension := strings.ToLower(filepath.Ext(path))
	for _, candidate := range fromExtensions {
		if currentExtension == candidate {
			return strings.TrimSuffix(path, filepath.Ext(path)) + newExtension
		}
	}
	return path
}
