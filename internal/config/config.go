// Package config loads themes, application configuration, and ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/temirov/svgtree/internal/utils"
)

const gitDirectoryPattern = utils.GitDirectoryName + "/"

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadCombinedIgnorePatterns aggregates patterns from the .ignore and .gitignore files of a directory
// when useIgnoreFiles is set, adds the .git directory, and appends exclusionPatterns.
func LoadCombinedIgnorePatterns(absoluteDirectoryPath string, exclusionPatterns []string, useIgnoreFiles bool) ([]string, error) {
	var combinedPatterns []string

	if useIgnoreFiles {
		for _, fileName := range []string{utils.IgnoreFileName, utils.GitIgnoreFileName} {
			filePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(absoluteDirectoryPath, fileName))
			if loadError != nil {
				return nil, fmt.Errorf("loading %s from %s: %w", fileName, absoluteDirectoryPath, loadError)
			}
			combinedPatterns = append(combinedPatterns, filePatterns...)
		}
		combinedPatterns = append(combinedPatterns, gitDirectoryPattern)
	}

	deduplicatedFilePatterns := utils.DeduplicatePatterns(combinedPatterns)

	for _, pattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !slices.Contains(deduplicatedFilePatterns, trimmedPattern) {
			deduplicatedFilePatterns = append(deduplicatedFilePatterns, trimmedPattern)
		}
	}

	return deduplicatedFilePatterns, nil
}
