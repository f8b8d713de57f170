// Package ignore compiles gitignore-style exclude patterns into a pure matcher.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	pathSegmentSeparator = "/"
	negationPrefix       = "!"
	commentPrefix        = "#"
	doubleStar           = "**"
)

type compiledPattern struct {
	segments  []string
	glob      string
	negated   bool
	directory bool
	anchored  bool
	recursive bool
}

// Matcher reports whether a bare name or a root-relative path is excluded.
// It holds no mutable state after Compile returns.
type Matcher struct {
	patterns []compiledPattern
}

// Compile parses patterns. Blank lines and comments are skipped; a leading "!"
// re-includes what an earlier pattern excluded; a trailing "/" matches the
// directory and everything below it; a leading "/" anchors the pattern at the
// scan root.
func Compile(patterns []string) *Matcher {
	matcher := &Matcher{}
	for _, rawPattern := range patterns {
		normalized := strings.TrimSpace(strings.ReplaceAll(rawPattern, "\\", pathSegmentSeparator))
		if normalized == "" || strings.HasPrefix(normalized, commentPrefix) {
			continue
		}
		compiled := compiledPattern{}
		if strings.HasPrefix(normalized, negationPrefix) {
			compiled.negated = true
			normalized = strings.TrimPrefix(normalized, negationPrefix)
		}
		if strings.HasSuffix(normalized, pathSegmentSeparator) {
			compiled.directory = true
			normalized = strings.TrimRight(normalized, pathSegmentSeparator)
		}
		if strings.HasPrefix(normalized, pathSegmentSeparator) {
			compiled.anchored = true
			normalized = strings.TrimLeft(normalized, pathSegmentSeparator)
		}
		if normalized == "" {
			continue
		}
		compiled.glob = normalized
		compiled.segments = strings.Split(normalized, pathSegmentSeparator)
		compiled.recursive = strings.Contains(normalized, doubleStar)
		matcher.patterns = append(matcher.patterns, compiled)
	}
	return matcher
}

// Empty reports whether the matcher can never match.
func (matcher *Matcher) Empty() bool {
	return matcher == nil || len(matcher.patterns) == 0
}

// Matches evaluates a bare name or a path relative to the scan root. The last
// matching pattern decides, so negations can re-include earlier exclusions.
// The final segment may be a directory, so directory-only patterns apply to it.
func (matcher *Matcher) Matches(nameOrRelativePath string) bool {
	return matcher.MatchesEntry(nameOrRelativePath, true)
}

// MatchesEntry is Matches for an entry whose kind is known. Directory-only
// patterns never match a file by its own name, only through a parent directory.
func (matcher *Matcher) MatchesEntry(nameOrRelativePath string, isDir bool) bool {
	if matcher.Empty() {
		return false
	}
	normalizedPath := strings.Trim(filepath.ToSlash(strings.ReplaceAll(nameOrRelativePath, "\\", pathSegmentSeparator)), pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	matched := false
	for _, pattern := range matcher.patterns {
		if pattern.matches(pathSegments, isDir) {
			matched = !pattern.negated
		}
	}
	return matched
}

func (pattern compiledPattern) matches(pathSegments []string, isDir bool) bool {
	// segments before the last are always directories
	directorySegments := len(pathSegments)
	if pattern.directory && !isDir {
		directorySegments--
	}
	if pattern.recursive {
		return pattern.matchesRecursive(pathSegments, directorySegments)
	}
	if pattern.directory {
		if len(pattern.segments) == 1 && !pattern.anchored {
			// unanchored directory name: any directory segment may be the directory
			for _, pathSegment := range pathSegments[:directorySegments] {
				if segmentMatches(pattern.segments[0], pathSegment) {
					return true
				}
			}
			return false
		}
		return directorySegments >= len(pattern.segments) && segmentsMatch(pathSegments[:len(pattern.segments)], pattern.segments)
	}
	if len(pattern.segments) == 1 && !pattern.anchored {
		return segmentMatches(pattern.segments[0], pathSegments[len(pathSegments)-1])
	}
	if len(pathSegments) < len(pattern.segments) {
		return false
	}
	// a path below a matched directory is matched as well
	return segmentsMatch(pathSegments[:len(pattern.segments)], pattern.segments)
}

// matchesRecursive tries every leading sub-path up to longestPrefix so that a
// match on a directory also covers its descendants.
func (pattern compiledPattern) matchesRecursive(pathSegments []string, longestPrefix int) bool {
	glob := pattern.glob
	if !pattern.anchored && !strings.HasPrefix(glob, doubleStar) {
		glob = doubleStar + pathSegmentSeparator + glob
	}
	for prefixLength := longestPrefix; prefixLength > 0; prefixLength-- {
		candidate := strings.Join(pathSegments[:prefixLength], pathSegmentSeparator)
		isMatched, matchError := doublestar.Match(glob, candidate)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

func segmentMatches(patternSegment, pathSegment string) bool {
	isMatched, matchError := filepath.Match(patternSegment, pathSegment)
	return matchError == nil && isMatched
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		if !segmentMatches(patternSegment, pathSegments[segmentIndex]) {
			return false
		}
	}
	return true
}
