package ignore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/ignore"
)

func TestMatcherMatches(t *testing.T) {
	testCases := []struct {
		testName  string
		patterns  []string
		candidate string
		expected  bool
	}{
		{testName: "wildcard on bare name", patterns: []string{"*.txt"}, candidate: "c.txt", expected: true},
		{testName: "wildcard on nested relative path", patterns: []string{"*.txt"}, candidate: "b/c.txt", expected: true},
		{testName: "wildcard does not match other extension", patterns: []string{"*.txt"}, candidate: "a.py", expected: false},
		{testName: "directory pattern matches directory", patterns: []string{"node_modules/"}, candidate: "node_modules", expected: true},
		{testName: "directory pattern matches descendants", patterns: []string{"node_modules/"}, candidate: "web/node_modules/index.js", expected: true},
		{testName: "nested directory pattern", patterns: []string{"subdir/node_modules/"}, candidate: "subdir/node_modules/index.js", expected: true},
		{testName: "nested directory pattern elsewhere", patterns: []string{"subdir/node_modules/"}, candidate: "other/subdir/node_modules", expected: false},
		{testName: "backslash pattern normalized", patterns: []string{`subdir\node_modules\`}, candidate: "subdir/node_modules", expected: true},
		{testName: "anchored name only at root", patterns: []string{"/build"}, candidate: "src/build", expected: false},
		{testName: "anchored name at root", patterns: []string{"/build"}, candidate: "build", expected: true},
		{testName: "multi segment path", patterns: []string{"docs/*.md"}, candidate: "docs/readme.md", expected: true},
		{testName: "double star", patterns: []string{"**/testdata/*.golden"}, candidate: "pkg/a/testdata/x.golden", expected: true},
		{testName: "double star covers descendants", patterns: []string{"**/gen"}, candidate: "a/gen/file.go", expected: true},
		{testName: "negation re-includes", patterns: []string{"*.log", "!keep.log"}, candidate: "keep.log", expected: false},
		{testName: "negation leaves others excluded", patterns: []string{"*.log", "!keep.log"}, candidate: "drop.log", expected: true},
		{testName: "comments and blanks ignored", patterns: []string{"# comment", "  "}, candidate: "# comment", expected: false},
		{testName: "dot never matches", patterns: []string{"*"}, candidate: ".", expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			matcher := ignore.Compile(testCase.patterns)
			require.Equal(t, testCase.expected, matcher.Matches(testCase.candidate))
		})
	}
}

func TestMatcherMatchesEntry(t *testing.T) {
	testCases := []struct {
		testName  string
		patterns  []string
		candidate string
		isDir     bool
		expected  bool
	}{
		{testName: "directory pattern skips file of same name", patterns: []string{"build/"}, candidate: "build", isDir: false, expected: false},
		{testName: "directory pattern matches directory", patterns: []string{"build/"}, candidate: "build", isDir: true, expected: true},
		{testName: "directory pattern matches file below directory", patterns: []string{"build/"}, candidate: "build/out.bin", isDir: false, expected: true},
		{testName: "nested directory pattern skips file", patterns: []string{"src/build/"}, candidate: "src/build", isDir: false, expected: false},
		{testName: "double star directory pattern skips file", patterns: []string{"**/gen/"}, candidate: "a/gen", isDir: false, expected: false},
		{testName: "double star directory pattern covers descendants", patterns: []string{"**/gen/"}, candidate: "a/gen/x.go", isDir: false, expected: true},
		{testName: "plain pattern matches file", patterns: []string{"build"}, candidate: "build", isDir: false, expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			matcher := ignore.Compile(testCase.patterns)
			require.Equal(t, testCase.expected, matcher.MatchesEntry(testCase.candidate, testCase.isDir))
		})
	}
}

func TestEmptyMatcher(t *testing.T) {
	var nilMatcher *ignore.Matcher
	require.True(t, nilMatcher.Empty())
	require.False(t, nilMatcher.Matches("anything"))
	require.True(t, ignore.Compile(nil).Empty())
	require.False(t, ignore.Compile([]string{"x"}).Empty())
}
