package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/utils"
)

const textFileName = "sample.txt"

func TestDeduplicatePatterns(t *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{testName: "removes duplicates", patterns: []string{"a", "b", "a"}, expected: []string{"a", "b"}},
		{testName: "keeps unique", patterns: []string{"a", "b"}, expected: []string{"a", "b"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			require.Equal(t, testCase.expected, utils.DeduplicatePatterns(testCase.patterns))
		})
	}
}

func TestSplitPatterns(t *testing.T) {
	testCases := []struct {
		testName string
		values   []string
		expected []string
	}{
		{testName: "comma separated", values: []string{"*.jpg, .git"}, expected: []string{"*.jpg", ".git"}},
		{testName: "repeated flags", values: []string{"a", "b,a"}, expected: []string{"a", "b"}},
		{testName: "empty items dropped", values: []string{" , ,x,"}, expected: []string{"x"}},
		{testName: "nothing", values: nil, expected: []string{}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			require.Equal(t, testCase.expected, utils.SplitPatterns(testCase.values))
		})
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	temporaryRoot := t.TempDir()
	subPath := filepath.Join(temporaryRoot, textFileName)
	require.NoError(t, os.WriteFile(subPath, []byte("content"), 0o600))

	require.Equal(t, ".", utils.RelativePathOrSelf(temporaryRoot, temporaryRoot))
	require.Equal(t, textFileName, utils.RelativePathOrSelf(subPath, temporaryRoot))
}

func TestReplaceExtension(t *testing.T) {
	require.Equal(t, "tree.html", utils.ReplaceExtension("tree.svg", ".html", ".svg", ".png"))
	require.Equal(t, "tree.html", utils.ReplaceExtension("tree.PNG", ".html", ".svg", ".png"))
	require.Equal(t, "tree.out", utils.ReplaceExtension("tree.out", ".html", ".svg", ".png"))
}

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{testName: "empty is never binary", data: nil, expected: false},
		{testName: "plain text", data: []byte("hello\nworld"), expected: false},
		{testName: "nul byte", data: []byte("ab\x00cd"), expected: true},
		{testName: "invalid utf8 without nul", data: []byte{0xff, 0xfe, 0x41}, expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			require.Equal(t, testCase.expected, utils.IsBinary(testCase.data))
		})
	}
}

func TestIsBinaryOnlyInspectsLeadingChunk(t *testing.T) {
	data := make([]byte, utils.SniffLength+16)
	for index := range data {
		data[index] = 'a'
	}
	data[utils.SniffLength+4] = 0
	require.False(t, utils.IsBinary(data))

	data[utils.SniffLength-1] = 0
	require.True(t, utils.IsBinary(data))
}

func TestReadHead(t *testing.T) {
	rootDirectory := t.TempDir()
	samplePath := filepath.Join(rootDirectory, textFileName)
	require.NoError(t, os.WriteFile(samplePath, []byte("0123456789"), 0o600))

	head, readError := utils.ReadHead(samplePath, 4)
	require.NoError(t, readError)
	require.Equal(t, []byte("0123"), head)

	whole, readError := utils.ReadHead(samplePath, 64)
	require.NoError(t, readError)
	require.Equal(t, []byte("0123456789"), whole)

	_, readError = utils.ReadHead(filepath.Join(rootDirectory, "missing"), 4)
	require.Error(t, readError)
}
