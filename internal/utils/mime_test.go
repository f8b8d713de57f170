package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/utils"
)

func TestDetectMimeType(t *testing.T) {
	pngHead := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	testCases := []struct {
		testName string
		path     string
		head     []byte
		expected string
	}{
		{testName: "sniffed png wins over extension", path: "picture.txt", head: pngHead, expected: "image/png"},
		{testName: "text falls back to extension", path: "style.css", head: []byte("body { color: red; }"), expected: "text/css"},
		{testName: "webp registered by extension", path: "photo.webp", head: []byte("plain"), expected: "image/webp"},
		{testName: "unknown extension keeps sniffed text", path: "notes.unknownext", head: []byte("hello"), expected: "text/plain"},
		{testName: "id3 audio", path: "song", head: []byte("ID3\x03\x00\x00\x00\x00\x00\x00"), expected: "audio/mpeg"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			require.Equal(t, testCase.expected, utils.DetectMimeType(testCase.path, testCase.head))
		})
	}
}
