package preview_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/highlight"
	"github.com/temirov/svgtree/internal/preview"
	"github.com/temirov/svgtree/internal/types"
)

func writeFile(t *testing.T, directory string, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(directory, name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func encodePNG(t *testing.T, width int, height int) []byte {
	t.Helper()
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buffer.Bytes()
}

func TestClassifySingleLinePython(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.py", []byte("print('hello')\n"))

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.NotNil(t, payload)
	require.Equal(t, types.PayloadCode, payload.Kind)
	require.Len(t, payload.Code.Lines, 1)
	require.Equal(t, path, payload.Path)

	var text strings.Builder
	for _, segment := range payload.Code.Lines[0] {
		require.NotContains(t, segment.Text, "\n")
		require.True(t, strings.HasPrefix(segment.Color, "#"))
		text.WriteString(segment.Text)
	}
	require.Equal(t, "print('hello')", text.String())
}

func TestClassifyCodeDimensions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", []byte("short\n"+strings.Repeat("x", 50)+"\n"))

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Equal(t, types.PayloadCode, payload.Kind)
	require.InDelta(t, 50*12*0.7+30, payload.Code.PixelWidth, 0.001)
	require.InDelta(t, 16*3+10, payload.Code.PixelHeight, 0.001)

	tiny := writeFile(t, t.TempDir(), "tiny.txt", []byte("x\n"))
	require.Equal(t, 200.0, preview.NewGenerator(preview.DefaultOptions()).Classify(tiny).Code.PixelWidth)
}

func TestClassifyLimitsLines(t *testing.T) {
	var content strings.Builder
	for lineIndex := 0; lineIndex < 30; lineIndex++ {
		content.WriteString("line\n")
	}
	path := writeFile(t, t.TempDir(), "long.txt", []byte(content.String()))

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Len(t, payload.Code.Lines, preview.DefaultMaxLines)
}

func TestClassifyNulNeverYieldsCode(t *testing.T) {
	directory := t.TempDir()
	content := append([]byte("def main():\n"), 0, 'x')
	for _, name := range []string{"a.py", "blob.dat", "plain"} {
		path := writeFile(t, directory, name, content)
		payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
		require.NotNil(t, payload, name)
		require.NotEqual(t, types.PayloadCode, payload.Kind, name)
		require.Equal(t, types.PayloadPlaceholder, payload.Kind, name)
		require.False(t, payload.Placeholder.IsError, name)
	}
}

func TestClassifyNulAfterSniffWindowIsText(t *testing.T) {
	content := append(bytes.Repeat([]byte("a"), 9*1024), 0)
	path := writeFile(t, t.TempDir(), "late.txt", content)

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Equal(t, types.PayloadCode, payload.Kind)
}

func TestClassifyEmptyFileIsNotBinary(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", nil)

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Equal(t, types.PayloadCode, payload.Kind)
	require.Empty(t, payload.Code.Lines)
}

func TestClassifyIsDeterministic(t *testing.T) {
	directory := t.TempDir()
	paths := []string{
		writeFile(t, directory, "main.go", []byte("package main\n\nfunc main() {}\n")),
		writeFile(t, directory, "pic.png", encodePNG(t, 40, 30)),
		writeFile(t, directory, "blob.bin", []byte{1, 0, 2}),
	}
	generator := preview.NewGenerator(preview.DefaultOptions())
	for _, path := range paths {
		first := generator.Classify(path)
		second := generator.Classify(path)
		require.Equal(t, first.Kind, second.Kind)
		firstWidth, firstHeight := first.Size()
		secondWidth, secondHeight := second.Size()
		require.Equal(t, firstWidth, secondWidth)
		require.Equal(t, firstHeight, secondHeight)
	}
}

func TestClassifyImage(t *testing.T) {
	content := encodePNG(t, 700, 100)
	path := writeFile(t, t.TempDir(), "wide.png", content)

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Equal(t, types.PayloadImage, payload.Kind)
	require.Equal(t, 700, payload.Image.PixelWidth)
	require.Equal(t, 100, payload.Image.PixelHeight)
	require.Equal(t, 350, payload.Image.DisplayWidth)
	require.Equal(t, 50, payload.Image.DisplayHeight)
	require.Equal(t, "image/png", payload.Image.MimeType)
	require.Equal(t, content, payload.Image.EncodedBytes)

	width, height := payload.Size()
	require.Equal(t, 370.0, width)
	require.Equal(t, 70.0, height)
}

func TestClassifyUndecodableImageUsesFallbackSize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.png", []byte("definitely not a png"))

	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Equal(t, types.PayloadImage, payload.Kind)
	require.Equal(t, preview.ImageFallbackSize, payload.Image.PixelWidth)
	require.Equal(t, preview.ImageFallbackSize, payload.Image.PixelHeight)
}

func TestClassifySVGDimensions(t *testing.T) {
	directory := t.TempDir()
	sized := writeFile(t, directory, "sized.svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="64px" height="32"></svg>`))
	viewBox := writeFile(t, directory, "viewbox.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 500 1000"></svg>`))

	generator := preview.NewGenerator(preview.DefaultOptions())
	sizedPayload := generator.Classify(sized)
	require.Equal(t, types.PayloadImage, sizedPayload.Kind)
	require.Equal(t, 64, sizedPayload.Image.PixelWidth)
	require.Equal(t, 32, sizedPayload.Image.PixelHeight)

	viewBoxPayload := generator.Classify(viewBox)
	require.Equal(t, 500, viewBoxPayload.Image.PixelWidth)
	require.Equal(t, 125, viewBoxPayload.Image.DisplayWidth)
	require.Equal(t, 250, viewBoxPayload.Image.DisplayHeight)
}

func TestClassifyOversizedTextIsSkipped(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.txt", bytes.Repeat([]byte("a\n"), 64))
	options := preview.DefaultOptions()
	options.MaxBytes = 16

	require.Nil(t, preview.NewGenerator(options).Classify(path))
}

func TestClassifyMedia(t *testing.T) {
	content := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 64)...)
	path := writeFile(t, t.TempDir(), "song.mp3", content)

	placeholder := preview.NewGenerator(preview.DefaultOptions()).Classify(path)
	require.Equal(t, types.PayloadPlaceholder, placeholder.Kind)
	require.True(t, strings.HasPrefix(placeholder.Placeholder.Label, "audio"))

	embedding := preview.DefaultOptions()
	embedding.EmbedMedia = true
	embedded := preview.NewGenerator(embedding).Classify(path)
	require.Equal(t, types.PayloadMedia, embedded.Kind)
	require.False(t, embedded.Media.IsVideo)
	require.Equal(t, content, embedded.Media.EncodedBytes)

	embedding.MaxMediaBytes = 8
	tooLarge := preview.NewGenerator(embedding).Classify(path)
	require.Equal(t, types.PayloadPlaceholder, tooLarge.Kind)
	require.True(t, tooLarge.Placeholder.IsError)
	require.True(t, strings.HasPrefix(tooLarge.Placeholder.Label, "too large"))
}

func TestClassifyMissingFileIsErrorPlaceholder(t *testing.T) {
	payload := preview.NewGenerator(preview.DefaultOptions()).Classify(filepath.Join(t.TempDir(), "gone.txt"))
	require.Equal(t, types.PayloadPlaceholder, payload.Kind)
	require.True(t, payload.Placeholder.IsError)
	require.True(t, strings.HasPrefix(payload.Placeholder.Label, "error: "))
}

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "hello", expected: "hello"},
		{name: "control characters", input: "a\x00b\x07c\x1b", expected: "abc"},
		{name: "carriage return", input: "a\r\nb", expected: "a\nb"},
		{name: "tab", input: "\tx", expected: "    x"},
		{name: "invalid utf8 and surrogate bytes", input: "ok\xff\xed\xa0\x80!", expected: "ok!"},
		{name: "noncharacters", input: "a\uFFFEb\uFFFF", expected: "ab"},
		{name: "unicode kept", input: "héllo 世界", expected: "héllo 世界"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, preview.Sanitize(testCase.input))
		})
	}
}

func TestBuildLinesSplitsAtLineBreaks(t *testing.T) {
	palette := highlight.NewPalette("monokai", "#abb2bf")
	tokens := []highlight.Token{
		{Type: chroma.Keyword, Value: "if"},
		{Type: chroma.Text, Value: " x\n\n  y"},
		{Type: chroma.Text, Value: "z\n"},
	}

	lines := preview.BuildLines(tokens, palette)
	require.Len(t, lines, 3)
	require.Len(t, lines[0], 2)
	require.Equal(t, "if", lines[0][0].Text)
	require.Empty(t, lines[1])
	require.Len(t, lines[2], 1, "same colored neighbours merge")
	require.Equal(t, "  yz", lines[2][0].Text)
}

func TestFitWithin(t *testing.T) {
	testCases := []struct {
		width, height                 int
		expectedWidth, expectedHeight int
	}{
		{width: 100, height: 100, expectedWidth: 100, expectedHeight: 100},
		{width: 700, height: 100, expectedWidth: 350, expectedHeight: 50},
		{width: 100, height: 1000, expectedWidth: 25, expectedHeight: 250},
		{width: 0, height: 10, expectedWidth: 0, expectedHeight: 0},
	}
	for _, testCase := range testCases {
		width, height := preview.FitWithin(testCase.width, testCase.height, 350, 250)
		require.Equal(t, testCase.expectedWidth, width)
		require.Equal(t, testCase.expectedHeight, height)
	}
}

type panickingClassifier struct {
	generator *preview.Generator
	panicOn   string
}

func (classifier panickingClassifier) Classify(filePath string) *types.Payload {
	if filepath.Base(filePath) == classifier.panicOn {
		panic("tokenizer exploded")
	}
	return classifier.generator.Classify(filePath)
}

func TestGenerateAllJoinsByPathAndIsolatesFailures(t *testing.T) {
	directory := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		paths = append(paths, writeFile(t, directory, name, []byte(name+"\n")))
	}
	classifier := panickingClassifier{generator: preview.NewGenerator(preview.DefaultOptions()), panicOn: "c.txt"}

	results := preview.GenerateAll(context.Background(), classifier, paths)
	require.Len(t, results, 4)
	for _, path := range paths {
		payload := results[path]
		require.NotNil(t, payload)
		require.Equal(t, path, payload.Path)
		if filepath.Base(path) == "c.txt" {
			require.Equal(t, types.PayloadPlaceholder, payload.Kind)
			require.True(t, payload.Placeholder.IsError)
			continue
		}
		require.Equal(t, types.PayloadCode, payload.Kind)
		require.Equal(t, filepath.Base(path), payload.Code.Lines[0][0].Text)
	}
}

func TestGenerateAllOmitsSkippedFiles(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.txt", bytes.Repeat([]byte("a"), 100))
	options := preview.DefaultOptions()
	options.MaxBytes = 10

	results := preview.GenerateAll(context.Background(), preview.NewGenerator(options), []string{path})
	_, present := results[path]
	require.False(t, present)
}
