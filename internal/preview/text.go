package preview

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/temirov/svgtree/internal/highlight"
	"github.com/temirov/svgtree/internal/types"
)

const (
	codeMinWidth          = 200.0
	codeHorizontalPadding = 30.0
	codeBottomPadding     = 10.0
	tabReplacement        = "    "
	lineBreak             = "\n"

	errorTokenizeFormat = "tokenize %s: %w"
)

func (generator *Generator) codePayload(filePath string) (*types.Payload, error) {
	content, readError := readLeadingLines(filePath, generator.options.MaxLines, generator.options.MaxBytes)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFormat, filePath, readError)
	}
	text := Sanitize(string(content))
	tokens, tokenizeError := generator.options.Tokenizer.Tokenize(filepath.Base(filePath), text)
	if tokenizeError != nil {
		return nil, fmt.Errorf(errorTokenizeFormat, filePath, tokenizeError)
	}
	lines := BuildLines(tokens, generator.options.Palette)
	if len(lines) > generator.options.MaxLines {
		lines = lines[:generator.options.MaxLines]
	}
	width, height := generator.codeSize(lines)
	return &types.Payload{
		Kind: types.PayloadCode,
		Path: filePath,
		Code: &types.CodePayload{Lines: lines, PixelWidth: width, PixelHeight: height},
	}, nil
}

// codeSize derives the box size from the longest line and the line count. The first
// baseline sits one line height below the top.
func (generator *Generator) codeSize(lines []types.CodeLine) (float64, float64) {
	longest := 0
	for _, line := range lines {
		lineWidth := 0
		for _, segment := range line {
			lineWidth += runewidth.StringWidth(segment.Text)
		}
		longest = max(longest, lineWidth)
	}
	width := max(float64(longest)*generator.options.characterAdvance()+codeHorizontalPadding, codeMinWidth)
	height := generator.options.LineHeight*float64(len(lines)+1) + codeBottomPadding
	return width, height
}

// readLeadingLines reads at most maxLines lines and never more than maxBytes bytes.
//
// #nosec G304
func readLeadingLines(filePath string, maxLines int, maxBytes int64) ([]byte, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	content, readError := io.ReadAll(io.LimitReader(fileHandle, maxBytes))
	if readError != nil {
		return nil, readError
	}
	offset := 0
	for lineIndex := 0; lineIndex < maxLines; lineIndex++ {
		next := bytes.IndexByte(content[offset:], '\n')
		if next < 0 {
			return content, nil
		}
		offset += next + 1
	}
	return content[:offset], nil
}

// Sanitize drops characters that cannot appear in XML text: invalid UTF-8
// (which covers unpaired surrogates), control characters other than tab and
// newline, and the noncharacters U+FFFE and U+FFFF. Tabs expand to spaces and
// carriage returns are removed.
func Sanitize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	var builder strings.Builder
	builder.Grow(len(text))
	for _, character := range text {
		switch {
		case character == '\n':
			builder.WriteRune(character)
		case character == '\t':
			builder.WriteString(tabReplacement)
		case character == 0xFFFE || character == 0xFFFF:
		case unicode.IsControl(character):
		default:
			builder.WriteRune(character)
		}
	}
	return builder.String()
}

// BuildLines splits tokens at line breaks and groups them into colored lines.
// Adjacent segments of the same color are merged and a trailing newline does
// not produce an empty last line.
func BuildLines(tokens []highlight.Token, palette highlight.Palette) []types.CodeLine {
	var lines []types.CodeLine
	current := types.CodeLine{}
	for _, token := range tokens {
		color := palette.ColorFor(token.Type)
		pieces := strings.Split(token.Value, lineBreak)
		for pieceIndex, piece := range pieces {
			if pieceIndex > 0 {
				lines = append(lines, current)
				current = types.CodeLine{}
			}
			if piece == "" {
				continue
			}
			if last := len(current) - 1; last >= 0 && current[last].Color == color {
				current[last].Text += piece
				continue
			}
			current = append(current, types.CodeSegment{Color: color, Text: piece})
		}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}
