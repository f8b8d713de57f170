// Package glyph extracts icon outlines from a symbol font.
package glyph

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const (
	errorLoadFontFormat  = "%w: %s: %w"
	errorParseFontFormat = "%w: %w"
	errorLoadGlyphFormat = "load glyph %d: %w"
)

// ErrFontLoad marks a font that could not be read or parsed.
var ErrFontLoad = errors.New("font load failed")

// Face is the subset of a parsed font the outline cache needs.
type Face interface {
	// GlyphIndex resolves a code point through the font's character map. ok is false when unmapped.
	GlyphIndex(character rune) (index sfnt.GlyphIndex, ok bool)
	// Outline draws a glyph as an SVG path in font units with the Y axis pointing up.
	Outline(index sfnt.GlyphIndex) (string, error)
	// UnitsPerEm is the size of the font's design grid.
	UnitsPerEm() int
}

// SfntFace is a Face backed by golang.org/x/image/font/sfnt.
// It is not safe for concurrent use.
type SfntFace struct {
	font   *sfnt.Font
	buffer sfnt.Buffer
}

// LoadFace reads and parses a TrueType or OpenType font file.
//
// #nosec G304
func LoadFace(fontFilePath string) (*SfntFace, error) {
	content, readError := os.ReadFile(fontFilePath)
	if readError != nil {
		return nil, fmt.Errorf(errorLoadFontFormat, ErrFontLoad, fontFilePath, readError)
	}
	face, parseError := ParseFace(content)
	if parseError != nil {
		return nil, fmt.Errorf("%s: %w", fontFilePath, parseError)
	}
	return face, nil
}

// ParseFace parses font bytes already in memory.
func ParseFace(content []byte) (*SfntFace, error) {
	parsed, parseError := sfnt.Parse(content)
	if parseError != nil {
		return nil, fmt.Errorf(errorParseFontFormat, ErrFontLoad, parseError)
	}
	return &SfntFace{font: parsed}, nil
}

// GlyphIndex implements Face.
func (face *SfntFace) GlyphIndex(character rune) (sfnt.GlyphIndex, bool) {
	index, indexError := face.font.GlyphIndex(&face.buffer, character)
	if indexError != nil || index == 0 {
		return 0, false
	}
	return index, true
}

// UnitsPerEm implements Face.
func (face *SfntFace) UnitsPerEm() int {
	return int(face.font.UnitsPerEm())
}

// Outline implements Face.
func (face *SfntFace) Outline(index sfnt.GlyphIndex) (string, error) {
	pixelsPerEm := fixed.I(face.UnitsPerEm())
	segments, loadError := face.font.LoadGlyph(&face.buffer, index, pixelsPerEm, nil)
	if loadError != nil {
		return "", fmt.Errorf(errorLoadGlyphFormat, index, loadError)
	}
	return segmentsToPath(segments), nil
}

// segmentsToPath converts sfnt segments, which are Y-down, into a Y-up path.
func segmentsToPath(segments sfnt.Segments) string {
	var builder strings.Builder
	contourOpen := false
	for _, segment := range segments {
		switch segment.Op {
		case sfnt.SegmentOpMoveTo:
			if contourOpen {
				builder.WriteString("Z")
			}
			contourOpen = true
			writeCommand(&builder, "M", segment.Args[:1])
		case sfnt.SegmentOpLineTo:
			writeCommand(&builder, "L", segment.Args[:1])
		case sfnt.SegmentOpQuadTo:
			writeCommand(&builder, "Q", segment.Args[:2])
		case sfnt.SegmentOpCubeTo:
			writeCommand(&builder, "C", segment.Args[:3])
		}
	}
	if contourOpen {
		builder.WriteString("Z")
	}
	return builder.String()
}

func writeCommand(builder *strings.Builder, command string, points []fixed.Point26_6) {
	builder.WriteString(command)
	for pointIndex, point := range points {
		if pointIndex > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(formatUnits(point.X))
		builder.WriteByte(' ')
		builder.WriteString(formatUnits(-point.Y))
	}
}

func formatUnits(value fixed.Int26_6) string {
	return strconv.FormatFloat(float64(value)/64, 'f', -1, 64)
}
