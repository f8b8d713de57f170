// Package preview turns file contents into self-contained preview payloads.
package preview

import (
	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/highlight"
)

// Defaults for preview sizing.
const (
	DefaultMaxLines      = 20
	DefaultMaxBytes      = 1 << 20
	DefaultMaxMediaBytes = 10 << 20
	DefaultFontSize      = 12.0
	DefaultLineHeight    = 16.0

	// characterAdvanceRatio approximates a monospace advance as a fraction of the font size.
	characterAdvanceRatio = 0.7

	themeKeyStyle         = "style"
	themeKeyMaxLines      = "max_lines"
	themeKeyMaxBytes      = "max_bytes"
	themeKeyMaxMediaBytes = "max_media_bytes"
)

// Options configures a Generator.
type Options struct {
	// MaxLines limits text previews to their leading lines.
	MaxLines int
	// MaxBytes is the largest text file that gets a preview at all.
	MaxBytes int64
	// MaxMediaBytes caps embedded audio and video.
	MaxMediaBytes int64
	// EmbedMedia produces Media payloads instead of placeholders for audio and video.
	EmbedMedia bool
	FontSize   float64
	LineHeight float64
	Tokenizer  highlight.Tokenizer
	Palette    highlight.Palette
}

// DefaultOptions returns options with chroma tokenization and the default style.
func DefaultOptions() Options {
	return Options{
		MaxLines:      DefaultMaxLines,
		MaxBytes:      DefaultMaxBytes,
		MaxMediaBytes: DefaultMaxMediaBytes,
		FontSize:      DefaultFontSize,
		LineHeight:    DefaultLineHeight,
		Tokenizer:     highlight.ChromaTokenizer{},
		Palette:       highlight.NewPalette(highlight.DefaultStyle, highlight.DefaultColor),
	}
}

// OptionsFromTheme reads the preview section of a theme on top of DefaultOptions.
func OptionsFromTheme(theme config.Theme, tokenizer highlight.Tokenizer) Options {
	options := DefaultOptions()
	options.MaxLines = theme.Int(config.SectionPreview, themeKeyMaxLines, DefaultMaxLines)
	options.MaxBytes = int64(theme.Int(config.SectionPreview, themeKeyMaxBytes, DefaultMaxBytes))
	options.MaxMediaBytes = int64(theme.Int(config.SectionPreview, themeKeyMaxMediaBytes, DefaultMaxMediaBytes))
	defaultColor := theme.String(config.SectionColors, "text_file", highlight.DefaultColor)
	options.Palette = highlight.NewPalette(theme.String(config.SectionPreview, themeKeyStyle, highlight.DefaultStyle), defaultColor)
	if tokenizer != nil {
		options.Tokenizer = tokenizer
	}
	return options
}

func (options Options) characterAdvance() float64 {
	return options.FontSize * characterAdvanceRatio
}
