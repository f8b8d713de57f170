// Package output serializes a laid out tree as a standalone SVG image or an interactive HTML page.
package output

import (
	"github.com/temirov/svgtree/internal/glyph"
	"github.com/temirov/svgtree/internal/icons"
	"github.com/temirov/svgtree/internal/layout"
	"github.com/temirov/svgtree/internal/types"
)

// Document is everything a serializer needs: positioned rows, icon outlines and styling.
type Document struct {
	// Title is usually the scan root's base name.
	Title  string
	Layout layout.Layout
	Glyphs *glyph.Cache
	Style  Style
	// Collapsed starts the interactive document with every directory closed.
	Collapsed bool
}

// outlineFor returns the cached outline of a row's icon.
func (document Document) outlineFor(row types.RenderRow) glyph.Outline {
	if document.Glyphs == nil {
		return glyph.Outline{}
	}
	return document.Glyphs.Outline(icons.Glyph(row.Icon.IconID))
}

// collectOutlines extracts every icon used by the rows so the definitions can
// be written ahead of the rows that reference them.
func (document Document) collectOutlines() []glyph.Outline {
	if document.Glyphs == nil {
		return nil
	}
	for _, row := range document.Layout.Rows {
		document.outlineFor(row)
	}
	return document.Glyphs.Used()
}

func (document Document) unitsPerEm() float64 {
	if document.Glyphs == nil {
		return 0
	}
	return float64(document.Glyphs.UnitsPerEm())
}
