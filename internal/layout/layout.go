// Package layout computes row geometry for a flattened tree.
package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/types"
)

const (
	// columnInset pulls a connector column left of the indent cell's center.
	columnInset = 4

	themeKeyRowHeight     = "row_height"
	themeKeyPadding       = "padding"
	themeKeyIndentPixels  = "indent_pixels"
	themeKeyFontSize      = "font_size"
	themeKeyIconSize      = "icon_size"
	themeKeyStubLength    = "stub_length"
	themeKeyLabelGap      = "label_gap"
	themeKeyCharWidth     = "char_width"
	themeKeyPreviewMargin = "preview_margin"
)

// Metrics are the fixed pixel sizes of the layout.
type Metrics struct {
	RowHeight     float64
	Padding       float64
	IndentUnit    float64
	FontSize      float64
	IconSize      float64
	StubLength    float64
	LabelGap      float64
	CharWidth     float64
	PreviewMargin float64
}

// DefaultMetrics returns the built-in layout sizes.
func DefaultMetrics() Metrics {
	return Metrics{
		RowHeight:     30,
		Padding:       40,
		IndentUnit:    24,
		FontSize:      14,
		IconSize:      16,
		StubLength:    12,
		LabelGap:      8,
		CharWidth:     10,
		PreviewMargin: 10,
	}
}

// MetricsFromTheme reads the layout section of a theme over DefaultMetrics.
func MetricsFromTheme(theme config.Theme) Metrics {
	defaults := DefaultMetrics()
	return Metrics{
		RowHeight:     theme.Float(config.SectionLayout, themeKeyRowHeight, defaults.RowHeight),
		Padding:       theme.Float(config.SectionLayout, themeKeyPadding, defaults.Padding),
		IndentUnit:    theme.Float(config.SectionLayout, themeKeyIndentPixels, defaults.IndentUnit),
		FontSize:      theme.Float(config.SectionLayout, themeKeyFontSize, defaults.FontSize),
		IconSize:      theme.Float(config.SectionLayout, themeKeyIconSize, defaults.IconSize),
		StubLength:    theme.Float(config.SectionLayout, themeKeyStubLength, defaults.StubLength),
		LabelGap:      theme.Float(config.SectionLayout, themeKeyLabelGap, defaults.LabelGap),
		CharWidth:     theme.Float(config.SectionLayout, themeKeyCharWidth, defaults.CharWidth),
		PreviewMargin: theme.Float(config.SectionLayout, themeKeyPreviewMargin, defaults.PreviewMargin),
	}
}

// IconResolver assigns an icon to an entry.
type IconResolver func(entry *types.TreeEntry) types.IconAssignment

// Layout is the positioned document: every row plus the canvas size.
type Layout struct {
	Rows    []types.RenderRow
	Width   float64
	Height  float64
	Metrics Metrics
}

// Compute places the root header row followed by every flattened entry, top to bottom.
// Previews are looked up by entry path.
func Compute(root *types.TreeEntry, flattened []types.FlatEntry, previews map[string]*types.Payload, resolveIcon IconResolver, metrics Metrics) Layout {
	result := Layout{Rows: make([]types.RenderRow, 0, len(flattened)+1), Metrics: metrics}
	top := metrics.Padding
	widest := 0.0

	if root != nil {
		rootRow := metrics.rootRow(root, resolveIcon, top)
		result.Rows = append(result.Rows, rootRow)
		top += rootRow.Height
		widest = rootRow.LabelX + rootRow.LabelWidth
	}

	for _, flat := range flattened {
		row := metrics.entryRow(flat, previews[flat.Entry.Path], resolveIcon, top)
		result.Rows = append(result.Rows, row)
		top += row.Height
		previewWidth, _ := row.Preview.Size()
		widest = max(widest, row.LabelX+row.LabelWidth+previewWidth)
	}

	result.Width = widest + metrics.Padding
	result.Height = top + metrics.Padding
	return result
}

// Column returns the x coordinate of the connector column for depth.
func (metrics Metrics) Column(depth int) float64 {
	return metrics.Padding + float64(depth)*metrics.IndentUnit + metrics.IndentUnit/2 - columnInset
}

// LabelWidth estimates the rendered width of a label.
func (metrics Metrics) LabelWidth(label string) float64 {
	return float64(runewidth.StringWidth(label)) * metrics.CharWidth
}

func (metrics Metrics) rootRow(root *types.TreeEntry, resolveIcon IconResolver, top float64) types.RenderRow {
	iconX := metrics.Padding
	return types.RenderRow{
		Entry:      root,
		IsRoot:     true,
		Icon:       resolve(resolveIcon, root),
		Top:        top,
		Height:     metrics.RowHeight,
		Middle:     top + metrics.RowHeight/2,
		IndentX:    metrics.Padding,
		IconX:      iconX,
		LabelX:     iconX + metrics.IconSize + metrics.LabelGap,
		LabelWidth: metrics.LabelWidth(root.Name),
	}
}

func (metrics Metrics) entryRow(flat types.FlatEntry, payload *types.Payload, resolveIcon IconResolver, top float64) types.RenderRow {
	entry := flat.Entry
	height := metrics.RowHeight
	_, previewHeight := payload.Size()
	if payload != nil {
		height += previewHeight + metrics.PreviewMargin
	}
	middle := top + metrics.RowHeight/2
	bottom := top + height
	column := metrics.Column(entry.Depth)
	iconX := column + metrics.StubLength

	row := types.RenderRow{
		Entry:      entry,
		Icon:       resolve(resolveIcon, entry),
		Preview:    payload,
		Top:        top,
		Height:     height,
		Middle:     middle,
		IndentX:    column,
		IconX:      iconX,
		LabelX:     iconX + metrics.IconSize + metrics.LabelGap,
		LabelWidth: metrics.LabelWidth(entry.Name),
	}

	for ancestorDepth, ancestorIsLast := range flat.AncestorLast {
		if ancestorIsLast {
			continue
		}
		ancestorColumn := metrics.Column(ancestorDepth)
		row.Connectors = append(row.Connectors, types.Segment{
			From: types.Point{X: ancestorColumn, Y: top},
			To:   types.Point{X: ancestorColumn, Y: bottom},
		})
	}
	row.Connectors = append(row.Connectors,
		types.Segment{From: types.Point{X: column, Y: top}, To: types.Point{X: column, Y: middle}},
		types.Segment{From: types.Point{X: column, Y: middle}, To: types.Point{X: iconX, Y: middle}},
	)
	if !entry.IsLast {
		row.Connectors = append(row.Connectors, types.Segment{
			From: types.Point{X: column, Y: middle},
			To:   types.Point{X: column, Y: bottom},
		})
	}

	if payload != nil {
		row.PreviewAt = types.Point{X: row.LabelX, Y: top + metrics.RowHeight}
		guideX := iconX + metrics.IconSize/2
		row.Guide = []types.Point{
			{X: guideX, Y: middle + metrics.IconSize/2},
			{X: guideX, Y: row.PreviewAt.Y + previewHeight/2},
			{X: row.PreviewAt.X, Y: row.PreviewAt.Y + previewHeight/2},
		}
	}
	return row
}

func resolve(resolveIcon IconResolver, entry *types.TreeEntry) types.IconAssignment {
	if resolveIcon == nil {
		return types.IconAssignment{}
	}
	return resolveIcon(entry)
}
