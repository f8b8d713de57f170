// Package types defines every cross‑package data structure used by the svgtree CLI.
package types

const (
	// RootDepth is the depth of the scan root. Its immediate children are depth 0.
	RootDepth = -1

	OutputSVG  = "svg"
	OutputPNG  = "png"
	OutputHTML = "html"

	MimeTypePNG = "image/png"
)

// TreeEntry is one filesystem node in the immutable scan result.
// A parent exclusively owns its children; there are no back references.
type TreeEntry struct {
	Name     string
	Path     string
	Depth    int
	IsDir    bool
	IsLast   bool
	Children []*TreeEntry
}

// FlatEntry is a TreeEntry in render order together with the is-last bit of
// every strict ancestor, outermost first.
type FlatEntry struct {
	Entry        *TreeEntry
	AncestorLast []bool
}

// IconAssignment is the icon identifier and color chosen for an entry.
type IconAssignment struct {
	IconID string
	Color  string
}

// PayloadKind tags the variant carried by a Payload.
type PayloadKind int

const (
	PayloadImage PayloadKind = iota
	PayloadCode
	PayloadPlaceholder
	PayloadMedia
)

// Payload is a self-contained preview of one file's content.
// Exactly one of Image, Code, Placeholder, Media is set, matching Kind.
type Payload struct {
	Kind        PayloadKind
	Path        string
	Image       *ImagePayload
	Code        *CodePayload
	Placeholder *PlaceholderPayload
	Media       *MediaPayload
}

// ImagePayload embeds the raw bytes of an image file.
type ImagePayload struct {
	PixelWidth    int
	PixelHeight   int
	DisplayWidth  int
	DisplayHeight int
	EncodedBytes  []byte
	MimeType      string
}

// CodeSegment is a run of text drawn in a single color. It never spans a line break.
type CodeSegment struct {
	Color string
	Text  string
}

// CodeLine is one line of a highlighted text preview.
type CodeLine []CodeSegment

// CodePayload is a syntax highlighted text preview.
type CodePayload struct {
	Lines       []CodeLine
	PixelWidth  float64
	PixelHeight float64
}

// PlaceholderPayload stands in for content that is not rendered.
type PlaceholderPayload struct {
	Label       string
	IsError     bool
	PixelWidth  float64
	PixelHeight float64
}

// MediaPayload embeds an audio or video file for document outputs.
type MediaPayload struct {
	MimeType     string
	EncodedBytes []byte
	IsVideo      bool
	PixelWidth   float64
	PixelHeight  float64
}

// Size returns the width and height the payload occupies once rendered.
func (payload *Payload) Size() (float64, float64) {
	if payload == nil {
		return 0, 0
	}
	switch payload.Kind {
	case PayloadImage:
		return float64(payload.Image.DisplayWidth + 2*ImageBoxPadding), float64(payload.Image.DisplayHeight + 2*ImageBoxPadding)
	case PayloadCode:
		return payload.Code.PixelWidth, payload.Code.PixelHeight
	case PayloadPlaceholder:
		return payload.Placeholder.PixelWidth, payload.Placeholder.PixelHeight
	case PayloadMedia:
		return payload.Media.PixelWidth, payload.Media.PixelHeight
	default:
		return 0, 0
	}
}

// ImageBoxPadding is the gap between an image preview and its background box.
const ImageBoxPadding = 10

// Point is a position on the canvas.
type Point struct {
	X float64
	Y float64
}

// Segment is a straight connector line.
type Segment struct {
	From Point
	To   Point
}

// RenderRow is one laid out row. Entry is the scan root for the first row.
// Middle is the vertical center of the label line, which differs from the
// center of the row when a preview hangs below it.
type RenderRow struct {
	Entry      *TreeEntry
	IsRoot     bool
	Icon       IconAssignment
	Preview    *Payload
	Top        float64
	Height     float64
	Middle     float64
	IndentX    float64
	IconX      float64
	LabelX     float64
	LabelWidth float64
	Connectors []Segment
	PreviewAt  Point
	// Guide is the dashed polyline from the icon to the preview. Empty without a preview.
	Guide []Point
}
