package output

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/temirov/svgtree/internal/types"
)

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"

	classFolder      = "folder"
	classFile        = "file"
	classConnector   = "connector"
	classGuide       = "guide"
	classPreviewBox  = "preview-box"
	classCode        = "code"
	classPlaceholder = "placeholder"
	classError       = "error"

	// iconBaselineRatio moves the glyph baseline below the row middle so the icon looks centered.
	iconBaselineRatio = 0.375

	codeFontSize      = 12.0
	codeLineHeight    = 16.0
	codeTextInset     = 10.0
	codeCornerRadius  = 5.0
	imageCornerRadius = 4.0
	placeholderInset  = 10.0
	clipIDFormat      = "clip-%d"
	dataURIFormat     = "data:%s;base64,%s"
	mediaLabelAudio   = "audio"
	mediaLabelVideo   = "video"
)

// RenderSVG writes document as a standalone SVG image.
func RenderSVG(writer io.Writer, document Document) error {
	if _, err := io.WriteString(writer, xml.Header); err != nil {
		return err
	}
	encoder := &svgEncoder{encoder: xml.NewEncoder(writer)}
	canvas := document.Layout

	encoder.open("svg",
		"xmlns", svgNamespace,
		"xmlns:xlink", xlinkNamespace,
		"width", formatNumber(canvas.Width),
		"height", formatNumber(canvas.Height),
		"viewBox", fmt.Sprintf("0 0 %s %s", formatNumber(canvas.Width), formatNumber(canvas.Height)),
	)

	encoder.open("defs")
	encoder.open("style")
	encoder.text(svgStyleSheet(document.Style))
	encoder.close("style")
	for _, outline := range document.collectOutlines() {
		encoder.empty("path", "id", outline.ID, "d", outline.Path)
	}
	encoder.close("defs")

	encoder.empty("rect", "width", "100%", "height", "100%", "fill", document.Style.Background)

	clipCounter := 0
	for _, row := range canvas.Rows {
		writeSVGRow(encoder, document, row, &clipCounter)
	}

	encoder.close("svg")
	if encoder.err != nil {
		return encoder.err
	}
	if err := encoder.encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(writer, "\n")
	return err
}

func svgStyleSheet(style Style) string {
	rules := []string{
		style.FontFace,
		fmt.Sprintf("text { font-family: %s; font-size: %spx; font-weight: %s; dominant-baseline: middle; }", style.FontStack, formatNumber(style.FontSize), style.FontWeight),
		fmt.Sprintf(".%s { font-weight: bold; fill: %s; }", classFolder, style.TextFolder),
		fmt.Sprintf(".%s { fill: %s; }", classFile, style.TextFile),
		fmt.Sprintf(".%s { stroke: %s; stroke-width: 1; }", classConnector, style.Lines),
		fmt.Sprintf(".%s { stroke: %s; stroke-width: 1; stroke-dasharray: 3 3; fill: none; }", classGuide, style.Guide),
		fmt.Sprintf(".%s { fill: %s; stroke: %s; }", classPreviewBox, style.PreviewBackground, style.PreviewBorder),
		fmt.Sprintf(".%s { font-family: monospace; font-size: %spx; font-weight: normal; dominant-baseline: auto; }", classCode, formatNumber(codeFontSize)),
		fmt.Sprintf(".%s { fill: %s; font-size: %spx; }", classPlaceholder, style.TextFile, formatNumber(codeFontSize)),
		fmt.Sprintf(".%s.%s { fill: #e06c75; }", classPlaceholder, classError),
	}
	return strings.TrimSpace(strings.Join(rules, " "))
}

func writeSVGRow(encoder *svgEncoder, document Document, row types.RenderRow, clipCounter *int) {
	for _, segment := range row.Connectors {
		encoder.empty("line",
			"class", classConnector,
			"x1", formatNumber(segment.From.X), "y1", formatNumber(segment.From.Y),
			"x2", formatNumber(segment.To.X), "y2", formatNumber(segment.To.Y),
		)
	}

	if outline := document.outlineFor(row); outline.Path != "" {
		scale := document.Style.IconSize / document.unitsPerEm()
		baseline := row.Middle + iconBaselineRatio*document.Style.IconSize
		encoder.empty("use",
			"href", "#"+outline.ID,
			"xlink:href", "#"+outline.ID,
			"fill", row.Icon.Color,
			"transform", fmt.Sprintf("translate(%s, %s) scale(%s, %s)", formatNumber(row.IconX), formatNumber(baseline), formatScale(scale), formatScale(-scale)),
		)
	}

	labelClass := classFile
	if row.Entry.IsDir {
		labelClass = classFolder
	}
	encoder.open("text", "class", labelClass, "x", formatNumber(row.LabelX), "y", formatNumber(row.Middle))
	encoder.text(row.Entry.Name)
	encoder.close("text")

	if row.Preview == nil {
		return
	}
	if len(row.Guide) > 1 {
		points := make([]string, 0, len(row.Guide))
		for _, point := range row.Guide {
			points = append(points, formatNumber(point.X)+","+formatNumber(point.Y))
		}
		encoder.empty("polyline", "class", classGuide, "points", strings.Join(points, " "))
	}
	encoder.open("g", "transform", fmt.Sprintf("translate(%s, %s)", formatNumber(row.PreviewAt.X), formatNumber(row.PreviewAt.Y)))
	writeSVGPreview(encoder, row.Preview, clipCounter)
	encoder.close("g")
}

func writeSVGPreview(encoder *svgEncoder, payload *types.Payload, clipCounter *int) {
	width, height := payload.Size()
	switch payload.Kind {
	case types.PayloadImage:
		image := payload.Image
		encoder.empty("rect", "class", classPreviewBox, "width", formatNumber(width), "height", formatNumber(height), "rx", formatNumber(imageCornerRadius), "ry", formatNumber(imageCornerRadius))
		dataURI := fmt.Sprintf(dataURIFormat, image.MimeType, base64.StdEncoding.EncodeToString(image.EncodedBytes))
		encoder.empty("image",
			"x", strconv.Itoa(types.ImageBoxPadding), "y", strconv.Itoa(types.ImageBoxPadding),
			"width", strconv.Itoa(image.DisplayWidth), "height", strconv.Itoa(image.DisplayHeight),
			"href", dataURI,
		)
	case types.PayloadCode:
		*clipCounter++
		clipID := fmt.Sprintf(clipIDFormat, *clipCounter)
		encoder.empty("rect", "class", classPreviewBox, "width", formatNumber(width), "height", formatNumber(height), "rx", formatNumber(codeCornerRadius), "ry", formatNumber(codeCornerRadius))
		encoder.open("clipPath", "id", clipID)
		encoder.empty("rect", "width", formatNumber(width), "height", formatNumber(height), "rx", formatNumber(codeCornerRadius), "ry", formatNumber(codeCornerRadius))
		encoder.close("clipPath")
		encoder.open("g", "clip-path", "url(#"+clipID+")")
		for lineIndex, line := range payload.Code.Lines {
			encoder.open("text", "class", classCode, "x", formatNumber(codeTextInset), "y", formatNumber(codeLineHeight*float64(lineIndex+1)), "xml:space", "preserve")
			for _, segment := range line {
				encoder.open("tspan", "fill", segment.Color)
				encoder.text(segment.Text)
				encoder.close("tspan")
			}
			encoder.close("text")
		}
		encoder.close("g")
	case types.PayloadPlaceholder:
		writeSVGPlaceholder(encoder, payload.Placeholder.Label, payload.Placeholder.IsError, width, height)
	case types.PayloadMedia:
		label := mediaLabelAudio
		if payload.Media.IsVideo {
			label = mediaLabelVideo
		}
		writeSVGPlaceholder(encoder, label, false, width, height)
	}
}

func writeSVGPlaceholder(encoder *svgEncoder, label string, isError bool, width float64, height float64) {
	class := classPlaceholder
	if isError {
		class += " " + classError
	}
	encoder.empty("rect", "class", classPreviewBox, "width", formatNumber(width), "height", formatNumber(height), "rx", formatNumber(imageCornerRadius), "ry", formatNumber(imageCornerRadius))
	encoder.open("text", "class", class, "x", formatNumber(placeholderInset), "y", formatNumber(height/2))
	encoder.text(label)
	encoder.close("text")
}

// svgEncoder wraps xml.Encoder and keeps the first error.
type svgEncoder struct {
	encoder *xml.Encoder
	err     error
}

func (encoder *svgEncoder) open(name string, attributes ...string) {
	encoder.token(startElement(name, attributes))
}

func (encoder *svgEncoder) close(name string) {
	encoder.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (encoder *svgEncoder) empty(name string, attributes ...string) {
	start := startElement(name, attributes)
	encoder.token(start)
	encoder.token(start.End())
}

func (encoder *svgEncoder) text(value string) {
	encoder.token(xml.CharData(value))
}

func (encoder *svgEncoder) token(token xml.Token) {
	if encoder.err != nil {
		return
	}
	encoder.err = encoder.encoder.EncodeToken(token)
}

func startElement(name string, attributes []string) xml.StartElement {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	for index := 0; index+1 < len(attributes); index += 2 {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attributes[index]}, Value: attributes[index+1]})
	}
	return start
}

// formatNumber rounds to three decimals and drops trailing zeros.
func formatNumber(value float64) string {
	return strconv.FormatFloat(math.Round(value*1000)/1000, 'f', -1, 64)
}

// formatScale keeps full precision; glyph scales are tiny.
func formatScale(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
