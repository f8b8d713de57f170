package output

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/temirov/svgtree/internal/types"
)

const (
	nodeIDFormat = "node-%d"
	titleFormat  = "Tree: %s"

	previewKindCode        = "code"
	previewKindImage       = "image"
	previewKindAudio       = "audio"
	previewKindVideo       = "video"
	previewKindPlaceholder = "placeholder"

	// htmlIconAscentRatio places the glyph baseline inside the icon viewBox.
	htmlIconAscentRatio = 0.83
)

const htmlDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
<script>
function toggle(id) {
	var element = document.getElementById(id);
	if (element) {
		element.classList.toggle('open');
	}
}
</script>
</head>
<body>
<svg class="glyphs" aria-hidden="true"><defs>{{range .Glyphs}}<path id="{{.ID}}" d="{{.Path}}"/>{{end}}</defs></svg>
<h3 class="root-row">{{template "icon" .Root.Icon}}<span class="folder-name">{{.Root.Name}}</span></h3>
<ul class="root">
{{range .Root.Children}}{{template "node" .}}{{end}}</ul>
</body>
</html>
{{define "icon"}}{{if .Href}}<svg class="icon" viewBox="{{.ViewBox}}"><use href="{{.Href}}" fill="{{.Color}}" transform="{{.Transform}}"/></svg>{{else}}<span class="icon"></span>{{end}}{{end}}
{{define "node"}}<li>
<div class="row"{{if .Children}} onclick="toggle({{.ID}})"{{end}}>{{template "icon" .Icon}}<span class="{{if .IsDir}}folder-name{{else}}file-name{{end}}">{{.Name}}</span></div>
{{if .Children}}<ul id="{{.ID}}" class="children{{if .Open}} open{{end}}">
{{range .Children}}{{template "node" .}}{{end}}</ul>
{{end}}{{with .Preview}}<div class="preview-container">{{template "preview" .}}</div>
{{end}}</li>
{{end}}
{{define "preview"}}{{if eq .Kind "code"}}<pre class="preview-code"><code>{{range .Lines}}{{range .}}<span style="color: {{.Color}}">{{.Text}}</span>{{end}}
{{end}}</code></pre>{{else if eq .Kind "image"}}<img src="{{.Source}}" width="{{.Width}}" height="{{.Height}}" alt="{{.Label}}">{{else if eq .Kind "video"}}<video controls preload="metadata" width="{{.Width}}" height="{{.Height}}" src="{{.Source}}"></video>{{else if eq .Kind "audio"}}<audio controls preload="metadata" src="{{.Source}}"></audio>{{else}}<div class="placeholder{{if .IsError}} error{{end}}">{{.Label}}</div>{{end}}{{end}}`

var errNoRows = errors.New("no rows to render")

var htmlDocument = template.Must(template.New("document").Parse(htmlDocumentTemplate))

type htmlPage struct {
	Title  string
	CSS    template.CSS
	Glyphs []htmlGlyph
	Root   *htmlNode
}

type htmlGlyph struct {
	ID   string
	Path string
}

type htmlIcon struct {
	Href      string
	Color     string
	ViewBox   string
	Transform string
}

type htmlNode struct {
	ID       string
	Name     string
	IsDir    bool
	Open     bool
	Icon     htmlIcon
	Children []*htmlNode
	Preview  *htmlPreview
}

type htmlPreview struct {
	Kind    string
	Lines   []types.CodeLine
	Source  template.URL
	Width   int
	Height  int
	Label   string
	IsError bool
}

// RenderHTML writes document as a single page with a collapsible nested list.
// Directories start expanded unless document.Collapsed is set.
func RenderHTML(writer io.Writer, document Document) error {
	rows := document.Layout.Rows
	if len(rows) == 0 {
		return errNoRows
	}
	outlines := document.collectOutlines()
	glyphs := make([]htmlGlyph, 0, len(outlines))
	for _, outline := range outlines {
		glyphs = append(glyphs, htmlGlyph{ID: outline.ID, Path: outline.Path})
	}

	rowsByEntry := make(map[*types.TreeEntry]types.RenderRow, len(rows))
	for _, row := range rows {
		rowsByEntry[row.Entry] = row
	}
	builder := htmlNodeBuilder{document: document, rowsByEntry: rowsByEntry}
	root := builder.build(rows[0].Entry)

	page := htmlPage{
		Title:  fmt.Sprintf(titleFormat, document.Title),
		CSS:    template.CSS(htmlStyleSheet(document.Style)),
		Glyphs: glyphs,
		Root:   root,
	}
	return htmlDocument.Execute(writer, page)
}

type htmlNodeBuilder struct {
	document    Document
	rowsByEntry map[*types.TreeEntry]types.RenderRow
	counter     int
}

func (builder *htmlNodeBuilder) build(entry *types.TreeEntry) *htmlNode {
	row := builder.rowsByEntry[entry]
	builder.counter++
	node := &htmlNode{
		ID:    fmt.Sprintf(nodeIDFormat, builder.counter),
		Name:  entry.Name,
		IsDir: entry.IsDir,
		Open:  !builder.document.Collapsed,
		Icon:  builder.icon(row),
	}
	for _, child := range entry.Children {
		if _, laidOut := builder.rowsByEntry[child]; !laidOut {
			continue
		}
		node.Children = append(node.Children, builder.build(child))
	}
	if row.Preview != nil {
		node.Preview = htmlPreviewFor(row.Preview, entry.Name)
	}
	return node
}

func (builder *htmlNodeBuilder) icon(row types.RenderRow) htmlIcon {
	outline := builder.document.outlineFor(row)
	if outline.Path == "" {
		return htmlIcon{}
	}
	unitsPerEm := builder.document.unitsPerEm()
	return htmlIcon{
		Href:      "#" + outline.ID,
		Color:     row.Icon.Color,
		ViewBox:   fmt.Sprintf("0 0 %s %s", formatNumber(unitsPerEm), formatNumber(unitsPerEm)),
		Transform: fmt.Sprintf("translate(0, %s) scale(1, -1)", formatNumber(unitsPerEm*htmlIconAscentRatio)),
	}
}

func htmlPreviewFor(payload *types.Payload, name string) *htmlPreview {
	switch payload.Kind {
	case types.PayloadCode:
		return &htmlPreview{Kind: previewKindCode, Lines: payload.Code.Lines}
	case types.PayloadImage:
		image := payload.Image
		return &htmlPreview{
			Kind:   previewKindImage,
			Source: dataURI(image.MimeType, image.EncodedBytes),
			Width:  image.DisplayWidth,
			Height: image.DisplayHeight,
			Label:  name,
		}
	case types.PayloadMedia:
		media := payload.Media
		kind := previewKindAudio
		if media.IsVideo {
			kind = previewKindVideo
		}
		return &htmlPreview{
			Kind:   kind,
			Source: dataURI(media.MimeType, media.EncodedBytes),
			Width:  int(media.PixelWidth),
			Height: int(media.PixelHeight),
		}
	case types.PayloadPlaceholder:
		return &htmlPreview{Kind: previewKindPlaceholder, Label: payload.Placeholder.Label, IsError: payload.Placeholder.IsError}
	default:
		return nil
	}
}

// dataURI embeds bytes this program read itself, so the URL is trusted.
func dataURI(mimeType string, content []byte) template.URL {
	return template.URL(fmt.Sprintf(dataURIFormat, mimeType, base64.StdEncoding.EncodeToString(content)))
}

func htmlStyleSheet(style Style) string {
	rules := []string{
		style.FontFace,
		fmt.Sprintf("body { background-color: %s; color: %s; font-family: %s; font-size: %spx; font-weight: %s; padding: 20px; }", style.Background, style.TextFile, style.FontStack, formatNumber(style.FontSize), style.FontWeight),
		fmt.Sprintf("ul { list-style-type: none; padding-left: 20px; margin: 0; border-left: 1px solid %s; }", style.Lines),
		"ul.root { border-left: none; padding-left: 0; }",
		"li { margin: 4px 0; }",
		".row { display: flex; align-items: center; padding: 2px 5px; border-radius: 4px; cursor: pointer; }",
		".row:hover { background-color: rgba(255, 255, 255, 0.1); }",
		fmt.Sprintf(".icon { width: %spx; height: %spx; margin-right: 8px; display: inline-block; flex: none; }", formatNumber(style.IconSize), formatNumber(style.IconSize)),
		".glyphs { position: absolute; width: 0; height: 0; overflow: hidden; }",
		".root-row { display: flex; align-items: center; }",
		fmt.Sprintf(".folder-name { color: %s; font-weight: bold; }", style.TextFolder),
		fmt.Sprintf(".file-name { color: %s; }", style.TextFile),
		".children { display: none; }",
		".children.open { display: block; }",
		fmt.Sprintf(".preview-container { margin: 5px 0 10px 24px; padding: 10px; background: %s; border: 1px solid %s; border-radius: 5px; display: inline-block; max-width: 90%%; }", style.PreviewBackground, style.PreviewBorder),
		".preview-code { margin: 0; font-size: 12px; overflow-x: auto; }",
		".placeholder { font-size: 12px; opacity: 0.8; }",
		".placeholder.error { color: #e06c75; opacity: 1; }",
	}
	return strings.TrimSpace(strings.Join(rules, "\n"))
}
