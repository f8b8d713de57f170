package output

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/layout"
)

const (
	defaultBackground        = "#282c34"
	defaultLines             = "#5c6370"
	defaultTextFile          = "#abb2bf"
	defaultTextFolder        = "#61afef"
	defaultPreviewBackground = "#21252b"
	defaultPreviewBorder     = "#3e4451"
	defaultGuide             = "#4b5263"
	defaultFontFamily        = "monospace"
	defaultFontThickness     = "regular"
	defaultFontMimeType      = "font/ttf"

	themeKeyBackground        = "background"
	themeKeyLines             = "lines"
	themeKeyTextFile          = "text_file"
	themeKeyTextFolder        = "text_folder"
	themeKeyPreviewBackground = "preview_background"
	themeKeyPreviewBorder     = "preview_border"
	themeKeyGuide             = "guide"
	themeKeyFamily            = "family"
	themeKeyType              = "type"
	themeKeyThickness         = "thickness"
	themeKeyPath              = "path"

	warningFontMissingFormat = "custom font %s not found, continuing without it"
	warningFontReadFormat    = "custom font %s could not be read: %v"
	fontFaceFormat           = `@font-face { font-family: "%s"; src: url("data:%s;base64,%s") format("%s"); font-weight: %s; font-style: normal; }`
)

var fontWeights = map[string]string{
	"thin":       "100",
	"extralight": "200",
	"light":      "300",
	"regular":    "400",
	"normal":     "400",
	"medium":     "500",
	"semibold":   "600",
	"bold":       "700",
	"extrabold":  "800",
	"black":      "900",
}

var fontFormats = map[string]string{
	"font/ttf":   "truetype",
	"font/otf":   "opentype",
	"font/woff":  "woff",
	"font/woff2": "woff2",
}

// Style holds the theme values used by both serializers.
type Style struct {
	Background        string
	Lines             string
	TextFile          string
	TextFolder        string
	PreviewBackground string
	PreviewBorder     string
	Guide             string
	// FontStack is a CSS font-family list.
	FontStack  string
	FontWeight string
	FontSize   float64
	IconSize   float64
	// FontFace is an @font-face rule embedding the custom font, or empty.
	FontFace string
}

// StyleFromTheme resolves colors and fonts. A configured font.path that cannot be
// read is reported through warn and otherwise ignored.
func StyleFromTheme(theme config.Theme, metrics layout.Metrics, warn func(message string)) Style {
	family := theme.String(config.SectionFont, themeKeyFamily, defaultFontFamily)
	fontType := theme.String(config.SectionFont, themeKeyType, "")
	cssFamily := family
	fontStack := fmt.Sprintf(`"%s", monospace`, family)
	if fontType != "" {
		cssFamily = family + " " + fontType
		fontStack = fmt.Sprintf(`"%s", "%s", monospace`, cssFamily, family)
	}
	weight := ParseFontWeight(theme.String(config.SectionFont, themeKeyThickness, defaultFontThickness))

	style := Style{
		Background:        theme.String(config.SectionColors, themeKeyBackground, defaultBackground),
		Lines:             theme.String(config.SectionColors, themeKeyLines, defaultLines),
		TextFile:          theme.String(config.SectionColors, themeKeyTextFile, defaultTextFile),
		TextFolder:        theme.String(config.SectionColors, themeKeyTextFolder, defaultTextFolder),
		PreviewBackground: theme.String(config.SectionColors, themeKeyPreviewBackground, defaultPreviewBackground),
		PreviewBorder:     theme.String(config.SectionColors, themeKeyPreviewBorder, defaultPreviewBorder),
		Guide:             theme.String(config.SectionColors, themeKeyGuide, defaultGuide),
		FontStack:         fontStack,
		FontWeight:        weight,
		FontSize:          metrics.FontSize,
		IconSize:          metrics.IconSize,
	}

	if fontPath := theme.String(config.SectionFont, themeKeyPath, ""); fontPath != "" {
		fontFace, fontError := fontFaceRule(fontPath, cssFamily, weight)
		switch {
		case fontError == nil:
			style.FontFace = fontFace
		case os.IsNotExist(fontError):
			report(warn, fmt.Sprintf(warningFontMissingFormat, fontPath))
		default:
			report(warn, fmt.Sprintf(warningFontReadFormat, fontPath, fontError))
		}
	}
	return style
}

// ParseFontWeight maps a thickness name such as "SemiBold" to a CSS weight.
// Unknown names pass through unchanged so numeric weights keep working.
func ParseFontWeight(thickness string) string {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(thickness), "-", ""))
	if weight, known := fontWeights[normalized]; known {
		return weight
	}
	if normalized == "" {
		return fontWeights[defaultFontThickness]
	}
	return normalized
}

// #nosec G304
func fontFaceRule(fontPath string, family string, weight string) (string, error) {
	content, readError := os.ReadFile(fontPath)
	if readError != nil {
		return "", readError
	}
	mimeType := mimetype.Detect(content).String()
	format, known := fontFormats[mimeType]
	if !known {
		mimeType, format = defaultFontMimeType, fontFormats[defaultFontMimeType]
	}
	return fmt.Sprintf(fontFaceFormat, family, mimeType, base64.StdEncoding.EncodeToString(content), format, weight), nil
}

func report(warn func(string), message string) {
	if warn != nil {
		warn(message)
	}
}
