package preview

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/temirov/svgtree/internal/types"
	"github.com/temirov/svgtree/internal/utils"
)

// Display bounds for image previews. Images are scaled down to fit, never up.
const (
	ImageMaxDisplayWidth  = 350
	ImageMaxDisplayHeight = 250
	// ImageFallbackSize is assumed when dimensions cannot be decoded.
	ImageFallbackSize = 100

	svgElementName      = "svg"
	svgAttributeWidth   = "width"
	svgAttributeHeight  = "height"
	svgAttributeViewBox = "viewBox"
)

func (generator *Generator) imagePayload(filePath string, mimeType string) (*types.Payload, error) {
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFormat, filePath, readError)
	}
	if !strings.HasPrefix(mimeType, mimePrefixImage) {
		mimeType = utils.MimeTypeByExtension(filePath)
		if !strings.HasPrefix(mimeType, mimePrefixImage) {
			mimeType = types.MimeTypePNG
		}
	}
	width, height, probed := DimensionsOf(content)
	if !probed {
		width, height = ImageFallbackSize, ImageFallbackSize
	}
	displayWidth, displayHeight := FitWithin(width, height, ImageMaxDisplayWidth, ImageMaxDisplayHeight)
	return &types.Payload{
		Kind: types.PayloadImage,
		Path: filePath,
		Image: &types.ImagePayload{
			PixelWidth:    width,
			PixelHeight:   height,
			DisplayWidth:  displayWidth,
			DisplayHeight: displayHeight,
			EncodedBytes:  content,
			MimeType:      mimeType,
		},
	}, nil
}

// DimensionsOf probes the pixel size of encoded image bytes. EXIF orientations
// that rotate by 90 degrees swap the result. ok is false when nothing could be decoded.
func DimensionsOf(content []byte) (width int, height int, ok bool) {
	decoded, _, decodeError := image.DecodeConfig(bytes.NewReader(content))
	if decodeError == nil && decoded.Width > 0 && decoded.Height > 0 {
		width, height = decoded.Width, decoded.Height
		if rotatesQuarterTurn(content) {
			width, height = height, width
		}
		return width, height, true
	}
	return svgDimensions(content)
}

func rotatesQuarterTurn(content []byte) bool {
	metadata, exifError := exif.Decode(bytes.NewReader(content))
	if exifError != nil {
		return false
	}
	orientationTag, tagError := metadata.Get(exif.Orientation)
	if tagError != nil {
		return false
	}
	orientation, valueError := orientationTag.Int(0)
	if valueError != nil {
		return false
	}
	return orientation >= 5 && orientation <= 8
}

// svgDimensions reads width/height from the root svg element, falling back to its viewBox.
func svgDimensions(content []byte) (int, int, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	decoder.Strict = false
	for {
		token, tokenError := decoder.Token()
		if tokenError != nil {
			return 0, 0, false
		}
		start, isStart := token.(xml.StartElement)
		if !isStart {
			continue
		}
		if start.Name.Local != svgElementName {
			return 0, 0, false
		}
		var width, height float64
		var viewBox string
		for _, attribute := range start.Attr {
			switch attribute.Name.Local {
			case svgAttributeWidth:
				width = parseLength(attribute.Value)
			case svgAttributeHeight:
				height = parseLength(attribute.Value)
			case svgAttributeViewBox:
				viewBox = attribute.Value
			}
		}
		if width > 0 && height > 0 {
			return int(width), int(height), true
		}
		fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
		if len(fields) == 4 {
			viewWidth, widthError := strconv.ParseFloat(fields[2], 64)
			viewHeight, heightError := strconv.ParseFloat(fields[3], 64)
			if widthError == nil && heightError == nil && viewWidth > 0 && viewHeight > 0 {
				return int(viewWidth), int(viewHeight), true
			}
		}
		return 0, 0, false
	}
}

// parseLength accepts unitless and px lengths; anything else is treated as unknown.
func parseLength(value string) float64 {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "px")
	parsed, parseError := strconv.ParseFloat(trimmed, 64)
	if parseError != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

// FitWithin scales width x height down to fit maxWidth x maxHeight, preserving aspect ratio.
func FitWithin(width int, height int, maxWidth int, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	ratio := min(1.0, float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	return int(float64(width) * ratio), int(float64(height) * ratio)
}
