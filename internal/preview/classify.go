package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/temirov/svgtree/internal/highlight"
	"github.com/temirov/svgtree/internal/types"
	"github.com/temirov/svgtree/internal/utils"
)

const (
	mimePrefixImage = "image/"
	mimePrefixAudio = "audio/"
	mimePrefixVideo = "video/"

	placeholderHeight   = 28.0
	placeholderMinWidth = 120.0
	placeholderPadding  = 10.0

	videoWidth  = 320.0
	videoHeight = 180.0
	audioWidth  = 300.0
	audioHeight = 40.0

	labelBinaryFormat   = "binary · %s"
	labelMediaFormat    = "%s · %s"
	labelTooLargeFormat = "too large · %s"
	labelErrorFormat    = "error: %s"
	labelAudio          = "audio"
	labelVideo          = "video"

	errorStatFormat     = "stat %s: %w"
	errorReadFormat     = "read %s: %w"
	errorTooLargeFormat = "%w: %s (%s)"
)

// ErrTooLarge marks content above a configured size cap.
var ErrTooLarge = errors.New("content too large")

// Image extensions recognized even when sniffing disagrees.
var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".webp": {},
	".svg": {}, ".ico": {}, ".tif": {}, ".tiff": {}, ".jxl": {},
}

// Extensions that are always text even when sniffing suggests media or an archive.
// .ts is the usual offender: MPEG transport streams share the extension.
var forcedCodeExtensions = map[string]struct{}{
	".ts": {}, ".tsx": {}, ".mts": {}, ".cts": {},
	".js": {}, ".mjs": {}, ".cjs": {}, ".jsx": {},
	".json": {}, ".xml": {}, ".html": {}, ".htm": {},
	".md": {}, ".txt": {}, ".csv": {},
	".yaml": {}, ".yml": {}, ".toml": {},
	".py": {}, ".go": {}, ".rs": {}, ".m": {}, ".pl": {}, ".sql": {}, ".sh": {},
}

// Generator classifies files and builds their payloads. It is safe for concurrent use
// when its Tokenizer is.
type Generator struct {
	options Options
}

// NewGenerator returns a Generator, filling unset options with defaults.
func NewGenerator(options Options) *Generator {
	defaults := DefaultOptions()
	if options.MaxLines <= 0 {
		options.MaxLines = defaults.MaxLines
	}
	if options.MaxBytes <= 0 {
		options.MaxBytes = defaults.MaxBytes
	}
	if options.MaxMediaBytes <= 0 {
		options.MaxMediaBytes = defaults.MaxMediaBytes
	}
	if options.FontSize <= 0 {
		options.FontSize = defaults.FontSize
	}
	if options.LineHeight <= 0 {
		options.LineHeight = defaults.LineHeight
	}
	if options.Tokenizer == nil {
		options.Tokenizer = defaults.Tokenizer
	}
	if options.Palette == (highlight.Palette{}) {
		options.Palette = defaults.Palette
	}
	return &Generator{options: options}
}

// Classify returns the preview payload for filePath, or nil when the file gets no preview.
// Failures become an error placeholder rather than an error.
func (generator *Generator) Classify(filePath string) *types.Payload {
	payload, classifyError := generator.classify(filePath)
	if errors.Is(classifyError, ErrTooLarge) {
		return nil
	}
	if classifyError != nil {
		return generator.errorPlaceholder(filePath, classifyError)
	}
	return payload
}

func (generator *Generator) classify(filePath string) (*types.Payload, error) {
	info, statError := os.Stat(filePath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatFormat, filePath, statError)
	}
	head, readError := utils.ReadHead(filePath, utils.SniffLength)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFormat, filePath, readError)
	}
	extension := strings.ToLower(filepath.Ext(filePath))
	mimeType := utils.DetectMimeType(filePath, head)

	if isImage(mimeType, extension) {
		return generator.imagePayload(filePath, mimeType)
	}

	if _, forced := forcedCodeExtensions[extension]; !forced {
		if strings.HasPrefix(mimeType, mimePrefixAudio) || strings.HasPrefix(mimeType, mimePrefixVideo) {
			return generator.mediaPayload(filePath, mimeType, info.Size())
		}
	}

	if utils.IsBinary(head) {
		label := fmt.Sprintf(labelBinaryFormat, humanize.Bytes(uint64(info.Size())))
		return generator.placeholder(filePath, label, false), nil
	}

	if info.Size() > generator.options.MaxBytes {
		return nil, fmt.Errorf(errorTooLargeFormat, ErrTooLarge, filePath, humanize.Bytes(uint64(info.Size())))
	}
	return generator.codePayload(filePath)
}

func isImage(mimeType string, extension string) bool {
	if strings.HasPrefix(mimeType, mimePrefixImage) {
		return true
	}
	_, known := imageExtensions[extension]
	return known
}

func (generator *Generator) mediaPayload(filePath string, mimeType string, size int64) (*types.Payload, error) {
	isVideo := strings.HasPrefix(mimeType, mimePrefixVideo)
	kindLabel := labelAudio
	if isVideo {
		kindLabel = labelVideo
	}
	if !generator.options.EmbedMedia {
		label := fmt.Sprintf(labelMediaFormat, kindLabel, humanize.Bytes(uint64(size)))
		return generator.placeholder(filePath, label, false), nil
	}
	if size > generator.options.MaxMediaBytes {
		label := fmt.Sprintf(labelTooLargeFormat, humanize.Bytes(uint64(size)))
		return generator.placeholder(filePath, label, true), nil
	}
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFormat, filePath, readError)
	}
	media := &types.MediaPayload{MimeType: mimeType, EncodedBytes: content, IsVideo: isVideo, PixelWidth: audioWidth, PixelHeight: audioHeight}
	if isVideo {
		media.PixelWidth, media.PixelHeight = videoWidth, videoHeight
	}
	return &types.Payload{Kind: types.PayloadMedia, Path: filePath, Media: media}, nil
}

func (generator *Generator) placeholder(filePath string, label string, isError bool) *types.Payload {
	width := float64(runewidth.StringWidth(label))*generator.options.characterAdvance() + 2*placeholderPadding
	if width < placeholderMinWidth {
		width = placeholderMinWidth
	}
	return &types.Payload{
		Kind: types.PayloadPlaceholder,
		Path: filePath,
		Placeholder: &types.PlaceholderPayload{
			Label:       label,
			IsError:     isError,
			PixelWidth:  width,
			PixelHeight: placeholderHeight,
		},
	}
}

func (generator *Generator) errorPlaceholder(filePath string, cause error) *types.Payload {
	return generator.placeholder(filePath, fmt.Sprintf(labelErrorFormat, Sanitize(cause.Error())), true)
}
