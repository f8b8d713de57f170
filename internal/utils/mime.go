package utils

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UnknownMimeType is reported when neither content nor extension identify a file.
const UnknownMimeType = "application/octet-stream"

const plainTextMimeType = "text/plain"

func init() {
	_ = mime.AddExtensionType(".jxl", "image/jxl")
	_ = mime.AddExtensionType(".webp", "image/webp")
}

// DetectMimeType returns the media type for a file given its leading bytes.
// Content sniffing wins unless it only produced a generic answer, in which
// case the extension decides.
func DetectMimeType(filePath string, head []byte) string {
	sniffed := mimetype.Detect(head).String()
	baseType := strings.TrimSpace(strings.SplitN(sniffed, ";", 2)[0])
	if baseType != UnknownMimeType && baseType != plainTextMimeType && baseType != "" {
		return baseType
	}
	if byExtension := MimeTypeByExtension(filePath); byExtension != "" {
		return byExtension
	}
	if baseType == "" {
		return UnknownMimeType
	}
	return baseType
}

// MimeTypeByExtension resolves a media type from the file extension only.
func MimeTypeByExtension(filePath string) string {
	extension := strings.ToLower(filepath.Ext(filePath))
	if extension == "" {
		return ""
	}
	resolved := mime.TypeByExtension(extension)
	return strings.TrimSpace(strings.SplitN(resolved, ";", 2)[0])
}
