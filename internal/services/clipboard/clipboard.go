// Package clipboard copies rendered documents to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/atotto/clipboard"
)

const errorReadDocumentFormat = "read %s for clipboard: %w"

// ErrNotText is returned for documents that cannot travel through a text clipboard, such as PNG output.
var ErrNotText = errors.New("document is not text")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// CopyDocument copies the SVG or HTML markup stored at documentPath.
func CopyDocument(copier Copier, documentPath string) error {
	// #nosec G304
	content, readError := os.ReadFile(documentPath)
	if readError != nil {
		return fmt.Errorf(errorReadDocumentFormat, documentPath, readError)
	}
	if !utf8.Valid(content) {
		return fmt.Errorf("%w: %s", ErrNotText, documentPath)
	}
	return copier.Copy(string(content))
}

var _ Copier = (*Service)(nil)
