package commands

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/output"
)

func TestWriteDocumentRemovesPartialOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "tree.svg")
	renderFailure := errors.New("serializer failed")
	failingRender := func(writer io.Writer, _ output.Document) error {
		_, _ = io.WriteString(writer, "<svg><g>")
		return renderFailure
	}

	written, writeError := writeDocument(outputPath, output.Document{}, failingRender)
	require.ErrorIs(t, writeError, renderFailure)
	require.Zero(t, written)
	_, statError := os.Stat(outputPath)
	require.ErrorIs(t, statError, os.ErrNotExist)
}

func TestWriteDocumentCountsBytes(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "tree.svg")
	render := func(writer io.Writer, _ output.Document) error {
		_, writeError := io.WriteString(writer, "<svg/>")
		return writeError
	}

	written, writeError := writeDocument(outputPath, output.Document{}, render)
	require.NoError(t, writeError)
	require.EqualValues(t, 6, written)
	content, readError := os.ReadFile(outputPath)
	require.NoError(t, readError)
	require.Equal(t, "<svg/>", string(content))
}
