// Package commands orchestrates the render pipeline behind the command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/glyph"
	"github.com/temirov/svgtree/internal/highlight"
	"github.com/temirov/svgtree/internal/icons"
	"github.com/temirov/svgtree/internal/ignore"
	"github.com/temirov/svgtree/internal/layout"
	"github.com/temirov/svgtree/internal/output"
	"github.com/temirov/svgtree/internal/preview"
	"github.com/temirov/svgtree/internal/tree"
	"github.com/temirov/svgtree/internal/types"
	"github.com/temirov/svgtree/internal/utils"
)

const (
	// TemporarySVGSuffix is appended to the PNG path for the intermediate vector document.
	TemporarySVGSuffix = ".tmp.svg"

	errorUnknownFormatFormat  = "unknown output format %q"
	errorIgnorePatternsFormat = "loading ignore patterns for %s: %w"
	errorFontFormat           = "resolving icon font: %w"
	errorCreateOutputFormat   = "creating %s: %w"
	errorWriteOutputFormat    = "writing %s: %w"
	errorExportFormat         = "exporting %s: %w"

	logMessageScanning          = "scanning"
	logMessageScanned           = "tree built"
	logMessagePreviews          = "previews generated"
	logMessageWarning           = "warning"
	logMessageEngineUnavailable = "syntax engine unavailable, using chroma"
	logMessageWritten           = "document written"
	logMessageRemoveTemporary   = "could not remove temporary svg"
	logFieldRoot                = "root"
	logFieldDepth               = "depth"
	logFieldEntries             = "entries"
	logFieldPreviews            = "previews"
	logFieldEngine              = "engine"
	logFieldPath                = "path"
	logFieldSize                = "size"
	logFieldDetail              = "detail"
)

// FontProvider returns the path of the icon font, fetching it if needed.
type FontProvider func(ctx context.Context, logger *zap.Logger) (string, error)

// RasterExporter converts an SVG file into a PNG file.
type RasterExporter interface {
	ToPNG(ctx context.Context, logger *zap.Logger, svgPath string, pngPath string, scale int) error
}

// RenderOptions holds everything one render needs. Zero values select defaults.
type RenderOptions struct {
	Root              string
	OutputPath        string
	Format            string
	MaxDepth          int
	ExclusionPatterns []string
	PreviewPatterns   []string
	UseIgnoreFiles    bool
	Collapsed         bool
	Scale             int
	ThemePath         string
	// FontPath skips the font provider when set.
	FontPath     string
	SyntaxEngine string
	ConfigHome   string
}

// RenderResult summarizes a finished render.
type RenderResult struct {
	OutputPath string
	Entries    int
	Previews   int
	Bytes      int64
}

// Renderer runs the pipeline: scan, flatten, previews, layout, serialize.
type Renderer struct {
	Logger   *zap.Logger
	Fonts    FontProvider
	Exporter RasterExporter
}

// Render produces options.OutputPath in options.Format.
func (renderer *Renderer) Render(ctx context.Context, options RenderOptions) (RenderResult, error) {
	logger := renderer.logger()
	format := options.Format
	if format == "" {
		format = types.OutputSVG
	}
	switch format {
	case types.OutputSVG, types.OutputHTML, types.OutputPNG:
	default:
		return RenderResult{}, fmt.Errorf(errorUnknownFormatFormat, format)
	}

	document, entryCount, previewCount, buildError := renderer.BuildDocument(ctx, options, format == types.OutputHTML)
	if buildError != nil {
		return RenderResult{}, buildError
	}

	result := RenderResult{OutputPath: options.OutputPath, Entries: entryCount, Previews: previewCount}
	var writeError error
	switch format {
	case types.OutputHTML:
		result.Bytes, writeError = writeDocument(options.OutputPath, document, output.RenderHTML)
	case types.OutputSVG:
		result.Bytes, writeError = writeDocument(options.OutputPath, document, output.RenderSVG)
	case types.OutputPNG:
		result.Bytes, writeError = renderer.writePNG(ctx, options, document)
	}
	if writeError != nil {
		return RenderResult{}, writeError
	}
	logger.Info(logMessageWritten,
		zap.String(logFieldPath, result.OutputPath),
		zap.Int(logFieldEntries, result.Entries),
		zap.Int(logFieldPreviews, result.Previews),
		zap.String(logFieldSize, humanize.Bytes(uint64(result.Bytes))),
	)
	return result, nil
}

// BuildDocument runs every stage up to serialization and returns the document
// with the number of laid out entries and generated previews.
func (renderer *Renderer) BuildDocument(ctx context.Context, options RenderOptions, embedMedia bool) (output.Document, int, int, error) {
	logger := renderer.logger()
	warn := func(message string) {
		logger.Warn(logMessageWarning, zap.String(logFieldDetail, message))
	}

	theme, themeError := config.LoadTheme(config.ThemeLoadOptions{
		UserThemePath: options.ThemePath,
		ConfigHome:    options.ConfigHome,
		Warn:          warn,
	})
	if themeError != nil {
		return output.Document{}, 0, 0, themeError
	}

	rootPath, absoluteError := filepath.Abs(options.Root)
	if absoluteError != nil {
		return output.Document{}, 0, 0, absoluteError
	}
	patterns, patternError := config.LoadCombinedIgnorePatterns(rootPath, options.ExclusionPatterns, options.UseIgnoreFiles)
	if patternError != nil {
		return output.Document{}, 0, 0, fmt.Errorf(errorIgnorePatternsFormat, rootPath, patternError)
	}

	logger.Debug(logMessageScanning, zap.String(logFieldRoot, rootPath), zap.Int(logFieldDepth, options.MaxDepth))
	root, buildError := tree.Build(rootPath, tree.Options{
		MaxDepth: options.MaxDepth,
		Matcher:  ignore.Compile(patterns),
		Warn:     warn,
	})
	if buildError != nil {
		return output.Document{}, 0, 0, buildError
	}
	flattened := tree.Flatten(root)
	logger.Debug(logMessageScanned, zap.Int(logFieldEntries, len(flattened)))

	previews := map[string]*types.Payload{}
	if previewPaths := SelectPreviewPaths(root.Path, flattened, ignore.Compile(options.PreviewPatterns)); len(previewPaths) > 0 {
		tokenizer, tokenizerError := highlight.NewTokenizer(options.SyntaxEngine)
		if errors.Is(tokenizerError, highlight.ErrEngineUnavailable) {
			logger.Warn(logMessageEngineUnavailable, zap.String(logFieldEngine, options.SyntaxEngine))
			tokenizer, tokenizerError = highlight.ChromaTokenizer{}, nil
		}
		if tokenizerError != nil {
			return output.Document{}, 0, 0, tokenizerError
		}
		previewOptions := preview.OptionsFromTheme(theme, tokenizer)
		previewOptions.EmbedMedia = embedMedia
		previews = preview.GenerateAll(ctx, preview.NewGenerator(previewOptions), previewPaths)
		logger.Debug(logMessagePreviews, zap.Int(logFieldPreviews, len(previews)))
	}

	face, faceError := renderer.loadFace(ctx, options.FontPath)
	if faceError != nil {
		return output.Document{}, 0, 0, faceError
	}

	metrics := layout.MetricsFromTheme(theme)
	resolveIcon := func(entry *types.TreeEntry) types.IconAssignment {
		return icons.Resolve(entry.Name, entry.IsDir, theme)
	}
	document := output.Document{
		Title:     root.Name,
		Layout:    layout.Compute(root, flattened, previews, resolveIcon, metrics),
		Glyphs:    glyph.NewCache(face),
		Style:     output.StyleFromTheme(theme, metrics, warn),
		Collapsed: options.Collapsed,
	}
	return document, len(flattened), len(previews), nil
}

// SelectPreviewPaths returns the files whose name or root-relative path matches.
func SelectPreviewPaths(rootPath string, flattened []types.FlatEntry, matcher *ignore.Matcher) []string {
	if matcher.Empty() {
		return nil
	}
	var selected []string
	for _, filePath := range tree.FilePaths(flattened) {
		if matcher.MatchesEntry(filepath.Base(filePath), false) || matcher.MatchesEntry(utils.RelativePathOrSelf(filePath, rootPath), false) {
			selected = append(selected, filePath)
		}
	}
	return selected
}

func (renderer *Renderer) loadFace(ctx context.Context, fontPath string) (glyph.Face, error) {
	if fontPath == "" {
		if renderer.Fonts == nil {
			return nil, fmt.Errorf(errorFontFormat, glyph.ErrFontLoad)
		}
		providedPath, providerError := renderer.Fonts(ctx, renderer.logger())
		if providerError != nil {
			return nil, fmt.Errorf(errorFontFormat, errors.Join(glyph.ErrFontLoad, providerError))
		}
		fontPath = providedPath
	}
	face, loadError := glyph.LoadFace(fontPath)
	if loadError != nil {
		return nil, loadError
	}
	return face, nil
}

func (renderer *Renderer) writePNG(ctx context.Context, options RenderOptions, document output.Document) (int64, error) {
	temporaryPath := options.OutputPath + TemporarySVGSuffix
	defer func() {
		if removeError := os.Remove(temporaryPath); removeError != nil && !os.IsNotExist(removeError) {
			renderer.logger().Warn(logMessageRemoveTemporary, zap.String(logFieldPath, temporaryPath), zap.Error(removeError))
		}
	}()
	if _, writeError := writeDocument(temporaryPath, document, output.RenderSVG); writeError != nil {
		return 0, writeError
	}
	if renderer.Exporter == nil {
		return 0, fmt.Errorf(errorExportFormat, options.OutputPath, errors.New("no exporter configured"))
	}
	scale := options.Scale
	if scale < 1 {
		scale = 1
	}
	if exportError := renderer.Exporter.ToPNG(ctx, renderer.logger(), temporaryPath, options.OutputPath, scale); exportError != nil {
		return 0, fmt.Errorf(errorExportFormat, options.OutputPath, exportError)
	}
	info, statError := os.Stat(options.OutputPath)
	if statError != nil {
		return 0, nil
	}
	return info.Size(), nil
}

func (renderer *Renderer) logger() *zap.Logger {
	if renderer.Logger == nil {
		return zap.NewNop()
	}
	return renderer.Logger
}

type countingWriter struct {
	writer io.Writer
	count  int64
}

func (counter *countingWriter) Write(data []byte) (int, error) {
	written, writeError := counter.writer.Write(data)
	counter.count += int64(written)
	return written, writeError
}

func writeDocument(outputPath string, document output.Document, render func(io.Writer, output.Document) error) (int64, error) {
	// #nosec G304
	file, createError := os.Create(outputPath)
	if createError != nil {
		return 0, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	counter := &countingWriter{writer: file}
	writeError := render(counter, document)
	if closeError := file.Close(); writeError == nil {
		writeError = closeError
	}
	if writeError != nil {
		// a partial document is worse than none
		_ = os.Remove(outputPath)
		return 0, fmt.Errorf(errorWriteOutputFormat, outputPath, writeError)
	}
	return counter.count, nil
}
