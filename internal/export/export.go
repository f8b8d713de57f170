// Package export converts a rendered SVG into a PNG through an external converter.
package export

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// BaseDPI is the resolution at which one SVG user unit is one pixel.
	BaseDPI = 96

	inkscapeCommand     = "inkscape"
	rsvgConvertCommand  = "rsvg-convert"
	errorConvertFormat  = "%s failed: %w: %s"
	errorScaleFormat    = "scale must be positive, got %d"
	logMessageExporting = "exporting png"
	logMessageFallback  = "raster backend failed, trying next"
	logMessageExported  = "png written"
	logFieldBackend     = "backend"
	logFieldPath        = "path"
	logFieldScale       = "scale"
)

// ErrNoRasterBackend is returned when no supported converter is installed or every one failed.
var ErrNoRasterBackend = errors.New("no raster backend available: install inkscape or rsvg-convert")

// Backend is one external converter.
type Backend struct {
	Name      string
	Arguments func(svgPath string, pngPath string, scale int) []string
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, arguments ...string) ([]byte, error)

// Exporter tries its backends in order until one succeeds.
type Exporter struct {
	backends []Backend
	lookPath func(string) (string, error)
	run      Runner
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithBackends replaces the default backend list.
func WithBackends(backends ...Backend) Option {
	return func(exporter *Exporter) {
		exporter.backends = backends
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(exporter *Exporter) {
		exporter.lookPath = lookPath
	}
}

// WithRunner replaces the command runner.
func WithRunner(run Runner) Option {
	return func(exporter *Exporter) {
		exporter.run = run
	}
}

// Inkscape renders at BaseDPI times the scale.
var Inkscape = Backend{
	Name: inkscapeCommand,
	Arguments: func(svgPath string, pngPath string, scale int) []string {
		return []string{svgPath, "-o", pngPath, "--export-dpi", strconv.Itoa(BaseDPI * scale)}
	},
}

// RSVGConvert zooms by the scale.
var RSVGConvert = Backend{
	Name: rsvgConvertCommand,
	Arguments: func(svgPath string, pngPath string, scale int) []string {
		return []string{"--zoom", strconv.Itoa(scale), "--output", pngPath, svgPath}
	},
}

// NewExporter returns an Exporter preferring inkscape over rsvg-convert.
func NewExporter(options ...Option) *Exporter {
	exporter := &Exporter{
		backends: []Backend{Inkscape, RSVGConvert},
		lookPath: exec.LookPath,
		run:      runCommand,
	}
	for _, option := range options {
		option(exporter)
	}
	return exporter
}

// ToPNG converts svgPath into pngPath at the given integer scale.
// Missing backends are skipped and failing ones fall through to the next.
func (exporter *Exporter) ToPNG(ctx context.Context, logger *zap.Logger, svgPath string, pngPath string, scale int) error {
	if scale < 1 {
		return fmt.Errorf(errorScaleFormat, scale)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var failures []error
	for _, backend := range exporter.backends {
		executablePath, lookupError := exporter.lookPath(backend.Name)
		if lookupError != nil {
			continue
		}
		logger.Debug(logMessageExporting, zap.String(logFieldBackend, backend.Name), zap.Int(logFieldScale, scale))
		commandOutput, runError := exporter.run(ctx, executablePath, backend.Arguments(svgPath, pngPath, scale)...)
		if runError == nil {
			logger.Info(logMessageExported, zap.String(logFieldPath, pngPath), zap.String(logFieldBackend, backend.Name))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		failure := fmt.Errorf(errorConvertFormat, backend.Name, runError, strings.TrimSpace(string(commandOutput)))
		logger.Warn(logMessageFallback, zap.String(logFieldBackend, backend.Name), zap.Error(failure))
		failures = append(failures, failure)
	}
	return errors.Join(append([]error{ErrNoRasterBackend}, failures...)...)
}

func runCommand(ctx context.Context, name string, arguments ...string) ([]byte, error) {
	// #nosec G204
	return exec.CommandContext(ctx, name, arguments...).CombinedOutput()
}
