// Package fonts locates the icon font and downloads it on first use.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/temirov/svgtree/internal/utils"
)

const (
	// SymbolsFontURL is where the Nerd Fonts symbols-only font is published.
	SymbolsFontURL      = "https://github.com/ryanoasis/nerd-fonts/raw/master/patched-fonts/NerdFontsSymbolsOnly/SymbolsNerdFont-Regular.ttf"
	// SymbolsFontFileName is the cached font file name.
	SymbolsFontFileName = "SymbolsNerdFont-Regular.ttf"

	assetsDirectoryName = "assets"

	errorConfigHomeMessage      = "cannot determine configuration directory for the icon font"
	errorCreateDirectoryFormat  = "create font directory %s: %w"
	errorDownloadFormat         = "download icon font from %s: %w"
	errorDownloadStatusFormat   = "download icon font from %s: unexpected status %s"
	errorWriteFontFormat        = "write icon font to %s: %w"
	logMessageDownloadingFont   = "downloading icon font"
	logMessageFontDownloaded    = "icon font downloaded"
	logFieldPath                = "path"
	logFieldURL                 = "url"
	logFieldSize                = "size"
	temporaryDownloadFilePrefix = ".download-"
)

// Options controls where the font lives and where it comes from.
type Options struct {
	// ConfigHome overrides $XDG_CONFIG_HOME.
	ConfigHome string
	// URL overrides SymbolsFontURL.
	URL string
	// Client overrides http.DefaultClient.
	Client *http.Client
}

// Path returns the cached font location under the configuration directory.
func Path(configHome string) string {
	return filepath.Join(configHome, utils.ApplicationName, assetsDirectoryName, SymbolsFontFileName)
}

// Ensure returns the cached font path, downloading the font when it is absent.
func Ensure(ctx context.Context, logger *zap.Logger, options Options) (string, error) {
	configHome := options.ConfigHome
	if configHome == "" {
		configHome = utils.ConfigHome()
	}
	if configHome == "" {
		return "", errors.New(errorConfigHomeMessage)
	}
	fontPath := Path(configHome)
	if info, statError := os.Stat(fontPath); statError == nil && info.Size() > 0 {
		return fontPath, nil
	}

	fontDirectory := filepath.Dir(fontPath)
	if makeError := os.MkdirAll(fontDirectory, 0o755); makeError != nil {
		return "", fmt.Errorf(errorCreateDirectoryFormat, fontDirectory, makeError)
	}

	sourceURL := options.URL
	if sourceURL == "" {
		sourceURL = SymbolsFontURL
	}
	client := options.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger.Info(logMessageDownloadingFont, zap.String(logFieldURL, sourceURL), zap.String(logFieldPath, fontPath))

	written, downloadError := download(ctx, client, sourceURL, fontPath)
	if downloadError != nil {
		return "", downloadError
	}
	logger.Info(logMessageFontDownloaded, zap.String(logFieldPath, fontPath), zap.String(logFieldSize, humanize.Bytes(uint64(written))))
	return fontPath, nil
}

func download(ctx context.Context, client *http.Client, sourceURL string, destinationPath string) (int64, error) {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if requestError != nil {
		return 0, fmt.Errorf(errorDownloadFormat, sourceURL, requestError)
	}
	response, responseError := client.Do(request)
	if responseError != nil {
		return 0, fmt.Errorf(errorDownloadFormat, sourceURL, responseError)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf(errorDownloadStatusFormat, sourceURL, response.Status)
	}

	temporaryFile, createError := os.CreateTemp(filepath.Dir(destinationPath), temporaryDownloadFilePrefix)
	if createError != nil {
		return 0, fmt.Errorf(errorWriteFontFormat, destinationPath, createError)
	}
	temporaryPath := temporaryFile.Name()
	written, copyError := io.Copy(temporaryFile, response.Body)
	closeError := temporaryFile.Close()
	if copyError == nil {
		copyError = closeError
	}
	if copyError != nil {
		_ = os.Remove(temporaryPath)
		return 0, fmt.Errorf(errorWriteFontFormat, destinationPath, copyError)
	}
	if renameError := os.Rename(temporaryPath, destinationPath); renameError != nil {
		_ = os.Remove(temporaryPath)
		return 0, fmt.Errorf(errorWriteFontFormat, destinationPath, renameError)
	}
	return written, nil
}
