package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/temirov/svgtree/internal/utils"
)

// Recognized theme sections.
const (
	SectionColors     = "colors"
	SectionFileColors = "file_colors"
	SectionFont       = "font"
	SectionLayout     = "layout"
	SectionPreview    = "preview"

	themeFileType        = "toml"
	defaultThemeFileName = "default-theme.toml"

	errorReadThemeFormat = "read theme from %s: %w"
)

// ErrThemeNotFound is returned when an explicitly requested theme file does not exist.
var ErrThemeNotFound = errors.New("theme file not found")

//go:embed assets/default-theme.toml
var defaultThemeTOML []byte

// Theme is a read-only two level key/value store: section -> key -> value.
type Theme struct {
	sections map[string]map[string]any
}

// NewTheme builds a theme from already parsed sections. The input is copied.
func NewTheme(sections map[string]map[string]any) Theme {
	theme := Theme{sections: map[string]map[string]any{}}
	for sectionName, values := range sections {
		copied := make(map[string]any, len(values))
		for key, value := range values {
			copied[strings.ToLower(key)] = value
		}
		theme.sections[strings.ToLower(sectionName)] = copied
	}
	return theme
}

// Merge layers override on top of the receiver one level deep: a section
// present in override replaces the same-named keys of that section, other
// keys and sections carry over unchanged.
func (theme Theme) Merge(override Theme) Theme {
	merged := NewTheme(theme.sections)
	for sectionName, values := range override.sections {
		target, exists := merged.sections[sectionName]
		if !exists {
			target = map[string]any{}
			merged.sections[sectionName] = target
		}
		for key, value := range values {
			target[key] = value
		}
	}
	return merged
}

// Lookup returns the raw value stored under section.key.
func (theme Theme) Lookup(section, key string) (any, bool) {
	values, exists := theme.sections[section]
	if !exists {
		return nil, false
	}
	value, exists := values[key]
	return value, exists
}

// String returns section.key as a string, or fallback when it is absent or empty.
func (theme Theme) String(section, key, fallback string) string {
	value, exists := theme.Lookup(section, key)
	if !exists {
		return fallback
	}
	converted, conversionError := cast.ToStringE(value)
	if conversionError != nil || converted == "" {
		return fallback
	}
	return converted
}

// Float returns section.key as a float64, or fallback when it is absent or not numeric.
func (theme Theme) Float(section, key string, fallback float64) float64 {
	value, exists := theme.Lookup(section, key)
	if !exists {
		return fallback
	}
	converted, conversionError := cast.ToFloat64E(value)
	if conversionError != nil {
		return fallback
	}
	return converted
}

// Int returns section.key as an int, or fallback when it is absent or not numeric.
func (theme Theme) Int(section, key string, fallback int) int {
	value, exists := theme.Lookup(section, key)
	if !exists {
		return fallback
	}
	converted, conversionError := cast.ToIntE(value)
	if conversionError != nil {
		return fallback
	}
	return converted
}

// WriteTOML encodes the theme as TOML.
func (theme Theme) WriteTOML(writer io.Writer) error {
	encoder := toml.NewEncoder(writer)
	return encoder.Encode(theme.sections)
}

// DefaultTheme returns the theme bundled with the binary.
func DefaultTheme() Theme {
	theme, parseError := parseTheme(bytes.NewReader(defaultThemeTOML))
	if parseError != nil {
		panic(fmt.Errorf("embedded default theme is invalid: %w", parseError))
	}
	return theme
}

// ThemeLoadOptions controls theme discovery.
type ThemeLoadOptions struct {
	// UserThemePath is layered on top of the base theme when set.
	UserThemePath string
	// ConfigHome overrides the XDG configuration directory.
	ConfigHome string
	// Warn receives non-fatal problems with the base theme.
	Warn func(message string)
}

// LoadTheme resolves the base theme (user-level default-theme.toml, else the
// embedded one) and merges the optional user theme on top.
func LoadTheme(options ThemeLoadOptions) (Theme, error) {
	base := DefaultTheme()
	configHome := options.ConfigHome
	if configHome == "" {
		configHome = utils.ConfigHome()
	}
	if configHome != "" {
		userDefaultPath := filepath.Join(configHome, utils.ApplicationName, defaultThemeFileName)
		if _, statError := os.Stat(userDefaultPath); statError == nil {
			userDefault, loadError := loadThemeFile(userDefaultPath)
			if loadError != nil {
				if options.Warn != nil {
					options.Warn(loadError.Error())
				}
			} else {
				base = userDefault
			}
		}
	}
	if options.UserThemePath == "" {
		return base, nil
	}
	if _, statError := os.Stat(options.UserThemePath); statError != nil {
		if os.IsNotExist(statError) {
			return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, options.UserThemePath)
		}
		return Theme{}, fmt.Errorf(errorReadThemeFormat, options.UserThemePath, statError)
	}
	override, loadError := loadThemeFile(options.UserThemePath)
	if loadError != nil {
		return Theme{}, loadError
	}
	return base.Merge(override), nil
}

func loadThemeFile(path string) (Theme, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return Theme{}, fmt.Errorf(errorReadThemeFormat, path, readError)
	}
	theme, parseError := parseTheme(bytes.NewReader(content))
	if parseError != nil {
		return Theme{}, fmt.Errorf(errorReadThemeFormat, path, parseError)
	}
	return theme, nil
}

func parseTheme(reader io.Reader) (Theme, error) {
	themeReader := viper.New()
	themeReader.SetConfigType(themeFileType)
	if readError := themeReader.ReadConfig(reader); readError != nil {
		return Theme{}, readError
	}
	sections := map[string]map[string]any{}
	for sectionName, value := range themeReader.AllSettings() {
		values, isTable := value.(map[string]any)
		if !isTable {
			continue
		}
		sections[sectionName] = values
	}
	return NewTheme(sections), nil
}
