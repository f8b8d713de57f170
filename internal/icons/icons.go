// Package icons maps directory entries to an icon and a color.
package icons

import (
	"path/filepath"
	"strings"

	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/types"
)

// Icon identifiers. Every identifier has a glyph in Glyphs.
const (
	IconFolder     = "folder"
	IconFolderOpen = "folder_open"
	IconDefault    = "default"
	IconGit        = "git"

	categoryHidden = "hidden"

	themeKeyTextFolder  = "text_folder"
	themeKeyIconDefault = "icon_default"

	defaultFolderColor = "#0000ff"
	defaultIconColor   = "#cccccc"
	defaultGitColor    = "#ff0000"
	defaultHiddenColor = "#555555"
)

// Glyphs holds the symbol font code point drawn for each icon identifier.
var Glyphs = map[string]rune{
	IconFolder:     '\uf115',
	IconFolderOpen: '\uf07c',
	IconDefault:    '\uf016',
	"image":        '\uf1c5',
	"code":         '\uf121',
	"python":       '\ue73c',
	"js":           '\ue74e',
	"ts":           '\ue628',
	"html":         '\uf13b',
	"css":          '\ue749',
	"json":         '\ue60b',
	"md":           '\ue609',
	"txt":          '\uf0f6',
	"pdf":          '\uf1c1',
	"zip":          '\uf1c6',
	IconGit:        '\uf1d3',
	"shell":        '\uf489',
	"audio":        '\uf1c7',
	"video":        '\uf1c8',
	"font":         '\uf031',
	"db":           '\uf1c0',
	"exe":          '\uf085',
	"rs":           '\ue7a8',
	"go":           '\ue627',
	"c":            '\ue61e',
	"cpp":          '\ue61d',
	"java":         '\ue738',
}

var extensionCategories = map[string]string{
	".py": "python", ".pyw": "python", ".ipynb": "python",
	".js": "js", ".mjs": "js", ".cjs": "js", ".jsx": "js",
	".ts": "ts", ".tsx": "ts",
	".html": "html", ".htm": "html",
	".css": "css", ".scss": "css", ".sass": "css", ".less": "css",
	".json": "json", ".yaml": "json", ".yml": "json", ".toml": "json",
	".md": "md", ".markdown": "md", ".rst": "md",
	".txt": "txt", ".log": "txt", ".csv": "txt",
	".pdf": "pdf",
	".zip": "zip", ".tar": "zip", ".gz": "zip", ".tgz": "zip", ".bz2": "zip", ".xz": "zip", ".7z": "zip", ".rar": "zip",
	".sh": "shell", ".bash": "shell", ".zsh": "shell", ".fish": "shell", ".ps1": "shell",
	".jpg": "image", ".jpeg": "image", ".png": "image", ".gif": "image", ".bmp": "image",
	".svg": "image", ".webp": "image", ".ico": "image", ".tif": "image", ".tiff": "image", ".jxl": "image",
	".mp3": "audio", ".wav": "audio", ".flac": "audio", ".ogg": "audio", ".m4a": "audio",
	".mp4": "video", ".mkv": "video", ".mov": "video", ".avi": "video", ".webm": "video",
	".ttf": "font", ".otf": "font", ".woff": "font", ".woff2": "font",
	".db": "db", ".sqlite": "db", ".sql": "db",
	".exe": "exe", ".dll": "exe", ".so": "exe", ".bin": "exe",
	".rs": "rs",
	".go": "go",
	".c": "c", ".h": "c",
	".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp", ".hpp": "cpp",
	".java": "java", ".kt": "java",
	".xml": "code", ".rb": "code", ".php": "code", ".lua": "code", ".swift": "code",
}

var dotfileCategories = map[string]string{
	".gitignore":     IconGit,
	".gitattributes": IconGit,
	".gitmodules":    IconGit,
	".gitkeep":       IconGit,
	".git":           IconGit,
}

var builtinCategoryColors = map[string]string{
	IconGit:        defaultGitColor,
	categoryHidden: defaultHiddenColor,
}

// Resolve returns the icon and color for an entry. It only looks at the name.
func Resolve(name string, isDirectory bool, theme config.Theme) types.IconAssignment {
	if isDirectory {
		color := theme.String(config.SectionFileColors, IconFolder, "")
		if color == "" {
			color = theme.String(config.SectionColors, themeKeyTextFolder, defaultFolderColor)
		}
		return types.IconAssignment{IconID: IconFolder, Color: color}
	}

	category := Category(name)
	return types.IconAssignment{IconID: category, Color: fileColor(name, category, theme)}
}

// Category classifies a file name into an icon category.
func Category(name string) string {
	lowered := strings.ToLower(name)
	if category, known := dotfileCategories[lowered]; known {
		return category
	}
	if category, known := extensionCategories[strings.ToLower(filepath.Ext(name))]; known {
		return category
	}
	return IconDefault
}

func fileColor(name string, category string, theme config.Theme) string {
	if color := theme.String(config.SectionFileColors, category, ""); color != "" {
		return color
	}
	if strings.HasPrefix(name, ".") {
		if color := theme.String(config.SectionFileColors, categoryHidden, ""); color != "" {
			return color
		}
	}
	if color := theme.String(config.SectionColors, category, ""); color != "" {
		return color
	}
	if color, known := builtinCategoryColors[category]; known {
		return color
	}
	if strings.HasPrefix(name, ".") {
		return defaultHiddenColor
	}
	return theme.String(config.SectionColors, themeKeyIconDefault, defaultIconColor)
}

// Glyph returns the code point for an icon identifier, falling back to the default icon.
func Glyph(iconID string) rune {
	if glyph, known := Glyphs[iconID]; known {
		return glyph
	}
	return Glyphs[IconDefault]
}
