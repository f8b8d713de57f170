package icons_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/icons"
	"github.com/temirov/svgtree/internal/types"
)

func TestResolve(t *testing.T) {
	theme := config.NewTheme(map[string]map[string]any{
		config.SectionColors: {
			"text_folder":  "#61afef",
			"icon_default": "#abcdef",
			"md":           "#0000aa",
		},
		config.SectionFileColors: {
			"python": "#3572a5",
			"hidden": "#555555",
		},
	})

	testCases := []struct {
		name        string
		entryName   string
		isDirectory bool
		expected    types.IconAssignment
	}{
		{name: "directory uses folder color", entryName: "src", isDirectory: true, expected: types.IconAssignment{IconID: icons.IconFolder, Color: "#61afef"}},
		{name: "dotted directory is still a folder", entryName: ".config", isDirectory: true, expected: types.IconAssignment{IconID: icons.IconFolder, Color: "#61afef"}},
		{name: "category override", entryName: "main.py", expected: types.IconAssignment{IconID: "python", Color: "#3572a5"}},
		{name: "extension is case folded", entryName: "SCRIPT.PY", expected: types.IconAssignment{IconID: "python", Color: "#3572a5"}},
		{name: "category default from colors", entryName: "README.md", expected: types.IconAssignment{IconID: "md", Color: "#0000aa"}},
		{name: "dotfile name match", entryName: ".gitignore", expected: types.IconAssignment{IconID: icons.IconGit, Color: "#555555"}},
		{name: "hidden file", entryName: ".env", expected: types.IconAssignment{IconID: icons.IconDefault, Color: "#555555"}},
		{name: "unmapped extension", entryName: "data.qqq", expected: types.IconAssignment{IconID: icons.IconDefault, Color: "#abcdef"}},
		{name: "no extension", entryName: "Makefile", expected: types.IconAssignment{IconID: icons.IconDefault, Color: "#abcdef"}},
		{name: "final dot wins", entryName: "archive.tar.gz", expected: types.IconAssignment{IconID: "zip", Color: "#abcdef"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, icons.Resolve(testCase.entryName, testCase.isDirectory, theme))
		})
	}
}

func TestResolveBuiltinDefaults(t *testing.T) {
	empty := config.NewTheme(nil)

	require.Equal(t, types.IconAssignment{IconID: icons.IconFolder, Color: "#0000ff"}, icons.Resolve("dir", true, empty))
	require.Equal(t, types.IconAssignment{IconID: icons.IconGit, Color: "#ff0000"}, icons.Resolve(".gitattributes", false, empty))
	require.Equal(t, types.IconAssignment{IconID: icons.IconDefault, Color: "#555555"}, icons.Resolve(".hidden", false, empty))
	require.Equal(t, types.IconAssignment{IconID: "go", Color: "#cccccc"}, icons.Resolve("main.go", false, empty))
}

func TestResolveFolderOverride(t *testing.T) {
	theme := config.NewTheme(map[string]map[string]any{
		config.SectionColors:     {"text_folder": "#61afef"},
		config.SectionFileColors: {"folder": "#e5c07b"},
	})
	require.Equal(t, "#e5c07b", icons.Resolve("pkg", true, theme).Color)
}

func TestEveryCategoryHasAGlyph(t *testing.T) {
	for _, name := range []string{"a.py", "a.rs", "a.mp4", "a.xml", "a.unknown", ".gitmodules"} {
		category := icons.Category(name)
		_, known := icons.Glyphs[category]
		require.True(t, known, category)
	}
	require.Equal(t, icons.Glyphs[icons.IconDefault], icons.Glyph("nonexistent"))
}
