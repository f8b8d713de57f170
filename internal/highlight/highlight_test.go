package highlight_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/highlight"
)

func joinTokens(tokens []highlight.Token) string {
	var builder strings.Builder
	for _, token := range tokens {
		builder.WriteString(token.Value)
	}
	return builder.String()
}

func TestLexerForUsesFileName(t *testing.T) {
	require.Equal(t, "Python", highlight.LexerFor("main.py", "").Config().Name)
	require.Equal(t, "Go", highlight.LexerFor("main.go", "").Config().Name)
	require.NotNil(t, highlight.LexerFor("notes.unknownextension", "plain words"))
}

func TestChromaTokenizerPreservesText(t *testing.T) {
	source := "def greet(name):\n    return \"hi \" + name\n"
	tokens, err := highlight.ChromaTokenizer{}.Tokenize("greet.py", source)
	require.NoError(t, err)
	require.Equal(t, source, joinTokens(tokens))

	var sawKeyword bool
	for _, token := range tokens {
		if token.Type.InCategory(chroma.Keyword) {
			sawKeyword = true
		}
	}
	require.True(t, sawKeyword)
}

func TestPaletteColorFor(t *testing.T) {
	palette := highlight.NewPalette("monokai", "#abb2bf")
	require.Equal(t, "#66d9ef", palette.ColorFor(chroma.Keyword))
	require.Equal(t, "#f92672", palette.ColorFor(chroma.Operator))
}

func TestPaletteUnknownStyleFallsBack(t *testing.T) {
	palette := highlight.NewPalette("no-such-style", "#010203")
	require.NotEmpty(t, palette.ColorFor(chroma.Keyword))
}

func TestNewTokenizer(t *testing.T) {
	tokenizer, err := highlight.NewTokenizer("")
	require.NoError(t, err)
	require.IsType(t, highlight.ChromaTokenizer{}, tokenizer)

	_, err = highlight.NewTokenizer("pygments")
	require.Error(t, err)
}
