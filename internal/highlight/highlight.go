// Package highlight tokenizes source text and maps token types to colors.
package highlight

import (
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Syntax engines selectable from the command line.
const (
	EngineChroma     = "chroma"
	EngineTreeSitter = "tree-sitter"

	// DefaultColor is used when a style has no color for a token type.
	DefaultColor = "#abb2bf"
	// DefaultStyle is the chroma style used when none is configured.
	DefaultStyle = "monokai"

	errorUnknownEngineFormat = "unknown syntax engine %q"
)

// ErrEngineUnavailable is returned for engines this build cannot provide.
var ErrEngineUnavailable = errors.New("syntax engine unavailable in this build")

// Token is one lexical unit of the input text.
type Token struct {
	Type  chroma.TokenType
	Value string
}

// Tokenizer splits text into typed tokens. Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(fileName string, text string) ([]Token, error)
}

// NewTokenizer returns the tokenizer for a syntax engine name. An empty name selects chroma.
func NewTokenizer(engine string) (Tokenizer, error) {
	switch engine {
	case "", EngineChroma:
		return ChromaTokenizer{}, nil
	case EngineTreeSitter:
		tokenizer := NewTreeSitterTokenizer()
		if tokenizer == nil {
			return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, engine)
		}
		return tokenizer, nil
	default:
		return nil, fmt.Errorf(errorUnknownEngineFormat, engine)
	}
}

// ChromaTokenizer tokenizes with chroma lexers chosen by file name.
type ChromaTokenizer struct{}

// LexerFor picks a lexer by file name, then by content analysis, then plain text.
func LexerFor(fileName string, text string) chroma.Lexer {
	lexer := lexers.Match(fileName)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Tokenize implements Tokenizer.
func (ChromaTokenizer) Tokenize(fileName string, text string) ([]Token, error) {
	iterator, tokeniseError := LexerFor(fileName, text).Tokenise(nil, text)
	if tokeniseError != nil {
		iterator, tokeniseError = lexers.Fallback.Tokenise(nil, text)
		if tokeniseError != nil {
			return nil, tokeniseError
		}
	}
	var tokens []Token
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokens = append(tokens, Token{Type: token.Type, Value: token.Value})
	}
	return tokens, nil
}

// Palette maps token types to colors using a chroma style.
type Palette struct {
	style        *chroma.Style
	defaultColor string
}

// NewPalette resolves styleName, falling back to chroma's default style when it is unknown.
func NewPalette(styleName string, defaultColor string) Palette {
	if defaultColor == "" {
		defaultColor = DefaultColor
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return Palette{style: style, defaultColor: defaultColor}
}

// ColorFor returns the hex color of tokenType, or the default color.
func (palette Palette) ColorFor(tokenType chroma.TokenType) string {
	if palette.style == nil {
		return palette.defaultColor
	}
	entry := palette.style.Get(tokenType)
	if !entry.Colour.IsSet() {
		return palette.defaultColor
	}
	return entry.Colour.String()
}
