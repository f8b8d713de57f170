//go:build cgo

package highlight

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

var treeSitterLanguages = map[string]func() *sitter.Language{
	".go":  golang.GetLanguage,
	".py":  python.GetLanguage,
	".js":  javascript.GetLanguage,
	".mjs": javascript.GetLanguage,
	".cjs": javascript.GetLanguage,
	".jsx": javascript.GetLanguage,
}

// Node types whose whole span is one token even when the grammar gives them children.
var treeSitterAtomicNodeTypes = map[string]chroma.TokenType{
	"comment":                    chroma.Comment,
	"string":                     chroma.LiteralString,
	"template_string":            chroma.LiteralString,
	"interpreted_string_literal": chroma.LiteralString,
	"raw_string_literal":         chroma.LiteralString,
	"rune_literal":               chroma.LiteralStringChar,
	"regex":                      chroma.LiteralStringRegex,
}

var treeSitterLeafNodeTypes = map[string]chroma.TokenType{
	"integer":             chroma.LiteralNumberInteger,
	"float":               chroma.LiteralNumberFloat,
	"int_literal":         chroma.LiteralNumberInteger,
	"float_literal":       chroma.LiteralNumberFloat,
	"imaginary_literal":   chroma.LiteralNumber,
	"number":              chroma.LiteralNumber,
	"true":                chroma.KeywordConstant,
	"false":               chroma.KeywordConstant,
	"none":                chroma.KeywordConstant,
	"nil":                 chroma.KeywordConstant,
	"null":                chroma.KeywordConstant,
	"undefined":           chroma.KeywordConstant,
	"type_identifier":     chroma.KeywordType,
	"field_identifier":    chroma.NameAttribute,
	"property_identifier": chroma.NameAttribute,
	"package_identifier":  chroma.NameNamespace,
	"escape_sequence":     chroma.LiteralStringEscape,
}

var treeSitterDefinitionParents = map[string]chroma.TokenType{
	"function_definition":  chroma.NameFunction,
	"function_declaration": chroma.NameFunction,
	"method_declaration":   chroma.NameFunction,
	"method_definition":    chroma.NameFunction,
	"class_definition":     chroma.NameClass,
	"class_declaration":    chroma.NameClass,
}

// TreeSitterTokenizer classifies tokens from a concrete syntax tree for the
// languages it knows and defers to chroma for everything else.
type TreeSitterTokenizer struct {
	fallback ChromaTokenizer
}

// NewTreeSitterTokenizer constructs a tree-sitter backed Tokenizer.
func NewTreeSitterTokenizer() Tokenizer {
	return &TreeSitterTokenizer{}
}

// Tokenize implements Tokenizer. A parser is created per call so the tokenizer can be shared across workers.
func (tokenizer *TreeSitterTokenizer) Tokenize(fileName string, text string) ([]Token, error) {
	languageFactory, supported := treeSitterLanguages[strings.ToLower(filepath.Ext(fileName))]
	if !supported {
		return tokenizer.fallback.Tokenize(fileName, text)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(languageFactory())
	content := []byte(text)
	tree := parser.Parse(nil, content)
	if tree == nil {
		return tokenizer.fallback.Tokenize(fileName, text)
	}

	collector := &treeSitterCollector{content: content}
	collector.visit(tree.RootNode())
	collector.emitGap(uint32(len(content)))
	return collector.tokens, nil
}

type treeSitterCollector struct {
	content []byte
	offset  uint32
	tokens  []Token
}

func (collector *treeSitterCollector) visit(node *sitter.Node) {
	if node == nil {
		return
	}
	if tokenType, atomic := treeSitterAtomicNodeTypes[node.Type()]; atomic {
		collector.emit(node, tokenType)
		return
	}
	childCount := int(node.ChildCount())
	if childCount == 0 {
		collector.emit(node, classifyLeaf(node))
		return
	}
	for childIndex := 0; childIndex < childCount; childIndex++ {
		collector.visit(node.Child(childIndex))
	}
}

func (collector *treeSitterCollector) emit(node *sitter.Node, tokenType chroma.TokenType) {
	start, end := node.StartByte(), node.EndByte()
	if start < collector.offset || end <= start {
		return
	}
	collector.emitGap(start)
	collector.tokens = append(collector.tokens, Token{Type: tokenType, Value: string(collector.content[start:end])})
	collector.offset = end
}

func (collector *treeSitterCollector) emitGap(until uint32) {
	if until > uint32(len(collector.content)) {
		until = uint32(len(collector.content))
	}
	if until <= collector.offset {
		return
	}
	collector.tokens = append(collector.tokens, Token{Type: chroma.Text, Value: string(collector.content[collector.offset:until])})
	collector.offset = until
}

func classifyLeaf(node *sitter.Node) chroma.TokenType {
	nodeType := node.Type()
	if tokenType, known := treeSitterLeafNodeTypes[nodeType]; known {
		return tokenType
	}
	if nodeType == "identifier" {
		if parent := node.Parent(); parent != nil {
			if tokenType, defines := treeSitterDefinitionParents[parent.Type()]; defines {
				return tokenType
			}
		}
		return chroma.Name
	}
	if node.IsNamed() {
		return chroma.Text
	}
	if isWord(nodeType) {
		return chroma.Keyword
	}
	return chroma.Punctuation
}

func isWord(value string) bool {
	if value == "" {
		return false
	}
	for _, character := range value {
		if !unicode.IsLetter(character) && character != '_' {
			return false
		}
	}
	return true
}
