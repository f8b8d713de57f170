//go:build !cgo

package highlight

// NewTreeSitterTokenizer returns nil when cgo is unavailable; tree-sitter
// grammars are C libraries.
func NewTreeSitterTokenizer() Tokenizer {
	return nil
}
