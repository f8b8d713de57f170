package glyph

import (
	"fmt"
	"sort"
)

const outlineIdentifierFormat = "g-%x"

// Outline is the cached vector path for one code point. Path is empty when
// the font has no glyph for it.
type Outline struct {
	ID        string
	Character rune
	Path      string
}

// Cache memoizes outlines per code point for the lifetime of one render.
// It is not safe for concurrent use.
type Cache struct {
	face     Face
	outlines map[rune]Outline
}

// NewCache returns an empty cache over face. A nil face yields empty outlines.
func NewCache(face Face) *Cache {
	return &Cache{face: face, outlines: map[rune]Outline{}}
}

// Outline returns the outline for character, extracting it on first use.
func (cache *Cache) Outline(character rune) Outline {
	if cached, exists := cache.outlines[character]; exists {
		return cached
	}
	outline := Outline{ID: fmt.Sprintf(outlineIdentifierFormat, character), Character: character}
	if cache.face != nil {
		if index, mapped := cache.face.GlyphIndex(character); mapped {
			if path, drawError := cache.face.Outline(index); drawError == nil {
				outline.Path = path
			}
		}
	}
	cache.outlines[character] = outline
	return outline
}

// UnitsPerEm reports the design grid of the underlying face, or 2048 without one.
func (cache *Cache) UnitsPerEm() int {
	if cache.face == nil || cache.face.UnitsPerEm() <= 0 {
		return defaultUnitsPerEm
	}
	return cache.face.UnitsPerEm()
}

// Used lists every non-empty outline requested so far, ordered by identifier.
func (cache *Cache) Used() []Outline {
	used := make([]Outline, 0, len(cache.outlines))
	for _, outline := range cache.outlines {
		if outline.Path == "" {
			continue
		}
		used = append(used, outline)
	}
	sort.Slice(used, func(left, right int) bool {
		return used[left].ID < used[right].ID
	})
	return used
}

const defaultUnitsPerEm = 2048
