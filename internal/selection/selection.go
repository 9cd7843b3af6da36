// Package selection turns a stream of pointer releases into debounced,
// filtered selections ready to be looked up.
package selection

import (
	"strings"
	"unicode/utf8"
)

const DefaultMaxLength = 50

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Selection is a single highlighted word and where the pointer was released.
type Selection struct {
	Text  string `json:"text"`
	Point Point  `json:"point"`
}

// PointerRelease is the page's selected text at the moment the pointer was released.
type PointerRelease struct {
	Text  string
	Point Point
}

// Filter returns nil unless the trimmed text is exactly one token of at most
// maxLength characters.
func Filter(text string, point Point, maxLength int) *Selection {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(strings.Fields(text)) != 1 {
		return nil
	}
	if utf8.RuneCountInString(text) > maxLength {
		return nil
	}
	return &Selection{Text: text, Point: point}
}
