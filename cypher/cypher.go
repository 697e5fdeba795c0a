package cypher

import "strings"

const alphabetSize = 26

// Cypher is a stateless per-character substitution rule.
type Cypher interface {
	// Name returns the family name used in error messages (e.g. "CaesarCypher").
	Name() string
	// Translate maps a single character. Characters outside A-Z and a-z
	// are returned unchanged.
	Translate(r rune) rune
	// ApplyTo translates every character of text, preserving order and length.
	ApplyTo(text string) string
}

// window returns the first letter of the case window containing r.
func window(r rune) (rune, bool) {
	switch {
	case 'A' <= r && r <= 'Z':
		return 'A', true
	case 'a' <= r && r <= 'z':
		return 'a', true
	}
	return 0, false
}

func applyTo(c Cypher, text string) string {
	return strings.Map(c.Translate, text)
}

// shiftCypher rotates letters by a signed shift within their case window.
type shiftCypher struct {
	name  string
	shift int
}

func (c shiftCypher) Name() string { return c.name }

func (c shiftCypher) Translate(r rune) rune {
	first, ok := window(r)
	if !ok {
		return r
	}
	index := int(r - first)
	return first + rune((index+c.shift+alphabetSize)%alphabetSize)
}

func (c shiftCypher) ApplyTo(text string) string { return applyTo(c, text) }

// atbashCypher mirrors letters within their case window.
type atbashCypher struct{}

func (atbashCypher) Name() string { return atbashName }

func (atbashCypher) Translate(r rune) rune {
	first, ok := window(r)
	if !ok {
		return r
	}
	return first + (alphabetSize - 1 - (r - first))
}

func (c atbashCypher) ApplyTo(text string) string { return applyTo(c, text) }
