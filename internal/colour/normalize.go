// Package colour converts arbitrary CSS colour expressions into the canonical
// form used both as a comparison key and as the reported value.
package colour

import (
	"regexp"
	"strings"
)

const (
	// Black is returned when a CSS-wide keyword cannot be resolved.
	Black = "#000000"

	// maxDepth bounds keyword resolution and gradient recursion.
	maxDepth = 4
)

// KeywordResolver evaluates a CSS-wide keyword (initial, inherit, unset,
// currentcolor) in a style-computation context and returns the rendered
// colour value, e.g. "rgb(17, 17, 17)".
type KeywordResolver interface {
	ResolveKeyword(keyword string) (string, error)
}

// Normalizer maps CSS colour values to canonical colours. A nil resolver is
// allowed; keywords then resolve to Black.
type Normalizer struct {
	resolver KeywordResolver
}

// NewNormalizer returns a Normalizer that resolves CSS-wide keywords with r.
func NewNormalizer(r KeywordResolver) *Normalizer {
	return &Normalizer{resolver: r}
}

// Normalize is a convenience wrapper around a Normalizer without a keyword
// resolver.
func Normalize(raw string) (string, bool) {
	return (&Normalizer{}).Normalize(raw)
}

var importantSuffix = regexp.MustCompile(`\s*!\s*important\s*$`)

// Normalize returns the canonical form of raw. The boolean is false when raw
// carries no colour: empty input, transparent, or a zero-alpha rgba/hsla.
// Unrecognised values are passed through lowercased; Normalize never fails.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	return n.normalize(raw, 0)
}

func (n *Normalizer) normalize(raw string, depth int) (string, bool) {
	v := clean(raw)
	if v == "" {
		return "", false
	}

	switch {
	case IsKeyword(v):
		return n.resolveKeyword(v, depth), true
	case v == "transparent":
		return "", false
	case isGradient(v):
		return n.gradient(v, depth), true
	case strings.HasPrefix(v, "#"):
		return v, true
	case strings.HasPrefix(v, "rgb"):
		return rgbToHex(v)
	case strings.HasPrefix(v, "hsl"):
		return hslToHex(v)
	}

	if hex, ok := namedColours[v]; ok {
		return hex, true
	}
	return v, true
}

// clean drops a trailing !important and anything after the first ';',
// then lowercases and trims the value.
func clean(raw string) string {
	v, _, _ := strings.Cut(raw, ";")
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.TrimSpace(importantSuffix.ReplaceAllString(v, ""))
}

// IsKeyword reports whether v is one of the CSS-wide keywords that need
// resolving against a rendering context.
func IsKeyword(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "initial", "inherit", "unset", "currentcolor":
		return true
	}
	return false
}

func (n *Normalizer) resolveKeyword(keyword string, depth int) string {
	if n.resolver == nil || depth >= maxDepth {
		return Black
	}

	raw, err := n.resolver.ResolveKeyword(keyword)
	if err != nil {
		return Black
	}

	v := clean(raw)
	if v == "" || IsKeyword(v) || isGradient(v) {
		return Black
	}

	resolved, ok := n.normalize(v, depth+1)
	if !ok {
		return Black
	}
	return resolved
}

// IsCanonical reports whether v is a value Normalize can emit for a real
// colour: a hex colour or a gradient whose stops are all hex colours.
func IsCanonical(v string) bool {
	if isHex(v) {
		return true
	}
	if !isGradient(v) {
		return false
	}
	stops := Stops(v)
	for _, s := range stops {
		if !isHex(s) {
			return false
		}
	}
	return len(stops) > 0
}

func isHex(v string) bool {
	if !strings.HasPrefix(v, "#") {
		return false
	}
	switch len(v) {
	case 4, 5, 7, 9:
	default:
		return false
	}
	for _, c := range v[1:] {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}
