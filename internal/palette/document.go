// Package palette extracts a page's representative colours and font family
// from a Document and reports them as a model.AnalysisResult.
package palette

import (
	"slices"

	"github.com/Bahjat/page-palette/internal/colour"
)

// Mode tells which kind of document an accessor reads.
type Mode string

const (
	// ModeLive reads computed styles and geometry of a rendered page.
	ModeLive Mode = "live"
	// ModeStatic reads inline styles and <style> text of parsed HTML. No
	// layout is available, so prominent-container scoring is skipped.
	ModeStatic Mode = "static"
)

// Property is a CSS property whose colour value is sampled.
type Property string

// Sampled properties.
const (
	PropertyColor           Property = "color"
	PropertyBackgroundColor Property = "background-color"
)

// Origin names where a fallback value came from.
type Origin string

// Source origins, in the order the background and font ladders use them.
const (
	OriginCustomProperty Origin = "custom-property"
	OriginBody           Origin = "body"
	OriginRoot           Origin = "root"
	OriginStylesheet     Origin = "stylesheet"
)

// Source is one raw value of a fallback ladder.
type Source struct {
	Origin Origin
	Value  string
}

// Candidate is a visible prominent container carrying a background.
type Candidate struct {
	Tag        string
	Classes    []string
	Background string
	Width      float64
	Height     float64
	Top        float64
	ZIndex     int
}

// HasClass reports whether the candidate carries class name.
func (c Candidate) HasClass(name string) bool {
	return slices.Contains(c.Classes, name)
}

// Document is the read-only view of a page the analyzer works on. Every
// method may fail; a failure aborts the whole analysis.
type Document interface {
	colour.KeywordResolver

	// Mode reports the kind of document.
	Mode() Mode

	// Location is the URL reported in the result.
	Location() string

	// QueryVisibleCandidates returns, for each selector in order, the visible
	// matching elements with a non-transparent background. Invalid selectors
	// and elements whose styles cannot be read are skipped.
	QueryVisibleCandidates(selectors []string) ([]Candidate, error)

	// ComputedColors returns the raw value of property for each element
	// matching selector, in document order.
	ComputedColors(selector string, property Property) ([]string, error)

	// BackgroundSources returns the page-level background fallbacks in
	// priority order.
	BackgroundSources() ([]Source, error)

	// FontFamilySources returns the font-family fallbacks in priority order.
	FontFamilySources() ([]Source, error)
}
