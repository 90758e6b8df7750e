package palette

import (
	"strings"

	"github.com/Bahjat/page-palette/internal/colour"
)

// ExtractFontColors tallies the text colour of every text-bearing element.
func ExtractFontColors(doc Document, norm *colour.Normalizer) ([]ColorCount, error) {
	return sample(doc, norm, textSelector(), PropertyColor)
}

// ExtractButtonColors tallies the background colour of every button-like
// element.
func ExtractButtonColors(doc Document, norm *colour.Normalizer) ([]ColorCount, error) {
	return sample(doc, norm, buttonSelector(), PropertyBackgroundColor)
}

func sample(doc Document, norm *colour.Normalizer, selector string, prop Property) ([]ColorCount, error) {
	raw, err := doc.ComputedColors(selector, prop)
	if err != nil {
		return nil, err
	}

	colors := make([]string, 0, len(raw))
	for _, v := range raw {
		if c, ok := norm.Normalize(v); ok {
			colors = append(colors, c)
		}
	}
	return Tally(colors), nil
}

// ExtractFont returns the first non-empty font-family source, or
// DefaultFont. The value is reported as declared, not normalised.
func ExtractFont(doc Document) (string, error) {
	sources, err := doc.FontFamilySources()
	if err != nil {
		return "", err
	}
	for _, s := range sources {
		if v := strings.TrimSpace(s.Value); v != "" {
			return v, nil
		}
	}
	return DefaultFont, nil
}
