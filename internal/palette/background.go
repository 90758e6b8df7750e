package palette

import (
	"strings"

	"github.com/Bahjat/page-palette/internal/colour"
)

const (
	topEdgeLimit = 200 // px from the viewport top that earns the position bonus
	topBonus     = 2.0
	headerBonus  = 1.5
	zIndexBonus  = 1.2
)

// ExtractBackground picks the page background. Prominent containers are
// scored first; otherwise the document's fallback ladder is walked, ending
// at DefaultBackground.
func ExtractBackground(doc Document, norm *colour.Normalizer) (string, error) {
	candidates, err := doc.QueryVisibleCandidates(ProminentSelectors)
	if err != nil {
		return "", err
	}
	if c, ok := mostProminent(candidates, norm); ok {
		return c, nil
	}

	sources, err := doc.BackgroundSources()
	if err != nil {
		return "", err
	}
	for _, s := range sources {
		if blankColour(s.Value) {
			continue
		}
		if c, ok := norm.Normalize(s.Value); ok {
			return c, nil
		}
	}

	return DefaultBackground, nil
}

// mostProminent accumulates candidate scores per canonical colour and
// returns the best one. Ties go to the colour seen first.
func mostProminent(candidates []Candidate, norm *colour.Normalizer) (string, bool) {
	var order []string
	scores := make(map[string]float64)
	for _, cand := range candidates {
		c, ok := norm.Normalize(cand.Background)
		if !ok {
			continue
		}
		if _, seen := scores[c]; !seen {
			order = append(order, c)
		}
		scores[c] += score(cand)
	}

	var best string
	for _, c := range order {
		if best == "" || scores[c] > scores[best] {
			best = c
		}
	}
	return best, best != ""
}

func score(c Candidate) float64 {
	s := c.Width * c.Height
	if c.Top < topEdgeLimit {
		s *= topBonus
	}
	if strings.EqualFold(c.Tag, "header") || c.HasClass("header") || c.HasClass("hero") {
		s *= headerBonus
	}
	if c.ZIndex > 0 {
		s *= zIndexBonus
	}
	return s
}

// blankColour reports values that mean "no background set".
func blankColour(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "transparent", "rgba(0, 0, 0, 0)":
		return true
	}
	return false
}
