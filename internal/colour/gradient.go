package colour

import (
	"regexp"
	"strings"
)

// FallbackGradient is emitted when no colour stop can be recovered from a
// gradient. It is a lossy placeholder, see IsFallbackGradient.
const FallbackGradient = "linear-gradient(to right, #ffffff, #f0f0f0)"

var (
	gradientPattern = regexp.MustCompile(`(?:repeating-)?(linear|radial|conic)-gradient\(`)
	urlPattern      = regexp.MustCompile(`url\([^)]*(?:\)|$)`)
	stopPattern     = regexp.MustCompile(`#[0-9a-f]{3,8}\b|(?:rgba?|hsla?)\([^)]*\)|[a-z]+`)
)

// IsFallbackGradient reports whether v is the degraded gradient emitted when a
// gradient had no extractable colour.
func IsFallbackGradient(v string) bool {
	return v == FallbackGradient
}

func isGradient(v string) bool {
	return gradientPattern.MatchString(v)
}

// gradient rebuilds v as a same-family gradient holding only its distinct
// canonical hex stops. Repeating variants collapse onto their base family.
func (n *Normalizer) gradient(v string, depth int) string {
	family := gradientPattern.FindStringSubmatch(v)[1]

	stops := n.gradientStops(v, depth)
	if len(stops) == 0 {
		return FallbackGradient
	}

	joined := strings.Join(stops, ", ")
	switch family {
	case "linear":
		return "linear-gradient(to right, " + joined + ")"
	case "radial":
		return "radial-gradient(circle, " + joined + ")"
	default:
		return "conic-gradient(" + joined + ")"
	}
}

// gradientStops scans v for colour tokens. Parentheses need not balance: a
// shorthand cut at the ';' of a data URL still yields its leading stops.
func (n *Normalizer) gradientStops(v string, depth int) []string {
	// Image URLs can contain colour names ("red.png").
	v = urlPattern.ReplaceAllString(v, "")

	var stops []string
	seen := make(map[string]bool)
	for _, token := range stopPattern.FindAllString(v, -1) {
		if isWord(token) && !IsNamed(token) && token != "currentcolor" && token != "initial" {
			continue
		}

		c, ok := n.normalize(token, depth+1)
		if !ok || !isHex(c) || seen[c] {
			continue
		}
		seen[c] = true
		stops = append(stops, c)
	}
	return stops
}

func isWord(token string) bool {
	return token != "" && token[0] >= 'a' && token[0] <= 'z' && !strings.Contains(token, "(")
}

// Stops returns the colour stops of a canonical gradient in order, without
// the direction or shape argument.
func Stops(gradient string) []string {
	open := strings.Index(gradient, "(")
	end := strings.LastIndex(gradient, ")")
	if open < 0 || end <= open {
		return nil
	}

	var stops []string
	for part := range strings.SplitSeq(gradient[open+1:end], ",") {
		part = strings.TrimSpace(part)
		if part == "to right" || part == "circle" || part == "" {
			continue
		}
		stops = append(stops, part)
	}
	return stops
}
