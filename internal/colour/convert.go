package colour

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Channel separators accept both the legacy comma syntax and the CSS Color 4
// space syntax with an optional "/ alpha".
var (
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*[,\s]\s*(\d+)\s*[,\s]\s*(\d+)\s*(?:[,/]\s*([\d.]+%?)\s*)?\)`)
	hslPattern = regexp.MustCompile(`^hsla?\(\s*([\d.]+)(?:deg)?\s*[,\s]\s*([\d.]+)%\s*[,\s]\s*([\d.]+)%\s*(?:[,/]\s*([\d.]+%?)\s*)?\)`)
)

// rgbToHex converts an rgb()/rgba() value to #rrggbb. Values that do not
// match the pattern are returned unchanged.
func rgbToHex(v string) (string, bool) {
	m := rgbPattern.FindStringSubmatch(v)
	if m == nil {
		return v, true
	}
	if zeroAlpha(m[4]) {
		return "", false
	}

	r, _ := strconv.Atoi(m[1]) //nolint:errcheck // regex guarantees digits
	g, _ := strconv.Atoi(m[2]) //nolint:errcheck
	b, _ := strconv.Atoi(m[3]) //nolint:errcheck
	return hexString(r, g, b), true
}

// hslToHex converts an hsl()/hsla() value to #rrggbb. Values that do not
// match the pattern are returned unchanged.
func hslToHex(v string) (string, bool) {
	m := hslPattern.FindStringSubmatch(v)
	if m == nil {
		return v, true
	}
	if zeroAlpha(m[4]) {
		return "", false
	}

	h, _ := strconv.ParseFloat(m[1], 64) //nolint:errcheck // regex guarantees a number
	s, _ := strconv.ParseFloat(m[2], 64) //nolint:errcheck
	l, _ := strconv.ParseFloat(m[3], 64) //nolint:errcheck

	r, g, b := hslToRGB(math.Mod(h, 360), s/100, l/100)
	return hexString(r, g, b), true
}

func zeroAlpha(alpha string) bool {
	if alpha == "" {
		return false
	}
	a, err := strconv.ParseFloat(strings.TrimSuffix(alpha, "%"), 64)
	return err == nil && a == 0
}

func hexString(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(r, 0, 255), clamp(g, 0, 255), clamp(b, 0, 255))
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// hslToRGB expects h in degrees and s, l in the 0..1 range.
func hslToRGB(h, s, l float64) (int, int, int) {
	h /= 360.0
	s = math.Min(math.Max(s, 0), 1)
	l = math.Min(math.Max(l, 0), 1)

	if s == 0 {
		v := int(math.Round(l * 255))
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r := hueToRGB(p, q, h+1.0/3.0)
	g := hueToRGB(p, q, h)
	b := hueToRGB(p, q, h-1.0/3.0)
	return int(math.Round(r * 255)), int(math.Round(g * 255)), int(math.Round(b * 255))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
