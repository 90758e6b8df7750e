package pageinsight

import (
	"regexp"
	"strings"
)

// Declarations are matched on property boundaries so that "color" never hits
// "background-color" and "body" never hits "tbody".
var (
	bodyBackgroundRule = regexp.MustCompile(`(?i)(?:^|[^\w-])body\s*\{\s*(?:[^}]*?;\s*)?background(?:-color)?\s*:\s*([^;}]+)`)
	bodyColorRule      = regexp.MustCompile(`(?i)(?:^|[^\w-])body\s*\{\s*(?:[^}]*?;\s*)?color\s*:\s*([^;}]+)`)
	fontFamilyDecl     = regexp.MustCompile(`(?i)(?:^|[^\w-])font-family\s*:\s*([^;}]+)`)
	colorDecl          = regexp.MustCompile(`(?i)(?:^|[^\w-])color\s*:\s*([^;}]+)`)
	buttonRule         = regexp.MustCompile(`(?i)(?:button|\.btn|\[class\*="button"\])\s*\{\s*(?:[^}]*?;\s*)?background(?:-color)?\s*:\s*([^;}]+)`)
)

// firstMatch returns the trimmed capture of the first match of re in css.
func firstMatch(re *regexp.Regexp, css string) string {
	m := re.FindStringSubmatch(css)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// allMatches returns the trimmed captures of every match of re in css.
func allMatches(re *regexp.Regexp, css string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(css, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// inlineStyle parses a style attribute into lower-cased property names and
// trimmed values. Later declarations override earlier ones.
func inlineStyle(attr string) map[string]string {
	decls := make(map[string]string)
	for decl := range strings.SplitSeq(attr, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		decls[prop] = value
	}
	return decls
}
