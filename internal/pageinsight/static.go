package pageinsight

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/Bahjat/page-palette/internal/palette"
)

var errNoBodyColor = errors.New("no body color declared")

// StaticDocument reads parsed HTML: inline style attributes and the text of
// <style> elements. It has no layout, so it never yields candidates.
type StaticDocument struct {
	doc      *goquery.Document
	location string
	css      string
}

// ParseHTML parses markup into a StaticDocument reporting location as its URL.
func ParseHTML(r io.Reader, location string) (*StaticDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var css strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		css.WriteString(s.Text())
		css.WriteByte('\n')
	})

	return &StaticDocument{doc: doc, location: location, css: css.String()}, nil
}

// Mode implements palette.Document.
func (d *StaticDocument) Mode() palette.Mode { return palette.ModeStatic }

// Location implements palette.Document.
func (d *StaticDocument) Location() string { return d.location }

// QueryVisibleCandidates implements palette.Document. Parsed HTML has no
// geometry, so there is nothing to score.
func (d *StaticDocument) QueryVisibleCandidates(_ []string) ([]palette.Candidate, error) {
	return nil, nil
}

// ComputedColors returns the inline value of property for every element
// matching selector, followed by the matching declarations of the page's
// <style> text.
func (d *StaticDocument) ComputedColors(selector string, property palette.Property) ([]string, error) {
	var values []string

	if sel, err := cascadia.Compile(selector); err == nil {
		d.doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
			style := inlineStyle(s.AttrOr("style", ""))
			v := style[string(property)]
			if v == "" && property == palette.PropertyBackgroundColor {
				v = style["background"]
			}
			if v != "" {
				values = append(values, v)
			}
		})
	}

	switch property {
	case palette.PropertyColor:
		values = append(values, allMatches(colorDecl, d.css)...)
	case palette.PropertyBackgroundColor:
		values = append(values, allMatches(buttonRule, d.css)...)
	}
	return values, nil
}

// BackgroundSources implements palette.Document. Custom properties are not
// consulted in parsed HTML.
func (d *StaticDocument) BackgroundSources() ([]palette.Source, error) {
	body := d.inline("body")
	root := d.inline("html")

	var sources []palette.Source
	add := func(origin palette.Origin, v string) {
		if v != "" {
			sources = append(sources, palette.Source{Origin: origin, Value: v})
		}
	}
	add(palette.OriginBody, body["background"])
	add(palette.OriginBody, body["background-color"])
	add(palette.OriginRoot, root["background"])
	add(palette.OriginRoot, root["background-color"])
	add(palette.OriginStylesheet, firstMatch(bodyBackgroundRule, d.css))
	return sources, nil
}

// FontFamilySources implements palette.Document.
func (d *StaticDocument) FontFamilySources() ([]palette.Source, error) {
	var sources []palette.Source
	if v := d.inline("body")["font-family"]; v != "" {
		sources = append(sources, palette.Source{Origin: palette.OriginBody, Value: v})
	}
	if v := d.inline("html")["font-family"]; v != "" {
		sources = append(sources, palette.Source{Origin: palette.OriginRoot, Value: v})
	}
	if v := firstMatch(fontFamilyDecl, d.css); v != "" {
		sources = append(sources, palette.Source{Origin: palette.OriginStylesheet, Value: v})
	}
	return sources, nil
}

// ResolveKeyword answers every CSS-wide keyword with the body's declared
// text colour.
func (d *StaticDocument) ResolveKeyword(keyword string) (string, error) {
	if v := d.inline("body")["color"]; v != "" {
		return v, nil
	}
	if v := firstMatch(bodyColorRule, d.css); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("resolving %q: %w", keyword, errNoBodyColor)
}

// inline returns the parsed style attribute of the first element named tag.
func (d *StaticDocument) inline(tag string) map[string]string {
	return inlineStyle(d.doc.Find(tag).First().AttrOr("style", ""))
}
