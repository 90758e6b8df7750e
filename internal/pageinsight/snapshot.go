package pageinsight

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Bahjat/page-palette/internal/palette"
	"github.com/Bahjat/page-palette/internal/platform/errs"
)

var (
	errUnknownParent   = errors.New("unknown parent node")
	errDuplicateNode   = errors.New("duplicate node id")
	errUnresolvedColor = errors.New("keyword has no computed colour")
)

// Snapshot is the computed state of a rendered page, captured in a browser.
// Nodes are listed parents first, in document order. Styles holds the text of
// the page's <style> elements.
type Snapshot struct {
	URL      string            `json:"url"`
	Nodes    []SnapshotNode    `json:"nodes"`
	Keywords map[string]string `json:"keywords,omitempty"`
	Styles   []string          `json:"styles,omitempty"`
}

// SnapshotNode is one element with its computed style and bounding box.
// Style keys are CSS property names, custom properties included. A node
// without a parent, or with a negative one, is a top-level element.
type SnapshotNode struct {
	ID     int               `json:"id"`
	Parent *int              `json:"parent,omitempty"`
	Tag    string            `json:"tag"`
	Attrs  map[string]string `json:"attrs,omitempty"`
	Style  map[string]string `json:"style,omitempty"`
	Rect   *Rect             `json:"rect,omitempty"`
}

// Rect is an element's bounding client rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LiveDocument answers style and geometry queries from a Snapshot. Selectors
// run against an element tree rebuilt from the snapshot.
type LiveDocument struct {
	snap  *Snapshot
	root  *html.Node
	nodes map[*html.Node]*SnapshotNode
	body  *SnapshotNode
	html  *SnapshotNode
}

// LoadSnapshot decodes a JSON snapshot and builds its LiveDocument. Malformed
// input is an errs.InvalidInput error.
func LoadSnapshot(r io.Reader) (*LiveDocument, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, invalidSnapshot(err)
	}
	return NewLiveDocument(&snap)
}

// NewLiveDocument rebuilds the element tree of snap.
func NewLiveDocument(snap *Snapshot) (*LiveDocument, error) {
	d := &LiveDocument{
		snap:  snap,
		root:  &html.Node{Type: html.DocumentNode},
		nodes: make(map[*html.Node]*SnapshotNode, len(snap.Nodes)),
	}

	byID := make(map[int]*html.Node, len(snap.Nodes))
	for i := range snap.Nodes {
		sn := &snap.Nodes[i]
		if _, dup := byID[sn.ID]; dup {
			return nil, invalidSnapshot(fmt.Errorf("%w: %d", errDuplicateNode, sn.ID))
		}

		parent := d.root
		if sn.Parent != nil && *sn.Parent >= 0 {
			p, ok := byID[*sn.Parent]
			if !ok {
				return nil, invalidSnapshot(fmt.Errorf("%w: node %d has parent %d", errUnknownParent, sn.ID, *sn.Parent))
			}
			parent = p
		}

		n := element(sn)
		parent.AppendChild(n)
		byID[sn.ID] = n
		d.nodes[n] = sn

		switch {
		case n.DataAtom == atom.Body && d.body == nil:
			d.body = sn
		case n.DataAtom == atom.Html && d.html == nil:
			d.html = sn
		}
	}
	return d, nil
}

func invalidSnapshot(err error) error {
	return &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid render snapshot.", Cause: err}
}

func element(sn *SnapshotNode) *html.Node {
	tag := strings.ToLower(sn.Tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for _, k := range slices.Sorted(maps.Keys(sn.Attrs)) {
		n.Attr = append(n.Attr, html.Attribute{Key: strings.ToLower(k), Val: sn.Attrs[k]})
	}
	return n
}

// Mode implements palette.Document.
func (d *LiveDocument) Mode() palette.Mode { return palette.ModeLive }

// Location implements palette.Document.
func (d *LiveDocument) Location() string { return d.snap.URL }

// query returns the nodes matching selector in document order. Invalid
// selectors match nothing.
func (d *LiveDocument) query(selector string) []*SnapshotNode {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	var out []*SnapshotNode
	for _, n := range sel.MatchAll(d.root) {
		out = append(out, d.nodes[n])
	}
	return out
}

// QueryVisibleCandidates implements palette.Document. An element matching
// several selectors is reported once per selector.
func (d *LiveDocument) QueryVisibleCandidates(selectors []string) ([]palette.Candidate, error) {
	var out []palette.Candidate
	for _, selector := range selectors {
		for _, sn := range d.query(selector) {
			if c, ok := candidate(sn); ok {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func candidate(sn *SnapshotNode) (palette.Candidate, bool) {
	if !visible(sn) {
		return palette.Candidate{}, false
	}

	bg := backgroundOf(sn.Style)
	switch strings.ToLower(bg) {
	case "", "rgba(0, 0, 0, 0)", "transparent", "none", "initial", "inherit":
		return palette.Candidate{}, false
	}

	z, err := strconv.Atoi(strings.TrimSpace(sn.Style["z-index"]))
	if err != nil {
		z = 0
	}

	return palette.Candidate{
		Tag:        strings.ToLower(sn.Tag),
		Classes:    strings.Fields(sn.Attrs["class"]),
		Background: bg,
		Width:      sn.Rect.Width,
		Height:     sn.Rect.Height,
		Top:        sn.Rect.Y,
		ZIndex:     z,
	}, true
}

func visible(sn *SnapshotNode) bool {
	if sn.Rect == nil || sn.Rect.Width <= 0 || sn.Rect.Height <= 0 {
		return false
	}
	return sn.Style["display"] != "none" &&
		sn.Style["visibility"] != "hidden" &&
		strings.TrimSpace(sn.Style["opacity"]) != "0"
}

// backgroundOf prefers the background shorthand over background-color.
func backgroundOf(style map[string]string) string {
	if v := strings.TrimSpace(style["background"]); v != "" {
		return v
	}
	return strings.TrimSpace(style["background-color"])
}

// ComputedColors implements palette.Document.
func (d *LiveDocument) ComputedColors(selector string, property palette.Property) ([]string, error) {
	var values []string
	for _, sn := range d.query(selector) {
		if v := strings.TrimSpace(sn.Style[string(property)]); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

// BackgroundSources implements palette.Document: root custom properties,
// then body, then root, then the body rule of the page's style text.
func (d *LiveDocument) BackgroundSources() ([]palette.Source, error) {
	var sources []palette.Source
	for _, name := range palette.BackgroundVariables {
		if v := d.rootStyle(name); v != "" {
			sources = append(sources, palette.Source{Origin: palette.OriginCustomProperty, Value: v})
		}
	}
	if d.body != nil {
		if v := backgroundOf(d.body.Style); v != "" {
			sources = append(sources, palette.Source{Origin: palette.OriginBody, Value: v})
		}
	}
	if d.html != nil {
		if v := backgroundOf(d.html.Style); v != "" {
			sources = append(sources, palette.Source{Origin: palette.OriginRoot, Value: v})
		}
	}
	if v := firstMatch(bodyBackgroundRule, strings.Join(d.snap.Styles, "\n")); v != "" {
		sources = append(sources, palette.Source{Origin: palette.OriginStylesheet, Value: v})
	}
	return sources, nil
}

// FontFamilySources implements palette.Document.
func (d *LiveDocument) FontFamilySources() ([]palette.Source, error) {
	var sources []palette.Source
	for _, name := range palette.FontVariables {
		if v := d.rootStyle(name); v != "" {
			sources = append(sources, palette.Source{Origin: palette.OriginCustomProperty, Value: v})
		}
	}
	if d.body != nil {
		if v := strings.TrimSpace(d.body.Style["font-family"]); v != "" {
			sources = append(sources, palette.Source{Origin: palette.OriginBody, Value: v})
		}
	}
	if v := d.rootStyle("font-family"); v != "" {
		sources = append(sources, palette.Source{Origin: palette.OriginRoot, Value: v})
	}
	return sources, nil
}

// ResolveKeyword implements colour.KeywordResolver using the keywords
// captured with the snapshot, then the body's computed colour.
func (d *LiveDocument) ResolveKeyword(keyword string) (string, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if v := strings.TrimSpace(d.snap.Keywords[keyword]); v != "" {
		return v, nil
	}
	if keyword == "initial" {
		return "rgb(0, 0, 0)", nil
	}
	if d.body != nil {
		if v := strings.TrimSpace(d.body.Style["color"]); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errUnresolvedColor, keyword)
}

func (d *LiveDocument) rootStyle(name string) string {
	if d.html == nil {
		return ""
	}
	return strings.TrimSpace(d.html.Style[name])
}
