package palette

import "strings"

// ProminentSelectors are the containers most likely to carry the page's
// dominant background, in query order.
var ProminentSelectors = []string{
	// hero sections and banners
	"header", ".header", "#header", ".hero", ".hero-section", ".banner", ".main-banner",
	// navigation and top bars
	"nav", ".nav", ".navigation", ".navbar", ".top-bar", ".topbar",
	// main content areas
	"main", ".main", ".main-content", ".content-wrapper", ".page-header",
	".jumbotron", ".hero-banner", ".page-banner", ".section-hero",
	// first visible sections
	"section:first-child", ".section:first-child", ".first-section",
	".container:first-child", ".wrapper:first-child", ".top-container",
}

// TextTags are the text-bearing elements sampled for font colours.
var TextTags = []string{"p", "h1", "h2", "h3", "h4", "h5", "h6", "span", "div", "a", "li", "td", "th"}

// ButtonSelectors match button-like elements sampled for button colours.
var ButtonSelectors = []string{
	"button",
	`input[type="button"]`,
	`input[type="submit"]`,
	`input[type="reset"]`,
	".btn",
	`[class*="button"]`,
}

// BackgroundVariables are the custom properties consulted for the page
// background, first usable wins.
var BackgroundVariables = []string{"--background", "--background-color", "--bg-color", "--main-bg", "--body-bg"}

// FontVariables are the custom properties consulted for the font family.
var FontVariables = []string{"--font-family", "--primary-font", "--body-font", "--main-font"}

// DefaultBackground is reported when no background source yields a colour.
const DefaultBackground = "#ffffff"

// DefaultFont is reported when no font-family source is set.
const DefaultFont = "Arial, sans-serif"

// Static documents default their font colours when no text colour is set.
const (
	DefaultStaticPrimaryFont   = "#000000"
	DefaultStaticSecondaryFont = "#333333"
)

func textSelector() string {
	return strings.Join(TextTags, ", ")
}

func buttonSelector() string {
	return strings.Join(ButtonSelectors, ", ")
}
