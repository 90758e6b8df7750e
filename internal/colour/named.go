package colour

// namedColours is the fixed keyword table of the heuristic. The values are
// part of the output contract, including green mapping to #00ff00.
var namedColours = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"brown":   "#a52a2a",
	"pink":    "#ffc0cb",
	"lime":    "#00ff00",
	"navy":    "#000080",
	"teal":    "#008080",
	"silver":  "#c0c0c0",
	"gold":    "#ffd700",
	"indigo":  "#4b0082",
	"violet":  "#ee82ee",
	"maroon":  "#800000",
	"olive":   "#808000",
	"aqua":    "#00ffff",
	"fuchsia": "#ff00ff",
}

// IsNamed reports whether name is in the named-colour table.
func IsNamed(name string) bool {
	_, ok := namedColours[name]
	return ok
}
