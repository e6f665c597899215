package site

// Palette is the colour scheme of one generated page.
type Palette struct {
	Background string
	Primary    string
	Accent     string
}

// Palettes lists the schemes a page may be rendered with.
var Palettes = []Palette{
	{Background: "#ffffff", Primary: "#0055A4", Accent: "#EF4135"},
	{Background: "#f8f9fa", Primary: "#2b2b2b", Accent: "#c1121f"},
	{Background: "#fffaf0", Primary: "#1f4e79", Accent: "#e63946"},
}

// Chooser picks a uniform integer in [0, n).
type Chooser interface {
	IntN(n int) int
}

// PickPalette returns a uniformly chosen entry of Palettes.
func PickPalette(c Chooser) Palette {
	return Palettes[c.IntN(len(Palettes))]
}
