package label

// Built-in bottle style dielines.
// Dimensions are the nominal cut sizes supplied by the print shop;
// bleed is added at print time, not here.

// ClassicSpec returns the standard 700ml spirit bottle.
func ClassicSpec() *Style {
	return &Style{
		StyleName: "classic",
		Sides: map[Side]PhysicalSize{
			SideFront: {WidthMm: 110, HeightMm: 65},
			SideBack:  {WidthMm: 90, HeightMm: 55},
		},
	}
}

// FlaskSpec returns the flat hip-flask bottle with a portrait front panel.
func FlaskSpec() *Style {
	return &Style{
		StyleName: "flask",
		Sides: map[Side]PhysicalSize{
			SideFront: {WidthMm: 80, HeightMm: 100},
			SideBack:  {WidthMm: 70, HeightMm: 90},
		},
	}
}

// SquareSpec returns the square gin bottle with equal-sided panels.
func SquareSpec() *Style {
	return &Style{
		StyleName: "square",
		Sides: map[Side]PhysicalSize{
			SideFront: {WidthMm: 110, HeightMm: 110},
			SideBack:  {WidthMm: 110, HeightMm: 110},
		},
	}
}

// MiniatureSpec returns the 50ml sampler bottle. Front label only.
func MiniatureSpec() *Style {
	return &Style{
		StyleName: "miniature",
		Sides: map[Side]PhysicalSize{
			SideFront: {WidthMm: 45, HeightMm: 35},
		},
	}
}
