package color

// Color is the color state reported by a light that supports color.
// Lights without color support carry a nil *Color.
type Color struct {
	XY        XYPoint
	Gamut     Gamut
	GamutType string // "A", "B", "C" or "other" as reported by the bridge
}

// RGB returns the displayable RGB of the color at full brightness.
func (c *Color) RGB() RGB {
	return NewConverter(c.Gamut).XYToRGB(c.XY.X, c.XY.Y, 1)
}

// Hex returns the displayable hex string of the color at full brightness.
func (c *Color) Hex() string {
	return RGBToHex(c.RGB())
}
