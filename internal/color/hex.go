package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrHexParse is returned for malformed hex color strings.
var ErrHexParse = errors.New("invalid hex color")

// HexToRGB parses a "rrggbb" string. Characters after the sixth digit are
// ignored. A leading '#' is also accepted, so CSS-style colors work as-is.
func HexToRGB(hex string) (RGB, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) < 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrHexParse, hex)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q: %v", ErrHexParse, hex, err)
		}
		ch[i] = uint8(v)
	}

	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// RGBToHex formats rgb as a zero-padded lowercase "rrggbb" string.
func RGBToHex(rgb RGB) string {
	return fmt.Sprintf("%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return RGBToHex(c)
}
