package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dokzlo13/huectl/internal/color"
)

// parseRGB accepts "r,g,b" with each channel in [0, 255].
func parseRGB(s string) (color.RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGB{}, fmt.Errorf("expected r,g,b, got %q", s)
	}
	return parseChannels(parts)
}

func parseChannels(parts []string) (color.RGB, error) {
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGB{}, fmt.Errorf("invalid channel %q: must be 0-255", p)
		}
		ch[i] = uint8(v)
	}
	return color.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// parseColor accepts a hex color or "r,g,b".
func parseColor(s string) (color.RGB, error) {
	if strings.Contains(s, ",") {
		return parseRGB(s)
	}
	return color.HexToRGB(s)
}

func parseXY(xs, ys string) (color.XYPoint, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return color.XYPoint{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return color.XYPoint{}, fmt.Errorf("invalid y %q", ys)
	}
	return color.XYPoint{X: x, Y: y}, nil
}

func formatXY(p color.XYPoint) string {
	return fmt.Sprintf("%.4f %.4f", p.X, p.Y)
}
