package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"ff8000", RGB{255, 128, 0}},
		{"000000", RGB{0, 0, 0}},
		{"FFFFFF", RGB{255, 255, 255}},
		{"12345678", RGB{0x12, 0x34, 0x56}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HexToRGB(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A leading '#' is an extension over the bare "rrggbb" form.
func TestHexToRGB_AcceptsHashPrefix(t *testing.T) {
	got, err := HexToRGB("#0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, RGB{10, 11, 12}, got)

	bare, err := HexToRGB("0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, bare, got)

	_, err = HexToRGB("##0a0b0c")
	assert.ErrorIs(t, err, ErrHexParse)
}

func TestHexToRGB_Malformed(t *testing.T) {
	for _, in := range []string{"", "fff", "ff80", "gg0000", "ff 000", "#12345"} {
		_, err := HexToRGB(in)
		assert.ErrorIs(t, err, ErrHexParse, "input %q", in)
	}
}

func TestRGBToHex(t *testing.T) {
	assert.Equal(t, "ff8000", RGBToHex(RGB{255, 128, 0}))
	assert.Equal(t, "000000", RGBToHex(RGB{}))
	assert.Equal(t, "0a0b0c", RGBToHex(RGB{10, 11, 12}))
	assert.Equal(t, "0a0b0c", RGB{10, 11, 12}.String())
}

func TestHexRoundTrip(t *testing.T) {
	rgb, err := HexToRGB("ff8000")
	require.NoError(t, err)
	assert.Equal(t, "ff8000", RGBToHex(rgb))
}
