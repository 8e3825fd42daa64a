package color

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamutFromCode(t *testing.T) {
	tests := []struct {
		code string
		want Gamut
	}{
		{"A", GamutA},
		{"B", GamutB},
		{"C", GamutC},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			g, err := GamutFromCode(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}

	assert.NotEqual(t, GamutA, GamutB)
	assert.NotEqual(t, GamutB, GamutC)
	assert.NotEqual(t, GamutA, GamutC)
}

func TestGamutFromCode_Unknown(t *testing.T) {
	for _, code := range []string{"D", "", "a", "AB", " B"} {
		_, err := GamutFromCode(code)
		assert.ErrorIs(t, err, ErrUnknownGamutCode, "code %q", code)
	}
}

func TestGamutFromModelID(t *testing.T) {
	tests := []struct {
		model string
		want  Gamut
	}{
		{"LST001", GamutA},
		{"LLC014", GamutA},
		{"LCT001", GamutB},
		{"LLM001", GamutB},
		{"LCT015", GamutC},
		{"LST002", GamutC},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			g, err := GamutFromModelID(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestGamutFromModelID_NoFuzzyMatch(t *testing.T) {
	for _, model := range []string{"lct001", "LCT0015", "LCT", "", "A"} {
		_, err := GamutFromModelID(model)
		assert.ErrorIs(t, err, ErrUnknownModelID, "model %q", model)
	}
}

func TestModelCatalogueIsDisjointAndComplete(t *testing.T) {
	counts := map[string]int{}
	for _, code := range modelGamuts {
		counts[code]++
	}
	assert.Equal(t, 9, counts["A"])
	assert.Equal(t, 5, counts["B"])
	assert.Equal(t, 8, counts["C"])
}

func TestSelectGamut(t *testing.T) {
	g, err := SelectGamut("C")
	require.NoError(t, err)
	assert.Equal(t, GamutC, g)

	g, err = SelectGamut("LCT003")
	require.NoError(t, err)
	assert.Equal(t, GamutB, g)

	_, err = SelectGamut("bogus")
	assert.True(t, errors.Is(err, ErrUnknownModelID))
}

func TestNewGamut(t *testing.T) {
	g, err := NewGamut(GamutC.Red, GamutC.Lime, GamutC.Blue)
	require.NoError(t, err)
	assert.Equal(t, GamutC, g)

	_, err = NewGamut(XYPoint{0, 0}, XYPoint{0.5, 0.5}, XYPoint{1, 1})
	assert.ErrorIs(t, err, ErrDegenerateGamut)

	_, err = NewGamut(XYPoint{0.3, 0.3}, XYPoint{0.3, 0.3}, XYPoint{0.6, 0.1})
	assert.ErrorIs(t, err, ErrDegenerateGamut)
}
