package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
	}{
		{"white", White},
		{"RED", Red},
		{"  blue  ", Blue},
		{"grey", Gray},
		{"#ff0000", Red},
		{"00ff00", Green},
		{"#f0a", Color{R: 0xff, G: 0x00, B: 0xaa, A: 0xff}},
		{"#11223344", Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, input := range []string{"", "chartreuse", "#12", "#12345", "#gggggg", "#123456789"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseColor(input)
			assert.ErrorIs(t, err, ErrInvalidColor)
		})
	}
}

func TestColor_Hex(t *testing.T) {
	assert.Equal(t, "#ffffff", White.Hex())
	assert.Equal(t, "#00ffff", Cyan.Hex())
	assert.Equal(t, "#11223344", Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}.Hex())
	assert.Equal(t, "#ff0000", Red.String())
}

func TestColor_CSS(t *testing.T) {
	assert.Equal(t, "rgba(255, 0, 0, 1.000)", Red.CSS())
	assert.Equal(t, "rgba(0, 0, 0, 0.000)", Color{}.CSS())
}

func TestColor_TextRoundTrip(t *testing.T) {
	original := Color{R: 10, G: 20, B: 30, A: 40}

	text, err := original.MarshalText()
	require.NoError(t, err)

	var decoded Color
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, original, decoded)

	assert.Error(t, decoded.UnmarshalText([]byte("nope")))
}

func TestMustParseColor(t *testing.T) {
	assert.Equal(t, Magenta, MustParseColor("magenta"))
	assert.Panics(t, func() { MustParseColor("not-a-color") })
}

func TestColor_IsZero(t *testing.T) {
	assert.True(t, Color{}.IsZero())
	assert.False(t, Black.IsZero())
}
