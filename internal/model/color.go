package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Named colors.
var (
	White   = Color{R: 255, G: 255, B: 255, A: 255}
	Black   = Color{R: 0, G: 0, B: 0, A: 255}
	Red     = Color{R: 255, G: 0, B: 0, A: 255}
	Green   = Color{R: 0, G: 255, B: 0, A: 255}
	Blue    = Color{R: 0, G: 0, B: 255, A: 255}
	Yellow  = Color{R: 255, G: 235, B: 4, A: 255}
	Cyan    = Color{R: 0, G: 255, B: 255, A: 255}
	Magenta = Color{R: 255, G: 0, B: 255, A: 255}
	Orange  = Color{R: 255, G: 165, B: 0, A: 255}
	Gray    = Color{R: 128, G: 128, B: 128, A: 255}
)

// DefaultColor is used when a notification is sent without a color.
var DefaultColor = White

// ColorNames maps accepted color names to their values.
var ColorNames = map[string]Color{
	"white":   White,
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"magenta": Magenta,
	"orange":  Orange,
	"gray":    Gray,
	"grey":    Gray,
}

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor parses a named color or a hex color in #rgb, #rrggbb or
// #rrggbbaa form. The leading '#' is optional for hex values.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}

	if c, ok := ColorNames[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		// Expand shorthand: "f0a" -> "ff00aa"
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// MustParseColor is like ParseColor but panics on error.
// Intended for package-level defaults and tests.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// CSS returns the color as a CSS rgba() value.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255.0, 'f', 3, 64))
}

// IsZero reports whether c is the zero value (fully transparent black).
func (c Color) IsZero() bool {
	return c == Color{}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
