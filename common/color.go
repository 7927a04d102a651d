package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Color is a linear RGB color with each channel in [0, 1].
// Colors set from a 24-bit hex value round-trip exactly through Hex.
type Color struct {
	R, G, B float32
}

// NewColorHex creates a Color from a 24-bit 0xRRGGBB value. Bits above 24 are ignored.
//
// Parameters:
//   - hex: the packed RGB value
//
// Returns:
//   - Color: the decoded color
func NewColorHex(hex uint32) Color {
	var c Color
	c.SetHex(hex)
	return c
}

// SetHex replaces the color channels from a 24-bit 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed RGB value
func (c *Color) SetHex(hex uint32) {
	hex &= 0xFFFFFF
	c.R = float32((hex>>16)&0xFF) / 255
	c.G = float32((hex>>8)&0xFF) / 255
	c.B = float32(hex&0xFF) / 255
}

// Hex packs the color into a 24-bit 0xRRGGBB value.
// Channels outside [0, 1] are clamped before packing.
//
// Returns:
//   - uint32: the packed RGB value
func (c Color) Hex() uint32 {
	return channelByte(c.R)<<16 | channelByte(c.G)<<8 | channelByte(c.B)
}

// HexString formats the color as "#rrggbb".
func (c Color) HexString() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// Array returns the channels as an RGB triple.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Scale returns the channels multiplied by s.
func (c Color) Scale(s float32) [3]float32 {
	return [3]float32{c.R * s, c.G * s, c.B * s}
}

// ParseHexColor parses "#rrggbb", "rrggbb" or "0xrrggbb" into a 24-bit value.
//
// Parameters:
//   - s: the textual color
//
// Returns:
//   - uint32: the packed RGB value
//   - error: error if s is not a 6 digit hex color
func ParseHexColor(s string) (uint32, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if len(trimmed) != 6 {
		return 0, errors.Errorf("invalid color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid color %q", s)
	}
	return uint32(v), nil
}

func channelByte(v float32) uint32 {
	return uint32(math32.Round(Clamp(v, 0, 1) * 255))
}
