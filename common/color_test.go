package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorHexRoundTrip(t *testing.T) {
	for _, hex := range []uint32{0x000000, 0xFFFFFF, 0x87CEEB, 0x123456, 0xFF0000, 0x00FF01} {
		c := NewColorHex(hex)
		assert.Equal(t, hex, c.Hex(), "hex %06x", hex)
	}
}

func TestColorSetHexIgnoresHighBits(t *testing.T) {
	c := NewColorHex(0xAB87CEEB)
	assert.Equal(t, uint32(0x87CEEB), c.Hex())
}

func TestColorHexClampsChannels(t *testing.T) {
	c := Color{R: 2, G: -1, B: 0.5}
	assert.Equal(t, uint32(0xFF0080), c.Hex())
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{in: "#87ceeb", want: 0x87CEEB},
		{in: "87CEEB", want: 0x87CEEB},
		{in: "0xff0000", want: 0xFF0000},
		{in: " #000000 ", want: 0},
		{in: "#fff", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorHexString(t *testing.T) {
	assert.Equal(t, "#87ceeb", NewColorHex(0x87CEEB).HexString())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(1.5), 0, 1))
	assert.Equal(t, float32(0), Clamp(float32(-0.5), 0, 1))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, KeyW, NormalizeKey('W'))
	assert.Equal(t, KeyR, NormalizeKey('r'))
}
