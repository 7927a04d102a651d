package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionalLightDirection(t *testing.T) {
	l := NewDirectionalLight(WithPosition(5, 5, 5))
	d := l.Direction()
	assert.InDelta(t, -0.57735, d[0], 1e-4)
	assert.InDelta(t, -0.57735, d[1], 1e-4)
	assert.InDelta(t, -0.57735, d[2], 1e-4)

	l.SetPosition(0, 0, 0)
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
}

func TestBuildLightsUniformAmbientZeroKeepsDirectional(t *testing.T) {
	ambient := NewAmbientLight(WithIntensity(0))
	directional := NewDirectionalLight(WithPosition(5, 5, 5), WithIntensity(1))

	u := BuildLightsUniform([]Light{ambient, directional})

	assert.Equal(t, [3]float32{0, 0, 0}, u.Ambient)
	assert.Equal(t, [3]float32{1, 1, 1}, u.DirectionalColor)
	assert.InDelta(t, 0.57735, u.DirectionalDirection[1], 1e-4)
}

func TestBuildLightsUniformScalesByIntensity(t *testing.T) {
	ambient := NewAmbientLight(WithColorHex(0xFF0000), WithIntensity(0.5))
	directional := NewDirectionalLight(WithPosition(0, 10, 0), WithIntensity(2))

	u := BuildLightsUniform([]Light{ambient, directional})
	assert.Equal(t, [3]float32{0.5, 0, 0}, u.Ambient)
	assert.Equal(t, [3]float32{2, 2, 2}, u.DirectionalColor)
	assert.InDelta(t, 1, u.DirectionalDirection[1], 1e-6)
}

func TestBuildLightsUniformSkipsDisabled(t *testing.T) {
	directional := NewDirectionalLight(WithPosition(1, 1, 1))
	directional.SetEnabled(false)

	u := BuildLightsUniform([]Light{directional, nil})
	assert.Equal(t, [3]float32{}, u.DirectionalColor)
	assert.Equal(t, [3]float32{}, u.Ambient)
}

func TestGPULightsUniformMarshal(t *testing.T) {
	u := GPULightsUniform{Ambient: [3]float32{1, 0, 0}}
	assert.Equal(t, 48, u.Size())
	buf := u.Marshal()
	assert.Len(t, buf, 48)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, buf[0:4])
}
