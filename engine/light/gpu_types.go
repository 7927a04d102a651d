package light

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// GPULightsUniform is the GPU-aligned representation of the scene lighting.
// Matches the WGSL Lights struct in the renderer's viewer shader.
// Size: 48 bytes.
type GPULightsUniform struct {
	Ambient              [3]float32 // offset  0: summed ambient color * intensity
	_pad0                float32    // offset 12
	DirectionalColor     [3]float32 // offset 16: directional color * intensity
	_pad1                float32    // offset 28
	DirectionalDirection [3]float32 // offset 32: normalized direction toward the light
	_pad2                float32    // offset 44
}

// Size returns the size of the GPULightsUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULightsUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULightsUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Ambient[0], g.Ambient[1], g.Ambient[2], 0)
	off = common.PutFloat32s(buf, off, g.DirectionalColor[0], g.DirectionalColor[1], g.DirectionalColor[2], 0)
	common.PutFloat32s(buf, off, g.DirectionalDirection[0], g.DirectionalDirection[1], g.DirectionalDirection[2], 0)
	return buf
}

// BuildLightsUniform folds the enabled lights into the single uniform the shader evaluates.
// Ambient lights are summed. The first enabled directional light is used; with none, the
// directional color is zero.
//
// Parameters:
//   - lights: the scene's lights
//
// Returns:
//   - GPULightsUniform: the packed lighting terms
func BuildLightsUniform(lights []Light) GPULightsUniform {
	var u GPULightsUniform
	u.DirectionalDirection = [3]float32{0, 1, 0}
	haveDirectional := false

	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeAmbient:
			c := l.Color().Scale(l.Intensity())
			for i := range 3 {
				u.Ambient[i] += c[i]
			}
		case LightTypeDirectional:
			if haveDirectional {
				continue
			}
			haveDirectional = true
			u.DirectionalColor = l.Color().Scale(l.Intensity())
			d := l.Direction()
			u.DirectionalDirection = [3]float32{-d[0], -d[1], -d[2]}
		}
	}
	return u
}
