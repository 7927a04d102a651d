package model

// Material describes how a mesh surface responds to light.
// The viewer shades with a Lambert model: ambient + directional diffuse, modulated
// by the base color and, when present, perturbed by a bump map.
type Material struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo color factor (RGBA).
	BaseColor [4]float32

	// BaseColorTexture optionally modulates BaseColor.
	BaseColorTexture *Texture

	// BumpMap is an optional height map; its gradient perturbs the shading normal.
	BumpMap *Texture

	// BumpScale scales the bump map height. Ignored without a bump map.
	BumpScale float32

	// DoubleSided disables back-face culling for the mesh.
	DoubleSided bool
}

// MaterialBuilderOption is a functional option for configuring a Material via NewMaterial.
type MaterialBuilderOption func(*Material)

// NewMaterial creates a Material. Defaults: opaque white, no textures, bump scale 1.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) *Material {
	m := &Material{
		Name:      "default",
		BaseColor: [4]float32{1, 1, 1, 1},
		BumpScale: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// DefaultMaterial returns the material used for meshes that reference none.
func DefaultMaterial() *Material {
	return NewMaterial()
}

// WithName sets the material name.
//
// Parameters:
//   - name: the material identifier
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithName(name string) MaterialBuilderOption {
	return func(m *Material) {
		m.Name = name
	}
}

// WithBaseColor sets the RGBA base color factor.
//
// Parameters:
//   - rgba: the color factor
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBaseColor(rgba [4]float32) MaterialBuilderOption {
	return func(m *Material) {
		m.BaseColor = rgba
	}
}

// WithBaseColorHex sets an opaque base color from a 24-bit 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed RGB value
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBaseColorHex(hex uint32) MaterialBuilderOption {
	return func(m *Material) {
		m.BaseColor = [4]float32{
			float32((hex>>16)&0xFF) / 255,
			float32((hex>>8)&0xFF) / 255,
			float32(hex&0xFF) / 255,
			1,
		}
	}
}

// WithBaseColorTexture sets the base color texture.
//
// Parameters:
//   - tex: the texture, or nil for none
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBaseColorTexture(tex *Texture) MaterialBuilderOption {
	return func(m *Material) {
		m.BaseColorTexture = tex
	}
}

// WithBumpMap sets the bump map and its height scale.
//
// Parameters:
//   - tex: the height map texture, or nil for none
//   - scale: the bump height scale
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBumpMap(tex *Texture, scale float32) MaterialBuilderOption {
	return func(m *Material) {
		m.BumpMap = tex
		m.BumpScale = scale
	}
}

// WithDoubleSided disables back-face culling for meshes using the material.
//
// Parameters:
//   - doubleSided: true to render both faces
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithDoubleSided(doubleSided bool) MaterialBuilderOption {
	return func(m *Material) {
		m.DoubleSided = doubleSided
	}
}
