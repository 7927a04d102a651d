package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every surface equally regardless of orientation.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a distant light such as the sun. Its direction runs
	// from its position toward the target (the origin by default); distance does not attenuate it.
	LightTypeDirectional
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     [3]float32
	target       [3]float32
	color        common.Color
	intensity    float32
	enabled      bool
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are owned by the scene graph and read by the renderer each frame, which
// folds them into a single uniform via BuildLightsUniform. All mutation happens on
// the render loop, so the implementation carries no lock.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: ambient or directional
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Target returns the point a directional light shines toward.
	//
	// Returns:
	//   - [3]float32: target as (x, y, z)
	Target() [3]float32

	// Direction returns the normalized direction the light travels (position toward target).
	// Returns (0, -1, 0) when position and target coincide.
	//
	// Returns:
	//   - [3]float32: normalized direction
	Direction() [3]float32

	// Color returns the light color.
	//
	// Returns:
	//   - common.Color: the RGB color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light contributes to rendering.
	Enabled() bool

	// CastsShadows reports the shadow-casting flag. The viewer carries the flag but has no shadow pass.
	CastsShadows() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColorHex sets the light color from a 24-bit 0xRRGGBB value.
	//
	// Parameters:
	//   - hex: the packed RGB value
	SetColorHex(hex uint32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	SetEnabled(enabled bool)

	// SetCastsShadows sets the shadow-casting flag.
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type. Defaults: white, intensity 1,
// enabled, at the origin.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     common.NewColorHex(0xFFFFFF),
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(opts ...LightBuilderOption) Light {
	return NewLight(LightTypeAmbient, opts...)
}

// NewDirectionalLight creates a directional light aimed at the origin.
func NewDirectionalLight(opts ...LightBuilderOption) Light {
	return NewLight(LightTypeDirectional, opts...)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Target() [3]float32 {
	return l.target
}

func (l *lightImpl) Direction() [3]float32 {
	d := normalize3(
		l.target[0]-l.position[0],
		l.target[1]-l.position[1],
		l.target[2]-l.position[2],
	)
	if d == [3]float32{} {
		return [3]float32{0, -1, 0}
	}
	return d
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColorHex(hex uint32) {
	l.color.SetHex(hex)
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

// normalize3 returns the unit vector of (x, y, z), or the zero vector for zero length.
func normalize3(x, y, z float32) [3]float32 {
	length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if length < 1e-8 {
		return [3]float32{}
	}
	return [3]float32{x / length, y / length, z / length}
}
