package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraViewMatrixLooksAtTarget(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 5))
	c := NewCamera(WithAspect(16.0/9.0), WithController(cc))

	// the target projects to the center of clip space
	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)

	depth := clip.Z() / clip.W()
	assert.Greater(t, depth, float32(0))
	assert.Less(t, depth, float32(1))
}

func TestCameraUpdateFollowsController(t *testing.T) {
	cc := NewCameraController()
	c := NewCamera(WithController(cc))
	before := c.ViewMatrix()

	cc.ApplyKeyboardStep('w')
	assert.Equal(t, before, c.ViewMatrix(), "matrices only change on Update")

	c.Update()
	assert.NotEqual(t, before, c.ViewMatrix())
}

func TestCameraSetAspect(t *testing.T) {
	c := NewCamera(WithController(NewCameraController()))
	c.SetAspect(2)
	assert.Equal(t, float32(2), c.Aspect())
	p := c.ProjectionMatrix()
	assert.InDelta(t, p[5]/2, p[0], 1e-6)
}

func TestCameraUniform(t *testing.T) {
	c := NewCamera(WithController(NewCameraController(WithPosition(1, 2, 3))))
	u := c.Uniform()
	assert.Equal(t, [3]float32{1, 2, 3}, u.CameraPosition)
	assert.Equal(t, 80, u.Size())
	assert.Len(t, u.Marshal(), 80)
}

func TestCameraWithoutController(t *testing.T) {
	c := NewCamera()
	c.Update()
	x, y, z := c.Position()
	assert.Equal(t, [3]float32{}, [3]float32{x, y, z})
	assert.Nil(t, c.Controller())
}
