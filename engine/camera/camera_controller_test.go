package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func position(cc CameraController) [3]float32 {
	x, y, z := cc.Position()
	return [3]float32{x, y, z}
}

func assertVec3(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func TestNewCameraControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	assert.Equal(t, [3]float32{2, 2, 2}, position(cc))
	assert.True(t, cc.DampingEnabled())
	assert.Equal(t, float32(0.25), cc.DampingFactor())
	assert.Equal(t, float32(0.1), cc.KeyStep())
}

func TestApplyKeyboardStepMovesOneAxis(t *testing.T) {
	tests := []struct {
		key   rune
		axis  int
		delta float32
	}{
		{'w', 2, 0.1},
		{'s', 2, -0.1},
		{'a', 0, 0.1},
		{'d', 0, -0.1},
		{'q', 1, -0.1},
		{'e', 1, 0.1},
		{'W', 2, 0.1},
		{'Q', 1, -0.1},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			cc := NewCameraController(WithPosition(1, -3, 5))
			before := position(cc)

			require.True(t, cc.ApplyKeyboardStep(tt.key))

			after := position(cc)
			for i := range 3 {
				if i == tt.axis {
					assert.InDelta(t, before[i]+tt.delta, after[i], eps)
				} else {
					assert.Equal(t, before[i], after[i], "axis %d must not change", i)
				}
			}
		})
	}
}

func TestApplyKeyboardStepUnboundKeyIsNoop(t *testing.T) {
	cc := NewCameraController(WithPosition(1, 2, 3))
	for _, key := range []rune{'x', ' ', '1', 'z'} {
		assert.False(t, cc.ApplyKeyboardStep(key))
	}
	assert.Equal(t, [3]float32{1, 2, 3}, position(cc))
}

func TestApplyKeyboardStepReset(t *testing.T) {
	cc := NewCameraController(WithPosition(7, -1, 4))
	require.True(t, cc.ApplyKeyboardStep('r'))
	assert.Equal(t, [3]float32{2, 2, 2}, position(cc))

	cc = NewCameraController(WithResetPosition(0, 1, 5))
	cc.ApplyKeyboardStep('R')
	assert.Equal(t, [3]float32{0, 1, 5}, position(cc))
}

func TestKeyboardStepsFollowedByUpdate(t *testing.T) {
	cc := NewCameraController()
	for range 3 {
		cc.ApplyKeyboardStep('w')
		cc.Update()
	}
	assertVec3(t, [3]float32{2, 2, 2.3}, position(cc))

	cc.ApplyKeyboardStep('r')
	cc.Update()
	assertVec3(t, [3]float32{2, 2, 2}, position(cc))
}

func TestUpdateWithoutInputKeepsPosition(t *testing.T) {
	cc := NewCameraController(WithPosition(3, 1, -2))
	for range 10 {
		cc.Update()
	}
	assertVec3(t, [3]float32{3, 1, -2}, position(cc))
}

func TestUpdateDampedRotationConvergesMonotonically(t *testing.T) {
	cc := NewCameraController()
	start := cc.Azimuth()
	cc.RotateLeft(-1) // +1 radian of azimuth
	goal := start + 1
	radius := cc.Radius()

	prev := start
	prevRemaining := math32.Abs(goal - start)
	for i := range 40 {
		cc.Update()
		az := cc.Azimuth()
		remaining := math32.Abs(goal - az)

		assert.GreaterOrEqual(t, az, prev-eps, "azimuth must not move backwards at step %d", i)
		assert.LessOrEqual(t, remaining, prevRemaining+eps, "remaining distance must shrink at step %d", i)
		assert.InDelta(t, radius, cc.Radius(), 1e-4)

		prev = az
		prevRemaining = remaining
	}
	for range 40 {
		cc.Update()
	}
	assert.InDelta(t, goal, cc.Azimuth(), 1e-4)
}

func TestUpdateFirstStepAppliesDampingFactor(t *testing.T) {
	cc := NewCameraController(WithDampingFactor(0.25))
	start := cc.Azimuth()
	cc.RotateLeft(-0.4)
	cc.Update()
	assert.InDelta(t, start+0.1, cc.Azimuth(), eps)
	cc.Update()
	assert.InDelta(t, start+0.1+0.075, cc.Azimuth(), eps)
}

func TestUpdateWithoutDampingAppliesFullDelta(t *testing.T) {
	cc := NewCameraController(WithDamping(false))
	start := cc.Azimuth()
	cc.RotateLeft(-0.5)
	assert.True(t, cc.Update())
	assert.InDelta(t, start+0.5, cc.Azimuth(), eps)
	assert.False(t, cc.Update())
}

func TestKeyboardStepBetweenDampedUpdatesIsKept(t *testing.T) {
	cc := NewCameraController()
	cc.RotateUp(0.2)
	cc.Update()

	cc.ApplyKeyboardStep('e')
	x, y, z := cc.Position()
	cc.Update()

	// the remaining damped rotation moves the camera from the stepped position, not the old one
	nx, ny, nz := cc.Position()
	radiusAfterStep := math32.Sqrt(x*x + y*y + z*z)
	assert.InDelta(t, radiusAfterStep, math32.Sqrt(nx*nx+ny*ny+nz*nz), 1e-4)
}

func TestZoomChangesRadius(t *testing.T) {
	cc := NewCameraController()
	r := cc.Radius()
	cc.Zoom(1)
	cc.Update()
	assert.InDelta(t, r*0.95, cc.Radius(), 1e-4)

	cc.Zoom(-1)
	cc.Update()
	assert.InDelta(t, r, cc.Radius(), 1e-4)
}

func TestZoomRespectsRadiusBounds(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(3, 4))
	cc.Zoom(100)
	cc.Update()
	assert.InDelta(t, 3, cc.Radius(), 1e-4)
}

func TestPolarIsClampedAwayFromPoles(t *testing.T) {
	cc := NewCameraController(WithDamping(false))
	r := cc.Radius()

	cc.RotateUp(10)
	cc.Update()
	p := position(cc)
	for _, v := range p {
		assert.False(t, math32.IsNaN(v))
	}
	assert.InDelta(t, r, p[1], 1e-4, "camera sits just below the north pole")

	cc.RotateUp(-20)
	cc.Update()
	p = position(cc)
	for _, v := range p {
		assert.False(t, math32.IsNaN(v))
	}
	assert.InDelta(t, -r, p[1], 1e-4, "camera sits just above the south pole")
}

func TestPanMovesTargetAndPosition(t *testing.T) {
	cc := NewCameraController(WithDamping(false))
	before := position(cc)
	cc.Pan(100, 0, 500)
	cc.Update()

	tx, ty, tz := cc.Target()
	after := position(cc)
	offset := [3]float32{tx, ty, tz}
	assert.NotEqual(t, [3]float32{}, offset)
	for i := range 3 {
		assert.InDelta(t, before[i]+offset[i], after[i], 1e-4)
	}
	assert.InDelta(t, 0, ty, 1e-5, "horizontal drag keeps the target's height")
}

func TestUpdateOnTargetIsNoop(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 0))
	cc.RotateLeft(1)
	assert.False(t, cc.Update())
	assert.Equal(t, [3]float32{}, position(cc))
}

func TestSetDampingFactorClamps(t *testing.T) {
	cc := NewCameraController()
	cc.SetDampingFactor(5)
	assert.Equal(t, float32(1), cc.DampingFactor())
	cc.SetDampingFactor(-1)
	assert.Greater(t, cc.DampingFactor(), float32(0))
}
