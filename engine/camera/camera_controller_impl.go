package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

const (
	// polarEpsilon keeps the polar angle away from the poles where azimuth is undefined.
	polarEpsilon = 1e-6
	// moveEpsilon is the squared distance below which Update reports no movement.
	moveEpsilon = 1e-12
)

// cameraControllerImpl is the single implementation of CameraController.
// Orbit input accumulates into sphericalDelta, panOffset and dollyScale; Update resolves them
// against the spherical coordinates derived from the current position.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	// Pending orbit input, consumed by Update
	deltaTheta float32
	deltaPhi   float32
	panOffset  [3]float32
	dollyScale float32

	// Orbit constraints
	minRadius float32
	maxRadius float32
	minPolar  float32
	maxPolar  float32

	// Smoothing
	dampingEnabled bool
	dampingFactor  float32

	// Input speeds
	rotateSpeed float32
	zoomSpeed   float32
	panSpeed    float32

	// Keyboard
	keyStep       float32
	resetPosition [3]float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller.
// Defaults: position (2, 2, 2) looking at the origin, damping enabled with factor 0.25,
// keyboard step 0.1 and reset position (2, 2, 2).
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: [3]float32{2, 2, 2},
		target:   [3]float32{0, 0, 0},

		dollyScale: 1,

		minRadius: 0,
		maxRadius: math32.Inf(1),
		minPolar:  0,
		maxPolar:  math32.Pi,

		dampingEnabled: true,
		dampingFactor:  0.25,

		rotateSpeed: 1,
		zoomSpeed:   1,
		panSpeed:    1,

		keyStep:       0.1,
		resetPosition: [3]float32{2, 2, 2},
	}

	for _, option := range options {
		option(cc)
	}
	cc.dampingFactor = clampDampingFactor(cc.dampingFactor)

	return cc
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [3]float32{x, y, z}
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
}

func (cc *cameraControllerImpl) RotateLeft(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaTheta -= angle
}

func (cc *cameraControllerImpl) RotateUp(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaPhi -= angle
}

func (cc *cameraControllerImpl) Drag(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaTheta -= 2 * math32.Pi * dx / viewportHeight * cc.rotateSpeed
	cc.deltaPhi -= 2 * math32.Pi * dy / viewportHeight * cc.rotateSpeed
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dollyScale *= math32.Pow(0.95, delta*cc.zoomSpeed)
}

func (cc *cameraControllerImpl) Pan(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	rx, ry, rz, ux, uy, uz := cc.viewPlaneAxes()
	// one viewport height of drag pans by one orbit radius
	scale := cc.radius() / viewportHeight * cc.panSpeed
	left := -dx * scale
	up := dy * scale

	cc.panOffset[0] += rx*left + ux*up
	cc.panOffset[1] += ry*left + uy*up
	cc.panOffset[2] += rz*left + uz*up
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	theta, _, _ := cc.spherical()
	return theta
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, phi, _ := cc.spherical()
	return phi
}

func (cc *cameraControllerImpl) DampingEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingEnabled
}

func (cc *cameraControllerImpl) SetDampingEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dampingEnabled = enabled
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) SetDampingFactor(factor float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dampingFactor = clampDampingFactor(factor)
}

func (cc *cameraControllerImpl) KeyStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.keyStep
}

func (cc *cameraControllerImpl) ResetPosition() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.resetPosition[0], cc.resetPosition[1], cc.resetPosition[2]
}

func (cc *cameraControllerImpl) ApplyKeyboardStep(key rune) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	switch common.NormalizeKey(key) {
	case common.KeyW:
		cc.position[2] += cc.keyStep
	case common.KeyS:
		cc.position[2] -= cc.keyStep
	case common.KeyA:
		cc.position[0] += cc.keyStep
	case common.KeyD:
		cc.position[0] -= cc.keyStep
	case common.KeyQ:
		cc.position[1] -= cc.keyStep
	case common.KeyE:
		cc.position[1] += cc.keyStep
	case common.KeyR:
		cc.position = cc.resetPosition
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	theta, phi, radius := cc.spherical()
	if radius < polarEpsilon {
		// position sits on the target; no direction to orbit around
		cc.clearPending()
		return false
	}
	previous := cc.position

	f := float32(1)
	if cc.dampingEnabled {
		f = cc.dampingFactor
	}

	theta += cc.deltaTheta * f
	phi += cc.deltaPhi * f
	phi = common.Clamp(phi, cc.minPolar, cc.maxPolar)
	phi = common.Clamp(phi, polarEpsilon, math32.Pi-polarEpsilon)

	radius = common.Clamp(radius*cc.dollyScale, cc.minRadius, cc.maxRadius)

	for i := range 3 {
		cc.target[i] += cc.panOffset[i] * f
	}

	sinPhi := math32.Sin(phi)
	cc.position[0] = cc.target[0] + radius*sinPhi*math32.Sin(theta)
	cc.position[1] = cc.target[1] + radius*math32.Cos(phi)
	cc.position[2] = cc.target[2] + radius*sinPhi*math32.Cos(theta)

	if cc.dampingEnabled {
		decay := 1 - cc.dampingFactor
		cc.deltaTheta *= decay
		cc.deltaPhi *= decay
		for i := range 3 {
			cc.panOffset[i] *= decay
		}
	} else {
		cc.deltaTheta = 0
		cc.deltaPhi = 0
		cc.panOffset = [3]float32{}
	}
	cc.dollyScale = 1

	dx := cc.position[0] - previous[0]
	dy := cc.position[1] - previous[1]
	dz := cc.position[2] - previous[2]
	return dx*dx+dy*dy+dz*dz > moveEpsilon
}

// --- internal helpers ---

// spherical derives (azimuth, polar, radius) of position relative to target.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) spherical() (theta, phi, radius float32) {
	ox := cc.position[0] - cc.target[0]
	oy := cc.position[1] - cc.target[1]
	oz := cc.position[2] - cc.target[2]
	radius = math32.Sqrt(ox*ox + oy*oy + oz*oz)
	if radius < polarEpsilon {
		return 0, 0, radius
	}
	theta = math32.Atan2(ox, oz)
	phi = math32.Acos(common.Clamp(oy/radius, -1, 1))
	return theta, phi, radius
}

// radius returns |position - target|. Caller must hold the mutex.
func (cc *cameraControllerImpl) radius() float32 {
	_, _, r := cc.spherical()
	return r
}

// viewPlaneAxes returns the camera's right and up vectors, consistent with a LookAt
// matrix built from position, target and world up (0, 1, 0).
// If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) viewPlaneAxes() (rx, ry, rz, ux, uy, uz float32) {
	bx := cc.position[0] - cc.target[0]
	by := cc.position[1] - cc.target[1]
	bz := cc.position[2] - cc.target[2]
	bLen := math32.Sqrt(bx*bx + by*by + bz*bz)
	if bLen < 1e-8 {
		return
	}
	bx /= bLen
	by /= bLen
	bz /= bLen

	// right = normalize(cross(worldUp, backward)) = normalize(bz, 0, -bx)
	rx = bz
	rz = -bx
	rLen := math32.Sqrt(rx*rx + rz*rz)
	if rLen < 1e-8 {
		return
	}
	rx /= rLen
	rz /= rLen

	// up = cross(backward, right)
	ux = by*rz - bz*ry
	uy = bz*rx - bx*rz
	uz = bx*ry - by*rx
	return
}

// clearPending drops all queued orbit input. Caller must hold the mutex.
func (cc *cameraControllerImpl) clearPending() {
	cc.deltaTheta = 0
	cc.deltaPhi = 0
	cc.panOffset = [3]float32{}
	cc.dollyScale = 1
}

func clampDampingFactor(f float32) float32 {
	if f <= 0 {
		return 0.01
	}
	return min(f, 1)
}
