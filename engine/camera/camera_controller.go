package camera

// CameraController owns the camera's positional state (position and orbit target).
// Two input paths write the same position vector: smoothed orbit input (drag, scroll, pan)
// accumulated into pending deltas and resolved by Update, and discrete keyboard steps
// applied immediately by ApplyKeyboardStep. Whichever writes last wins; Update always
// re-derives its spherical coordinates from the current position, so a keyboard step
// between updates is never overwritten.
type CameraController interface {
	orbitCameraController
	keyboardCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// SetTarget sets the look-at/pivot point without moving the camera.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Update advances the smoothing state by one frame and rewrites the position.
	// Must be called exactly once per rendered frame when damping is enabled, and after
	// any direct position write that should be reconciled with the orbit constraints.
	//
	// Returns:
	//   - bool: true if the position moved by more than a negligible amount
	Update() bool
}

// orbitCameraController defines the smoothed orbit input path. Input methods only
// accumulate pending deltas; the camera moves when Update runs.
type orbitCameraController interface {
	// RotateLeft queues a rotation of the camera around the target's vertical axis.
	// Positive angles move the camera to the left as seen from behind it.
	//
	// Parameters:
	//   - angle: rotation in radians
	RotateLeft(angle float32)

	// RotateUp queues a change of the polar angle. Positive angles raise the camera.
	//
	// Parameters:
	//   - angle: rotation in radians
	RotateUp(angle float32)

	// Drag converts a pointer drag in pixels into orbit rotation. A drag across the full
	// viewport height rotates by 2*pi scaled by the rotate speed.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels since the last drag event
	//   - viewportHeight: viewport height in pixels
	Drag(dx, dy, viewportHeight float32)

	// Zoom queues a dolly toward (positive delta) or away from (negative delta) the target.
	// Dolly is applied in full on the next Update and is not damped.
	//
	// Parameters:
	//   - delta: scroll amount, scaled by the zoom speed
	Zoom(delta float32)

	// Pan queues a translation of both camera and target in the view plane.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels
	//   - viewportHeight: viewport height in pixels
	Pan(dx, dy, viewportHeight float32)

	// Radius returns the current distance between position and target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// Azimuth returns the horizontal angle of the camera around the target, measured from +Z toward +X.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Polar returns the angle between the camera offset and +Y.
	//
	// Returns:
	//   - float32: polar angle in radians
	Polar() float32

	// DampingEnabled reports whether orbit input is smoothed over several frames.
	//
	// Returns:
	//   - bool: true if damping is enabled
	DampingEnabled() bool

	// SetDampingEnabled toggles smoothing of orbit input.
	//
	// Parameters:
	//   - enabled: true to smooth, false to apply each input in full on the next Update
	SetDampingEnabled(enabled bool)

	// DampingFactor returns the fraction of the pending delta consumed per Update.
	//
	// Returns:
	//   - float32: the damping factor in (0, 1]
	DampingFactor() float32

	// SetDampingFactor sets the fraction of the pending delta consumed per Update.
	// Values outside (0, 1] are clamped.
	//
	// Parameters:
	//   - factor: the damping factor
	SetDampingFactor(factor float32)
}

// keyboardCameraController defines the discrete keyboard input path.
type keyboardCameraController interface {
	// ApplyKeyboardStep moves the camera one fixed step for a bound key.
	// Matching is case-insensitive. Bindings: w/s change z by +/-step, a/d change x by
	// +/-step, e/q change y by +/-step, r resets to the reset position. Exactly one axis
	// changes per step key. Unbound keys leave the position untouched.
	//
	// Parameters:
	//   - key: the typed character
	//
	// Returns:
	//   - bool: true if the key was bound
	ApplyKeyboardStep(key rune) bool

	// KeyStep returns the distance moved per keyboard step.
	//
	// Returns:
	//   - float32: world units per step
	KeyStep() float32

	// ResetPosition returns the position the reset key restores.
	//
	// Returns:
	//   - x, y, z: world-space reset position
	ResetPosition() (x, y, z float32)
}
