package common

import "unicode"

// Character bindings for viewer keyboard input.
// Input arrives as typed characters from the GLFW char callback and is folded
// to lowercase with NormalizeKey before matching, so 'W' and 'w' select the same binding.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCharCallback
const (
	KeyW rune = 'w' // +Z step
	KeyS rune = 's' // -Z step
	KeyA rune = 'a' // +X step
	KeyD rune = 'd' // -X step
	KeyQ rune = 'q' // -Y step
	KeyE rune = 'e' // +Y step
	KeyR rune = 'r' // reset position
)

// NormalizeKey folds a typed character to the lowercase form used by the key bindings.
//
// Parameters:
//   - r: the typed character
//
// Returns:
//   - rune: the lowercase character
func NormalizeKey(r rune) rune {
	return unicode.ToLower(r)
}
