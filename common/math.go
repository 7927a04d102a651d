package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PutFloat32s writes values little-endian into buf starting at byte offset and
// returns the offset just past the last written value.
//
// Parameters:
//   - buf: destination buffer (must have room for len(values)*4 bytes past offset)
//   - offset: byte offset of the first value
//   - values: the floats to write
//
// Returns:
//   - int: the byte offset following the written values
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// ComposeTRS builds a column-major model matrix from translation, rotation quaternion
// (x, y, z, w) and scale. A zero quaternion is treated as identity and a zero scale as unit scale.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion (x, y, z, w)
//   - s: scale
//
// Returns:
//   - mgl32.Mat4: T * R * S
func ComposeTRS(t [3]float32, r [4]float32, s [3]float32) mgl32.Mat4 {
	if r == [4]float32{} {
		r[3] = 1
	}
	if s == [3]float32{} {
		s = [3]float32{1, 1, 1}
	}
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// NormalMatrix returns the inverse-transpose of m, used to transform normals
// under non-uniform scale. A singular matrix yields the identity.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat4 {
	if m.Det() == 0 {
		return mgl32.Ident4()
	}
	return m.Inv().Transpose()
}

// PerspectiveZO builds a right-handed perspective projection mapping depth to the
// WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL range [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / float32(math.Tan(float64(fovY)/2))
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = (near * far) / (near - far)
	return m
}
