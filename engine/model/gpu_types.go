package model

import (
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the VertexInput struct of the renderer's viewer shader.
// Size: 32 bytes, no padding required.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// GPUMeshUniform is the per-draw uniform of the viewer shader.
// Size: 160 bytes.
type GPUMeshUniform struct {
	Model      mgl32.Mat4 // offset   0: model-to-world matrix
	Normal     mgl32.Mat4 // offset  64: inverse-transpose of Model
	BaseColor  [4]float32 // offset 128: RGBA base color factor
	BumpScale  float32    // offset 144: bump height scale, 0 disables bump mapping
	HasTexture uint32     // offset 148: 1 if the base color texture binding is meaningful
	_pad       [2]uint32  // offset 152: padding to 160 bytes
}

// Size returns the size of the GPUMeshUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPUMeshUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 160-byte buffer ready for GPU upload
func (g *GPUMeshUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Model[:]...)
	off = common.PutFloat32s(buf, off, g.Normal[:]...)
	off = common.PutFloat32s(buf, off, g.BaseColor[:]...)
	off = common.PutFloat32s(buf, off, g.BumpScale)
	binary.LittleEndian.PutUint32(buf[off:], g.HasTexture)
	return buf
}

// NewMeshUniform packs a mesh's world transform and material for GPU upload.
//
// Parameters:
//   - world: the mesh node's model-to-world matrix
//   - mat: the mesh material (nil uses DefaultMaterial)
//
// Returns:
//   - GPUMeshUniform: the packed uniform
func NewMeshUniform(world mgl32.Mat4, mat *Material) GPUMeshUniform {
	if mat == nil {
		mat = DefaultMaterial()
	}
	u := GPUMeshUniform{
		Model:     world,
		Normal:    common.NormalMatrix(world),
		BaseColor: mat.BaseColor,
	}
	if mat.BumpMap != nil {
		u.BumpScale = mat.BumpScale
	}
	if mat.BaseColorTexture != nil {
		u.HasTexture = 1
	}
	return u
}
