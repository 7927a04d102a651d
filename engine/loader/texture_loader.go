package loader

import (
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// textureMimeTypes maps supported image extensions to their MIME types.
var textureMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// defaultSampler is linear filtering with repeat addressing, the glTF default.
func defaultSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

func loadTextureFile(path string) (*model.Texture, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := textureMimeTypes[ext]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "texture extension %q", ext)
	}

	imported := &common.ImportedTexture{Name: path, Path: path, MimeType: mime}
	data, err := imported.Decode()
	if err != nil {
		return nil, err
	}
	return &model.Texture{Name: path, Data: data, Sampler: defaultSampler()}, nil
}
