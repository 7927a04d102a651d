package loader

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// material converts a glTF material. Only the base color factor and texture are used;
// a texture that fails to decode is logged and dropped so the mesh still renders.
func (imp *gltfImport) material(idx int) (*model.Material, error) {
	if cached, ok := imp.materials[idx]; ok {
		return cached, nil
	}
	if idx < 0 || idx >= len(imp.doc.Materials) {
		return nil, errors.Errorf("material index %d out of range", idx)
	}

	gm := imp.doc.Materials[idx]
	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("material%d", idx)
	}
	opts := []model.MaterialBuilderOption{
		model.WithName(name),
		model.WithDoubleSided(gm.DoubleSided),
	}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			opts = append(opts, model.WithBaseColor(*pbr.BaseColorFactor))
		}
		if pbr.BaseColorTexture != nil {
			tex, err := imp.texture(int(pbr.BaseColorTexture.Index))
			if err != nil {
				log.Printf("[Loader] material %q: base color texture ignored: %v", name, err)
			} else {
				opts = append(opts, model.WithBaseColorTexture(tex))
			}
		}
	}

	mat := model.NewMaterial(opts...)
	imp.materials[idx] = mat
	return mat, nil
}

func (imp *gltfImport) texture(idx int) (*model.Texture, error) {
	if cached, ok := imp.textures[idx]; ok {
		return cached, nil
	}
	doc := imp.doc
	if idx < 0 || idx >= len(doc.Textures) {
		return nil, errors.Errorf("texture index %d out of range", idx)
	}
	gt := doc.Textures[idx]
	if gt.Source == nil || int(*gt.Source) >= len(doc.Images) {
		return nil, errors.Errorf("texture %d has no image source", idx)
	}

	imported, err := imp.image(int(*gt.Source))
	if err != nil {
		return nil, err
	}
	data, err := imported.Decode()
	if err != nil {
		return nil, err
	}

	sampler := defaultSampler()
	if gt.Sampler != nil && int(*gt.Sampler) < len(doc.Samplers) {
		sampler = samplerStagingData(doc.Samplers[*gt.Sampler])
	}

	tex := &model.Texture{Name: imported.Name, Data: data, Sampler: sampler}
	imp.textures[idx] = tex
	return tex, nil
}

// image resolves a glTF image to encoded bytes (buffer view or data URI) or a file path
// relative to the model file.
func (imp *gltfImport) image(idx int) (*common.ImportedTexture, error) {
	img := imp.doc.Images[idx]
	imported := &common.ImportedTexture{Name: img.Name, MimeType: img.MimeType}
	if imported.Name == "" {
		imported.Name = fmt.Sprintf("image%d", idx)
	}

	switch {
	case img.BufferView != nil:
		data, err := imp.bufferView(int(*img.BufferView))
		if err != nil {
			return nil, err
		}
		imported.Data = data
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, errors.Wrapf(err, "image %d: bad data URI", idx)
		}
		imported.Data = data
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		imported.Path = filepath.Join(imp.dir, filepath.FromSlash(uri))
	default:
		return nil, errors.Errorf("image %d has no data", idx)
	}
	return imported, nil
}

func (imp *gltfImport) bufferView(idx int) ([]byte, error) {
	doc := imp.doc
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, errors.Errorf("buffer view %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, errors.Errorf("buffer view %d references missing buffer", idx)
	}
	data := doc.Buffers[bv.Buffer].Data
	start := int(bv.ByteOffset)
	end := start + int(bv.ByteLength)
	if end > len(data) {
		return nil, errors.Errorf("buffer view %d exceeds buffer length", idx)
	}
	return data[start:end], nil
}

func samplerStagingData(s *gltf.Sampler) common.SamplerStagingData {
	result := defaultSampler()
	if s == nil {
		return result
	}
	if s.MagFilter == gltf.MagNearest {
		result.MagFilter = wgpu.FilterModeNearest
	}
	if s.MinFilter == gltf.MinNearest {
		result.MinFilter = wgpu.FilterModeNearest
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	}
	result.AddressModeU = wrapToAddressMode(s.WrapS)
	result.AddressModeV = wrapToAddressMode(s.WrapT)
	return result
}

func wrapToAddressMode(wrap gltf.WrappingMode) wgpu.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
