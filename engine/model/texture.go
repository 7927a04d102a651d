package model

import "github.com/Carmen-Shannon/oxy-viewer/common"

// Texture is a decoded image ready for GPU upload, along with how it should be sampled.
// Textures are immutable once created and may be shared between materials.
type Texture struct {
	// Name identifies the texture in logs (usually its source path).
	Name string

	// Data is the RGBA pixel data.
	Data common.TextureStagingData

	// Sampler configures filtering and addressing. Zero values mean linear/repeat.
	Sampler common.SamplerStagingData
}
