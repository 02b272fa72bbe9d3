package loader

import (
	"fmt"

	"github.com/jdonald/dof-go/common"
)

// loaderBackend defines the generic interface for sourcing texture pixel data.
// Concrete implementations handle decoding image files and generating procedural
// fallbacks for well-known material names.
type loaderBackend interface {
	// LoadTextureFile decodes an image file into RGBA staging data.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixel data
	//   - error: error if decoding fails
	LoadTextureFile(path string) (common.TextureStagingData, error)

	// GenerateTexture produces procedural pixel data for a material name.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - common.TextureStagingData: the generated pixel data
	//   - error: error if no generator exists for the name
	GenerateTexture(name string) (common.TextureStagingData, error)
}

// fileLoaderBackend decodes PNG/JPEG files and falls back to procedural generators.
type fileLoaderBackend struct{}

var _ loaderBackend = &fileLoaderBackend{}

func newFileLoaderBackend() loaderBackend {
	return &fileLoaderBackend{}
}

func (b *fileLoaderBackend) LoadTextureFile(path string) (common.TextureStagingData, error) {
	return common.DecodeImageFile(path)
}

func (b *fileLoaderBackend) GenerateTexture(name string) (common.TextureStagingData, error) {
	gen, ok := proceduralGenerators[name]
	if !ok {
		return common.TextureStagingData{}, fmt.Errorf("no texture file or procedural generator for material %q", name)
	}
	return gen(), nil
}
