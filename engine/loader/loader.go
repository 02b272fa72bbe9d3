package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jdonald/dof-go/common"
)

// LoaderBackendType identifies the texture source backend to use.
type LoaderBackendType int

const (
	// BackendTypeFile selects the image-file texture backend with a procedural
	// fallback for well-known material names.
	BackendTypeFile LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	searchPaths []string

	textureCache map[string]common.TextureStagingData

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching render assets.
// Textures are resolved from the configured search paths first; material names
// without a matching image file fall back to procedurally generated pixels.
// Shader paths are resolved uncached so new or renamed files are picked up on reload.
type Loader interface {
	// LoadTexture resolves a texture by material name and caches the result.
	// Image files named <name>.png or <name>.jpg under the search paths take
	// priority; otherwise the procedural generator for the name is used.
	//
	// Parameters:
	//   - name: the material name (e.g. "gold", "clay")
	//
	// Returns:
	//   - common.TextureStagingData: the decoded or generated pixel data
	//   - error: error if the name resolves to neither a file nor a generator
	LoadTexture(name string) (common.TextureStagingData, error)

	// ShaderPath resolves a shader source file by name against the search
	// paths. Resolution is never cached so renamed or newly created files are
	// picked up on reload; the shader compiler re-reads the file contents on
	// every reload for the same reason.
	//
	// Parameters:
	//   - name: the shader file name (e.g. "scene.wgsl")
	//
	// Returns:
	//   - string: the resolved file path
	//   - error: error if no search path contains the file
	ShaderPath(name string) (string, error)

	// Texture retrieves a cached texture by name. Returns the zero value and
	// false if the texture has not been loaded.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - common.TextureStagingData: the cached texture
	//   - bool: true if the texture was found
	Texture(name string) (common.TextureStagingData, bool)

	// Textures returns the full texture cache.
	//
	// Returns:
	//   - map[string]common.TextureStagingData: all cached textures keyed by name
	Textures() map[string]common.TextureStagingData
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeFile)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:           sync.RWMutex{},
		textureCache: make(map[string]common.TextureStagingData),
	}

	switch backendType {
	case BackendTypeFile:
		fallthrough
	default:
		l.backend = newFileLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadTexture(name string) (common.TextureStagingData, error) {
	l.mu.RLock()
	if cached, ok := l.textureCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	searchPaths := l.searchPaths
	l.mu.RUnlock()

	var data common.TextureStagingData
	var err error

	if path, found := findTextureFile(searchPaths, name); found {
		data, err = l.backend.LoadTextureFile(path)
		if err != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to load texture %q from %s: %w", name, path, err)
		}
	} else {
		data, err = l.backend.GenerateTexture(name)
		if err != nil {
			return common.TextureStagingData{}, err
		}
	}

	l.mu.Lock()
	l.textureCache[name] = data
	l.mu.Unlock()

	return data, nil
}

func (l *loader) ShaderPath(name string) (string, error) {
	l.mu.RLock()
	searchPaths := l.searchPaths
	l.mu.RUnlock()

	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("shader %q not found in search paths %v", name, searchPaths)
}

func (l *loader) Texture(name string) (common.TextureStagingData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cached, ok := l.textureCache[name]
	return cached, ok
}

func (l *loader) Textures() map[string]common.TextureStagingData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.textureCache
}

// findTextureFile checks the search paths for <name>.png or <name>.jpg.
func findTextureFile(searchPaths []string, name string) (string, bool) {
	for _, dir := range searchPaths {
		for _, ext := range []string{".png", ".jpg", ".jpeg"} {
			candidate := filepath.Join(dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}
