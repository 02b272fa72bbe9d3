package loader

import (
	"github.com/jdonald/dof-go/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithSearchPaths is an option builder that sets the directories searched for
// texture image files and shader sources, in priority order.
//
// Parameters:
//   - paths: directories to search for texture and shader files
//
// Returns:
//   - LoaderBuilderOption: a function that applies the search path option to a loader
func WithSearchPaths(paths ...string) LoaderBuilderOption {
	return func(l *loader) {
		l.searchPaths = paths
	}
}

// WithTexture is an option builder that pre-populates the texture cache.
//
// Parameters:
//   - key: the cache key for the texture
//   - data: the staging data to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(key string, data common.TextureStagingData) LoaderBuilderOption {
	return func(l *loader) {
		l.textureCache[key] = data
	}
}
