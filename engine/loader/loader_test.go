package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTextureProceduralFallback(t *testing.T) {
	l := NewLoader(BackendTypeFile)

	for _, name := range []string{"gold", "clay"} {
		t.Run(name, func(t *testing.T) {
			data, err := l.LoadTexture(name)
			if err != nil {
				t.Fatalf("LoadTexture(%q) error: %v", name, err)
			}
			if data.Width != proceduralTextureSize || data.Height != proceduralTextureSize {
				t.Errorf("dimensions = %dx%d, want %dx%d", data.Width, data.Height, proceduralTextureSize, proceduralTextureSize)
			}
			if got, want := len(data.Pixels), int(data.Width*data.Height*4); got != want {
				t.Errorf("pixel buffer length = %d, want %d", got, want)
			}
			// Alpha channel must be opaque throughout.
			for i := 3; i < len(data.Pixels); i += 4 {
				if data.Pixels[i] != 255 {
					t.Fatalf("pixel %d has alpha %d, want 255", i/4, data.Pixels[i])
				}
			}
		})
	}
}

func TestLoadTextureDeterministic(t *testing.T) {
	a, err := NewLoader(BackendTypeFile).LoadTexture("gold")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewLoader(BackendTypeFile).LoadTexture("gold")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pixels, b.Pixels) {
		t.Error("gold texture differs between loader instances")
	}
}

func TestLoadTextureDistinctMaterials(t *testing.T) {
	l := NewLoader(BackendTypeFile)
	gold, _ := l.LoadTexture("gold")
	clay, _ := l.LoadTexture("clay")
	if bytes.Equal(gold.Pixels, clay.Pixels) {
		t.Error("gold and clay textures are identical")
	}
}

func TestLoadTextureUnknownName(t *testing.T) {
	l := NewLoader(BackendTypeFile)
	if _, err := l.LoadTexture("chrome"); err == nil {
		t.Error("expected error for material with no file and no generator")
	}
}

func TestLoadTextureCaches(t *testing.T) {
	l := NewLoader(BackendTypeFile)
	if _, ok := l.Texture("gold"); ok {
		t.Fatal("texture cached before load")
	}
	if _, err := l.LoadTexture("gold"); err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Texture("gold"); !ok {
		t.Error("texture not cached after load")
	}
	if len(l.Textures()) != 1 {
		t.Errorf("cache size = %d, want 1", len(l.Textures()))
	}
}

func TestLoadTexturePrefersFileOverGenerator(t *testing.T) {
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "gold.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l := NewLoader(BackendTypeFile, WithSearchPaths(dir))
	data, err := l.LoadTexture("gold")
	if err != nil {
		t.Fatal(err)
	}
	if data.Width != 2 || data.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2 from file", data.Width, data.Height)
	}
	if data.Pixels[0] != 10 || data.Pixels[1] != 20 || data.Pixels[2] != 30 {
		t.Errorf("first pixel = (%d, %d, %d), want (10, 20, 30)", data.Pixels[0], data.Pixels[1], data.Pixels[2])
	}
}

func TestShaderPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	path := filepath.Join(second, "blur.wgsl")
	if err := os.WriteFile(path, []byte("@fragment fn fs_main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(BackendTypeFile, WithSearchPaths(first, second))
	got, err := l.ShaderPath("blur.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("ShaderPath = %q, want %q", got, path)
	}

	// Resolution is uncached, so a file created later in an earlier search
	// path wins on the next lookup.
	earlier := filepath.Join(first, "blur.wgsl")
	if err := os.WriteFile(earlier, []byte("// override"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = l.ShaderPath("blur.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if got != earlier {
		t.Errorf("ShaderPath after override = %q, want %q", got, earlier)
	}
}

func TestShaderPathMissingFile(t *testing.T) {
	l := NewLoader(BackendTypeFile, WithSearchPaths(t.TempDir()))
	if _, err := l.ShaderPath("missing.wgsl"); err == nil {
		t.Error("expected error for shader absent from all search paths")
	}
}
