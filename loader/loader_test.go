package loader

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"render-pipeline/gfx"
)

// Two triangles sharing one buffer: mesh 0 is opaque, mesh 1 is blended
// and has a second primitive without positions.
const triangleGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "base", "translation": [10, 0, 0], "mesh": 0, "children": [1]},
    {"name": "glass", "translation": [0, 5, 0], "mesh": 1}
  ],
  "materials": [
    {"name": "stone", "pbrMetallicRoughness": {"baseColorFactor": [0.5, 0.5, 0.5, 1]}},
    {"name": "window", "alphaMode": "BLEND", "doubleSided": true,
     "pbrMetallicRoughness": {"baseColorFactor": [0.2, 0.4, 1, 0.3]}}
  ],
  "meshes": [
    {"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]},
    {"name": "pane", "primitives": [
      {"attributes": {"POSITION": 0}, "indices": 1, "material": 1},
      {"attributes": {}, "material": 1}
    ]}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "buffers": [
    {"byteLength": 44, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAAAAABAAIAAAA="}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGLTF(t *testing.T) {
	path := writeFile(t, "tri.gltf", triangleGLTF)
	obs, logs := observer.New(zapcore.DebugLevel)
	l := Loader{Logger: zap.New(obs)}

	m, err := l.LoadGLTF(path)
	require.NoError(t, err)

	require.Len(t, m.Painters, 2)
	require.Len(t, m.Actors, 2)
	require.Len(t, m.Transforms, 1)
	assert.Len(t, m.Root.Children(), 2)

	stone, window := m.Painters[0], m.Painters[1]
	assert.Equal(t, "stone", stone.Name)
	assert.Equal(t, float32(0), stone.RenderList)
	assert.False(t, stone.Shader().Blended())
	assert.True(t, stone.Shader().IsEnabled(gfx.EnableCullFace))

	assert.Equal(t, float32(TranslucentList), window.RenderList)
	assert.True(t, window.Shader().Blended())
	assert.False(t, window.Shader().DepthWrite())
	assert.False(t, window.Shader().IsEnabled(gfx.EnableCullFace))
	assert.InDelta(t, 0.3, window.Shader().Material().Diffuse.A, 1e-6)

	pane := m.Actors[1]
	assert.Same(t, window, pane.Painter())
	box := pane.WorldAABB()
	assert.InDelta(t, 10, box.Min[0], 1e-5)
	assert.InDelta(t, 5, box.Min[1], 1e-5)
	assert.InDelta(t, 11, box.Max[0], 1e-5)

	assert.Equal(t, 1, logs.FilterMessage("gltf primitive skipped").Len())
}

// One usable primitive among primitives and references that point outside
// the document.
const brokenGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, -2]}],
  "nodes": [
    {"name": "base", "mesh": 0, "children": [-1, 1]},
    {"name": "ghost", "mesh": 5}
  ],
  "textures": [{"source": 4, "sampler": 3}],
  "materials": [
    {"name": "stone", "pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}
  ],
  "meshes": [
    {"name": "tri", "primitives": [
      {"attributes": {"POSITION": 0}, "material": 0},
      {"attributes": {"POSITION": 7}, "material": 0},
      {"attributes": {"POSITION": 1}, "material": 0},
      {"attributes": {"POSITION": 0}, "indices": 2, "material": 0},
      {"attributes": {"POSITION": 0, "NORMAL": -1}, "material": -3}
    ]}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 0, "componentType": 5126, "count": 10, "type": "VEC3"},
    {"bufferView": 3, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36}
  ],
  "buffers": [
    {"byteLength": 36, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAA"}
  ]
}`

func TestLoadGLTFSkipsOutOfRangeReferences(t *testing.T) {
	path := writeFile(t, "broken.gltf", brokenGLTF)
	obs, logs := observer.New(zapcore.DebugLevel)
	l := Loader{Logger: zap.New(obs)}

	var m *Model
	var err error
	require.NotPanics(t, func() { m, err = l.LoadGLTF(path) })
	require.NoError(t, err)

	assert.Equal(t, 4, logs.FilterMessage("gltf primitive skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("gltf texture skipped").Len())
	require.Len(t, m.Actors, 1)
	assert.Equal(t, "base", m.Actors[0].Name)
	assert.Empty(t, m.Textures)
	require.Len(t, m.Transforms, 1)
	assert.Len(t, m.Transforms[0].Children(), 1)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	m, err := LoadGLTF(filepath.Join(t.TempDir(), "nope.glb"))
	assert.Error(t, err)
	assert.Nil(t, m)
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "red.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage(t *testing.T) {
	path := writePNG(t, 4, 2)
	img, err := LoadImage(path, 0)
	require.NoError(t, err)
	w, h := img.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	require.Len(t, img.RGBA(), 4*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.RGBA()[:4])

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = DecodeImage("junk", []byte("not an image"), 0)
	assert.Error(t, err)
}

func TestLoadImageDownscales(t *testing.T) {
	img, err := LoadImage(writePNG(t, 64, 32), 16)
	require.NoError(t, err)
	w, h := img.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 8, h)
	assert.Len(t, img.RGBA(), 16*8*4)
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, max, ww, wh int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{100, 50, 10, 10, 5},
		{50, 100, 10, 5, 10},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.ww, w, "%dx%d max %d", tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wh, h, "%dx%d max %d", tt.w, tt.h, tt.max)
	}
}

const quadOBJ = `# two groups
mtllib quad.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
o floor
usemtl solid
f 1//1 2//1 3//1 4//1
o glass
usemtl clear
f -4 -3 -2
`

const quadMTL = `newmtl solid
Kd 1 0 0
Ns 32
newmtl clear
Kd 0 0 1
d 0.25
`

func openFrom(files map[string]string) func(string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		s, ok := files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(s)), nil
	}
}

func TestReadOBJ(t *testing.T) {
	var l Loader
	m, err := l.readOBJ("quad.obj", strings.NewReader(quadOBJ),
		openFrom(map[string]string{"quad.mtl": quadMTL}), "", zap.NewNop())
	require.NoError(t, err)

	require.Len(t, m.Actors, 2)
	require.Len(t, m.Painters, 2)
	assert.Equal(t, "floor", m.Actors[0].Name)

	floor := m.Actors[0].ActiveDrawable()
	require.NotNil(t, floor)
	fm := m.Actors[0].LocalAABB()
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, fm.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, fm.Max)

	solid, clear := m.Painters[0], m.Painters[1]
	assert.Equal(t, float32(32), solid.Shader().Material().Shininess)
	assert.False(t, solid.Shader().Blended())
	assert.True(t, clear.Shader().Blended())
	assert.Equal(t, float32(TranslucentList), clear.RenderList)
}

func TestOBJMesh(t *testing.T) {
	data, err := parseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, data.groups, 2)

	quad := data.mesh(data.groups[0])
	assert.Len(t, quad.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, quad.Indices)

	// Negative references and generated normals.
	tri := data.mesh(data.groups[1])
	require.Len(t, tri.Vertices, 3)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, tri.Vertices[0].Position)
	assert.InDelta(t, 1, tri.Vertices[0].Normal[2], 1e-6)
}

func TestReadOBJWithoutFaces(t *testing.T) {
	var l Loader
	_, err := l.readOBJ("empty.obj", strings.NewReader("v 0 0 0\n"), openFrom(nil), "", zap.NewNop())
	assert.ErrorContains(t, err, "no geometry")
}

func TestReadOBJMissingLibrary(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	var l Loader
	m, err := l.readOBJ("quad.obj", strings.NewReader(quadOBJ), openFrom(nil), "", zap.New(obs))
	require.NoError(t, err)
	assert.Len(t, m.Actors, 2)
	assert.Equal(t, 1, logs.FilterMessage("mtllib skipped").Len())
	assert.False(t, m.Painters[1].Shader().Blended())
}
