// Package loader turns asset files into scene graph pieces. glTF and OBJ
// files become a ShaderNode tree of Painters and Actors; image files become
// gfx.Images.
package loader

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// TranslucentList is the render list blended materials are compiled into.
const TranslucentList = 1

// Model is the result of loading one glTF document. Root owns every
// Painter; Transforms holds the roots of the node hierarchy, already
// computed to world space.
type Model struct {
	Root       *scene.ShaderNode
	Painters   []*scene.Painter
	Actors     []*scene.Actor
	Transforms []*geom.Transform
	Textures   []*gfx.Image
}

// Loader holds options shared by every load.
type Loader struct {
	Logger *zap.Logger
	// MaxTextureSize caps decoded textures on their longest side. 0 keeps
	// the source size.
	MaxTextureSize int
}

// LoadGLTF loads path with default options.
func LoadGLTF(path string) (*Model, error) {
	var l Loader
	return l.LoadGLTF(path)
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return core.Log.Named("loader")
}

// LoadGLTF opens a .gltf or .glb file. Textures, meshes or primitives that
// fail to decode are logged and left out; only an unreadable document is
// an error.
func (l *Loader) LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	log := l.logger().With(zap.String("file", path))
	b := &gltfBuilder{
		doc:   doc,
		dir:   filepath.Dir(path),
		log:   log,
		max:   l.MaxTextureSize,
		model: &Model{Root: scene.NewShaderNode(filepath.Base(path))},
	}
	b.textures()
	b.materials()
	b.meshes()
	b.nodes()
	for _, t := range b.model.Transforms {
		t.ComputeWorldRecursive()
	}
	log.Debug("gltf loaded",
		zap.Int("painters", len(b.model.Painters)),
		zap.Int("actors", len(b.model.Actors)),
		zap.Int("textures", len(b.model.Textures)))
	return b.model, nil
}

type gltfBuilder struct {
	doc   *gltf.Document
	dir   string
	log   *zap.Logger
	max   int
	model *Model

	texUnits []*shader.TextureUnit
	painters []*scene.Painter
	fallback *scene.Painter
	prims    [][]primitive
}

type primitive struct {
	geometry *scene.Geometry
	material *int
}

func (b *gltfBuilder) textures() {
	b.texUnits = make([]*shader.TextureUnit, len(b.doc.Textures))
	for i, gt := range b.doc.Textures {
		if gt.Source == nil {
			continue
		}
		img, err := b.image(*gt.Source)
		if err != nil {
			b.log.Warn("gltf texture skipped", zap.Int("texture", i), zap.Error(err))
			continue
		}
		if img == nil {
			continue
		}
		u := shader.NewTextureUnit(img)
		if gt.Sampler != nil && inRange(b.doc.Samplers, *gt.Sampler) {
			u.Sampler = sampler(b.doc.Samplers[*gt.Sampler])
		}
		b.texUnits[i] = u
		b.model.Textures = append(b.model.Textures, img)
	}
}

func (b *gltfBuilder) image(idx int) (*gfx.Image, error) {
	if !inRange(b.doc.Images, idx) {
		return nil, fmt.Errorf("image %d out of range", idx)
	}
	gi := b.doc.Images[idx]
	name := gi.Name
	if name == "" {
		name = fmt.Sprintf("gltf_img_%d", idx)
	}
	switch {
	case gi.BufferView != nil:
		bv, err := b.bufferView(*gi.BufferView)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", idx, err)
		}
		raw, err := modeler.ReadBufferView(b.doc, bv)
		if err != nil {
			return nil, fmt.Errorf("image %d buffer view: %w", idx, err)
		}
		return DecodeImage(name, raw, b.max)
	case gi.IsEmbeddedResource():
		raw, err := gi.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("image %d data uri: %w", idx, err)
		}
		return DecodeImage(name, raw, b.max)
	case gi.URI != "":
		return LoadImage(filepath.Join(b.dir, gi.URI), b.max)
	}
	return nil, nil
}

func sampler(s *gltf.Sampler) gfx.Sampler {
	out := gfx.Sampler{Filter: gfx.FilterLinearMipmap, Wrap: gfx.WrapRepeat}
	if s.MagFilter == gltf.MagNearest {
		out.Filter = gfx.FilterNearest
	}
	switch s.WrapS {
	case gltf.WrapClampToEdge:
		out.Wrap = gfx.WrapClampToEdge
	case gltf.WrapMirroredRepeat:
		out.Wrap = gfx.WrapMirroredRepeat
	}
	return out
}

// materials builds one Painter per glTF material. Metallic-roughness is
// folded into a Blinn-Phong material.
func (b *gltfBuilder) materials() {
	b.painters = make([]*scene.Painter, len(b.doc.Materials))
	for i, gm := range b.doc.Materials {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		p := scene.NewPainter(name)
		st := shader.NewShaderState()
		mat := shader.NewMaterial(core.ColorWhite)

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Diffuse = core.NewColor(float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3]))
			mat.Ambient = core.NewColor(mat.Diffuse.R*0.2, mat.Diffuse.G*0.2, mat.Diffuse.B*0.2, 1)
			roughness := float32(pbr.RoughnessFactorOrDefault())
			metallic := float32(pbr.MetallicFactorOrDefault())
			mat.Shininess = (1-roughness)*(1-roughness)*128 + 1
			s := metallic * 0.7
			mat.Specular = core.NewColor(s, s, s, 1)
			if ti := pbr.BaseColorTexture; ti != nil && inRange(b.texUnits, ti.Index) && b.texUnits[ti.Index] != nil {
				st.SetTextureUnit(0, b.texUnits[ti.Index], shader.Public)
			}
		}
		e := gm.EmissiveFactor
		mat.Emission = core.NewColor(float32(e[0]), float32(e[1]), float32(e[2]), 1)
		st.Set(mat, shader.Public)
		st.Enable(gfx.EnableLighting, shader.Public)
		if !gm.DoubleSided {
			st.Enable(gfx.EnableCullFace, shader.Public)
		}
		if gm.AlphaMode == gltf.AlphaBlend {
			translucent(p, st)
		}
		p.SetShader(st)
		b.painters[i] = p
	}
}

// translucent turns on alpha blending without depth writes and moves p to
// the translucent render list.
func translucent(p *scene.Painter, st *shader.ShaderState) {
	st.Enable(gfx.EnableBlend, shader.Public).
		Set(shader.NewBlendFunc(gfx.BlendSrcAlpha, gfx.BlendOneMinusSrcAlpha), shader.Public).
		Set(&shader.DepthMask{Write: false}, shader.Public)
	p.RenderList = TranslucentList
}

// painter returns the Painter for a primitive's material index, creating
// a default one on first use for primitives without a material.
func (b *gltfBuilder) painter(material *int) *scene.Painter {
	if material != nil && inRange(b.painters, *material) {
		return b.painters[*material]
	}
	if b.fallback == nil {
		b.fallback = scene.NewPainter("default")
		st := shader.NewShaderState().
			Set(shader.NewMaterial(core.ColorWhite), shader.Public).
			Enable(gfx.EnableLighting, shader.Public).
			Enable(gfx.EnableCullFace, shader.Public)
		b.fallback.SetShader(st)
	}
	return b.fallback
}

func (b *gltfBuilder) meshes() {
	b.prims = make([][]primitive, len(b.doc.Meshes))
	for mi, gm := range b.doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := b.primitive(gm.Name, pi, prim)
			if err != nil {
				b.log.Warn("gltf primitive skipped",
					zap.Int("mesh", mi), zap.Int("primitive", pi), zap.Error(err))
				continue
			}
			b.prims[mi] = append(b.prims[mi], primitive{
				geometry: scene.NewGeometry(m),
				material: prim.Material,
			})
		}
	}
}

func (b *gltfBuilder) primitive(meshName string, idx int, prim *gltf.Primitive) (*gfx.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, idx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", idx)
	}
	var mode gfx.Primitive
	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		mode = gfx.PrimitiveTriangles
	case gltf.PrimitiveTriangleStrip:
		mode = gfx.PrimitiveTriangleStrip
	case gltf.PrimitiveLines:
		mode = gfx.PrimitiveLines
	case gltf.PrimitiveLineStrip:
		mode = gfx.PrimitiveLineStrip
	case gltf.PrimitivePoints:
		mode = gfx.PrimitivePoints
	default:
		return nil, fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acc, err := b.accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(b.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	var normals [][3]float32
	if i, ok := prim.Attributes["NORMAL"]; ok {
		if acc, err = b.accessor(i); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if normals, err = modeler.ReadNormal(b.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if i, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acc, err = b.accessor(i); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
		if uvs, err = modeler.ReadTextureCoord(b.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	verts := make([]gfx.Vertex, len(positions))
	for i, p := range positions {
		v := gfx.Vertex{
			Position: mgl32.Vec3(p),
			Normal:   mgl32.Vec3{0, 1, 0},
			Color:    [4]float32{1, 1, 1, 1},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = b.accessor(*prim.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(b.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}
	m := gfx.NewMesh(name, verts, indices)
	m.Primitive = mode
	return m, nil
}

// nodes mirrors the glTF node tree as Transforms and creates one Actor per
// primitive of each node's mesh.
func (b *gltfBuilder) nodes() {
	transforms := make([]*geom.Transform, len(b.doc.Nodes))
	for i, gn := range b.doc.Nodes {
		t := gn.TranslationOrDefault()
		r := gn.RotationOrDefault() // x, y, z, w
		s := gn.ScaleOrDefault()
		transforms[i] = geom.NewTransformTRS(
			mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
			mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
			mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
		)
	}

	hasParent := make([]bool, len(b.doc.Nodes))
	for i, gn := range b.doc.Nodes {
		for _, c := range gn.Children {
			if inRange(transforms, c) && !hasParent[c] && c != i {
				transforms[i].AddChild(transforms[c])
				hasParent[c] = true
			}
		}
	}

	for i, gn := range b.doc.Nodes {
		if gn.Mesh == nil || !inRange(b.prims, *gn.Mesh) {
			continue
		}
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		for pi, p := range b.prims[*gn.Mesh] {
			a := scene.NewActor(p.geometry, transforms[i])
			a.Name = name
			if len(b.prims[*gn.Mesh]) > 1 {
				a.Name = fmt.Sprintf("%s_prim%d", name, pi)
			}
			b.painter(p.material).AddActor(a)
			b.model.Actors = append(b.model.Actors, a)
		}
	}

	roots := b.sceneRoots(hasParent)
	for _, i := range roots {
		b.model.Transforms = append(b.model.Transforms, transforms[i])
	}

	for _, p := range b.painters {
		if len(p.Actors()) > 0 {
			b.attach(p)
		}
	}
	if b.fallback != nil {
		b.attach(b.fallback)
	}
}

func (b *gltfBuilder) attach(p *scene.Painter) {
	b.model.Root.AddPainter(p)
	b.model.Painters = append(b.model.Painters, p)
}

// sceneRoots returns the root node indices of the default scene, or every
// parentless node when the document has none.
func (b *gltfBuilder) sceneRoots(hasParent []bool) []int {
	if b.doc.Scene != nil && inRange(b.doc.Scenes, *b.doc.Scene) {
		var roots []int
		for _, i := range b.doc.Scenes[*b.doc.Scene].Nodes {
			if inRange(hasParent, i) && !hasParent[i] {
				roots = append(roots, i)
			}
		}
		return roots
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func inRange[T any](s []T, i int) bool { return i >= 0 && i < len(s) }

// bufferView returns view i after checking that it lies inside its buffer.
func (b *gltfBuilder) bufferView(i int) (*gltf.BufferView, error) {
	if !inRange(b.doc.BufferViews, i) {
		return nil, fmt.Errorf("buffer view %d out of range (%d views)", i, len(b.doc.BufferViews))
	}
	bv := b.doc.BufferViews[i]
	if !inRange(b.doc.Buffers, bv.Buffer) {
		return nil, fmt.Errorf("buffer view %d: buffer %d out of range", i, bv.Buffer)
	}
	if end := bv.ByteOffset + bv.ByteLength; bv.ByteOffset < 0 || end > len(b.doc.Buffers[bv.Buffer].Data) {
		return nil, fmt.Errorf("buffer view %d: bytes [%d,%d) exceed buffer %d", i, bv.ByteOffset, end, bv.Buffer)
	}
	return bv, nil
}

// accessor returns accessor i after checking that its elements fit in its
// buffer view.
func (b *gltfBuilder) accessor(i int) (*gltf.Accessor, error) {
	if !inRange(b.doc.Accessors, i) {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", i, len(b.doc.Accessors))
	}
	acc := b.doc.Accessors[i]
	if acc.BufferView == nil {
		return acc, nil
	}
	bv, err := b.bufferView(*acc.BufferView)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", i, err)
	}
	elem := acc.ComponentType.ByteSize() * acc.Type.Components()
	stride := max(bv.ByteStride, elem)
	if acc.Count > 0 {
		if end := acc.ByteOffset + (acc.Count-1)*stride + elem; acc.ByteOffset < 0 || end > bv.ByteLength {
			return nil, fmt.Errorf("accessor %d: %d elements overrun buffer view %d", i, acc.Count, *acc.BufferView)
		}
	}
	return acc, nil
}
