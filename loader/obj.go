package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// LoadOBJ loads a Wavefront .obj file with default options.
func LoadOBJ(path string) (*Model, error) {
	var l Loader
	return l.LoadOBJ(path)
}

// LoadOBJ loads a Wavefront .obj file. Each object or group becomes an
// Actor under a single root Transform; each referenced material becomes a
// Painter.
func (l *Loader) LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	log := l.logger().With(zap.String("file", path))
	dir := filepath.Dir(path)
	model, err := l.readOBJ(filepath.Base(path), f, func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	}, dir, log)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return model, nil
}

type objRef struct{ v, vt, vn int }

type objGroup struct {
	name     string
	material string
	tris     [][3]objRef
}

type objData struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	groups    []*objGroup
	libs      []string
}

// readOBJ parses r. open resolves mtllib names; dir resolves texture paths
// inside material libraries.
func (l *Loader) readOBJ(name string, r io.Reader, open func(string) (io.ReadCloser, error), dir string, log *zap.Logger) (*Model, error) {
	data, err := parseOBJ(r)
	if err != nil {
		return nil, err
	}
	if len(data.groups) == 0 {
		return nil, fmt.Errorf("no geometry")
	}

	mats := map[string]*mtlMaterial{}
	for _, lib := range data.libs {
		rc, err := open(lib)
		if err != nil {
			log.Warn("mtllib skipped", zap.String("lib", lib), zap.Error(err))
			continue
		}
		loaded, err := parseMTL(rc)
		rc.Close()
		if err != nil {
			log.Warn("mtllib skipped", zap.String("lib", lib), zap.Error(err))
			continue
		}
		for k, v := range loaded {
			mats[k] = v
		}
	}

	model := &Model{Root: scene.NewShaderNode(name)}
	root := geom.NewTransform()
	model.Transforms = []*geom.Transform{root}
	painters := map[string]*scene.Painter{}

	for _, g := range data.groups {
		p, ok := painters[g.material]
		if !ok {
			p = l.objPainter(g.material, mats[g.material], dir, model, log)
			painters[g.material] = p
			model.Root.AddPainter(p)
			model.Painters = append(model.Painters, p)
		}
		mesh := data.mesh(g)
		a := scene.NewActor(scene.NewGeometry(mesh), root)
		a.Name = g.name
		p.AddActor(a)
		model.Actors = append(model.Actors, a)
	}
	root.ComputeWorldRecursive()
	return model, nil
}

func parseOBJ(r io.Reader) (*objData, error) {
	data := &objData{}
	cur := &objGroup{name: "default"}
	flush := func() {
		if len(cur.tris) > 0 {
			data.groups = append(data.groups, cur)
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		args := fields[1:]
		switch fields[0] {
		case "v":
			if len(args) >= 3 {
				data.positions = append(data.positions, mgl32.Vec3{parseF(args[0]), parseF(args[1]), parseF(args[2])})
			}
		case "vn":
			if len(args) >= 3 {
				data.normals = append(data.normals, mgl32.Vec3{parseF(args[0]), parseF(args[1]), parseF(args[2])})
			}
		case "vt":
			if len(args) >= 2 {
				data.uvs = append(data.uvs, mgl32.Vec2{parseF(args[0]), parseF(args[1])})
			}
		case "o", "g":
			flush()
			name := "default"
			if len(args) > 0 {
				name = args[0]
			}
			cur = &objGroup{name: name, material: cur.material}
		case "usemtl":
			if len(args) > 0 {
				if len(cur.tris) > 0 {
					flush()
					cur = &objGroup{name: cur.name}
				}
				cur.material = args[0]
			}
		case "mtllib":
			data.libs = append(data.libs, args...)
		case "f":
			if len(args) < 3 {
				continue
			}
			refs := make([]objRef, len(args))
			for i, tok := range args {
				refs[i] = data.ref(tok)
			}
			for i := 1; i+1 < len(refs); i++ {
				cur.tris = append(cur.tris, [3]objRef{refs[0], refs[i], refs[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	flush()
	return data, nil
}

func parseF(s string) float32 {
	f, _ := strconv.ParseFloat(s, 32)
	return float32(f)
}

// ref parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based indices, -1
// when absent. Negative OBJ indices count back from the current end.
func (d *objData) ref(tok string) objRef {
	parts := strings.Split(tok, "/")
	idx := func(i, n int) int {
		if i >= len(parts) || parts[i] == "" {
			return -1
		}
		v, err := strconv.Atoi(parts[i])
		switch {
		case err != nil:
			return -1
		case v < 0:
			return n + v
		}
		return v - 1
	}
	return objRef{
		v:  idx(0, len(d.positions)),
		vt: idx(1, len(d.uvs)),
		vn: idx(2, len(d.normals)),
	}
}

// mesh builds an indexed mesh for g, sharing vertices with identical
// references. Missing normals are generated from the faces.
func (d *objData) mesh(g *objGroup) *gfx.Mesh {
	seen := map[objRef]uint32{}
	var verts []gfx.Vertex
	var indices []uint32
	missingNormals := false
	for _, tri := range g.tris {
		for _, ref := range tri {
			if i, ok := seen[ref]; ok {
				indices = append(indices, i)
				continue
			}
			v := gfx.Vertex{Color: [4]float32{1, 1, 1, 1}}
			if ref.v >= 0 && ref.v < len(d.positions) {
				v.Position = d.positions[ref.v]
			}
			if ref.vt >= 0 && ref.vt < len(d.uvs) {
				v.UV = d.uvs[ref.vt]
			}
			if ref.vn >= 0 && ref.vn < len(d.normals) {
				v.Normal = d.normals[ref.vn]
			} else {
				missingNormals = true
			}
			i := uint32(len(verts))
			verts = append(verts, v)
			seen[ref] = i
			indices = append(indices, i)
		}
	}
	if missingNormals {
		faceNormals(verts, indices)
	}
	return gfx.NewMesh(g.name, verts, indices)
}

// faceNormals accumulates area-weighted face normals into vertices that
// have none.
func faceNormals(verts []gfx.Vertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(verts))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		p := verts[a].Position
		n := verts[b].Position.Sub(p).Cross(verts[c].Position.Sub(p))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range verts {
		if verts[i].Normal.Len() == 0 && acc[i].Len() > 0 {
			verts[i].Normal = acc[i].Normalize()
		}
	}
}

type mtlMaterial struct {
	diffuse   core.Color
	specular  core.Color
	shininess float32
	texture   string
}

func parseMTL(r io.Reader) (map[string]*mtlMaterial, error) {
	mats := map[string]*mtlMaterial{}
	var cur *mtlMaterial
	color := func(args []string) (core.Color, bool) {
		if len(args) < 3 {
			return core.Color{}, false
		}
		return core.NewColor(parseF(args[0]), parseF(args[1]), parseF(args[2]), 1), true
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		args := fields[1:]
		if fields[0] == "newmtl" {
			if len(args) > 0 {
				cur = &mtlMaterial{diffuse: core.ColorWhite, specular: core.ColorBlack, shininess: 1}
				mats[args[0]] = cur
			}
			continue
		}
		if cur == nil {
			continue
		}
		switch fields[0] {
		case "Kd":
			if c, ok := color(args); ok {
				cur.diffuse = c.WithAlpha(cur.diffuse.A)
			}
		case "Ks":
			if c, ok := color(args); ok {
				cur.specular = c
			}
		case "Ns":
			if len(args) > 0 {
				cur.shininess = max(1, parseF(args[0]))
			}
		case "d":
			if len(args) > 0 {
				cur.diffuse.A = parseF(args[0])
			}
		case "Tr":
			if len(args) > 0 {
				cur.diffuse.A = 1 - parseF(args[0])
			}
		case "map_Kd":
			if len(args) > 0 {
				cur.texture = args[len(args)-1]
			}
		}
	}
	return mats, sc.Err()
}

func (l *Loader) objPainter(name string, m *mtlMaterial, dir string, model *Model, log *zap.Logger) *scene.Painter {
	if name == "" {
		name = "default"
	}
	p := scene.NewPainter(name)
	mat := shader.NewMaterial(core.ColorWhite)
	st := shader.NewShaderState().
		Enable(gfx.EnableLighting, shader.Public).
		Enable(gfx.EnableCullFace, shader.Public)
	if m != nil {
		mat.Diffuse = m.diffuse
		mat.Specular = m.specular
		mat.Shininess = m.shininess
		if m.texture != "" {
			img, err := LoadImage(filepath.Join(dir, m.texture), l.MaxTextureSize)
			if err != nil {
				log.Warn("material texture skipped", zap.String("material", name), zap.Error(err))
			} else {
				st.SetTextureUnit(0, shader.NewTextureUnit(img), shader.Public)
				model.Textures = append(model.Textures, img)
			}
		}
	}
	st.Set(mat, shader.Public)
	if mat.Translucent() {
		translucent(p, st)
	}
	p.SetShader(st)
	return p
}
