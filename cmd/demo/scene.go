package main

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/loader"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

const gridSize = 24

// world is the demo scene: one shader tree plus the actor sets handed to
// the culler.
type world struct {
	root     *scene.ShaderNode
	static   []*scene.Actor
	dynamic  []*scene.Actor
	sun      *shader.Light
	fog      *shader.Fog
	lighting *shader.ShaderState
}

func buildWorld(modelPath string, log *zap.Logger) *world {
	w := &world{root: scene.NewShaderNode("world")}
	w.sun = shader.NewLight()
	w.fog = &shader.Fog{Fog: gfx.Fog{Mode: gfx.FogLinear, Color: core.ColorWhite, Start: 40, End: 140}}
	w.lighting = shader.NewShaderState().
		Enable(gfx.EnableDepthTest, shader.Public).
		Enable(gfx.EnableCullFace, shader.Public).
		Enable(gfx.EnableLighting, shader.Public).
		Enable(gfx.EnableFog, shader.Public).
		Set(w.fog, shader.Public)
	w.lighting.AddLight(w.sun)
	w.root.SetShader(w.lighting)

	w.addGround()
	w.addGrid()
	w.addCubeGrid()
	w.addSpheres()
	w.addMovers()
	w.addGlass()
	if modelPath != "" {
		if err := w.addModel(modelPath); err != nil {
			log.Warn("model not loaded", zap.String("path", modelPath), zap.Error(err))
		}
	}
	return w
}

func solid(name string, c core.Color) *scene.Painter {
	p := scene.NewPainter(name)
	mat := shader.NewMaterial(c)
	mat.Ambient = c
	mat.Specular = core.NewColor(0.3, 0.3, 0.3, 1)
	mat.Shininess = 24
	p.SetShader(shader.NewShaderState().Set(mat, shader.Public))
	return p
}

func (w *world) add(p *scene.Painter, a *scene.Actor, dynamic bool) {
	p.AddActor(a)
	if dynamic {
		w.dynamic = append(w.dynamic, a)
	} else {
		w.static = append(w.static, a)
	}
}

func (w *world) addGround() {
	p := solid("ground", core.NewColor(0.45, 0.42, 0.38, 1))
	w.root.AddPainter(p)
	t := geom.NewTransform()
	t.ComputeWorld()
	a := scene.NewActor(scene.NewGeometry(gfx.Plane(160, 160, 8)), t)
	a.Name = "ground"
	w.add(p, a, false)
}

// addGrid lays an unlit line grid just above the ground.
func (w *world) addGrid() {
	p := scene.NewPainter("grid")
	p.SetShader(shader.NewShaderState().
		Set(shader.NewMaterial(core.ColorWhite), shader.Public).
		Disable(gfx.EnableLighting, shader.Public))
	w.root.AddPainter(p)
	t := geom.NewTransformMatrix(mgl32.Translate3D(0, 0.02, 0))
	t.ComputeWorld()
	a := scene.NewActor(scene.NewGeometry(gfx.Grid(160, 32)), t)
	a.Name = "grid"
	w.add(p, a, false)
}

// checker returns a two-tone RGBA checkerboard.
func checker(size, cells int, a, b core.Color) *gfx.Image {
	img := &gfx.Image{Label: "checker", Width: size, Height: size, Pixels: make([]byte, size*size*4)}
	ca, cb := gfx.NewSolidImage("", a).Pixels, gfx.NewSolidImage("", b).Pixels
	cell := max(size/cells, 1)
	for y := range size {
		for x := range size {
			c := ca
			if (x/cell+y/cell)%2 == 1 {
				c = cb
			}
			copy(img.Pixels[(y*size+x)*4:], c)
		}
	}
	return img
}

func (w *world) addCubeGrid() {
	p := solid("cubes", core.ColorWhite)
	p.Shader().SetTextureUnit(0, shader.NewTextureUnit(checker(64, 8, core.ColorWhite, core.NewColor(0.3, 0.5, 0.8, 1))), shader.Public)
	w.root.AddPainter(p)

	grid := geom.NewTransformMatrix(mgl32.Translate3D(-gridSize*2, 0.5, -gridSize*2))
	cube := gfx.Cube(1)
	rng := rand.New(rand.NewPCG(7, 11))
	for z := range gridSize {
		for x := range gridSize {
			h := 0.5 + rng.Float32()*2.5
			t := geom.NewTransformMatrix(mgl32.Translate3D(float32(x)*4, h/2-0.5, float32(z)*4).Mul4(mgl32.Scale3D(1, h, 1)))
			grid.AddChild(t)
			a := scene.NewActor(scene.NewGeometry(cube), t)
			a.Name = fmt.Sprintf("cube_%d_%d", x, z)
			w.add(p, a, false)
		}
	}
	grid.ComputeWorldRecursive()
}

// addSpheres places spheres with three detail levels selected by distance.
func (w *world) addSpheres() {
	p := solid("spheres", core.NewColor(0.85, 0.3, 0.25, 1))
	p.LOD = &scene.DistanceLOD{Distances: []float32{20, 50}}
	w.root.AddPainter(p)

	lods := []*scene.Geometry{
		scene.NewGeometry(gfx.Sphere(1.2, 32, 16)),
		scene.NewGeometry(gfx.Sphere(1.2, 12, 6)),
		scene.NewGeometry(gfx.Sphere(1.2, 6, 3)),
	}
	for i := range 12 {
		t := geom.NewTransformMatrix(mgl32.Translate3D(float32(i%4)*12-18, 4, float32(i/4)*12-12))
		t.ComputeWorld()
		a := scene.NewActor(lods[0], t)
		a.Name = fmt.Sprintf("sphere_%d", i)
		for lod, g := range lods[1:] {
			a.SetDrawable(lod+1, g)
		}
		w.add(p, a, false)
	}
}

// addMovers adds cubes that tween back and forth; they are dynamic actors.
func (w *world) addMovers() {
	p := solid("movers", core.NewColor(0.95, 0.8, 0.2, 1))
	w.root.AddPainter(p)
	cube := gfx.Cube(1.5)
	fns := []ease.TweenFunc{ease.InOutQuad, ease.InOutSine, ease.OutBounce, ease.InOutCubic}
	for i := range 8 {
		from := mgl32.Vec3{-30, 1, float32(i)*6 - 21}
		to := mgl32.Vec3{30, 1, float32(i)*6 - 21}
		anim := scene.NewTweenAnimator(from, to, 4+float32(i)*0.5, fns[i%len(fns)])
		anim.PingPong = true
		a := scene.NewActor(scene.NewGeometry(cube), geom.NewTransformMatrix(mgl32.Translate3D(from[0], from[1], from[2])))
		a.Name = fmt.Sprintf("mover_%d", i)
		a.Updater = anim
		w.add(p, a, true)
	}
}

// addGlass adds translucent panes drawn after the opaque list.
func (w *world) addGlass() {
	p := scene.NewPainter("glass")
	p.RenderList = loader.TranslucentList
	mat := shader.NewMaterial(core.NewColor(0.4, 0.7, 1, 0.35))
	p.SetShader(shader.NewShaderState().
		Set(mat, shader.Public).
		Enable(gfx.EnableBlend, shader.Public).
		Disable(gfx.EnableCullFace, shader.Public).
		Set(shader.NewBlendFunc(gfx.BlendSrcAlpha, gfx.BlendOneMinusSrcAlpha), shader.Public).
		Set(&shader.DepthMask{Write: false}, shader.Public))
	w.root.AddPainter(p)

	pane := gfx.Quad(6)
	for i := range 5 {
		t := geom.NewTransformMatrix(mgl32.Translate3D(float32(i)*9-18, 3, 8))
		t.ComputeWorld()
		a := scene.NewActor(scene.NewGeometry(pane), t)
		a.Name = fmt.Sprintf("glass_%d", i)
		w.add(p, a, false)
	}
}

func (w *world) addModel(path string) error {
	var (
		m   *loader.Model
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err = loader.LoadOBJ(path)
	case ".gltf", ".glb":
		m, err = loader.LoadGLTF(path)
	default:
		return fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	w.root.AddChild(m.Root)
	w.static = append(w.static, m.Actors...)
	return nil
}
