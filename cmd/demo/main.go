// Command demo renders a small city of cubes, LOD spheres, tweened movers
// and glass panes through the culling and render-list pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/config"
	"render-pipeline/core"
	"render-pipeline/cull"
	"render-pipeline/gfx"
	"render-pipeline/internal/opengl"
	"render-pipeline/render"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

func main() {
	cfgPath := flag.String("config", "", "TOML configuration file, reloaded on change")
	model := flag.String("model", "", "optional .gltf, .glb or .obj model to add to the scene")
	flag.Parse()

	if err := run(*cfgPath, *model); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run(cfgPath, modelPath string) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	lc, err := cfg.Logging()
	if err != nil {
		return err
	}
	if err := core.InitLogger(lc); err != nil {
		return err
	}
	defer core.Log.Sync()
	if err := cfg.ApplyErrors(); err != nil {
		return err
	}
	log := core.Log.Named("demo")

	window, err := core.NewWindow(core.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.New(core.Log.Named("opengl"))
	if err != nil {
		return err
	}
	defer dev.Destroy()

	w := buildWorld(modelPath, log)
	dome, err := w.addSky(dev)
	if err != nil {
		log.Warn("sky disabled", zap.Error(err))
	}
	pipe := newPipeline(cfg, w)
	pipe.Streams.Init(0, dev)

	var updates <-chan *config.Config
	if cfgPath != "" {
		watcher, err := config.Watch(cfgPath, core.Log.Named("config"))
		if err != nil {
			log.Warn("config hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close()
			updates = watcher.Updates
		}
	}

	cam := scene.NewCamera(scene.NewViewport(0, 0, int32(cfg.Window.Width), int32(cfg.Window.Height)))
	cam.SetPerspective(60, 0.5, 400)
	orbit := newOrbit()
	day := NewDayNight(w.sun, w.fog)
	cam.AddRenderFinishedCallback(0, false, func(*scene.Camera) { window.SwapBuffers() })

	keys := newKeys(window)
	last := window.Time()
	lastTitle := last
	paused := false
	for !window.ShouldClose() {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		select {
		case next := <-updates:
			pipe = reconfigure(pipe, next, w, dev, log)
			cfg = next
		default:
		}

		if keys.pressed(core.KeyEscape) {
			window.SetShouldClose(true)
		}
		if keys.pressed(core.KeyC) {
			pipe.Compiler.FrustumCulling = !pipe.Compiler.FrustumCulling
			log.Info("frustum culling", zap.Bool("enabled", pipe.Compiler.FrustumCulling))
		}
		if keys.pressed(core.KeyL) {
			toggleLighting(w)
		}
		if keys.pressed(core.KeySpace) {
			paused = !paused
			day.Active = !paused
		}

		fbw, fbh := window.GetFramebufferSize()
		vp := scene.NewViewport(0, 0, int32(fbw), int32(fbh))
		vp.ClearColor = day.Update(dt)
		vp.ClearFlags = gfx.ClearColorDepth
		cam.SetViewport(vp)
		orbit.update(window, dt)
		eye := orbit.eye()
		cam.LookAt(eye, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0})
		if dome != nil {
			dome.update(eye, vp.ClearColor)
		}

		pipe.Compiler.ActorAnimation = !paused && cfg.Compiler.ActorAnimation
		stats := pipe.RenderFrame(cam, 0, now)

		if now-lastTitle >= 1 {
			lastTitle = now
			window.SetTitle(fmt.Sprintf("%s  |  %d visible, %d draws, %d applies",
				cfg.Window.Title, stats.Tokens, stats.DrawCalls, stats.ShaderApplies))
		}
	}
	return nil
}

// newPipeline builds the frame pipeline for cfg over the demo world.
func newPipeline(cfg *config.Config, w *world) *render.Pipeline {
	var culler *cull.Culler
	if cfg.Culling.Enabled {
		culler = cull.NewCuller()
		cfg.ApplyCuller(culler)
		for _, a := range w.static {
			culler.AddStaticActor(a)
		}
		for _, a := range w.dynamic {
			culler.AddDynamicActor(a)
		}
	}
	pipe := render.NewPipeline(w.root, culler)
	if err := cfg.ApplyCompiler(pipe.Compiler, culler != nil); err != nil {
		core.Alert("compiler config rejected", zap.Error(err))
	}
	return pipe
}

// reconfigure applies a reloaded configuration. Switching the culler on or
// off rebuilds the pipeline; everything else is applied in place.
func reconfigure(pipe *render.Pipeline, cfg *config.Config, w *world, dev gfx.Device, log *zap.Logger) *render.Pipeline {
	if err := cfg.ApplyErrors(); err != nil {
		log.Warn("errors config rejected", zap.Error(err))
	}
	if lc, err := cfg.Logging(); err == nil {
		if err := core.InitLogger(lc); err != nil {
			log.Warn("log config rejected", zap.Error(err))
		}
	}
	if cfg.Culling.Enabled != (pipe.Culler != nil) {
		next := newPipeline(cfg, w)
		next.Streams.Init(0, dev)
		log.Info("pipeline rebuilt", zap.Bool("culling", cfg.Culling.Enabled))
		return next
	}
	if pipe.Culler != nil {
		cfg.ApplyCuller(pipe.Culler)
	}
	if err := cfg.ApplyCompiler(pipe.Compiler, pipe.Culler != nil); err != nil {
		log.Warn("compiler config rejected", zap.Error(err))
	}
	log.Info("config reloaded")
	return pipe
}

func toggleLighting(w *world) {
	if w.lighting.IsEnabled(gfx.EnableLighting) {
		w.lighting.Disable(gfx.EnableLighting, shader.Public)
	} else {
		w.lighting.Enable(gfx.EnableLighting, shader.Public)
	}
}
