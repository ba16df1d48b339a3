package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/internal/opengl"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// The sky is a cube centered on the eye. xyww puts every fragment on the
// far plane so it lands behind the scene.
const skyVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 u_modelView;
uniform mat4 u_projection;

out vec3 v_dir;

void main() {
    v_dir = inPosition;
    vec4 pos = u_projection * u_modelView * vec4(inPosition, 1.0);
    gl_Position = pos.xyww;
}
`

const skyFragSrc = `
#version 410 core
in vec3 v_dir;
out vec4 outColor;

uniform vec4 u_zenith;
uniform vec4 u_horizon;
uniform vec4 u_ground;

void main() {
    float t = normalize(v_dir).y;
    vec3 color;
    if (t >= 0.0) {
        color = mix(u_horizon.rgb, u_zenith.rgb, pow(t, 0.4));
    } else {
        color = mix(u_horizon.rgb, u_ground.rgb, min(-t * 3.0, 1.0));
    }
    outColor = vec4(color, 1.0);
}
`

// SkyList sorts the sky ahead of every other bucket.
const SkyList = -1

type sky struct {
	actor   *scene.Actor
	program *shader.Program
}

// addSky compiles the gradient program and adds the sky painter to w. The
// sky actor is dynamic since it moves with the camera.
func (w *world) addSky(dev *opengl.Device) (*sky, error) {
	prog, err := dev.CompileProgram("sky", skyVertSrc, skyFragSrc)
	if err != nil {
		return nil, err
	}
	s := &sky{program: &shader.Program{Program: prog}}

	p := scene.NewPainter("sky")
	p.RenderList = SkyList
	p.SetShader(shader.NewShaderState().
		Set(s.program, shader.Public).
		Set(&shader.DepthFunc{Func: gfx.CompareLessEqual}, shader.Public).
		Set(&shader.DepthMask{Write: false}, shader.Public).
		Disable(gfx.EnableCullFace, shader.Public).
		Disable(gfx.EnableFog, shader.Public))
	w.root.AddPainter(p)

	s.actor = scene.NewActor(scene.NewGeometry(gfx.Cube(2)), geom.NewTransform())
	s.actor.Name = "sky"
	w.add(p, s.actor, true)
	return s, nil
}

// update recenters the sky on eye and recolors it from the horizon color.
func (s *sky) update(eye mgl32.Vec3, horizon core.Color) {
	s.actor.Transform.SetLocal(mgl32.Translate3D(eye[0], eye[1], eye[2]))
	s.program.SetUniform("u_horizon", horizon)
	s.program.SetUniform("u_zenith", mix(horizon, core.NewColor(0.1, 0.2, 0.6, 1), 0.6))
	s.program.SetUniform("u_ground", mix(horizon, core.ColorBlack, 0.85))
}
