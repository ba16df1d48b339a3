// Package render turns a scene into draw calls: it compiles visible actors
// into sorted render lists and replays them against a gfx.Device with as few
// state changes as possible.
package render

import (
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// Token is one draw of one actor in one pass. Only the first pass of an
// actor sits in a RenderList; later passes hang off NextPass and are drawn
// right after it.
type Token struct {
	Actor   *scene.Actor
	Painter *scene.Painter
	Shader  *shader.ShaderState
	Pass    int
	// Lights and Planes are how many of the shader's lights and clip planes
	// this draw uses.
	Lights int
	Planes int
	// CameraDistance is the squared distance from the camera to the actor's
	// box center. Only filled in when the list's sorter asks for it.
	CameraDistance float32
	NextPass       *Token

	order int
}

// Order is the token's position in the compile sequence of its frame.
func (t *Token) Order() int { return t.order }

const tokenChunk = 256

// tokenPool hands out tokens from fixed chunks that are reused every frame.
type tokenPool struct {
	chunks [][]Token
	chunk  int
	next   int
	used   int
}

func (p *tokenPool) get() *Token {
	if p.chunk == len(p.chunks) {
		p.chunks = append(p.chunks, make([]Token, tokenChunk))
	}
	t := &p.chunks[p.chunk][p.next]
	*t = Token{}
	p.next++
	p.used++
	if p.next == tokenChunk {
		p.chunk++
		p.next = 0
	}
	return t
}

func (p *tokenPool) reset() {
	p.chunk, p.next, p.used = 0, 0, 0
}
