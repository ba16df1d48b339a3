// Package gfx is the boundary between the render pipeline and a concrete
// graphics API. The pipeline only ever talks to a Device: it binds state
// and issues indexed primitives, nothing more.
package gfx
