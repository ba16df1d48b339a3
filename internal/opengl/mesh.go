package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"render-pipeline/gfx"
)

// gpuMesh holds the buffer objects of an uploaded gfx.Mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
	revision      uint64
}

// mesh returns m's buffers, uploading on first use and again whenever the
// mesh revision moves.
func (d *Device) mesh(m *gfx.Mesh) *gpuMesh {
	if len(m.Vertices) == 0 {
		return nil
	}
	g, ok := d.meshes[m]
	if ok && g.revision == m.Revision() {
		return g
	}
	if !ok {
		g = &gpuMesh{}
		gl.GenVertexArrays(1, &g.vao)
		gl.GenBuffers(1, &g.vbo)
		gl.BindVertexArray(g.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)

		var v gfx.Vertex
		stride := int32(unsafe.Sizeof(v))
		attrib := func(loc uint32, size int32, off uintptr) {
			gl.EnableVertexAttribArray(loc)
			gl.VertexAttribPointer(loc, size, gl.FLOAT, false, stride, gl.PtrOffset(int(off)))
		}
		attrib(0, 3, unsafe.Offsetof(v.Position))
		attrib(1, 3, unsafe.Offsetof(v.Normal))
		attrib(2, 2, unsafe.Offsetof(v.UV))
		attrib(3, 4, unsafe.Offsetof(v.Color))
		d.meshes[m] = g
	} else {
		gl.BindVertexArray(g.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	}

	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(unsafe.Sizeof(gfx.Vertex{})), gl.Ptr(m.Vertices), gl.STATIC_DRAW)
	g.indexed = len(m.Indices) > 0
	g.count = int32(len(m.Vertices))
	if g.indexed {
		if g.ebo == 0 {
			gl.GenBuffers(1, &g.ebo)
		}
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
		g.count = int32(len(m.Indices))
	}
	gl.BindVertexArray(0)
	g.revision = m.Revision()
	d.log.Debug("mesh uploaded", zapMesh(m))
	return g
}

// ReleaseMesh frees the GPU copy of m. The next draw uploads it again.
func (d *Device) ReleaseMesh(m *gfx.Mesh) {
	g, ok := d.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	delete(d.meshes, m)
}
