package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"render-pipeline/gfx"
)

type gpuTexture struct {
	id       uint32
	revision uint64
	sampler  gfx.Sampler
}

// texture returns t's GL object, uploading the pixels on first use and
// after every revision change. The texture is left bound to the active unit.
func (d *Device) texture(t gfx.Texture) *gpuTexture {
	w, h := t.Size()
	pix := t.RGBA()
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		d.log.Warn("texture has no pixel data", zap.String("texture", t.Name()))
		return nil
	}
	g, ok := d.textures[t]
	if ok && g.revision == t.Revision() {
		gl.BindTexture(gl.TEXTURE_2D, g.id)
		return g
	}
	if !ok {
		g = &gpuTexture{sampler: gfx.Sampler{Filter: -1}}
		gl.GenTextures(1, &g.id)
		d.textures[t] = g
	}
	gl.BindTexture(gl.TEXTURE_2D, g.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	g.revision = t.Revision()
	d.log.Debug("texture uploaded", zap.String("texture", t.Name()), zap.Int("width", w), zap.Int("height", h))
	return g
}

// sample applies s to the bound texture when it differs from the last
// sampler used with it.
func (g *gpuTexture) sample(s gfx.Sampler) {
	if g.sampler == s {
		return
	}
	min, mag := filters(s.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, min)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, mag)
	wrap := wraps[gfx.WrapRepeat]
	if int(s.Wrap) < len(wraps) {
		wrap = wraps[s.Wrap]
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	g.sampler = s
}

// ReleaseTexture frees the GPU copy of t.
func (d *Device) ReleaseTexture(t gfx.Texture) {
	g, ok := d.textures[t]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &g.id)
	delete(d.textures, t)
}
