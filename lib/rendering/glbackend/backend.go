// Package glbackend drives a real OpenGL 4.1 core context through go-gl.
package glbackend

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/urus/urus/lib/rendering"
)

type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (*Backend) Init() error {
	return gl.Init()
}

func (*Backend) GetString(name uint32) string {
	return gl.GoStr(gl.GetString(name))
}

func (*Backend) GetInteger(name uint32) int32 {
	var v int32
	gl.GetIntegerv(name, &v)
	return v
}

func (*Backend) GetError() uint32 {
	return gl.GetError()
}

func (*Backend) Enable(capability uint32) {
	gl.Enable(capability)
}

func (*Backend) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (*Backend) Clear(mask uint32) {
	gl.Clear(mask)
}

func (*Backend) GenBuffers(n int) []uint32 {
	ids := make([]uint32, n)
	gl.GenBuffers(int32(n), &ids[0])
	return ids
}

func (*Backend) DeleteBuffers(ids ...uint32) {
	if len(ids) == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(ids)), &ids[0])
}

func (*Backend) BindBuffer(target uint32, id uint32) {
	gl.BindBuffer(target, id)
}

func (*Backend) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.BufferData(target, size, data, usage)
}

func (*Backend) GenVertexArrays(n int) []uint32 {
	ids := make([]uint32, n)
	gl.GenVertexArrays(int32(n), &ids[0])
	return ids
}

func (*Backend) DeleteVertexArrays(ids ...uint32) {
	if len(ids) == 0 {
		return
	}
	gl.DeleteVertexArrays(int32(len(ids)), &ids[0])
}

func (*Backend) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (*Backend) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, offset)
}

func (*Backend) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	gl.VertexAttribIPointerWithOffset(index, size, xtype, stride, offset)
}

func (*Backend) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (*Backend) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (*Backend) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (*Backend) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Backend) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (*Backend) GenTextures(n int) []uint32 {
	ids := make([]uint32, n)
	gl.GenTextures(int32(n), &ids[0])
	return ids
}

func (*Backend) DeleteTextures(ids ...uint32) {
	if len(ids) == 0 {
		return
	}
	gl.DeleteTextures(int32(len(ids)), &ids[0])
}

func (*Backend) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (*Backend) BindTexture(target uint32, id uint32) {
	gl.BindTexture(target, id)
}

func (*Backend) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(&pixels[0])
	}
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr)
}

func (*Backend) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*Backend) GenerateMipmap(target uint32) {
	gl.GenerateMipmap(target)
}

func (*Backend) PixelStorei(pname uint32, param int32) {
	gl.PixelStorei(pname, param)
}

func (*Backend) DrawArrays(mode uint32, first, count int32) {
	gl.DrawArrays(mode, first, count)
}

var _ rendering.Backend = (*Backend)(nil)
