package rendering

import "unsafe"

// Enum values match their OpenGL counterparts so a backend can hand them
// to the driver unchanged.
const (
	ArrayBuffer uint32 = 0x8892

	StreamDraw uint32 = 0x88E0
	StaticDraw uint32 = 0x88E4

	Float uint32 = 0x1406
	Int   uint32 = 0x1404

	UnsignedByte uint32 = 0x1401

	Triangles uint32 = 0x0004

	Texture2D            uint32 = 0x0DE1
	TextureMagFilter     uint32 = 0x2800
	TextureMinFilter     uint32 = 0x2801
	TextureWrapS         uint32 = 0x2802
	TextureWrapT         uint32 = 0x2803
	Repeat               int32  = 0x2901
	Linear               int32  = 0x2601
	NearestMipmapLinear  int32  = 0x2702
	UnpackAlignment      uint32 = 0x0CF5
	Red                  uint32 = 0x1903
	RG                   uint32 = 0x8227
	RGB                  uint32 = 0x1907
	RGBA                 uint32 = 0x1908
	ColorBufferBit       uint32 = 0x4000
	DepthBufferBit       uint32 = 0x0100
	DepthTest            uint32 = 0x0B71
	Vendor               uint32 = 0x1F00
	Renderer             uint32 = 0x1F01
	Version              uint32 = 0x1F02
	ShadingLanguageVer   uint32 = 0x8B8C
	MaxVertexAttribs     uint32 = 0x8869
	MaxTextureSize       uint32 = 0x0D33
	MaxCombinedTexUnits  uint32 = 0x8B4D
	NoError              uint32 = 0
	InvalidEnum          uint32 = 0x0500
	InvalidValue         uint32 = 0x0501
	InvalidOperation     uint32 = 0x0502
	OutOfMemory          uint32 = 0x0505
	InvalidFramebufferOp uint32 = 0x0506
)

// Backend is the subset of the graphics API the renderer drives. Every
// call must happen on the thread that owns the GL context.
type Backend interface {
	Init() error
	GetString(name uint32) string
	GetInteger(name uint32) int32
	GetError() uint32

	Enable(capability uint32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)

	GenBuffers(n int) []uint32
	DeleteBuffers(ids ...uint32)
	BindBuffer(target uint32, id uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	GenVertexArrays(n int) []uint32
	DeleteVertexArrays(ids ...uint32)
	BindVertexArray(id uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	UseProgram(id uint32)
	DeleteProgram(id uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)

	GenTextures(n int) []uint32
	DeleteTextures(ids ...uint32)
	// ActiveTexture takes the unit index, not TEXTURE0+index.
	ActiveTexture(unit uint32)
	BindTexture(target uint32, id uint32)
	TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte)
	TexParameteri(target, pname uint32, param int32)
	GenerateMipmap(target uint32)
	PixelStorei(pname uint32, param int32)

	DrawArrays(mode uint32, first, count int32)
}

// ErrorString names a GL error code.
func ErrorString(code uint32) string {
	switch code {
	case NoError:
		return "no error"
	case InvalidEnum:
		return "invalid enum"
	case InvalidValue:
		return "invalid value"
	case InvalidOperation:
		return "invalid operation"
	case OutOfMemory:
		return "out of memory"
	case InvalidFramebufferOp:
		return "invalid framebuffer operation"
	default:
		return "unknown error"
	}
}
