package rendering

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Element lists the vertex element types that have an attribute layout.
// Instantiating Attribute with any other type fails to compile.
type Element interface {
	float32 | int32 | mgl32.Vec2 | mgl32.Vec3 | mgl32.Vec4
}

// AttribLayout describes how one element maps onto a shader input.
type AttribLayout struct {
	Components int32
	Type       uint32
	// Integer attributes go through VertexAttribIPointer and reach the
	// shader unconverted.
	Integer bool
}

func LayoutOf[T Element]() AttribLayout {
	var zero T
	switch any(zero).(type) {
	case float32:
		return AttribLayout{Components: 1, Type: Float}
	case int32:
		return AttribLayout{Components: 1, Type: Int, Integer: true}
	case mgl32.Vec2:
		return AttribLayout{Components: 2, Type: Float}
	case mgl32.Vec3:
		return AttribLayout{Components: 3, Type: Float}
	default:
		return AttribLayout{Components: 4, Type: Float}
	}
}

// noCopy trips go vet's copylocks check when an Attribute is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Attribute owns one GPU buffer holding a typed array of per-vertex values.
type Attribute[T Element] struct {
	noCopy noCopy

	backend  Backend
	handle   uint32
	count    int
	usage    uint32
	released bool
}

// NewAttribute allocates the buffer immediately. Uploads use a stream
// usage hint since the data is expected to be replaced often.
func NewAttribute[T Element](b Backend) *Attribute[T] {
	return adoptAttribute[T](b, b.GenBuffers(1)[0], StreamDraw)
}

func adoptAttribute[T Element](b Backend, handle uint32, usage uint32) *Attribute[T] {
	return &Attribute[T]{
		backend: b,
		handle:  handle,
		usage:   usage,
	}
}

// Set uploads the first n elements of data and records n as the count.
// An empty upload is skipped and the previous count is kept.
func (a *Attribute[T]) Set(data []T, n int) {
	if n > len(data) {
		n = len(data)
	}
	if n <= 0 || a.released {
		return
	}
	var zero T
	size := n * int(unsafe.Sizeof(zero))

	a.backend.BindBuffer(ArrayBuffer, a.handle)
	a.backend.BufferData(ArrayBuffer, size, unsafe.Pointer(&data[0]), a.usage)
	a.backend.BindBuffer(ArrayBuffer, 0)
	a.count = n
}

// SetAll uploads the whole slice.
func (a *Attribute[T]) SetAll(data []T) {
	a.Set(data, len(data))
}

// SetAttributePointer describes the buffer layout to the currently bound
// vertex array, for the shader input at slot.
func (a *Attribute[T]) SetAttributePointer(slot uint32) {
	layout := LayoutOf[T]()
	var zero T
	stride := int32(unsafe.Sizeof(zero))

	a.backend.BindBuffer(ArrayBuffer, a.handle)
	if layout.Integer {
		a.backend.VertexAttribIPointer(slot, layout.Components, layout.Type, stride, 0)
	} else {
		a.backend.VertexAttribPointer(slot, layout.Components, layout.Type, false, stride, 0)
	}
	a.backend.EnableVertexAttribArray(slot)
	a.backend.BindBuffer(ArrayBuffer, 0)
}

func (a *Attribute[T]) Count() int {
	return a.count
}

func (a *Attribute[T]) Handle() uint32 {
	return a.handle
}

// Release frees the buffer. Further calls do nothing.
func (a *Attribute[T]) Release() {
	if a.released {
		return
	}
	a.backend.DeleteBuffers(a.handle)
	a.released = true
	a.handle = 0
}
