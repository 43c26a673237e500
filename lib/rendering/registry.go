package rendering

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrIndexOutOfRange = errors.New("render object index out of range")

// PositionSlot is the shader input that receives vertex positions.
const PositionSlot uint32 = 0

type Program interface {
	Use()
	ID() uint32
	Release()
}

// RenderObject is one drawable: a vertex array, the buffer feeding it and
// the program it is drawn with.
type RenderObject struct {
	Name         string
	VertexArray  uint32
	VertexBuffer *Attribute[mgl32.Vec3]
	Program      Program

	// Texture is sampled through the TextureUniform location on unit 0
	// when set.
	Texture        *Texture
	TextureUniform int32
}

func (o *RenderObject) VertexCount() int32 {
	if o.VertexBuffer == nil {
		return 0
	}
	return int32(o.VertexBuffer.Count())
}

// Registry is a fixed size table of render objects. Every vertex array and
// vertex buffer is allocated when the registry is built; indices never
// change afterwards.
type Registry struct {
	backend  Backend
	objects  []RenderObject
	released bool
}

func NewRegistry(b Backend, n int) *Registry {
	r := &Registry{
		backend: b,
		objects: make([]RenderObject, n),
	}
	if n == 0 {
		return r
	}
	vaos := b.GenVertexArrays(n)
	vbos := b.GenBuffers(n)
	for i := range n {
		r.objects[i].VertexArray = vaos[i]
		r.objects[i].VertexBuffer = adoptAttribute[mgl32.Vec3](b, vbos[i], StaticDraw)
	}
	return r
}

func (r *Registry) Len() int {
	return len(r.objects)
}

func (r *Registry) Object(i int) (*RenderObject, error) {
	if i < 0 || i >= len(r.objects) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(r.objects))
	}
	return &r.objects[i], nil
}

// Attach gives object i its program and vertex positions, and records the
// position layout in the object's vertex array.
func (r *Registry) Attach(i int, name string, program Program, vertices []mgl32.Vec3) error {
	obj, err := r.Object(i)
	if err != nil {
		return err
	}
	if r.released {
		return fmt.Errorf("registry already released")
	}
	obj.Name = name
	obj.Program = program

	program.Use()
	r.backend.BindVertexArray(obj.VertexArray)
	obj.VertexBuffer.SetAll(vertices)
	obj.VertexBuffer.SetAttributePointer(PositionSlot)
	r.backend.BindVertexArray(0)
	r.backend.UseProgram(0)
	return nil
}

// Draw issues one triangle list draw per object, in index order. It returns
// the number of draw calls made.
func (r *Registry) Draw() int {
	return r.DrawEach(nil)
}

// DrawEach is Draw, calling drawn with the index of every object actually
// drawn. Objects without a program are skipped. drawn may be nil.
func (r *Registry) DrawEach(drawn func(i int)) int {
	if r.released {
		return 0
	}
	calls := 0
	for i := range r.objects {
		obj := &r.objects[i]
		if obj.Program == nil {
			continue
		}
		obj.Program.Use()
		if obj.Texture != nil {
			obj.Texture.Set(obj.TextureUniform, 0)
		}
		r.backend.BindVertexArray(obj.VertexArray)
		r.backend.DrawArrays(Triangles, 0, obj.VertexCount())
		if obj.Texture != nil {
			obj.Texture.Unset(0)
		}
		if drawn != nil {
			drawn(i)
		}
		calls++
	}
	r.backend.BindVertexArray(0)
	r.backend.UseProgram(0)
	return calls
}

// Release frees every vertex array, vertex buffer and program. Textures
// are owned elsewhere and left alone. Further calls do nothing.
func (r *Registry) Release() {
	if r.released {
		return
	}
	vaos := make([]uint32, 0, len(r.objects))
	for i := range r.objects {
		obj := &r.objects[i]
		vaos = append(vaos, obj.VertexArray)
		obj.VertexArray = 0
		obj.VertexBuffer.Release()
		if obj.Program != nil {
			obj.Program.Release()
		}
	}
	if len(vaos) > 0 {
		r.backend.DeleteVertexArrays(vaos...)
	}
	r.released = true
}

func (r *Registry) Released() bool {
	return r.released
}
