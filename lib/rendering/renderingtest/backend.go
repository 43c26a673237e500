// Package renderingtest provides in-memory stand-ins for the GPU, the shader
// compiler and the image decoder.
package renderingtest

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"unsafe"

	"github.com/urus/urus/lib/rendering"
)

type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Draw is one recorded DrawArrays with the state it was issued under.
type Draw struct {
	Mode        uint32
	First       int32
	Count       int32
	Program     uint32
	VertexArray uint32
	Textures    map[uint32]uint32
}

// Backend records every call and tracks object lifetimes and bindings.
// Deleting an unknown or already deleted object is recorded in Faults.
type Backend struct {
	Calls  []Call
	Draws  []Draw
	Faults []string

	// Uploads holds the bytes last uploaded to each buffer.
	Uploads map[uint32][]byte
	// Usages holds the usage hint of the last upload to each buffer.
	Usages map[uint32]uint32

	InitErr    error
	Strings    map[uint32]string
	Integers   map[uint32]int32
	ErrorQueue []uint32

	nextID uint32

	buffers  map[uint32]bool
	arrays   map[uint32]bool
	textures map[uint32]bool
	programs map[uint32]bool
	uniforms map[string]int32

	Enabled map[uint32]bool

	BoundBuffer      uint32
	BoundVertexArray uint32
	CurrentProgram   uint32
	ActiveUnit       uint32
	UnitTextures     map[uint32]uint32
	TexParams        map[uint32]map[uint32]int32
	Mipmapped        map[uint32]bool
	ClearColour      [4]float32
}

func NewBackend() *Backend {
	return &Backend{
		Uploads:  make(map[uint32][]byte),
		Usages:   make(map[uint32]uint32),
		Strings:  map[uint32]string{rendering.Version: "4.1 fake", rendering.ShadingLanguageVer: "4.10"},
		Integers: map[uint32]int32{rendering.MaxVertexAttribs: 16},
		nextID:   1,
		buffers:  make(map[uint32]bool),
		arrays:   make(map[uint32]bool),
		textures: make(map[uint32]bool),
		programs: make(map[uint32]bool),
		uniforms: make(map[string]int32),
		Enabled:  make(map[uint32]bool),

		UnitTextures: make(map[uint32]uint32),
		TexParams:    make(map[uint32]map[uint32]int32),
		Mipmapped:    make(map[uint32]bool),
	}
}

func (b *Backend) record(name string, args ...any) {
	b.Calls = append(b.Calls, Call{Name: name, Args: args})
}

func (b *Backend) gen(live map[uint32]bool, n int) []uint32 {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = b.nextID
		live[b.nextID] = true
		b.nextID++
	}
	return ids
}

func (b *Backend) del(kind string, live map[uint32]bool, ids []uint32) {
	for _, id := range ids {
		if !live[id] {
			b.Faults = append(b.Faults, fmt.Sprintf("delete of dead %s %d", kind, id))
			continue
		}
		delete(live, id)
	}
}

// NewProgram registers a live program id, as a compiler would.
func (b *Backend) NewProgram() uint32 {
	return b.gen(b.programs, 1)[0]
}

func (b *Backend) LiveBuffers() []uint32      { return sortedKeys(b.buffers) }
func (b *Backend) LiveVertexArrays() []uint32 { return sortedKeys(b.arrays) }
func (b *Backend) LiveTextures() []uint32     { return sortedKeys(b.textures) }
func (b *Backend) LivePrograms() []uint32     { return sortedKeys(b.programs) }

// Live counts every object that has not been deleted.
func (b *Backend) Live() int {
	return len(b.buffers) + len(b.arrays) + len(b.textures) + len(b.programs)
}

func (b *Backend) CallNames() []string {
	names := make([]string, len(b.Calls))
	for i, c := range b.Calls {
		names[i] = c.Name
	}
	return names
}

func (b *Backend) Reset() {
	b.Calls = nil
	b.Draws = nil
}

func sortedKeys(m map[uint32]bool) []uint32 {
	return slices.Sorted(maps.Keys(m))
}

func (b *Backend) Init() error {
	b.record("Init")
	return b.InitErr
}

func (b *Backend) GetString(name uint32) string {
	b.record("GetString", name)
	return b.Strings[name]
}

func (b *Backend) GetInteger(name uint32) int32 {
	b.record("GetInteger", name)
	return b.Integers[name]
}

func (b *Backend) GetError() uint32 {
	if len(b.ErrorQueue) == 0 {
		return rendering.NoError
	}
	e := b.ErrorQueue[0]
	b.ErrorQueue = b.ErrorQueue[1:]
	return e
}

func (b *Backend) Enable(capability uint32) {
	b.record("Enable", capability)
	b.Enabled[capability] = true
}

func (b *Backend) ClearColor(r, g, bl, a float32) {
	b.record("ClearColor", r, g, bl, a)
	b.ClearColour = [4]float32{r, g, bl, a}
}

func (b *Backend) Clear(mask uint32) {
	b.record("Clear", mask)
}

func (b *Backend) GenBuffers(n int) []uint32 {
	ids := b.gen(b.buffers, n)
	b.record("GenBuffers", ids)
	return ids
}

func (b *Backend) DeleteBuffers(ids ...uint32) {
	b.record("DeleteBuffers", ids)
	b.del("buffer", b.buffers, ids)
}

func (b *Backend) BindBuffer(target uint32, id uint32) {
	b.record("BindBuffer", target, id)
	if id != 0 && !b.buffers[id] {
		b.Faults = append(b.Faults, fmt.Sprintf("bind of dead buffer %d", id))
	}
	b.BoundBuffer = id
}

func (b *Backend) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	b.record("BufferData", target, size, usage)
	if b.BoundBuffer == 0 {
		b.Faults = append(b.Faults, "BufferData with no buffer bound")
		return
	}
	b.Uploads[b.BoundBuffer] = slices.Clone(unsafe.Slice((*byte)(data), size))
	b.Usages[b.BoundBuffer] = usage
}

func (b *Backend) GenVertexArrays(n int) []uint32 {
	ids := b.gen(b.arrays, n)
	b.record("GenVertexArrays", ids)
	return ids
}

func (b *Backend) DeleteVertexArrays(ids ...uint32) {
	b.record("DeleteVertexArrays", ids)
	b.del("vertex array", b.arrays, ids)
}

func (b *Backend) BindVertexArray(id uint32) {
	b.record("BindVertexArray", id)
	if id != 0 && !b.arrays[id] {
		b.Faults = append(b.Faults, fmt.Sprintf("bind of dead vertex array %d", id))
	}
	b.BoundVertexArray = id
}

func (b *Backend) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	b.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (b *Backend) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	b.record("VertexAttribIPointer", index, size, xtype, stride, offset)
}

func (b *Backend) EnableVertexAttribArray(index uint32) {
	b.record("EnableVertexAttribArray", index)
}

func (b *Backend) UseProgram(id uint32) {
	b.record("UseProgram", id)
	if id != 0 && !b.programs[id] {
		b.Faults = append(b.Faults, fmt.Sprintf("use of dead program %d", id))
	}
	b.CurrentProgram = id
}

func (b *Backend) DeleteProgram(id uint32) {
	b.record("DeleteProgram", id)
	b.del("program", b.programs, []uint32{id})
}

func (b *Backend) GetUniformLocation(program uint32, name string) int32 {
	b.record("GetUniformLocation", program, name)
	key := fmt.Sprintf("%d/%s", program, name)
	loc, ok := b.uniforms[key]
	if !ok {
		loc = int32(len(b.uniforms))
		b.uniforms[key] = loc
	}
	return loc
}

func (b *Backend) Uniform1i(location int32, v int32) {
	b.record("Uniform1i", location, v)
}

func (b *Backend) GenTextures(n int) []uint32 {
	ids := b.gen(b.textures, n)
	b.record("GenTextures", ids)
	return ids
}

func (b *Backend) DeleteTextures(ids ...uint32) {
	b.record("DeleteTextures", ids)
	b.del("texture", b.textures, ids)
}

func (b *Backend) ActiveTexture(unit uint32) {
	b.record("ActiveTexture", unit)
	b.ActiveUnit = unit
}

func (b *Backend) BindTexture(target uint32, id uint32) {
	b.record("BindTexture", target, id)
	if id != 0 && !b.textures[id] {
		b.Faults = append(b.Faults, fmt.Sprintf("bind of dead texture %d", id))
	}
	if id == 0 {
		delete(b.UnitTextures, b.ActiveUnit)
		return
	}
	b.UnitTextures[b.ActiveUnit] = id
}

func (b *Backend) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	b.record("TexImage2D", level, internalFormat, width, height, format, xtype, len(pixels))
}

func (b *Backend) TexParameteri(target, pname uint32, param int32) {
	b.record("TexParameteri", pname, param)
	tex := b.UnitTextures[b.ActiveUnit]
	if b.TexParams[tex] == nil {
		b.TexParams[tex] = make(map[uint32]int32)
	}
	b.TexParams[tex][pname] = param
}

func (b *Backend) GenerateMipmap(target uint32) {
	b.record("GenerateMipmap", target)
	b.Mipmapped[b.UnitTextures[b.ActiveUnit]] = true
}

func (b *Backend) PixelStorei(pname uint32, param int32) {
	b.record("PixelStorei", pname, param)
}

func (b *Backend) DrawArrays(mode uint32, first, count int32) {
	b.record("DrawArrays", mode, first, count)
	b.Draws = append(b.Draws, Draw{
		Mode:        mode,
		First:       first,
		Count:       count,
		Program:     b.CurrentProgram,
		VertexArray: b.BoundVertexArray,
		Textures:    maps.Clone(b.UnitTextures),
	})
}

// Compiler hands out program ids from a Backend. Sources listed in Fail
// are rejected.
type Compiler struct {
	Backend *Backend
	Fail    map[string]bool
	Sources [][2]string
}

var ErrCompile = errors.New("fake compile failure")

func (c *Compiler) Compile(vertexSource, fragmentSource string) (uint32, error) {
	c.Sources = append(c.Sources, [2]string{vertexSource, fragmentSource})
	if c.Fail[vertexSource] || c.Fail[fragmentSource] {
		return 0, ErrCompile
	}
	return c.Backend.NewProgram(), nil
}

// Decoder serves images from memory, keyed by path.
type Decoder struct {
	Images map[string]*rendering.Image
	Paths  []string
}

var ErrNoImage = errors.New("no such image")

func (d *Decoder) Decode(path string) (*rendering.Image, error) {
	d.Paths = append(d.Paths, path)
	img, ok := d.Images[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, path)
	}
	return img, nil
}

// SolidImage builds a w by h image with every pixel set to channel bytes of v.
func SolidImage(w, h, channels int, v byte) *rendering.Image {
	pix := make([]byte, w*h*channels)
	for i := range pix {
		pix[i] = v
	}
	return &rendering.Image{Pix: pix, Width: w, Height: h, Channels: channels}
}
