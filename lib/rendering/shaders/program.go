package shaders

import (
	"fmt"

	"github.com/urus/urus/lib/rendering"
)

// Compiler turns a vertex and fragment source pair into a linked program.
type Compiler interface {
	Compile(vertexSource, fragmentSource string) (uint32, error)
}

// Program is a linked vertex and fragment shader pair.
type Program struct {
	backend  rendering.Backend
	id       uint32
	released bool
}

func NewProgram(b rendering.Backend, id uint32) *Program {
	return &Program{backend: b, id: id}
}

func (p *Program) Use() {
	p.backend.UseProgram(p.id)
}

func (p *Program) ID() uint32 {
	return p.id
}

func (p *Program) Uniform(name string) int32 {
	return p.backend.GetUniformLocation(p.id, name)
}

func (p *Program) Release() {
	if p.released {
		return
	}
	p.backend.DeleteProgram(p.id)
	p.released = true
}

// Build renders the named templates with data and compiles them.
func Build(s *Shaderer, c Compiler, b rendering.Backend, vertexName, fragmentName string, data *ShaderData) (*Program, error) {
	vertexShader, err := s.GetShaderSource(vertexName, data)
	if err != nil {
		return nil, fmt.Errorf("could not get vertex shader: %w", err)
	}

	fragmentShader, err := s.GetShaderSource(fragmentName, data)
	if err != nil {
		return nil, fmt.Errorf("could not get fragment shader: %w", err)
	}

	id, err := c.Compile(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("could not build %s+%s: %w", vertexName, fragmentName, err)
	}
	return NewProgram(b, id), nil
}
