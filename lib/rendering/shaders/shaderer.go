package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"image/color"
	"path/filepath"
	"text/template"

	"github.com/urus/urus/lib/utils"
)

//go:embed *.frag *.vert
var templateDir embed.FS

// SamplerUniform is the sampler name used by the textured templates.
const SamplerUniform = "tex"

type Shaderer struct {
	templates *template.Template
}

// NewShaderer parses the built-in templates, then any *.vert and *.frag
// files in dir, which override built-ins of the same name.
func NewShaderer(dir string) (*Shaderer, error) {
	s := &Shaderer{}

	var err error
	s.templates, err = template.ParseFS(templateDir, "*.frag", "*.vert")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return s, nil
	}

	for _, pattern := range []string{"*.vert", "*.frag"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad shader dir %s: %w", dir, err)
		}
		if len(matches) == 0 {
			continue
		}
		_, err = s.templates.ParseFiles(matches...)
		if err != nil {
			return nil, fmt.Errorf("could not parse shaders in %s: %w", dir, err)
		}
	}
	return s, nil
}

// ShaderData contains stuff that gets passed to the shader
type ShaderData struct {
	R, G, B, A float32
	Sampler    string
}

func NewShaderData(c color.RGBA) *ShaderData {
	v := utils.ColourVec(c)
	return &ShaderData{R: v[0], G: v[1], B: v[2], A: v[3], Sampler: SamplerUniform}
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	if s.templates.Lookup(name) == nil {
		return "", fmt.Errorf("no such shader: %s", name)
	}
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %s", err)
	}

	return b.String(), nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		names = append(names, t.Name())
	}
	return names
}
