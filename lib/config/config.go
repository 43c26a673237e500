package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	yaml "github.com/goccy/go-yaml"
	"github.com/urus/urus/lib/log"
	"github.com/urus/urus/lib/utils"
)

const (
	DefaultVertexShader   = "triangle.vert"
	DefaultFragmentShader = "solid.frag"
	TexturedFragShader    = "textured.frag"
	DefaultClearColour    = "#000000ff"
	DefaultObjectColour   = "#ffffffff"
	DefaultTexturePath    = "assets/container.jpg"
)

type Config struct {
	Window      *WindowCfg
	ClearColour string  `yaml:"clear_colour"`
	LogLevel    string  `yaml:"log_level"`
	ShaderDir   CfgPath `yaml:"shader_dir"`
	Objects     []*ObjectCfg
	Textures    map[string]*TextureCfg
	Api         *ApiCfg
}

type WindowCfg struct {
	Title  string
	Width  int
	Height int
}

type ObjectCfg struct {
	Name           string
	VertexShader   string `yaml:"vertex_shader"`
	FragmentShader string `yaml:"fragment_shader"`
	Colour         string
	Vertices       [][3]float32
	Texture        string
}

type TextureCfg struct {
	Path    CfgPath
	Inotify bool
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Default is the two triangle scene with one texture that the renderer
// shows when started without a config file.
func Default() *Config {
	cfg := &Config{
		Objects: []*ObjectCfg{
			{
				Name:     "left",
				Colour:   "#ff8000ff",
				Vertices: [][3]float32{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}},
			},
			{
				Name:     "right",
				Colour:   "#2080ffff",
				Vertices: [][3]float32{{0, 0.5, 0}, {0.5, -0.5, 0}, {1, 0.5, 0}},
			},
		},
		Textures: map[string]*TextureCfg{
			"container": {Path: DefaultTexturePath},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			_ = fmt.Errorf("could not close %s: %s", filename, err)
		}
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f)
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Window == nil {
		c.Window = &WindowCfg{}
	}
	if c.Window.Title == "" {
		c.Window.Title = "urus"
	}
	if c.Window.Width == 0 {
		c.Window.Width = 800
	}
	if c.Window.Height == 0 {
		c.Window.Height = 600
	}
	if c.ClearColour == "" {
		c.ClearColour = DefaultClearColour
	}
	for i, o := range c.Objects {
		if o == nil {
			continue
		}
		if o.Name == "" {
			o.Name = fmt.Sprintf("object%d", i)
		}
		if o.VertexShader == "" {
			o.VertexShader = DefaultVertexShader
		}
		if o.FragmentShader == "" {
			o.FragmentShader = DefaultFragmentShader
			if o.Texture != "" {
				o.FragmentShader = TexturedFragShader
			}
		}
		if o.Colour == "" {
			o.Colour = DefaultObjectColour
		}
	}
}

func (c *Config) Validate() error {
	err := c.Window.Validate()
	if err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}
	if !utils.ColourValidate(c.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.ClearColour)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if len(c.Objects) < 1 {
		return fmt.Errorf("at least one object should be defined")
	}

	names := make(map[string]bool)
	for i, o := range c.Objects {
		if o == nil {
			return fmt.Errorf("object %d is empty", i)
		}
		err = o.Validate()
		if err != nil {
			return fmt.Errorf("object %s is invalid: %w", o.Name, err)
		}
		if names[o.Name] {
			return fmt.Errorf("object name %s is used twice", o.Name)
		}
		names[o.Name] = true
		if o.Texture != "" {
			if _, ok := c.Textures[o.Texture]; !ok {
				return fmt.Errorf("object %s refers to non-existant texture %s", o.Name, o.Texture)
			}
		}
	}
	for k, v := range c.Textures {
		if v == nil {
			return fmt.Errorf("texture %s is empty", k)
		}
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("texture %s is invalid: %w", k, err)
		}
	}
	if c.Api != nil {
		err = c.Api.Validate()
		if err != nil {
			return fmt.Errorf("api is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Window: %s (%dx%d)\n", c.Window.Title, c.Window.Width, c.Window.Height))

	b.WriteString("\nObjects:\n")
	for _, o := range c.Objects {
		b.WriteString(fmt.Sprintf("  %s (%s + %s, %d vertices)\n", o.Name, o.VertexShader, o.FragmentShader, len(o.Vertices)))
	}

	b.WriteString("\nTextures:\n")
	for _, k := range c.TextureNames() {
		b.WriteString(fmt.Sprintf("  %s (%s)\n", k, c.Textures[k].Path))
	}

	return b.String()
}

// TextureNames lists the configured textures in a stable order.
func (c *Config) TextureNames() []string {
	names := make([]string, 0, len(c.Textures))
	for k := range c.Textures {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (w *WindowCfg) Validate() error {
	if w.Width < 1 {
		return fmt.Errorf("width must be at least 1")
	}
	if w.Height < 1 {
		return fmt.Errorf("height must be at least 1")
	}
	return nil
}

func (o *ObjectCfg) Validate() error {
	if len(o.Vertices) < 3 {
		return fmt.Errorf("at least three vertices must be specified")
	}
	if len(o.Vertices)%3 != 0 {
		return fmt.Errorf("vertex count %d is not a whole number of triangles", len(o.Vertices))
	}
	if !utils.ColourValidate(o.Colour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", o.Colour)
	}
	return nil
}

func (t *TextureCfg) Validate() error {
	if t.Path == "" {
		return fmt.Errorf("texture path must be specified")
	}
	return nil
}

func (a *ApiCfg) Validate() error {
	if a.Bind == "" {
		return fmt.Errorf("bind address must be specified")
	}
	return nil
}
