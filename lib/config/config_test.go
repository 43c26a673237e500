package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Objects, 2)
	for _, o := range cfg.Objects {
		assert.Len(t, o.Vertices, 3)
		assert.Equal(t, DefaultVertexShader, o.VertexShader)
		assert.Equal(t, DefaultFragmentShader, o.FragmentShader)
	}
	assert.Equal(t, CfgPath(DefaultTexturePath), cfg.Textures["container"].Path)
	assert.Equal(t, DefaultClearColour, cfg.ClearColour)
	assert.Nil(t, cfg.Api)
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `
window:
  title: test
  width: 320
  height: 200
clear_colour: "#102030ff"
log_level: debug
shader_dir: shaders
objects:
  - name: a
    colour: "#ff0000ff"
    vertices: [[-1, -1, 0], [1, -1, 0], [0, 1, 0]]
  - name: b
    texture: crate
    vertices:
      - [0, 0, 0]
      - [1, 0, 0]
      - [1, 1, 0]
textures:
  crate:
    path: crate.png
    inotify: true
api:
  bind: 127.0.0.1:8000
`)
	cfg, err := Parse(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, &WindowCfg{Title: "test", Width: 320, Height: 200}, cfg.Window)
	assert.Equal(t, "#102030ff", cfg.ClearColour)
	assert.Equal(t, CfgPath(filepath.Join(dir, "shaders")), cfg.ShaderDir)
	require.Len(t, cfg.Objects, 2)
	assert.Equal(t, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}}, cfg.Objects[0].Vertices)
	assert.Equal(t, DefaultFragmentShader, cfg.Objects[0].FragmentShader)
	assert.Equal(t, TexturedFragShader, cfg.Objects[1].FragmentShader)
	assert.Equal(t, DefaultObjectColour, cfg.Objects[1].Colour)
	assert.Equal(t, CfgPath(filepath.Join(dir, "crate.png")), cfg.Textures["crate"].Path)
	assert.True(t, cfg.Textures["crate"].Inotify)
	assert.Equal(t, "127.0.0.1:8000", cfg.Api.Bind)
}

func TestParseFillsWindowDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, `
objects:
  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]
`))
	require.NoError(t, err)
	assert.Equal(t, &WindowCfg{Title: "urus", Width: 800, Height: 600}, cfg.Window)
	assert.Equal(t, "object0", cfg.Objects[0].Name)
}

func TestParseAbsolutePathKept(t *testing.T) {
	cfg, err := Parse(writeConfig(t, `
objects:
  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]
textures:
  abs:
    path: /srv/assets/a.png
`))
	require.NoError(t, err)
	assert.Equal(t, CfgPath("/srv/assets/a.png"), cfg.Textures["abs"].Path)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "could not open")
}

func TestValidateRejects(t *testing.T) {
	for name, tc := range map[string]struct {
		body string
		msg  string
	}{
		"no objects": {
			body: "window: {title: x}\n",
			msg:  "at least one object",
		},
		"too few vertices": {
			body: "objects:\n  - vertices: [[0, 0, 0], [1, 0, 0]]\n",
			msg:  "at least three vertices",
		},
		"partial triangle": {
			body: "objects:\n  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [2, 2, 0]]\n",
			msg:  "not a whole number of triangles",
		},
		"bad colour": {
			body: "objects:\n  - colour: red\n    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "not a valid RGBA hex colour",
		},
		"bad clear colour": {
			body: "clear_colour: \"#000\"\nobjects:\n  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "not a valid RGBA hex colour",
		},
		"duplicate names": {
			body: "objects:\n  - name: a\n    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n  - name: a\n    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "used twice",
		},
		"unknown texture": {
			body: "objects:\n  - texture: wood\n    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "non-existant texture wood",
		},
		"texture without path": {
			body: "objects:\n  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\ntextures:\n  wood:\n    inotify: true\n",
			msg:  "texture path must be specified",
		},
		"bad window": {
			body: "window:\n  width: -1\nobjects:\n  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "width must be at least 1",
		},
		"bad log level": {
			body: "log_level: chatty\nobjects:\n  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "unknown log level",
		},
		"api without bind": {
			body: "api:\n  enable_profiler: true\nobjects:\n  - vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0]]\n",
			msg:  "bind address must be specified",
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, tc.body))
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "Window: urus (800x600)")
	assert.Contains(t, s, "left (triangle.vert + solid.frag, 3 vertices)")
	assert.Contains(t, s, "container (assets/container.jpg)")
}
