package rendering

import (
	"fmt"
	"log/slog"
)

// Limits holds the hardware limits reported by the driver. They are only
// logged.
type Limits struct {
	MaxVertexAttribs int32
	MaxTextureSize   int32
	MaxTextureUnits  int32
}

func Init(b Backend, logger *slog.Logger) (Limits, error) {
	err := b.Init()
	if err != nil {
		return Limits{}, fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	logger.Info(fmt.Sprintf(
		"OpenGL initialized: OpenGL version: %s GLSL version: %s",
		b.GetString(Version), b.GetString(ShadingLanguageVer),
	))
	logger.Info(fmt.Sprintf("Running on %s / %s", b.GetString(Vendor), b.GetString(Renderer)))

	limits := Limits{
		MaxVertexAttribs: b.GetInteger(MaxVertexAttribs),
		MaxTextureSize:   b.GetInteger(MaxTextureSize),
		MaxTextureUnits:  b.GetInteger(MaxCombinedTexUnits),
	}
	logger.Info(fmt.Sprintf("Max number of attribs supported on the current hardware: %d", limits.MaxVertexAttribs))
	logger.Debug(fmt.Sprintf("Max texture size %d, %d texture units", limits.MaxTextureSize, limits.MaxTextureUnits))

	return limits, nil
}

// CheckError drains the GL error queue and reports the first error found.
func CheckError(b Backend) error {
	first := b.GetError()
	if first == NoError {
		return nil
	}
	// the queue is bounded, but a lost context can report errors forever
	for range 16 {
		if b.GetError() == NoError {
			break
		}
	}
	return fmt.Errorf("OpenGL error 0x%04x (%s)", first, ErrorString(first))
}
