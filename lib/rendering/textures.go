package rendering

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	ErrPixelDataSize       = errors.New("pixel data does not match dimensions")
)

// Image is decoded raster data. Rows are stored bottom-up, matching the
// texture coordinate origin used by GL.
type Image struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

type ImageDecoder interface {
	Decode(path string) (*Image, error)
}

// Texture owns one GPU texture. The handle is valid from construction on,
// whether or not anything was ever loaded into it.
type Texture struct {
	noCopy noCopy

	backend Backend
	decoder ImageDecoder
	log     *slog.Logger

	handle   uint32
	width    int
	height   int
	channels int
	path     string
	released bool

	// UploadedBytes counts the pixel bytes sent to the GPU by Load.
	UploadedBytes uint64
}

func NewTexture(b Backend, dec ImageDecoder, logger *slog.Logger) *Texture {
	return &Texture{
		backend: b,
		decoder: dec,
		log:     logger.With("module", "texture"),
		handle:  b.GenTextures(1)[0],
	}
}

// NewTextureFromFile allocates a texture and loads path into it. The
// texture is returned even when loading fails, in which case it is empty.
func NewTextureFromFile(b Backend, dec ImageDecoder, logger *slog.Logger, path string) (*Texture, error) {
	t := NewTexture(b, dec, logger)
	return t, t.Load(path)
}

// Load decodes path and uploads it with a full mipmap chain. A failed
// decode leaves the previous contents and dimensions in place.
func (t *Texture) Load(path string) error {
	if t.released {
		return fmt.Errorf("texture already released")
	}
	t.path = path

	img, err := t.decoder.Decode(path)
	if err != nil {
		t.log.Warn(fmt.Sprintf("Texture loading from %s failed", path), "err", err)
		return fmt.Errorf("could not decode %s: %w", path, err)
	}
	format, internal, err := pixelFormat(img.Channels)
	if err != nil {
		t.log.Warn(fmt.Sprintf("Texture loading from %s failed", path), "err", err)
		return fmt.Errorf("could not upload %s: %w", path, err)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		err = fmt.Errorf("%w: %dx%dx%d against %d bytes", ErrPixelDataSize, img.Width, img.Height, img.Channels, len(img.Pix))
		t.log.Warn(fmt.Sprintf("Texture loading from %s failed", path), "err", err)
		return err
	}

	b := t.backend
	b.BindTexture(Texture2D, t.handle)
	// rows of 1 and 3 channel images are not 4 byte aligned
	b.PixelStorei(UnpackAlignment, 1)
	b.TexImage2D(
		Texture2D,
		0,
		internal,
		int32(img.Width),
		int32(img.Height),
		format,
		UnsignedByte,
		img.Pix,
	)
	b.GenerateMipmap(Texture2D)

	b.TexParameteri(Texture2D, TextureWrapS, Repeat)
	b.TexParameteri(Texture2D, TextureWrapT, Repeat)
	b.TexParameteri(Texture2D, TextureMinFilter, NearestMipmapLinear)
	b.TexParameteri(Texture2D, TextureMagFilter, Linear)

	b.PixelStorei(UnpackAlignment, 4)
	b.BindTexture(Texture2D, 0)

	t.width = img.Width
	t.height = img.Height
	t.channels = img.Channels
	t.UploadedBytes += uint64(len(img.Pix))
	t.log.Info(fmt.Sprintf("Loaded %s (%dx%d, %d channels)", path, t.width, t.height, t.channels))
	return nil
}

// Reload loads the last path given to Load again.
func (t *Texture) Reload() error {
	if t.path == "" {
		return fmt.Errorf("texture %d has nothing to reload", t.handle)
	}
	return t.Load(t.path)
}

// Set binds the texture to unit and points the sampler uniform at it.
func (t *Texture) Set(uniform int32, unit int32) {
	t.backend.ActiveTexture(uint32(unit))
	t.backend.BindTexture(Texture2D, t.handle)
	t.backend.Uniform1i(uniform, unit)
}

// Unset clears unit and makes unit 0 active again.
func (t *Texture) Unset(unit int32) {
	t.backend.ActiveTexture(uint32(unit))
	t.backend.BindTexture(Texture2D, 0)
	t.backend.ActiveTexture(0)
}

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.backend.DeleteTextures(t.handle)
	t.released = true
	t.handle = 0
}

func (t *Texture) Handle() uint32 {
	return t.handle
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

func (t *Texture) Channels() int {
	return t.channels
}

func (t *Texture) Path() string {
	return t.path
}

func pixelFormat(channels int) (format uint32, internal int32, err error) {
	switch channels {
	case 1:
		return Red, int32(Red), nil
	case 2:
		return RG, int32(RG), nil
	case 3:
		return RGB, int32(RGB), nil
	case 4:
		return RGBA, int32(RGBA), nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
}
