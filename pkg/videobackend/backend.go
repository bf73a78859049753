package videobackend

import (
	"context"
	"image"

	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
)

// Image is an opaque handle onto a backend owned bitmap. Handles are
// single owner, Close releases the underlying buffer.
type Image interface {
	Dimensions() videoframe.Dimensions
	DataRef() interface{}
	Close()
}

type Connection interface {
	UUID() string
	Read(videoframe.Frame) error
	IsOpen() bool
	Close() error
}

// Backend is the image processing context the compositing pipeline
// drives. Implementations must be safe for sequential reuse across
// compose calls and must not retain state between them.
//
// Overlay origins are given in canvas space with the origin at the
// bottom left, implementations translate into their own coordinate
// conventions.
type Backend interface {
	Connect(context.Context, string) (Connection, error)
	NewFrame(sourceUUID string, timestamp int64) videoframe.Frame
	NewCanvas(w, h int) (Image, error)
	ImageFromFrame(videoframe.Frame) (Image, error)
	Scale(src Image, factor float64) (Image, error)
	Overlay(dst, src Image, x, y int) error
	Rasterize(Image) (image.Image, error)
}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return &mockVideoBackend{}
}

func Resolve(t string) Backend {
	switch t {
	case "mock":
		return Mock()
	default:
		return Default()
	}
}
