package videobackend

import (
	"context"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed   bool
	uuid       string
	sourceUUID string
	timestamp  int64
	mat        gocv.Mat
}

func (frame *openCVFrame) UUID() string { return frame.uuid }
func (frame *openCVFrame) SourceUUID() string { return frame.sourceUUID }
func (frame *openCVFrame) Timestamp() int64 { return frame.timestamp }

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

type openCVImage struct {
	isClosed bool
	mat      gocv.Mat
}

func (img *openCVImage) DataRef() interface{} {
	return &img.mat
}

func (img *openCVImage) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: img.mat.Cols(), H: img.mat.Rows()}
}

func (img *openCVImage) Close() {
	if !img.isClosed {
		img.mat.Close()
		img.isClosed = true
	}
}

type openCVBackend struct{}

func (b *openCVBackend) Connect(cancel context.Context, addr string) (Connection, error) {
	conn := openCVConnection{}
	err := conn.connect(cancel, addr)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (b *openCVBackend) NewFrame(sourceUUID string, timestamp int64) videoframe.Frame {
	return &openCVFrame{
		uuid:       uuid.NewString(),
		sourceUUID: sourceUUID,
		timestamp:  timestamp,
		mat:        gocv.NewMat(),
	}
}

func (b *openCVBackend) NewCanvas(w, h int) (Image, error) {
	if w <= 0 || h <= 0 {
		return nil, xerror.Errorf("unable to create %dx%d canvas", w, h)
	}
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC3,
	)
	return &openCVImage{mat: mat}, nil
}

func (b *openCVBackend) ImageFromFrame(frame videoframe.Frame) (Image, error) {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return nil, xerror.New("must pass OpenCV frame to OpenCV backend")
	}
	if mat.Empty() {
		return nil, xerror.New("frame holds no decoded image data")
	}
	return &openCVImage{mat: mat.Clone()}, nil
}

func (b *openCVBackend) Scale(src Image, factor float64) (Image, error) {
	mat, ok := src.DataRef().(*gocv.Mat)
	if !ok {
		return nil, xerror.New("must pass OpenCV image to OpenCV backend")
	}
	if factor <= 0 {
		return nil, xerror.Errorf("unable to scale image by factor %f", factor)
	}

	dims := src.Dimensions()
	scaled := gocv.NewMat()
	gocv.Resize(
		*mat, &scaled,
		image.Pt(int(float64(dims.W)*factor), int(float64(dims.H)*factor)),
		0, 0, gocv.InterpolationLinear,
	)
	return &openCVImage{mat: scaled}, nil
}

func (b *openCVBackend) Overlay(dst, src Image, x, y int) error {
	dstMat, ok := dst.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV image to OpenCV backend")
	}
	srcMat, ok := src.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV image to OpenCV backend")
	}

	region := overlayRegion(dst.Dimensions(), src.Dimensions(), x, y)
	if region.Empty() {
		return xerror.Errorf("overlay at %d,%d falls outside canvas", x, y)
	}

	roi := dstMat.Region(region)
	defer roi.Close()
	srcMat.CopyTo(&roi)
	return nil
}

// overlayRegion maps a bottom-left origin placement onto Mat row space
// (rows run top to bottom) and clips it against the canvas bounds.
func overlayRegion(canvas, src videoframe.Dimensions, x, y int) image.Rectangle {
	top := canvas.H - (y + src.H)
	return image.Rect(x, top, x+src.W, top+src.H).
		Intersect(image.Rect(0, 0, canvas.W, canvas.H))
}

func (b *openCVBackend) Rasterize(img Image) (image.Image, error) {
	mat, ok := img.DataRef().(*gocv.Mat)
	if !ok {
		return nil, xerror.New("must pass OpenCV image to OpenCV backend")
	}
	return mat.ToImage()
}

type openCVConnection struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	vc     *gocv.VideoCapture
}

func (c *openCVConnection) connect(cancel context.Context, addr string) error {
	connAndError := make(chan openVideoStreamResult)
	go openVideoStream(addr, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		c.vc = r.vc
		c.isOpen = true
		return nil
	case <-cancel.Done():
		return xerror.New("connection cancelled")
	}
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(addr string, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(addr)
	d <- openVideoStreamResult{vc: vc, err: err}
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var readFromVideoConnection = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

func (c *openCVConnection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

func (c *openCVConnection) Read(frame videoframe.Frame) error {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to OpenCV connection read")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ok = readFromVideoConnection(c.vc, mat)
	if !ok {
		return xerror.New("unable to read from video connection")
	}
	return nil
}

func (c *openCVConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return c.vc.IsOpened()
	}
	return false
}

func (c *openCVConnection) Close() error {
	c.mu.Lock()
	c.isOpen = false
	c.mu.Unlock()
	return c.vc.Close()
}
