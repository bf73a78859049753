package layout_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragonmosaic/pkg/layout"
)

func TestRectCountIsFixedPerKindRegardlessOfFrameCount(t *testing.T) {
	is := is.New(t)

	counts := map[layout.Kind]int{
		layout.Single:     1,
		layout.SideBySide: 2,
		layout.Grid2x2:    4,
		layout.PIP:        2,
	}

	for kind, expected := range counts {
		for _, frameCount := range []int{0, 1, 2, 4, 9} {
			rects := layout.Rects(kind, frameCount, 1920, 1080)
			is.Equal(len(rects), expected)
		}
	}
}

func TestSingleRectCoversFullCanvas(t *testing.T) {
	is := is.New(t)

	rects := layout.Rects(layout.Single, 1, 1280, 720)
	is.Equal(rects[0], layout.Rect{X: 0, Y: 0, W: 1280, H: 720})
}

func TestSideBySideSplitsCanvasWithPaddingGap(t *testing.T) {
	is := is.New(t)

	rects := layout.Rects(layout.SideBySide, 2, 1920, 1080)
	is.Equal(rects[0], layout.Rect{X: 0, Y: 0, W: 956, H: 1080})
	is.Equal(rects[1], layout.Rect{X: 964, Y: 0, W: 956, H: 1080})

	// no overlap and total span stays within the canvas
	is.Equal(rects[1].X, rects[0].W+8)
	is.True(rects[1].X+rects[1].W <= 1920)
}

func TestGrid2x2PartitionsCanvasIntoQuadrants(t *testing.T) {
	is := is.New(t)

	rects := layout.Rects(layout.Grid2x2, 4, 1920, 1080)
	is.Equal(len(rects), 4)

	for _, r := range rects {
		is.Equal(r.W, 956)
		is.Equal(r.H, 536)
	}

	// bottom-left, bottom-right, top-left, top-right
	is.Equal(rects[0], layout.Rect{X: 0, Y: 0, W: 956, H: 536})
	is.Equal(rects[1], layout.Rect{X: 964, Y: 0, W: 956, H: 536})
	is.Equal(rects[2], layout.Rect{X: 0, Y: 544, W: 956, H: 536})
	is.Equal(rects[3], layout.Rect{X: 964, Y: 544, W: 956, H: 536})

	// 8 unit gaps on both axes
	is.Equal(rects[1].X-(rects[0].X+rects[0].W), 8)
	is.Equal(rects[2].Y-(rects[0].Y+rects[0].H), 8)
}

func TestPIPMainRectCoversCanvasWithInsetAnchoredTopRight(t *testing.T) {
	is := is.New(t)

	rects := layout.Rects(layout.PIP, 2, 1000, 500)
	is.Equal(rects[0], layout.Rect{X: 0, Y: 0, W: 1000, H: 500})
	is.Equal(rects[1], layout.Rect{X: 1000 - 300 - 8, Y: 500 - 150 - 8, W: 300, H: 150})
}

func TestParseKind(t *testing.T) {
	is := is.New(t)

	kind, err := layout.ParseKind("grid-2x2")
	is.NoErr(err)
	is.Equal(kind, layout.Grid2x2)

	kind, err = layout.ParseKind("")
	is.NoErr(err)
	is.Equal(kind, layout.Single)

	_, err = layout.ParseKind("mosaic-9000")
	is.True(err != nil)
}

func TestKindString(t *testing.T) {
	is := is.New(t)

	is.Equal(layout.SideBySide.String(), "side-by-side")
	is.Equal(layout.PIP.String(), "pip")
}
