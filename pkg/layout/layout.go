package layout

import "github.com/tauraamui/xerror"

// Kind selects how composed frames are arranged on the output canvas.
type Kind int

const (
	Single Kind = iota
	SideBySide
	Grid2x2
	PIP
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case SideBySide:
		return "side-by-side"
	case Grid2x2:
		return "grid-2x2"
	case PIP:
		return "pip"
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "single", "":
		return Single, nil
	case "side-by-side":
		return SideBySide, nil
	case "grid-2x2":
		return Grid2x2, nil
	case "pip":
		return PIP, nil
	}
	return Single, xerror.Errorf("unrecognised layout kind: %s", s)
}

// Rect is a placement in canvas space. The origin sits at the bottom
// left of the canvas, X and Y give the rect's bottom left corner.
type Rect struct {
	X, Y, W, H int
}

const padding = 8

// pipScale is the fraction of the canvas each PIP inset dimension takes.
const pipScale = 30

// Rects returns the placement rect for each frame slot of the given
// layout kind. The returned count is fixed per kind, frames beyond it
// have no slot. Pure and deterministic.
func Rects(kind Kind, count int, canvasW, canvasH int) []Rect {
	switch kind {
	case SideBySide:
		halfW := (canvasW - padding) / 2
		return []Rect{
			{X: 0, Y: 0, W: halfW, H: canvasH},
			{X: halfW + padding, Y: 0, W: halfW, H: canvasH},
		}
	case Grid2x2:
		halfW := (canvasW - padding) / 2
		halfH := (canvasH - padding) / 2
		return []Rect{
			{X: 0, Y: 0, W: halfW, H: halfH},
			{X: halfW + padding, Y: 0, W: halfW, H: halfH},
			{X: 0, Y: halfH + padding, W: halfW, H: halfH},
			{X: halfW + padding, Y: halfH + padding, W: halfW, H: halfH},
		}
	case PIP:
		insetW := canvasW * pipScale / 100
		insetH := canvasH * pipScale / 100
		return []Rect{
			{X: 0, Y: 0, W: canvasW, H: canvasH},
			{
				X: canvasW - insetW - padding,
				Y: canvasH - insetH - padding,
				W: insetW,
				H: insetH,
			},
		}
	default:
		return []Rect{{X: 0, Y: 0, W: canvasW, H: canvasH}}
	}
}
