package compositor

import (
	"github.com/tauraamui/dragonmosaic/pkg/configdef"
	"github.com/tauraamui/dragonmosaic/pkg/layout"
	"github.com/tauraamui/dragonmosaic/pkg/log"
	"github.com/tauraamui/dragonmosaic/pkg/videobackend"
	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
)

// Compositor arranges frames onto a single output image by driving
// the image processing backend. It never mutates input frames, each
// composed output is a fresh backend image owned by the caller.
type Compositor struct {
	backend videobackend.Backend
}

func New(backend videobackend.Backend) *Compositor {
	return &Compositor{backend: backend}
}

// Compose produces one output image from the given frames. Empty input
// yields no output. Frames which fail to convert are skipped, frames
// beyond the layout's slot count are dropped. Later frames draw over
// earlier ones.
func (c *Compositor) Compose(
	frames []videoframe.Frame, kind layout.Kind, cfg configdef.Pipeline,
) videobackend.Image {
	if len(frames) == 0 {
		return nil
	}

	if len(frames) == 1 {
		return c.composeSingle(frames[0], cfg)
	}
	return c.composeMosaic(frames, kind, cfg)
}

func (c *Compositor) composeSingle(
	frame videoframe.Frame, cfg configdef.Pipeline,
) videobackend.Image {
	scaled := c.convertAndFit(
		frame, videoframe.Dimensions{W: cfg.OutputWidth, H: cfg.OutputHeight},
	)
	return scaled
}

func (c *Compositor) composeMosaic(
	frames []videoframe.Frame, kind layout.Kind, cfg configdef.Pipeline,
) videobackend.Image {
	canvas, err := c.backend.NewCanvas(cfg.OutputWidth, cfg.OutputHeight)
	if err != nil {
		log.Error("unable to create composite canvas: %s", err.Error())
		return nil
	}

	rects := layout.Rects(kind, len(frames), cfg.OutputWidth, cfg.OutputHeight)
	for i, frame := range frames {
		if i >= len(rects) {
			break
		}

		rect := rects[i]
		scaled := c.convertAndFit(frame, videoframe.Dimensions{W: rect.W, H: rect.H})
		if scaled == nil {
			continue
		}

		if err := c.backend.Overlay(canvas, scaled, rect.X, rect.Y); err != nil {
			log.Error("unable to overlay frame [%s] onto canvas: %s", frame.UUID(), err.Error())
		}
		scaled.Close()
	}

	return canvas
}

// convertAndFit converts a frame into a backend image scaled uniformly
// to fit inside target, preserving aspect ratio. Upscaling is allowed.
// Returns nil if the frame's media could not be converted.
func (c *Compositor) convertAndFit(
	frame videoframe.Frame, target videoframe.Dimensions,
) videobackend.Image {
	img, err := c.backend.ImageFromFrame(frame)
	if err != nil {
		log.Debug("skipping frame [%s]: %s", frame.UUID(), err.Error())
		return nil
	}
	defer img.Close()

	factor := fitFactor(img.Dimensions(), target)
	if factor <= 0 {
		return nil
	}

	scaled, err := c.backend.Scale(img, factor)
	if err != nil {
		log.Debug("skipping frame [%s]: %s", frame.UUID(), err.Error())
		return nil
	}
	return scaled
}

func fitFactor(src, target videoframe.Dimensions) float64 {
	if src.W <= 0 || src.H <= 0 {
		return 0
	}

	scaleX := float64(target.W) / float64(src.W)
	scaleY := float64(target.H) / float64(src.H)
	if scaleX < scaleY {
		return scaleX
	}
	return scaleY
}
