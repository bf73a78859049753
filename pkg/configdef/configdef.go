package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

type Source struct {
	Title        string `json:"title" validate:"empty=false"`
	Address      string `json:"address"`
	MockCapturer bool   `json:"mock_capturer"`
	Disabled     bool   `json:"disabled"`
}

// Pipeline is the compositing configuration surface. OutputFrameRate
// is informational only, the core never throttles on it.
// EnableFrameInterpolation is carried but currently inert.
type Pipeline struct {
	OutputFrameRate          int    `json:"output_frame_rate" validate:"gte=1 & lte=60"`
	OutputWidth              int    `json:"output_width" validate:"gte=1"`
	OutputHeight             int    `json:"output_height" validate:"gte=1"`
	EnableFrameInterpolation bool   `json:"enable_frame_interpolation"`
	BufferSize               int    `json:"buffer_size" validate:"gte=1"`
	Layout                   string `json:"layout"`
}

type Values struct {
	Debug        bool     `json:"debug"`
	TelemetryLoc string   `json:"telemetry_location"`
	SnapshotLoc  string   `json:"snapshot_location"`
	Pipeline     Pipeline `json:"pipeline"`
	Sources      []Source `json:"sources"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupSourceTitles(v.Sources) {
		return fmt.Errorf(validationErrorHeader, errors.New("source titles must be unique"))
	}
	return nil
}

func hasDupSourceTitles(sources []Source) (hasDup bool) {
	hasDup = false
	if len(sources) == 0 {
		return
	}

	for si, src := range sources {
		for i := si; i < len(sources); i++ {
			if i == si {
				continue
			}
			if src.Title == sources[i].Title {
				hasDup = true
				return
			}
		}
	}
	return
}
