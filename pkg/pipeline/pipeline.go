package pipeline

import (
	"sync"

	"github.com/tauraamui/dragonmosaic/pkg/compositor"
	"github.com/tauraamui/dragonmosaic/pkg/configdef"
	"github.com/tauraamui/dragonmosaic/pkg/framebuffer"
	"github.com/tauraamui/dragonmosaic/pkg/layout"
	"github.com/tauraamui/dragonmosaic/pkg/telemetry"
	"github.com/tauraamui/dragonmosaic/pkg/videobackend"
	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
)

// Observer receives published pipeline values. Output images are owned
// by the pipeline and closed once superseded, observers needing to keep
// one past the callback must rasterize or copy it within the call.
//
// Callbacks run outside the pipeline's internal mutex, so an observer
// may call back into the pipeline. Compose passes are expected to be
// driven by a single goroutine, which keeps an output alive until its
// publish callbacks have returned.
type Observer interface {
	Output(videobackend.Image)
	Telemetry(fps int, latencyMs float64)
}

// Pipeline owns the per-source frame buffers and telemetry tracker and
// drives the compositor on demand. Mutating calls are serialised on an
// internal mutex so concurrent producers get single owner semantics at
// this boundary.
//
// When a compose pass yields no image the previously published output
// is held unchanged rather than cleared, source dropout keeps the last
// good picture on screen. ClearBuffers is the explicit reset.
type Pipeline struct {
	mu         sync.Mutex
	cfg        configdef.Pipeline
	store      *framebuffer.Store
	tracker    *telemetry.Tracker
	compositor *compositor.Compositor
	observers  []Observer
	output     videobackend.Image
	fps        int
	latencyMs  float64
}

func New(cfg configdef.Pipeline, backend videobackend.Backend) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      framebuffer.New(cfg.BufferSize),
		tracker:    telemetry.NewTracker(),
		compositor: compositor.New(backend),
	}
}

func (p *Pipeline) Attach(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// ReceiveFrame takes ownership of the given frame, buffering it against
// its source and recording the ingest event on the processing clock.
func (p *Pipeline) ReceiveFrame(frame videoframe.Frame) {
	p.mu.Lock()
	p.store.Receive(frame)
	p.tracker.RecordEvent(telemetry.Timestamp())
	p.fps = p.tracker.FPS()
	observers, fps, latencyMs := p.observers, p.fps, p.latencyMs
	p.mu.Unlock()

	notifyTelemetry(observers, fps, latencyMs)
}

func (p *Pipeline) LatestFrame(sourceUUID string) (videoframe.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Latest(sourceUUID)
}

func (p *Pipeline) AllLatestFrames() map[string]videoframe.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.AllLatest()
}

// ProcessFrames composes the given frames under the configured output
// size, timing the pass and publishing latency and, when produced, the
// output image to attached observers.
func (p *Pipeline) ProcessFrames(frames []videoframe.Frame, kind layout.Kind) videobackend.Image {
	p.mu.Lock()
	out, published := p.composeLocked(frames, kind)
	observers, fps, latencyMs := p.observers, p.fps, p.latencyMs
	p.mu.Unlock()

	publish(observers, published, fps, latencyMs)
	return out
}

// ProcessLatest composes the most recent buffered frame of each given
// source. Selection and composition happen under the same critical
// section, a concurrent ReceiveFrame cannot evict and close a frame
// between the two steps. Absent sources are skipped.
func (p *Pipeline) ProcessLatest(sourceUUIDs []string, kind layout.Kind) videobackend.Image {
	p.mu.Lock()
	frames := make([]videoframe.Frame, 0, len(sourceUUIDs))
	for _, sourceUUID := range sourceUUIDs {
		if frame, ok := p.store.Latest(sourceUUID); ok {
			frames = append(frames, frame)
		}
	}
	out, published := p.composeLocked(frames, kind)
	observers, fps, latencyMs := p.observers, p.fps, p.latencyMs
	p.mu.Unlock()

	publish(observers, published, fps, latencyMs)
	return out
}

func (p *Pipeline) composeLocked(frames []videoframe.Frame, kind layout.Kind) (out, published videobackend.Image) {
	var composed videobackend.Image
	p.latencyMs = p.tracker.Measure(func() {
		composed = p.compositor.Compose(frames, kind, p.cfg)
	})

	if composed != nil {
		if p.output != nil {
			p.output.Close()
		}
		p.output = composed
	}
	return p.output, composed
}

func (p *Pipeline) ClearBuffers() {
	p.mu.Lock()
	p.store.Clear()
	p.tracker.Reset()
	p.fps = 0
	p.latencyMs = 0
	if p.output != nil {
		p.output.Close()
		p.output = nil
	}
	observers := p.observers
	p.mu.Unlock()

	notifyTelemetry(observers, 0, 0)
}

func (p *Pipeline) FPS() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fps
}

func (p *Pipeline) LatencyMs() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latencyMs
}

func (p *Pipeline) Output() videobackend.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output
}

func (p *Pipeline) Config() configdef.Pipeline {
	return p.cfg
}

func publish(observers []Observer, published videobackend.Image, fps int, latencyMs float64) {
	if published != nil {
		for _, o := range observers {
			o.Output(published)
		}
	}
	notifyTelemetry(observers, fps, latencyMs)
}

func notifyTelemetry(observers []Observer, fps int, latencyMs float64) {
	for _, o := range observers {
		o.Telemetry(fps, latencyMs)
	}
}
