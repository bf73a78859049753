package mosaic

import (
	"context"
	"sync"
	"time"

	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/dragonmosaic/pkg/configdef"
	"github.com/tauraamui/dragonmosaic/pkg/layout"
	"github.com/tauraamui/dragonmosaic/pkg/log"
	"github.com/tauraamui/dragonmosaic/pkg/pipeline"
	"github.com/tauraamui/dragonmosaic/pkg/telemetry"
	"github.com/tauraamui/dragonmosaic/pkg/videobackend"
	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
)

// Server wires capture sources into the compositing pipeline. Source
// readers run on their own goroutines but every frame funnels through
// one consumer channel, the pipeline only ever sees serialised calls.
type Server interface {
	LoadConfiguration() error
	Connect() []error
	ConnectWithCancel(context.Context) []error
	Run()
	Pipeline() *pipeline.Pipeline
	Shutdown() chan interface{}
}

func NewServer(resolver configdef.Resolver, backend videobackend.Backend) Server {
	return &server{
		configResolver: resolver,
		backend:        backend,
	}
}

type sourceConnection struct {
	title string
	conn  videobackend.Connection
}

type server struct {
	configResolver configdef.Resolver
	backend        videobackend.Backend
	config         configdef.Values
	pipeline       *pipeline.Pipeline
	layoutKind     layout.Kind
	recorder       *telemetry.Recorder
	mu             sync.Mutex
	sources        []sourceConnection
	cancelRunning  context.CancelFunc
	runningStopped []chan interface{}
	shutdownDone   chan interface{}
}

func (s *server) LoadConfiguration() error {
	config, err := s.configResolver.Resolve()
	if err != nil {
		return err
	}

	kind, err := layout.ParseKind(config.Pipeline.Layout)
	if err != nil {
		return err
	}

	if config.Debug {
		logging.CurrentLoggingLevel = logging.DebugLevel
	}

	s.config = config
	s.layoutKind = kind
	s.pipeline = pipeline.New(config.Pipeline, s.backend)

	if len(config.TelemetryLoc) > 0 {
		recorder, err := telemetry.NewRecorder(config.TelemetryLoc)
		if err != nil {
			return err
		}
		s.recorder = recorder
		s.pipeline.Attach(recorderObserver{recorder: recorder})
	}

	if len(config.SnapshotLoc) > 0 {
		s.pipeline.Attach(&snapshotObserver{
			backend: s.backend, rootPath: config.SnapshotLoc,
		})
	}

	return nil
}

func (s *server) Pipeline() *pipeline.Pipeline {
	return s.pipeline
}

func (s *server) Connect() []error {
	return s.connect(context.Background())
}

func (s *server) ConnectWithCancel(cancel context.Context) []error {
	return s.connect(cancel)
}

func (s *server) connect(cancel context.Context) []error {
	var errs []error

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.config.Sources {
		select {
		case <-cancel.Done():
			return nil
		default:
			if src.Disabled {
				log.Warn("Source [%s] is disabled... skipping...", src.Title)
				continue
			}

			backend := s.backend
			if src.MockCapturer {
				backend = videobackend.Mock()
			}

			log.Info("Connecting to source: [%s]...", src.Title)
			conn, err := backend.Connect(cancel, src.Address)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			log.Info("Connected successfully to source: [%s]", src.Title)
			s.sources = append(s.sources, sourceConnection{title: src.Title, conn: conn})
		}
	}
	return errs
}

// Run starts a reader per connected source, the single ingest consumer
// and the composite ticker.
func (s *server) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelRunning = cancel

	frames := make(chan videoframe.Frame)
	s.mu.Lock()
	for _, src := range s.sources {
		s.runningStopped = append(s.runningStopped, s.readSourceFrames(ctx, src, frames))
	}
	s.mu.Unlock()

	s.runningStopped = append(s.runningStopped, s.consumeFrames(ctx, frames))
	s.runningStopped = append(s.runningStopped, s.composeOnInterval(ctx))
}

func (s *server) readSourceFrames(
	ctx context.Context, src sourceConnection, frames chan videoframe.Frame,
) chan interface{} {
	stopped := make(chan interface{})
	go func() {
		defer close(stopped)
		for {
			time.Sleep(time.Millisecond * 1)
			select {
			case <-ctx.Done():
				return
			default:
				frame := s.backend.NewFrame(src.conn.UUID(), time.Now().UnixNano()/1e6)
				if err := src.conn.Read(frame); err != nil {
					log.Error("Unable to read frame from source [%s]: %s", src.title, err.Error())
					frame.Close()
					continue
				}
				select {
				case frames <- frame:
				case <-ctx.Done():
					frame.Close()
					return
				}
			}
		}
	}()
	return stopped
}

func (s *server) consumeFrames(ctx context.Context, frames chan videoframe.Frame) chan interface{} {
	stopped := make(chan interface{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-frames:
				s.pipeline.ReceiveFrame(frame)
			}
		}
	}()
	return stopped
}

func (s *server) composeOnInterval(ctx context.Context) chan interface{} {
	stopped := make(chan interface{})

	interval := time.Second / time.Duration(s.config.Pipeline.OutputFrameRate)
	ticker := time.NewTicker(interval)

	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.pipeline.ProcessLatest(s.sourceUUIDsInOrder(), s.layoutKind)
			}
		}
	}()
	return stopped
}

// sourceUUIDsInOrder keeps slot assignment stable by walking sources in
// configured order rather than map order. Frame selection itself is
// left to the pipeline so it happens under the same critical section as
// composition, a concurrently ingested frame cannot evict and close a
// selected one mid-compose.
func (s *server) sourceUUIDsInOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	uuids := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		uuids = append(uuids, src.conn.UUID())
	}
	return uuids
}

func (s *server) Shutdown() chan interface{} {
	s.shutdownDone = make(chan interface{})

	go func() {
		defer close(s.shutdownDone)

		if s.cancelRunning != nil {
			s.cancelRunning()
		}
		for _, stopped := range s.runningStopped {
			<-stopped
		}

		s.mu.Lock()
		for _, src := range s.sources {
			log.Warn("Closing source connection: [%s]...", src.title)
			if err := src.conn.Close(); err != nil {
				log.Error("Unable to close source connection [%s]: %s", src.title, err.Error())
			}
		}
		s.sources = nil
		s.mu.Unlock()

		if s.pipeline != nil {
			s.pipeline.ClearBuffers()
		}
		if s.recorder != nil {
			s.recorder.Close()
		}
	}()

	return s.shutdownDone
}

type recorderObserver struct {
	recorder *telemetry.Recorder
}

func (o recorderObserver) Output(videobackend.Image) {}

func (o recorderObserver) Telemetry(fps int, latencyMs float64) {
	if err := o.recorder.Record(fps, latencyMs); err != nil {
		log.Debug("unable to record telemetry sample: %s", err.Error())
	}
}
