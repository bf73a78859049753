package telemetry

import (
	"github.com/nakabonne/tstorage"
	"github.com/tauraamui/dragonmosaic/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	fpsMetric     = "pipeline_fps"
	latencyMetric = "pipeline_latency_ms"
)

// Recorder persists telemetry samples into an embedded time series
// store so a host can inspect pipeline behaviour after the fact.
type Recorder struct {
	storage tstorage.Storage
}

func NewRecorder(dataPath string) (*Recorder, error) {
	storage, err := tstorage.NewStorage(
		tstorage.WithDataPath(dataPath),
		tstorage.WithTimestampPrecision(tstorage.Milliseconds),
	)
	if err != nil {
		return nil, xerror.Errorf("unable to open telemetry storage at %s: %w", dataPath, err)
	}
	return &Recorder{storage: storage}, nil
}

func (r *Recorder) Record(fps int, latencyMs float64) error {
	now := Timestamp().UnixNano() / 1e6
	err := r.storage.InsertRows([]tstorage.Row{
		{
			Metric:    fpsMetric,
			DataPoint: tstorage.DataPoint{Timestamp: now, Value: float64(fps)},
		},
		{
			Metric:    latencyMetric,
			DataPoint: tstorage.DataPoint{Timestamp: now, Value: latencyMs},
		},
	})
	if err != nil {
		return xerror.Errorf("unable to persist telemetry samples: %w", err)
	}
	return nil
}

func (r *Recorder) FPSSamples(start, end int64) ([]*tstorage.DataPoint, error) {
	return r.storage.Select(fpsMetric, nil, start, end)
}

func (r *Recorder) LatencySamples(start, end int64) ([]*tstorage.DataPoint, error) {
	return r.storage.Select(latencyMetric, nil, start, end)
}

func (r *Recorder) Close() {
	if err := r.storage.Close(); err != nil {
		log.Error("unable to close telemetry storage: %s", err.Error())
	}
}
