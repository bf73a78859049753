package mosaic

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/dragonmosaic/pkg/videobackend"
	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
	"github.com/tauraamui/xerror"
)

type rasterBackend struct {
	rasterizeErr error
}

func (b *rasterBackend) Connect(_ context.Context, _ string) (videobackend.Connection, error) {
	return nil, xerror.New("raster backend has no capture support")
}

func (b *rasterBackend) NewFrame(sourceUUID string, timestamp int64) videoframe.Frame {
	return nil
}

func (b *rasterBackend) NewCanvas(w, h int) (videobackend.Image, error) {
	return nil, xerror.New("raster backend has no canvas support")
}

func (b *rasterBackend) ImageFromFrame(videoframe.Frame) (videobackend.Image, error) {
	return nil, xerror.New("raster backend has no conversion support")
}

func (b *rasterBackend) Scale(videobackend.Image, float64) (videobackend.Image, error) {
	return nil, xerror.New("raster backend has no scale support")
}

func (b *rasterBackend) Overlay(dst, src videobackend.Image, x, y int) error {
	return xerror.New("raster backend has no overlay support")
}

func (b *rasterBackend) Rasterize(videobackend.Image) (image.Image, error) {
	if b.rasterizeErr != nil {
		return nil, b.rasterizeErr
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func overloadTimestamp(overload func() time.Time) func() {
	timestampRef := Timestamp
	Timestamp = overload
	return func() { Timestamp = timestampRef }
}

func TestSnapshotObserverPersistsRasterizedOutput(t *testing.T) {
	fs = afero.NewMemMapFs()
	defer func() { fs = afero.NewOsFs() }()

	reset := overloadTimestamp(func() time.Time {
		return time.Date(2021, 10, 2, 19, 45, 0, 0, time.UTC)
	})
	defer reset()

	observer := snapshotObserver{backend: &rasterBackend{}, rootPath: "/snapshots"}
	observer.Output(nil)

	exists, err := afero.Exists(fs, "/snapshots/2021-10-02/2021-10-02 19.45.00.000.png")
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := afero.ReadFile(fs, "/snapshots/2021-10-02/2021-10-02 19.45.00.000.png")
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestSnapshotObserverSurvivesRasterizeFailure(t *testing.T) {
	fs = afero.NewMemMapFs()
	defer func() { fs = afero.NewOsFs() }()

	observer := snapshotObserver{
		backend:  &rasterBackend{rasterizeErr: xerror.New("no raster for you")},
		rootPath: "/snapshots",
	}
	observer.Output(nil)

	entries, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
