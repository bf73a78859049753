package mosaic

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragonmosaic/pkg/log"
	"github.com/tauraamui/dragonmosaic/pkg/videobackend"
	"github.com/tauraamui/xerror"
)

var fs = afero.NewOsFs()

const DATE_FORMAT = "2006-01-02"
const DATE_AND_TIME_FORMAT = "2006-01-02 15.04.05.000"

var Timestamp = func() time.Time {
	return time.Now()
}

// snapshotObserver rasterizes each published composite and writes it
// out as a dated PNG under the configured root.
type snapshotObserver struct {
	backend  videobackend.Backend
	rootPath string
}

func (o *snapshotObserver) Output(img videobackend.Image) {
	if err := o.persist(img); err != nil {
		log.Error("unable to persist composite snapshot: %s", err.Error())
	}
}

func (o *snapshotObserver) Telemetry(fps int, latencyMs float64) {}

func (o *snapshotObserver) persist(img videobackend.Image) error {
	rasterized, err := o.backend.Rasterize(img)
	if err != nil {
		return xerror.Errorf("unable to rasterize composite: %w", err)
	}

	timestamp := Timestamp()
	dir := filepath.Join(o.rootPath, timestamp.Format(DATE_FORMAT))
	if err := ensureDirectoryPathExists(dir); err != nil {
		return xerror.Errorf("unable to create snapshot dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.png", timestamp.Format(DATE_AND_TIME_FORMAT)))
	file, err := fs.Create(path)
	if err != nil {
		return xerror.Errorf("unable to create snapshot file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, rasterized); err != nil {
		return xerror.Errorf("unable to encode snapshot to %s: %w", path, err)
	}
	return nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
