package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragonmosaic/pkg/configdef"
	"github.com/tauraamui/dragonmosaic/pkg/log"
	"github.com/tauraamui/xerror"
)

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	applyPipelineDefaults(&values.Pipeline)

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

// applyPipelineDefaults fills any zero valued pipeline option before
// validation so a partly specified config still resolves.
func applyPipelineDefaults(pipeline *configdef.Pipeline) {
	if pipeline.OutputFrameRate == 0 {
		pipeline.OutputFrameRate = defaultSettings[OUTPUTFRAMERATE].(int)
	}
	if pipeline.OutputWidth == 0 {
		pipeline.OutputWidth = defaultSettings[OUTPUTWIDTH].(int)
	}
	if pipeline.OutputHeight == 0 {
		pipeline.OutputHeight = defaultSettings[OUTPUTHEIGHT].(int)
	}
	if pipeline.BufferSize == 0 {
		pipeline.BufferSize = defaultSettings[BUFFERSIZE].(int)
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv("DRAGON_MOSAIC_CONFIG")
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
