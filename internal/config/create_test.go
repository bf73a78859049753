package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/dragonmosaic/pkg/configdef"
)

func TestCreateWritesDefaultConfigToResolvedPath(t *testing.T) {
	fs = afero.NewMemMapFs()
	defer func() { fs = afero.NewOsFs() }()

	os.Setenv("DRAGON_MOSAIC_CONFIG", "/testroot/dragonmosaic/config.json")
	defer os.Unsetenv("DRAGON_MOSAIC_CONFIG")

	require.NoError(t, DefaultCreator().Create())

	exists, err := afero.Exists(fs, "/testroot/dragonmosaic/config.json")
	require.NoError(t, err)
	assert.True(t, exists)

	values, err := DefaultResolver().Resolve()
	require.NoError(t, err)
	assert.Equal(t, 30, values.Pipeline.OutputFrameRate)
	assert.Equal(t, 1920, values.Pipeline.OutputWidth)
	assert.Equal(t, 1080, values.Pipeline.OutputHeight)
	assert.Equal(t, 3, values.Pipeline.BufferSize)
	assert.Empty(t, values.Sources)
}

func TestCreateAgainstExistingConfigReturnsExistsError(t *testing.T) {
	fs = afero.NewMemMapFs()
	defer func() { fs = afero.NewOsFs() }()

	os.Setenv("DRAGON_MOSAIC_CONFIG", "/testroot/dragonmosaic/config.json")
	defer os.Unsetenv("DRAGON_MOSAIC_CONFIG")

	require.NoError(t, DefaultCreator().Create())
	assert.ErrorIs(t, DefaultCreator().Create(), configdef.ErrConfigAlreadyExists)
}
