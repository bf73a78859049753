package config

import "github.com/tauraamui/dragonmosaic/pkg/configdef"

type defaultSettingKey uint

const (
	OUTPUTFRAMERATE defaultSettingKey = 0x0
	OUTPUTWIDTH     defaultSettingKey = 0x1
	OUTPUTHEIGHT    defaultSettingKey = 0x2
	BUFFERSIZE      defaultSettingKey = 0x3
	SOURCES         defaultSettingKey = 0x4
)

var defaultSettings = map[defaultSettingKey]interface{}{
	OUTPUTFRAMERATE: 30,
	OUTPUTWIDTH:     1920,
	OUTPUTHEIGHT:    1080,
	BUFFERSIZE:      3,
	SOURCES:         []configdef.Source{},
}
