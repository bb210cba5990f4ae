package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
)

// FileFan writes the duty cycle into a regular file. The file is replaced atomically,
// so other processes never read a partially written value.
type FileFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`
}

func (fan *FileFan) GetId() string {
	return fan.Config.ID
}

func (fan *FileFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *FileFan) Init() error {
	return nil
}

func (fan *FileFan) WriteDuty(duty uint8) error {
	filePath := fan.Config.File.Path
	err := util.WriteIntToFileAtomic(int(duty), filePath)
	if err != nil {
		err = fmt.Errorf("fan %s: unable to write to file %s: %w", fan.GetId(), filePath, err)
	}
	return fan.update(duty, err)
}

func (fan *FileFan) Close() error {
	return nil
}
