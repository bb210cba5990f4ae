package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
	"time"
)

const cmdFanTimeout = 2 * time.Second

type CmdFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`
}

func (fan *CmdFan) GetId() string {
	return fan.Config.ID
}

func (fan *CmdFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *CmdFan) Init() error {
	return nil
}

func (fan *CmdFan) WriteDuty(duty uint8) error {
	conf := fan.Config.Cmd
	args := util.ReplacePlaceholder(conf.Args, configuration.DutyPlaceholder, int(duty))
	_, err := util.SafeCmdExecution(conf.Exec, args, cmdFanTimeout)
	if err != nil {
		err = fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	return fan.update(duty, err)
}

func (fan *CmdFan) Close() error {
	return nil
}
