package sensors

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
	"time"
)

const cmdSensorTimeout = 2 * time.Second

// CmdSensor runs an executable that prints a raw converter value
type CmdSensor struct {
	sampleCache
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor *CmdSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *CmdSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *CmdSensor) Poll() error {
	return sensor.update(sensor.acquire())
}

func (sensor *CmdSensor) acquire() (uint8, error) {
	exec := sensor.Config.Cmd.Exec
	args := sensor.Config.Cmd.Args
	value, err := util.SafeCmdExecutionForInt(exec, args, cmdSensorTimeout)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	sample, err := reduceToSample(int64(value), sensor.Config.Cmd.GetBits())
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return sample, nil
}
