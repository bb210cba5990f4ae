package sensors

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
)

// FileSensor reads a raw converter value, like the in_voltageN_raw attribute of an IIO device
type FileSensor struct {
	sampleCache
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor *FileSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *FileSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *FileSensor) Poll() error {
	return sensor.update(sensor.acquire())
}

func (sensor *FileSensor) acquire() (uint8, error) {
	filePath := sensor.Config.File.Path
	integer, err := util.ReadIntFromFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: unable to read int from file %s: %w", sensor.GetId(), filePath, err)
	}
	sample, err := reduceToSample(int64(integer), sensor.Config.File.GetBits())
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return sample, nil
}
