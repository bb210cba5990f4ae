package sensors

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/transfer"
	"github.com/markusressel/fanner/internal/util"
)

// HwmonSensor reads a temperature from a hwmon tempN_input file (millidegree celsius)
// and turns it into the sample the configured analog frontend would produce
type HwmonSensor struct {
	sampleCache
	Input    string                     `json:"input"`
	Frontend transfer.Frontend          `json:"frontend"`
	Config   configuration.SensorConfig `json:"configuration"`
}

func (sensor *HwmonSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *HwmonSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *HwmonSensor) Poll() error {
	return sensor.update(sensor.acquire())
}

func (sensor *HwmonSensor) acquire() (uint8, error) {
	if len(sensor.Input) <= 0 {
		return 0, fmt.Errorf("sensor %s: temperature input is not resolved", sensor.GetId())
	}
	integer, err := util.ReadIntFromFile(sensor.Input)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	celsius := float64(integer) / 1000
	return sensor.Frontend.SampleForTemperature(celsius), nil
}
