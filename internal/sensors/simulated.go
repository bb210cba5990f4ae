package sensors

import (
	"github.com/markusressel/fanner/internal/configuration"
)

// SimulatedSensor always reports the same sample until it is changed with SetSample
type SimulatedSensor struct {
	sampleCache
	Config configuration.SensorConfig `json:"configuration"`
}

func NewSimulatedSensor(config configuration.SensorConfig) *SimulatedSensor {
	sensor := &SimulatedSensor{
		Config: config,
	}
	simulated := config.Simulated
	switch {
	case simulated.Sample != nil:
		sensor.sample.Store(uint32(*simulated.Sample))
	case simulated.Temperature != nil:
		sensor.sample.Store(uint32(config.GetFrontend().SampleForTemperature(*simulated.Temperature)))
	}
	return sensor
}

func (sensor *SimulatedSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *SimulatedSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *SimulatedSensor) Poll() error {
	sensor.pollCount.Add(1)
	return nil
}

func (sensor *SimulatedSensor) SetSample(sample uint8) {
	sensor.sample.Store(uint32(sample))
}
