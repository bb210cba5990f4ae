package sensors

import (
	"context"
	"github.com/markusressel/fanner/internal/ui"
	"io"
	"time"
)

// SensorMonitor keeps the sample cache of a sensor fresh, so readers
// always get the latest completed acquisition without blocking
type SensorMonitor interface {
	Run(ctx context.Context) error
}

type sensorMonitor struct {
	sensor      Sensor
	pollingRate time.Duration
}

func NewSensorMonitor(sensor Sensor, pollingRate time.Duration) SensorMonitor {
	return sensorMonitor{
		sensor:      sensor,
		pollingRate: pollingRate,
	}
}

func (s sensorMonitor) Run(ctx context.Context) error {
	if closer, ok := s.sensor.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				ui.Warning("Error closing sensor %s: %v", s.sensor.GetId(), err)
			}
		}()
	}

	tick := time.NewTicker(s.pollingRate)
	defer tick.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping sensor monitor for sensor %s...", s.sensor.GetId())
			return nil
		case <-tick.C:
			failing = s.poll(failing)
		}
	}
}

// poll acquires a new sample. Only transitions between working and failing are logged above debug level.
func (s sensorMonitor) poll(failing bool) bool {
	err := s.sensor.Poll()
	if err != nil {
		if !failing {
			ui.Warning("Keeping last sample %d: %v", s.sensor.ReadSample(), err)
		} else {
			ui.Debug("%v", err)
		}
		return true
	}
	if failing {
		ui.Info("Sensor %s recovered", s.sensor.GetId())
	}
	return false
}
