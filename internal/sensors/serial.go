package sensors

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
	"sync"
)

const maxSerialReadsPerPoll = 16

// SerialSensor reads raw samples streamed as single bytes by an attached microcontroller.
// Every Poll drains what arrived since the last one and keeps the newest byte.
type SerialSensor struct {
	sampleCache
	Config configuration.SensorConfig `json:"configuration"`

	open util.SerialOpener

	mu     sync.Mutex
	port   util.SerialPort
	buffer []byte
}

func NewSerialSensor(config configuration.SensorConfig) *SerialSensor {
	return newSerialSensor(config, util.OpenSerialPort)
}

func newSerialSensor(config configuration.SensorConfig, open util.SerialOpener) *SerialSensor {
	return &SerialSensor{
		Config: config,
		open:   open,
		buffer: make([]byte, 64),
	}
}

func (sensor *SerialSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *SerialSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *SerialSensor) Poll() error {
	return sensor.update(sensor.acquire())
}

func (sensor *SerialSensor) acquire() (uint8, error) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()

	if sensor.port == nil {
		serialConfig := sensor.Config.Serial
		port, err := sensor.open(serialConfig.Port, serialConfig.GetBaud())
		if err != nil {
			return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
		}
		// bytes buffered before the port was opened are stale
		if err := port.Flush(); err != nil {
			_ = port.Close()
			return 0, fmt.Errorf("sensor %s: unable to flush serial port: %w", sensor.GetId(), err)
		}
		sensor.port = port
	}

	received := false
	var latest uint8
	for i := 0; i < maxSerialReadsPerPoll; i++ {
		n, err := sensor.port.Read(sensor.buffer)
		if util.IsSerialTimeout(n, err) {
			break
		}
		if err != nil {
			// reopen on the next poll
			_ = sensor.port.Close()
			sensor.port = nil
			return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
		}
		latest = sensor.buffer[n-1]
		received = true
		if n < len(sensor.buffer) {
			break
		}
	}

	if !received {
		return 0, fmt.Errorf("sensor %s: no sample received within %s", sensor.GetId(), util.SerialReadTimeout)
	}
	return latest, nil
}

func (sensor *SerialSensor) Close() error {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()

	if sensor.port == nil {
		return nil
	}
	err := sensor.port.Close()
	sensor.port = nil
	return err
}
