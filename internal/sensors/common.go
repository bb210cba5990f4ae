package sensors

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
	"math"
	"sync/atomic"
)

var (
	SensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// Poll acquires a new sample from the underlying source. It may block.
	Poll() error

	// ReadSample returns the most recently acquired sample. It never blocks.
	ReadSample() uint8

	// GetPollCount returns the number of successful acquisitions
	GetPollCount() uint64
	// GetErrorCount returns the number of failed acquisitions
	GetErrorCount() uint64
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if config.HwMon != nil {
		return &HwmonSensor{
			Input:    config.HwMon.TempInput,
			Frontend: config.GetFrontend(),
			Config:   config,
		}, nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config: config,
		}, nil
	}

	if config.Serial != nil {
		return NewSerialSensor(config), nil
	}

	if config.Simulated != nil {
		return NewSimulatedSensor(config), nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}

// sampleCache holds the latest good sample of a sensor. Readers and the polling
// goroutine only meet in atomic operations.
type sampleCache struct {
	sample     atomic.Uint32
	pollCount  atomic.Uint64
	errorCount atomic.Uint64
}

func (c *sampleCache) ReadSample() uint8 {
	return uint8(c.sample.Load())
}

func (c *sampleCache) GetPollCount() uint64 {
	return c.pollCount.Load()
}

func (c *sampleCache) GetErrorCount() uint64 {
	return c.errorCount.Load()
}

func (c *sampleCache) store(sample uint8) {
	c.sample.Store(uint32(sample))
	c.pollCount.Add(1)
}

// update stores sample if err is nil and counts the failure otherwise.
// On failure the previous sample is kept.
func (c *sampleCache) update(sample uint8, err error) error {
	if err != nil {
		c.errorCount.Add(1)
		return err
	}
	c.store(sample)
	return nil
}

// reduceToSample maps a raw converter value with the given resolution onto the
// 8 bit sample domain by keeping its most significant bits
func reduceToSample(value int64, bits int) (uint8, error) {
	if value < 0 {
		return 0, fmt.Errorf("negative raw value %d", value)
	}
	maxValue := int64(math.MaxUint32)
	if bits < 32 {
		maxValue = int64(1)<<bits - 1
	}
	if value > maxValue {
		return 0, fmt.Errorf("raw value %d exceeds %d bit range", value, bits)
	}
	return uint8(value >> (bits - 8)), nil
}
