package fans

import (
	"github.com/markusressel/fanner/internal/configuration"
	"sync"
)

const maxSimulatedHistory = 4096

// SimulatedFan keeps the duty cycle in memory and remembers the most recent writes
type SimulatedFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`

	mu      sync.Mutex
	history []uint8
}

func (fan *SimulatedFan) GetId() string {
	return fan.Config.ID
}

func (fan *SimulatedFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *SimulatedFan) Init() error {
	return nil
}

func (fan *SimulatedFan) WriteDuty(duty uint8) error {
	fan.mu.Lock()
	fan.history = append(fan.history, duty)
	if len(fan.history) > 2*maxSimulatedHistory {
		fan.history = append([]uint8(nil), fan.history[len(fan.history)-maxSimulatedHistory:]...)
	}
	fan.mu.Unlock()
	return fan.update(duty, nil)
}

// History returns a copy of the remembered duty cycles, oldest first
func (fan *SimulatedFan) History() []uint8 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	result := make([]uint8, len(fan.history))
	copy(result, fan.history)
	return result
}

func (fan *SimulatedFan) Close() error {
	return nil
}
