package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/fans"
	"github.com/markusressel/fanner/internal/persistence"
	"github.com/markusressel/fanner/internal/ramp"
	"github.com/markusressel/fanner/internal/sensors"
	"github.com/markusressel/fanner/internal/transfer"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/markusressel/fanner/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	ControllerMap = cmap.New[FanController]()
)

// State is the duty cycle state of a single control loop.
// It is created as zero/zero and only ever mutated by the loop owning it.
type State struct {
	Current uint8 `json:"current"`
	Target  uint8 `json:"target"`
}

// Step performs the computational part of one control iteration: it derives the
// target duty cycle from sample and moves Current one ramp step towards it.
// The returned value is the duty cycle to write.
func Step(state *State, sample uint8, function transfer.Function, limiter *ramp.Limiter[uint8]) uint8 {
	state.Target = function.Evaluate(sample)
	state.Current = limiter.Next(state.Current, state.Target)
	return state.Current
}

// Clock provides the fixed delay between two iterations
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Snapshot is an immutable copy of the observable state of a controller
type Snapshot struct {
	State

	// Sample is the raw sample used in the last iteration
	Sample      uint8     `json:"sample"`
	SampleMin   float64   `json:"sampleMin"`
	SampleAvg   float64   `json:"sampleAvg"`
	SampleMax   float64   `json:"sampleMax"`
	Iterations  uint64    `json:"iterations"`
	WriteErrors uint64    `json:"writeErrors"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type FanController interface {
	GetId() string

	GetConfig() configuration.ControllerConfig

	// GetFunction returns the transfer function derived from the calibration
	GetFunction() transfer.Function

	// GetSnapshot returns the state published by the last iteration
	GetSnapshot() Snapshot

	Run(ctx context.Context) error
}

type DefaultFanController struct {
	config      configuration.ControllerConfig
	persistence persistence.Persistence
	sensor      sensors.Sensor
	fan         fans.Fan
	function    transfer.Function
	limiter     *ramp.Limiter[uint8]
	delay       time.Duration
	clock       Clock

	// only accessed by the loop
	sampleWindow *rolling.PointPolicy
	iterations   uint64
	writeErrors  uint64

	mu       sync.Mutex
	snapshot Snapshot
}

// Derive returns the transfer function and the ramp limiter configured for a controller
func Derive(config configuration.ControllerConfig) (transfer.Function, *ramp.Limiter[uint8], error) {
	function, err := config.Calibration.ToCalibration().Derive()
	if err != nil {
		return transfer.Function{}, nil, fmt.Errorf("controller %s: %w", config.ID, err)
	}

	delta := config.Ramp.GetDelta()
	if delta < 1 || delta > fans.MaxDutyValue {
		return transfer.Function{}, nil, fmt.Errorf("controller %s: ramp delta must be in [1, %d], was %d", config.ID, fans.MaxDutyValue, delta)
	}
	limiter, err := ramp.NewLimiter(uint8(delta))
	if err != nil {
		return transfer.Function{}, nil, fmt.Errorf("controller %s: %w", config.ID, err)
	}
	return function, limiter, nil
}

// Trajectory returns the duty cycles a controller writes while the sample stays constant,
// starting from state, until the target is reached. At most maxIterations values are returned.
func Trajectory(state State, sample uint8, function transfer.Function, limiter *ramp.Limiter[uint8], maxIterations int) []uint8 {
	var result []uint8
	target := function.Evaluate(sample)
	for i := 0; i < maxIterations && state.Current != target; i++ {
		result = append(result, Step(&state, sample, function, limiter))
	}
	return result
}

func NewFanController(
	config configuration.ControllerConfig,
	persistence persistence.Persistence,
	sensor sensors.Sensor,
	fan fans.Fan,
) (*DefaultFanController, error) {
	function, limiter, err := Derive(config)
	if err != nil {
		return nil, err
	}

	return &DefaultFanController{
		config:       config,
		persistence:  persistence,
		sensor:       sensor,
		fan:          fan,
		function:     function,
		limiter:      limiter,
		delay:        config.Ramp.GetDelay(),
		clock:        systemClock{},
		sampleWindow: util.CreateRollingWindow(config.GetSampleWindowSize()),
	}, nil
}

func (f *DefaultFanController) GetId() string {
	return f.config.ID
}

func (f *DefaultFanController) GetConfig() configuration.ControllerConfig {
	return f.config
}

func (f *DefaultFanController) GetFunction() transfer.Function {
	return f.function
}

func (f *DefaultFanController) GetSnapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

// Run executes the control loop until ctx is cancelled. The context is only checked
// between iterations, the delay of an iteration is never cut short.
func (f *DefaultFanController) Run(ctx context.Context) error {
	id := f.config.ID

	state := f.initialState()

	err := f.fan.Init()
	if err != nil {
		return fmt.Errorf("controller %s: unable to initialize fan %s: %w", id, f.fan.GetId(), err)
	}
	defer func() {
		if err := f.fan.Close(); err != nil {
			ui.Warning("Error closing fan %s: %v", f.fan.GetId(), err)
		}
	}()

	err = f.persistence.MarkRunning(id)
	if err != nil {
		ui.Warning("Unable to record start of controller %s: %v", id, err)
	}

	ui.Info("Starting controller %s (sensor: %s, fan: %s, delay: %s, delta: %d)",
		id, f.sensor.GetId(), f.fan.GetId(), f.delay, f.limiter.Delta())

	f.write(state.Current)
	f.publish(state, f.sensor.ReadSample())

	lastSaved := state
	lastSync := f.clock.Now()
	for {
		select {
		case <-ctx.Done():
			f.shutdown(state)
			return nil
		default:
		}

		f.iterate(&state)

		if state != lastSaved && f.clock.Now().Sub(lastSync) >= f.config.GetStateSyncInterval() {
			if err := f.saveState(state); err != nil {
				ui.Warning("Unable to persist state of controller %s: %v", id, err)
			} else {
				lastSaved = state
			}
			lastSync = f.clock.Now()
		}
	}
}

// iterate runs a single iteration of the control loop
func (f *DefaultFanController) iterate(state *State) {
	f.clock.Sleep(f.delay)

	sample := f.sensor.ReadSample()
	duty := Step(state, sample, f.function, f.limiter)
	f.write(duty)

	if f.iterations == 0 {
		util.FillWindow(f.sampleWindow, f.config.GetSampleWindowSize(), float64(sample))
	} else {
		f.sampleWindow.Append(float64(sample))
	}
	f.iterations++
	f.publish(*state, sample)
}

func (f *DefaultFanController) write(duty uint8) {
	err := f.fan.WriteDuty(duty)
	if err != nil {
		f.writeErrors++
		ui.Error("Controller %s: error writing duty %d to fan %s: %v", f.config.ID, duty, f.fan.GetId(), err)
	}
}

func (f *DefaultFanController) publish(state State, sample uint8) {
	snapshot := Snapshot{
		State:       state,
		Sample:      sample,
		Iterations:  f.iterations,
		WriteErrors: f.writeErrors,
		UpdatedAt:   f.clock.Now(),
	}
	if f.iterations > 0 {
		snapshot.SampleMin = util.GetWindowMin(f.sampleWindow)
		snapshot.SampleAvg = util.GetWindowAvg(f.sampleWindow)
		snapshot.SampleMax = util.GetWindowMax(f.sampleWindow)
	}

	f.mu.Lock()
	f.snapshot = snapshot
	f.mu.Unlock()
}

// initialState returns zero/zero, unless state preservation is enabled and
// the last run of this controller did not end with a clean shutdown
func (f *DefaultFanController) initialState() State {
	id := f.config.ID
	if !f.config.PreserveState {
		return State{}
	}

	clean, err := f.persistence.WasCleanShutdown(id)
	if err != nil {
		ui.Warning("Unable to determine how controller %s was stopped, starting from zero: %v", id, err)
		return State{}
	}
	if clean {
		ui.Debug("Controller %s was shut down cleanly, starting from zero", id)
		return State{}
	}

	saved, err := f.persistence.LoadControllerState(id)
	if err != nil {
		ui.Warning("No persisted state for controller %s, starting from zero", id)
		return State{}
	}

	ui.Info("Restoring state of controller %s after unclean shutdown: current %d, target %d", id, saved.Current, saved.Target)
	return State{
		Current: saved.Current,
		Target:  saved.Target,
	}
}

func (f *DefaultFanController) saveState(state State) error {
	return f.persistence.SaveControllerState(f.config.ID, persistence.ControllerState{
		Current: state.Current,
		Target:  state.Target,
		SavedAt: f.clock.Now(),
	})
}

func (f *DefaultFanController) shutdown(state State) {
	id := f.config.ID
	ui.Info("Stopping controller %s at duty %d...", id, state.Current)

	err := f.saveState(state)
	if err != nil {
		ui.Warning("Unable to persist state of controller %s: %v", id, err)
	}
	err = f.persistence.MarkCleanShutdown(id)
	if err != nil {
		ui.Warning("Unable to record clean shutdown of controller %s: %v", id, err)
	}
}
