package configuration

import (
	"errors"
	"fmt"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/markusressel/fanner/internal/util"
	"golang.org/x/exp/slices"
	"math"
	"strings"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validateSensors(config)
	if err != nil {
		return err
	}
	err = validateFans(config)
	if err != nil {
		return err
	}
	err = validateControllers(config)
	if err != nil {
		return err
	}

	if containsCmdAdapters(config) {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %s", path, err)
		}
	}

	return nil
}

func containsCmdAdapters(config *Configuration) bool {
	for _, sensorConfig := range config.Sensors {
		if sensorConfig.Cmd != nil {
			return true
		}
	}
	for _, fanConfig := range config.Fans {
		if fanConfig.Cmd != nil {
			return true
		}
	}
	return false
}

func countSubConfigs(present ...bool) int {
	count := 0
	for _, p := range present {
		if p {
			count++
		}
	}
	return count
}

func validateSensors(config *Configuration) error {
	var ids []string

	for _, sensorConfig := range config.Sensors {
		if len(sensorConfig.ID) <= 0 {
			return errors.New("sensor id must not be empty")
		}
		if slices.Contains(ids, sensorConfig.ID) {
			return fmt.Errorf("duplicate sensor id detected: %s", sensorConfig.ID)
		}
		ids = append(ids, sensorConfig.ID)

		subConfigs := countSubConfigs(
			sensorConfig.HwMon != nil,
			sensorConfig.File != nil,
			sensorConfig.Cmd != nil,
			sensorConfig.Serial != nil,
			sensorConfig.Simulated != nil,
		)
		if subConfigs > 1 {
			return fmt.Errorf("sensor %s: only one sensor type can be used per sensor definition block", sensorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: hwmon | file | cmd | serial | simulated", sensorConfig.ID)
		}

		if !isSensorConfigInUse(sensorConfig, config.Controllers) {
			ui.Warning("Unused sensor configuration: %s", sensorConfig.ID)
		}

		if sensorConfig.PollingRate < 0 {
			return fmt.Errorf("sensor %s: pollingRate must not be negative", sensorConfig.ID)
		}

		if sensorConfig.Frontend != nil {
			if err := sensorConfig.Frontend.ToFrontend().Validate(); err != nil {
				return fmt.Errorf("sensor %s: invalid frontend: %w", sensorConfig.ID, err)
			}
		}

		if sensorConfig.HwMon != nil {
			hwmon := sensorConfig.HwMon
			if len(hwmon.TempInput) <= 0 {
				if len(hwmon.Platform) <= 0 {
					return fmt.Errorf("sensor %s: either platform or tempInput must be set", sensorConfig.ID)
				}
				if hwmon.Index <= 0 {
					return fmt.Errorf("sensor %s: invalid index, must be >= 1", sensorConfig.ID)
				}
			}
		}

		if sensorConfig.File != nil {
			if len(sensorConfig.File.Path) <= 0 {
				return fmt.Errorf("sensor %s: no file path provided", sensorConfig.ID)
			}
			if err := validateSampleBits(sensorConfig.File.GetBits()); err != nil {
				return fmt.Errorf("sensor %s: %w", sensorConfig.ID, err)
			}
		}

		if sensorConfig.Cmd != nil {
			if len(sensorConfig.Cmd.Exec) <= 0 {
				return fmt.Errorf("sensor %s: executable is missing", sensorConfig.ID)
			}
			if err := validateSampleBits(sensorConfig.Cmd.GetBits()); err != nil {
				return fmt.Errorf("sensor %s: %w", sensorConfig.ID, err)
			}
		}

		if sensorConfig.Serial != nil {
			if err := validateSerial(sensorConfig.Serial); err != nil {
				return fmt.Errorf("sensor %s: %w", sensorConfig.ID, err)
			}
		}

		if sensorConfig.Simulated != nil {
			simulated := sensorConfig.Simulated
			if (simulated.Sample == nil) == (simulated.Temperature == nil) {
				return fmt.Errorf("sensor %s: simulated sensor needs exactly one of: sample | temperature", sensorConfig.ID)
			}
			if simulated.Sample != nil && (*simulated.Sample < 0 || *simulated.Sample > math.MaxUint8) {
				return fmt.Errorf("sensor %s: simulated sample must be in [0, %d]", sensorConfig.ID, math.MaxUint8)
			}
		}
	}

	return nil
}

func validateSampleBits(bits int) error {
	if bits < DefaultSampleBits || bits > 32 {
		return fmt.Errorf("invalid sample resolution %d, must be in [%d, 32] bits", bits, DefaultSampleBits)
	}
	return nil
}

func validateSerial(config *SerialConfig) error {
	if len(config.Port) <= 0 {
		return errors.New("serial port is missing")
	}
	if config.GetBaud() <= 0 {
		return fmt.Errorf("invalid baud rate %d", config.Baud)
	}
	return nil
}

func isSensorConfigInUse(config SensorConfig, controllers []ControllerConfig) bool {
	for _, controllerConfig := range controllers {
		if controllerConfig.Sensor == config.ID {
			return true
		}
	}
	return false
}

func validateFans(config *Configuration) error {
	var ids []string

	for _, fanConfig := range config.Fans {
		if len(fanConfig.ID) <= 0 {
			return errors.New("fan id must not be empty")
		}
		if slices.Contains(ids, fanConfig.ID) {
			return fmt.Errorf("duplicate fan id detected: %s", fanConfig.ID)
		}
		ids = append(ids, fanConfig.ID)

		subConfigs := countSubConfigs(
			fanConfig.HwMon != nil,
			fanConfig.File != nil,
			fanConfig.Cmd != nil,
			fanConfig.Sysfs != nil,
			fanConfig.Gpio != nil,
			fanConfig.Serial != nil,
			fanConfig.Simulated != nil,
		)
		if subConfigs > 1 {
			return fmt.Errorf("fan %s: only one fan type can be used per fan definition block", fanConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("fan %s: sub-configuration for fan is missing, use one of: hwmon | file | cmd | sysfs | gpio | serial | simulated", fanConfig.ID)
		}

		if !isFanConfigInUse(fanConfig, config.Controllers) {
			ui.Warning("Unused fan configuration: %s", fanConfig.ID)
		}

		if fanConfig.HwMon != nil {
			hwmon := fanConfig.HwMon
			if len(hwmon.PwmOutput) <= 0 {
				if len(hwmon.Platform) <= 0 {
					return fmt.Errorf("fan %s: either platform or pwmOutput must be set", fanConfig.ID)
				}
				if hwmon.Index <= 0 {
					return fmt.Errorf("fan %s: invalid index, must be >= 1", fanConfig.ID)
				}
			}
		}

		if fanConfig.File != nil {
			if len(fanConfig.File.Path) <= 0 {
				return fmt.Errorf("fan %s: no file path provided", fanConfig.ID)
			}
		}

		if fanConfig.Cmd != nil {
			if len(fanConfig.Cmd.Exec) <= 0 {
				return fmt.Errorf("fan %s: executable is missing", fanConfig.ID)
			}
			if !slices.ContainsFunc(fanConfig.Cmd.Args, func(arg string) bool {
				return strings.Contains(arg, DutyPlaceholder)
			}) {
				return fmt.Errorf("fan %s: none of the arguments contains the %s placeholder", fanConfig.ID, DutyPlaceholder)
			}
		}

		if fanConfig.Sysfs != nil {
			sysfs := fanConfig.Sysfs
			if sysfs.Chip < 0 || sysfs.Channel < 0 {
				return fmt.Errorf("fan %s: chip and channel must be >= 0", fanConfig.ID)
			}
			if sysfs.GetFrequency() <= 0 {
				return fmt.Errorf("fan %s: invalid pwm frequency %d", fanConfig.ID, sysfs.Frequency)
			}
		}

		if fanConfig.Gpio != nil {
			gpio := fanConfig.Gpio
			if len(gpio.Chip) <= 0 {
				return fmt.Errorf("fan %s: gpio chip is missing", fanConfig.ID)
			}
			if gpio.Line < 0 {
				return fmt.Errorf("fan %s: gpio line must be >= 0", fanConfig.ID)
			}
			if gpio.GetFrequency() <= 0 || gpio.GetFrequency() > 1000 {
				return fmt.Errorf("fan %s: software pwm frequency must be in [1, 1000] Hz, was %d", fanConfig.ID, gpio.Frequency)
			}
		}

		if fanConfig.Serial != nil {
			if err := validateSerial(fanConfig.Serial); err != nil {
				return fmt.Errorf("fan %s: %w", fanConfig.ID, err)
			}
		}
	}

	return nil
}

func isFanConfigInUse(config FanConfig, controllers []ControllerConfig) bool {
	for _, controllerConfig := range controllers {
		if controllerConfig.Fan == config.ID {
			return true
		}
	}
	return false
}

func validateControllers(config *Configuration) error {
	var ids []string
	fanOwners := map[string]string{}

	for _, controllerConfig := range config.Controllers {
		if len(controllerConfig.ID) <= 0 {
			return errors.New("controller id must not be empty")
		}
		if slices.Contains(ids, controllerConfig.ID) {
			return fmt.Errorf("duplicate controller id detected: %s", controllerConfig.ID)
		}
		ids = append(ids, controllerConfig.ID)

		if len(controllerConfig.Sensor) <= 0 {
			return fmt.Errorf("controller %s: missing sensor id", controllerConfig.ID)
		}
		sensorConfig, ok := findSensorConfig(controllerConfig.Sensor, config)
		if !ok {
			return fmt.Errorf("controller %s: no sensor definition with id '%s' found", controllerConfig.ID, controllerConfig.Sensor)
		}

		if len(controllerConfig.Fan) <= 0 {
			return fmt.Errorf("controller %s: missing fan id", controllerConfig.ID)
		}
		if !fanIdExists(controllerConfig.Fan, config) {
			return fmt.Errorf("controller %s: no fan definition with id '%s' found", controllerConfig.ID, controllerConfig.Fan)
		}
		if owner, ok := fanOwners[controllerConfig.Fan]; ok {
			return fmt.Errorf("controller %s: fan '%s' is already driven by controller '%s'", controllerConfig.ID, controllerConfig.Fan, owner)
		}
		fanOwners[controllerConfig.Fan] = controllerConfig.ID

		calibration := controllerConfig.Calibration.ToCalibration()
		if _, err := calibration.Derive(); err != nil {
			return fmt.Errorf("controller %s: invalid calibration: %w", controllerConfig.ID, err)
		}
		// the sensor turns °C into a sample with its frontend, the controller reads it back with the calibration
		if sensorConfig.ReportsTemperature() && sensorConfig.GetFrontend() != calibration.Frontend {
			return fmt.Errorf(
				"controller %s: frontend of sensor '%s' (%+v) does not match the calibration frontend (%+v)",
				controllerConfig.ID, sensorConfig.ID, sensorConfig.GetFrontend(), calibration.Frontend,
			)
		}

		delta := controllerConfig.Ramp.GetDelta()
		if delta < 1 || delta > math.MaxUint8 {
			return fmt.Errorf("controller %s: ramp delta must be in [1, %d], was %d", controllerConfig.ID, math.MaxUint8, delta)
		}
		if controllerConfig.Ramp.GetDelay() <= 0 {
			return fmt.Errorf("controller %s: ramp delay must be > 0", controllerConfig.ID)
		}

		if controllerConfig.StateSyncInterval < 0 {
			return fmt.Errorf("controller %s: stateSyncInterval must not be negative", controllerConfig.ID)
		}
		if controllerConfig.SampleWindowSize < 0 {
			return fmt.Errorf("controller %s: sampleWindowSize must not be negative", controllerConfig.ID)
		}
	}

	return nil
}

func findSensorConfig(sensorId string, config *Configuration) (*SensorConfig, bool) {
	for i := range config.Sensors {
		if config.Sensors[i].ID == sensorId {
			return &config.Sensors[i], true
		}
	}
	return nil, false
}

func fanIdExists(fanId string, config *Configuration) bool {
	for _, fan := range config.Fans {
		if fan.ID == fanId {
			return true
		}
	}
	return false
}
