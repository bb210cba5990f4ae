package configuration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func createValidConfig() Configuration {
	return Configuration{
		Sensors: []SensorConfig{
			{
				ID: "sensor",
				File: &FileSensorConfig{
					Path: "/tmp/sample",
				},
			},
		},
		Fans: []FanConfig{
			{
				ID: "fan",
				File: &FileFanConfig{
					Path: "/tmp/duty",
				},
			},
		},
		Controllers: []ControllerConfig{
			{
				ID:     "controller",
				Sensor: "sensor",
				Fan:    "fan",
			},
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := createValidConfig()

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.NoError(t, err)
}

func TestValidateDuplicateSensorId(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors = append(config.Sensors, config.Sensors[0])

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "duplicate sensor id detected: sensor")
}

func TestValidateDuplicateFanId(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Fans = append(config.Fans, config.Fans[0])

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "duplicate fan id detected: fan")
}

func TestValidateSensorSubConfigIsMissing(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors[0].File = nil

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "sensor sensor: sub-configuration for sensor is missing, use one of: hwmon | file | cmd | serial | simulated")
}

func TestValidateSensorMultipleSubConfigs(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors[0].Serial = &SerialConfig{Port: "/dev/ttyUSB0"}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "sensor sensor: only one sensor type can be used per sensor definition block")
}

func TestValidateFanSubConfigIsMissing(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Fans[0].File = nil

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "fan fan: sub-configuration for fan is missing, use one of: hwmon | file | cmd | sysfs | gpio | serial | simulated")
}

func TestValidateSensorFileBits(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors[0].File.Bits = 4

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "sensor sensor: invalid sample resolution 4, must be in [8, 32] bits")
}

func TestValidateSimulatedSensor(t *testing.T) {
	sample := 300
	temperature := 40.0

	tests := []struct {
		name      string
		simulated SimulatedSensorConfig
		expected  string
	}{
		{
			name:      "neither",
			simulated: SimulatedSensorConfig{},
			expected:  "sensor sensor: simulated sensor needs exactly one of: sample | temperature",
		},
		{
			name:      "both",
			simulated: SimulatedSensorConfig{Sample: &sample, Temperature: &temperature},
			expected:  "sensor sensor: simulated sensor needs exactly one of: sample | temperature",
		},
		{
			name:      "out of range",
			simulated: SimulatedSensorConfig{Sample: &sample},
			expected:  "sensor sensor: simulated sample must be in [0, 255]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			config := createValidConfig()
			config.Sensors[0].File = nil
			simulated := tt.simulated
			config.Sensors[0].Simulated = &simulated

			// WHEN
			err := validateConfig(&config, "")

			// THEN
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestValidateCmdFanPlaceholder(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Fans[0].File = nil
	config.Fans[0].Cmd = &CmdFanConfig{
		Exec: "/usr/bin/fanctl",
		Args: []string{"--set"},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "fan fan: none of the arguments contains the %duty% placeholder")
}

func TestValidateGpioFrequency(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Fans[0].File = nil
	config.Fans[0].Gpio = &GpioFanConfig{
		Chip:      "gpiochip0",
		Line:      18,
		Frequency: 20000,
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "fan fan: software pwm frequency must be in [1, 1000] Hz, was 20000")
}

func TestValidateControllerSensorNotDefined(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controllers[0].Sensor = "missing"

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "controller controller: no sensor definition with id 'missing' found")
}

func TestValidateControllerFanNotDefined(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controllers[0].Fan = "missing"

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "controller controller: no fan definition with id 'missing' found")
}

func TestValidateFanDrivenByMultipleControllers(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	second := config.Controllers[0]
	second.ID = "second"
	config.Controllers = append(config.Controllers, second)

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "controller second: fan 'fan' is already driven by controller 'controller'")
}

func TestValidateDuplicateControllerId(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controllers = append(config.Controllers, config.Controllers[0])

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "duplicate controller id detected: controller")
}

func TestValidateControllerRamp(t *testing.T) {
	zero := 0
	tooLarge := 256
	zeroDelay := time.Duration(0)

	tests := []struct {
		name     string
		ramp     RampConfig
		expected string
	}{
		{
			name:     "zero delta",
			ramp:     RampConfig{Delta: &zero},
			expected: "controller controller: ramp delta must be in [1, 255], was 0",
		},
		{
			name:     "delta too large",
			ramp:     RampConfig{Delta: &tooLarge},
			expected: "controller controller: ramp delta must be in [1, 255], was 256",
		},
		{
			name:     "zero delay",
			ramp:     RampConfig{Delay: &zeroDelay},
			expected: "controller controller: ramp delay must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			config := createValidConfig()
			config.Controllers[0].Ramp = tt.ramp

			// WHEN
			err := validateConfig(&config, "")

			// THEN
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestValidateControllerCalibration(t *testing.T) {
	// GIVEN
	tempLow := 80.0
	tempHigh := 20.0
	config := createValidConfig()
	config.Controllers[0].Calibration = CalibrationConfig{
		TempLow:  &tempLow,
		TempHigh: &tempHigh,
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, fmt.Sprintf("controller controller: invalid calibration: temp high (%v) must be above temp low (%v)", tempHigh, tempLow))
}

func TestValidateControllerCalibrationOutOfRange(t *testing.T) {
	// GIVEN
	tempHigh := 500.0
	config := createValidConfig()
	config.Controllers[0].Calibration = CalibrationConfig{
		TempHigh: &tempHigh,
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.ErrorContains(t, err, "above the measurable range of the sensor")
}

func TestValidateTemperatureSensorFrontendMatchesCalibration(t *testing.T) {
	temperature := 50.0
	referenceVoltage := 3.3
	sensorOffset := 0.4

	var tests = []struct {
		tn          string
		sensor      SensorConfig
		calibration CalibrationConfig
		wantErr     bool
	}{{
		tn: "simulated temperature with default frontends",
		sensor: SensorConfig{
			ID:        "sensor",
			Simulated: &SimulatedSensorConfig{Temperature: &temperature},
		},
	}, {
		tn: "simulated temperature with calibration override only",
		sensor: SensorConfig{
			ID:        "sensor",
			Simulated: &SimulatedSensorConfig{Temperature: &temperature},
		},
		calibration: CalibrationConfig{FrontendConfig: FrontendConfig{ReferenceVoltage: &referenceVoltage}},
		wantErr:     true,
	}, {
		tn: "hwmon with sensor override only",
		sensor: SensorConfig{
			ID:       "sensor",
			HwMon:    &HwMonSensorConfig{TempInput: "/sys/class/hwmon/hwmon0/temp1_input"},
			Frontend: &FrontendConfig{SensorOffset: &sensorOffset},
		},
		wantErr: true,
	}, {
		tn: "hwmon with matching overrides",
		sensor: SensorConfig{
			ID:       "sensor",
			HwMon:    &HwMonSensorConfig{TempInput: "/sys/class/hwmon/hwmon0/temp1_input"},
			Frontend: &FrontendConfig{SensorOffset: &sensorOffset},
		},
		calibration: CalibrationConfig{FrontendConfig: FrontendConfig{SensorOffset: &sensorOffset}},
	}, {
		tn: "raw sample sensor ignores its frontend",
		sensor: SensorConfig{
			ID:       "sensor",
			File:     &FileSensorConfig{Path: "/tmp/sample"},
			Frontend: &FrontendConfig{SensorOffset: &sensorOffset},
		},
	}}

	for _, tt := range tests {
		t.Run(tt.tn, func(t *testing.T) {
			// GIVEN
			config := createValidConfig()
			config.Sensors[0] = tt.sensor
			config.Controllers[0].Calibration = tt.calibration

			// WHEN
			err := validateConfig(&config, "")

			// THEN
			if tt.wantErr {
				assert.ErrorContains(t, err, "controller controller: frontend of sensor 'sensor'")
				return
			}
			assert.NoError(t, err)
		})
	}
}
