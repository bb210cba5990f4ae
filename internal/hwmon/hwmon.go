package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/markusressel/fanner/internal/configuration"
	"github.com/md14454/gosensors"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

var channelRegex = regexp.MustCompile(`^(temp|fan)(\d+)_input$`)

type HwMonController struct {
	Name     string
	DType    string
	Modalias string
	Platform string
	Path     string

	Fans    []FanChannel
	Sensors []SensorChannel
}

// SensorChannel is a temperature input of a hwmon device
type SensorChannel struct {
	Index int
	Label string
	Input string
	// Value is the temperature at detection time, in °C
	Value float64
}

// FanChannel is a fan of a hwmon device together with the pwm output that drives it
type FanChannel struct {
	Index     int
	Label     string
	RpmInput  string
	PwmOutput string
	PwmEnable string
	// Rpm is the speed at detection time
	Rpm float64
}

// GetChips returns all hwmon devices known to lm-sensors that have at least one temperature or fan channel
func GetChips() []*HwMonController {
	gosensors.Init()
	defer gosensors.Cleanup()
	chips := gosensors.GetDetectedChips()

	var list []*HwMonController

	for i := 0; i < len(chips); i++ {
		chip := chips[i]

		var identifier = computeIdentifier(chip)
		platform := findPlatform(chip.Path)
		if len(platform) <= 0 {
			platform = identifier
		}

		fansList := getFans(chip)
		sensorsList := getTempSensors(chip)

		if len(fansList) <= 0 && len(sensorsList) <= 0 {
			continue
		}

		list = append(list, &HwMonController{
			Name:     identifier,
			DType:    getDeviceType(chip.Path),
			Modalias: getDeviceModalias(chip.Path),
			Platform: platform,
			Path:     chip.Path,
			Fans:     fansList,
			Sensors:  sensorsList,
		})
	}

	return list
}

func getTempSensors(chip gosensors.Chip) []SensorChannel {
	var sensorList []SensorChannel

	for _, feature := range chip.GetFeatures() {
		if feature.Type != gosensors.FeatureTypeTemp {
			continue
		}

		input, ok := findSubFeature(feature.GetSubFeatures(), gosensors.SubFeatureTypeTempInput)
		if !ok {
			continue
		}

		sensorList = append(sensorList, SensorChannel{
			Index: len(sensorList) + 1,
			Label: getLabel(chip.Path, input.Name),
			Input: filepath.Join(chip.Path, input.Name),
			Value: input.GetValue(),
		})
	}

	return sensorList
}

func getFans(chip gosensors.Chip) []FanChannel {
	var fanList []FanChannel

	for _, feature := range chip.GetFeatures() {
		if feature.Type != gosensors.FeatureTypeFan {
			continue
		}

		input, ok := findSubFeature(feature.GetSubFeatures(), gosensors.SubFeatureTypeFanInput)
		if !ok {
			continue
		}

		channel, err := parseChannel(input.Name)
		if err != nil {
			continue
		}

		pwmOutput := filepath.Join(chip.Path, fmt.Sprintf("pwm%d", channel))
		fanList = append(fanList, FanChannel{
			Index:     len(fanList) + 1,
			Label:     getLabel(chip.Path, input.Name),
			RpmInput:  filepath.Join(chip.Path, input.Name),
			PwmOutput: pwmOutput,
			PwmEnable: pwmOutput + "_enable",
			Rpm:       input.GetValue(),
		})
	}

	return fanList
}

// parseChannel extracts N from a tempN_input or fanN_input file name
func parseChannel(input string) (int, error) {
	match := channelRegex.FindStringSubmatch(input)
	if match == nil {
		return 0, fmt.Errorf("not a channel input: %s", input)
	}
	return strconv.Atoi(match[2])
}

// ResolveSensorConfig fills in the temperature input path of a hwmon sensor configured by platform and index
func ResolveSensorConfig(controllers []*HwMonController, config *configuration.HwMonSensorConfig) error {
	if len(config.TempInput) > 0 {
		return nil
	}

	for _, c := range controllers {
		matched, err := matchPlatform(config.Platform, c.Platform)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}
		for _, sensor := range c.Sensors {
			if sensor.Index == config.Index {
				config.TempInput = sensor.Input
				return nil
			}
		}
	}

	return fmt.Errorf("no hwmon temperature input matched platform '%s' and index %d", config.Platform, config.Index)
}

// ResolveFanConfig fills in the pwm paths of a hwmon fan configured by platform and index
func ResolveFanConfig(controllers []*HwMonController, config *configuration.HwMonFanConfig) error {
	if len(config.PwmOutput) > 0 {
		if len(config.PwmEnable) <= 0 {
			config.PwmEnable = config.PwmOutput + "_enable"
		}
		return nil
	}

	for _, c := range controllers {
		matched, err := matchPlatform(config.Platform, c.Platform)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}
		for _, fan := range c.Fans {
			if fan.Index == config.Index {
				config.PwmOutput = fan.PwmOutput
				config.PwmEnable = fan.PwmEnable
				return nil
			}
		}
	}

	return fmt.Errorf("no hwmon fan matched platform '%s' and index %d", config.Platform, config.Index)
}

func matchPlatform(pattern string, platform string) (bool, error) {
	matched, err := regexp.MatchString("(?i)"+pattern, platform)
	if err != nil {
		return false, fmt.Errorf("invalid platform pattern '%s': %w", pattern, err)
	}
	return matched, nil
}

func findSubFeature(subfeatures []gosensors.SubFeature, input gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, a := range subfeatures {
		if a.Type == input {
			return a, true
		}
	}
	return gosensors.SubFeature{}, false
}

// getLabel read the label of a in/output of a device
func getLabel(devicePath string, input string) string {
	labelPath := strings.TrimSuffix(devicePath+"/"+input, "input") + "label"

	label := readTrimmed(labelPath)
	if len(label) <= 0 {
		_, label = filepath.Split(devicePath)
	}
	return label
}

func getDeviceName(devicePath string) string {
	return readTrimmed(filepath.Join(devicePath, "name"))
}

func getDeviceModalias(devicePath string) string {
	return readTrimmed(filepath.Join(devicePath, "device", "modalias"))
}

func getDeviceType(devicePath string) string {
	return readTrimmed(filepath.Join(devicePath, "device", "type"))
}

func readTrimmed(path string) string {
	content, _ := os.ReadFile(path)
	return strings.TrimSpace(string(content))
}

func computeIdentifier(chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		name = getDeviceName(devicePath)
	}

	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}

	identifier := name
	switch chip.Bus.Type {
	case BusTypeIsa:
		identifier = fmt.Sprintf("%s-isa-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypePci:
		identifier = fmt.Sprintf("%s-pci-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypeAcpi:
		identifier = fmt.Sprintf("%s-acpi-%d", identifier, chip.Bus.Nr)
	}

	return identifier
}

func findPlatform(devicePath string) string {
	platformRegex := regexp.MustCompile(`/platform/([^/]+)/`)
	match := platformRegex.FindStringSubmatch(devicePath)
	if match == nil {
		return ""
	}
	return match[1]
}
