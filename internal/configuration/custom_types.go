package configuration

import (
	"fmt"
	"github.com/markusressel/fanner/internal/util"
	"github.com/mitchellh/mapstructure"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// DutyValue is a duty cycle in [0, 255]. In the configuration file it can be given
// as a plain number or as a percentage string like "25%".
type DutyValue uint8

// ParseDutyValue parses a raw duty cycle or a percentage of the full duty cycle
func ParseDutyValue(text string) (DutyValue, error) {
	text = strings.TrimSpace(text)
	if percentText, ok := strings.CutSuffix(text, "%"); ok {
		percent, err := strconv.ParseFloat(strings.TrimSpace(percentText), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duty percentage %q", text)
		}
		return dutyFromPercent(percent)
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid duty value %q", text)
	}
	return dutyFromInt(value)
}

func dutyFromPercent(percent float64) (DutyValue, error) {
	if percent < 0 || percent > 100 || math.IsNaN(percent) {
		return 0, fmt.Errorf("duty percentage must be in [0, 100], was %v", percent)
	}
	return DutyValue(math.Round(percent * math.MaxUint8 / 100)), nil
}

func dutyFromInt(value int) (DutyValue, error) {
	if value < 0 || value > math.MaxUint8 {
		return 0, fmt.Errorf("duty value must be in [0, %d], was %d", math.MaxUint8, value)
	}
	return DutyValue(value), nil
}

// Percent returns the duty cycle as a percentage of the full duty cycle
func (d DutyValue) Percent() float64 {
	return util.Ratio(float64(d), 0, math.MaxUint8) * 100
}

// DutyValueHookFunc returns a mapstructure decode hook function for DutyValue.
func DutyValueHookFunc() mapstructure.DecodeHookFuncType {
	dutyValueType := reflect.TypeOf(DutyValue(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != dutyValueType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return ParseDutyValue(v)
		case int:
			return dutyFromInt(v)
		case int64:
			return dutyFromInt(int(v))
		case uint64:
			if v > math.MaxUint8 {
				return nil, fmt.Errorf("duty value must be in [0, %d], was %d", math.MaxUint8, v)
			}
			return DutyValue(v), nil
		case float64:
			if v != math.Trunc(v) || v < 0 || v > math.MaxUint8 {
				return nil, fmt.Errorf("duty value must be an integer in [0, %d] or a percentage, was %v", math.MaxUint8, v)
			}
			return DutyValue(v), nil
		default:
			return data, nil
		}
	}
}
