package configuration

import (
	"errors"
	"fmt"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"os"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	Sensors     []SensorConfig     `json:"sensors"`
	Fans        []FanConfig        `json:"fans"`
	Controllers []ControllerConfig `json:"controllers"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("fanner")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/fanner/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/fanner/fanner.db")

	viper.SetDefault("sensors", []SensorConfig{})
	viper.SetDefault("fans", []FanConfig{})
	viper.SetDefault("controllers", []ControllerConfig{})

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 8080)
}

// ReadConfigFile reads, decodes and validates the configuration file.
// Any failure is fatal, the daemon cannot run without a valid configuration.
func ReadConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())

	LoadConfig()

	if err := Validate(viper.ConfigFileUsed()); err != nil {
		ui.Fatal("Config validation failed: %v", err)
	}
}

// ReadConfigFileIfPresent is like ReadConfigFile, but it is not an error if no
// configuration file is found. It reports whether a configuration file was used.
func ReadConfigFileIfPresent() bool {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			ui.Debug("No configuration file found, using defaults")
			return false
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())

	LoadConfig()

	if err := Validate(viper.ConfigFileUsed()); err != nil {
		ui.Fatal("Config validation failed: %v", err)
	}
	return true
}

func LoadConfig() {
	config, err := decodeConfig(viper.GetViper())
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
	CurrentConfig = config
}

func decodeConfig(v *viper.Viper) (Configuration, error) {
	var config Configuration
	err := v.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			DutyValueHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Configuration{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return config, nil
}
