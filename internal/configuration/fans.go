package configuration

type FanConfig struct {
	ID string `json:"id"`

	HwMon     *HwMonFanConfig     `json:"hwmon,omitempty"`
	File      *FileFanConfig      `json:"file,omitempty"`
	Cmd       *CmdFanConfig       `json:"cmd,omitempty"`
	Sysfs     *SysfsPwmFanConfig  `json:"sysfs,omitempty"`
	Gpio      *GpioFanConfig      `json:"gpio,omitempty"`
	Serial    *SerialConfig       `json:"serial,omitempty"`
	Simulated *SimulatedFanConfig `json:"simulated,omitempty"`
}

// HwMonFanConfig drives a pwmN attribute of a hwmon device. PwmOutput and PwmEnable
// are resolved on startup from Platform and Index unless given explicitly.
type HwMonFanConfig struct {
	Platform  string `json:"platform"`
	Index     int    `json:"index"`
	PwmOutput string `json:"pwmOutput"`
	PwmEnable string `json:"pwmEnable"`
}

type FileFanConfig struct {
	Path string `json:"path"`
}

// CmdFanConfig runs Exec with Args for every duty change, "%duty%" in Args is
// replaced with the duty cycle
type CmdFanConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

// SysfsPwmFanConfig drives a channel of /sys/class/pwm/pwmchipN
type SysfsPwmFanConfig struct {
	Chip      int `json:"chip"`
	Channel   int `json:"channel"`
	Frequency int `json:"frequency,omitempty"`
}

// GpioFanConfig drives a gpio line with software PWM
type GpioFanConfig struct {
	Chip      string `json:"chip"`
	Line      int    `json:"line"`
	Frequency int    `json:"frequency,omitempty"`
}

// SimulatedFanConfig keeps the duty cycle in memory only, use "simulated: {}"
type SimulatedFanConfig struct{}

const (
	DutyPlaceholder = "%duty%"

	DefaultSysfsPwmFrequency = 25000
	DefaultGpioPwmFrequency  = 100
)

func (c *SysfsPwmFanConfig) GetFrequency() int {
	if c.Frequency == 0 {
		return DefaultSysfsPwmFrequency
	}
	return c.Frequency
}

func (c *GpioFanConfig) GetFrequency() int {
	if c.Frequency == 0 {
		return DefaultGpioPwmFrequency
	}
	return c.Frequency
}
