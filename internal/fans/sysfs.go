package fans

import (
	"errors"
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

var PwmSysfsBase = "/sys/class/pwm"

const (
	// time the kernel and udev need to create the channel attributes after an export
	sysfsSettleTimeout = 2 * time.Second
	sysfsRetryInterval = 25 * time.Millisecond
)

// SysfsPwmFan drives a hardware PWM channel through /sys/class/pwm/pwmchipN/pwmM
type SysfsPwmFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`

	ChipPath string `json:"chipPath"`
	PwmPath  string `json:"pwmPath"`
	PeriodNs uint64 `json:"periodNs"`
}

func NewSysfsPwmFan(config configuration.FanConfig) *SysfsPwmFan {
	chipPath := filepath.Join(PwmSysfsBase, fmt.Sprintf("pwmchip%d", config.Sysfs.Chip))
	return &SysfsPwmFan{
		Config:   config,
		ChipPath: chipPath,
		PwmPath:  filepath.Join(chipPath, fmt.Sprintf("pwm%d", config.Sysfs.Channel)),
		PeriodNs: uint64(time.Second) / uint64(config.Sysfs.GetFrequency()),
	}
}

func (fan *SysfsPwmFan) GetId() string {
	return fan.Config.ID
}

func (fan *SysfsPwmFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

// Init exports the channel, sets the period and enables the output with a duty cycle of 0
func (fan *SysfsPwmFan) Init() error {
	if err := fan.ensureExported(); err != nil {
		return err
	}

	// the kernel rejects a period shorter than the current duty_cycle
	_ = fan.writeUint("duty_cycle", 0)
	if err := fan.writeUint("period", fan.PeriodNs); err != nil {
		return fmt.Errorf("fan %s: unable to set pwm period: %w", fan.GetId(), err)
	}
	if err := fan.writeUint("enable", 1); err != nil {
		return fmt.Errorf("fan %s: unable to enable pwm: %w", fan.GetId(), err)
	}
	return nil
}

func (fan *SysfsPwmFan) ensureExported() error {
	if _, err := os.Stat(fan.PwmPath); err == nil {
		return nil
	}

	exportPath := filepath.Join(fan.ChipPath, "export")
	if err := writeSysfs(exportPath, strconv.Itoa(fan.Config.Sysfs.Channel)); err != nil {
		// exported by someone else in the meantime
		if _, statErr := os.Stat(fan.PwmPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("fan %s: unable to export pwm channel: %w", fan.GetId(), err)
	}

	deadline := time.Now().Add(sysfsSettleTimeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(fan.PwmPath); err == nil {
			return nil
		}
		time.Sleep(sysfsRetryInterval)
	}
	return fmt.Errorf("fan %s: %s was not created after export", fan.GetId(), fan.PwmPath)
}

// DutyCycleNs returns the high time of one period for the given duty cycle
func (fan *SysfsPwmFan) DutyCycleNs(duty uint8) uint64 {
	return fan.PeriodNs * uint64(duty) / MaxDutyValue
}

func (fan *SysfsPwmFan) WriteDuty(duty uint8) error {
	err := fan.writeUint("duty_cycle", fan.DutyCycleNs(duty))
	if err != nil {
		err = fmt.Errorf("fan %s: unable to set duty cycle: %w", fan.GetId(), err)
	}
	return fan.update(duty, err)
}

// Close keeps the channel exported and enabled, so the last duty cycle stays active
func (fan *SysfsPwmFan) Close() error {
	return nil
}

func (fan *SysfsPwmFan) writeUint(name string, value uint64) error {
	return writeSysfs(filepath.Join(fan.PwmPath, name), strconv.FormatUint(value, 10))
}

// writeSysfs writes value without truncating, which some sysfs attributes reject.
// Right after an export udev may still be adjusting permissions, so permission
// and not-exist errors are retried for a short time.
func writeSysfs(path string, value string) error {
	deadline := time.Now().Add(sysfsSettleTimeout)
	for {
		err := writeSysfsOnce(path, value)
		if err == nil {
			return nil
		}
		if !isRetryableSysfsErr(err) || !time.Now().Before(deadline) {
			return err
		}
		time.Sleep(sysfsRetryInterval)
	}
}

func writeSysfsOnce(path string, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, writeErr := f.WriteString(value)
	closeErr := f.Close()
	return errors.Join(writeErr, closeErr)
}

func isRetryableSysfsErr(err error) bool {
	return os.IsPermission(err) || os.IsNotExist(err) || errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM)
}
