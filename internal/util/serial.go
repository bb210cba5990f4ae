package util

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

const SerialReadTimeout = 100 * time.Millisecond

// SerialPort is the part of a serial port used by serial sensors and fans
type SerialPort interface {
	io.ReadWriteCloser

	// Flush discards data received but not read
	Flush() error
}

// SerialOpener opens the serial port with the given device path and baud rate
type SerialOpener func(device string, baud int) (SerialPort, error)

// OpenSerialPort opens a native serial port in raw 8N1 mode
func OpenSerialPort(device string, baud int) (SerialPort, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: SerialReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	return port, nil
}

// IsSerialTimeout reports whether a read returned because no data arrived within the read timeout
func IsSerialTimeout(n int, err error) bool {
	return n == 0 && (err == nil || errors.Is(err, io.EOF))
}
