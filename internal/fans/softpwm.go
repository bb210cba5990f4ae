package fans

import (
	"time"
)

// pinSetter drives a digital output
type pinSetter interface {
	SetValue(value int) error
}

type softPwmMsg struct {
	duty uint8
	done chan error
	stop bool
}

// softPwm toggles a digital output in a goroutine to emulate a PWM signal.
// A new duty cycle restarts the current period, so it is in effect when Set returns.
type softPwm struct {
	pin    pinSetter
	period time.Duration
	c      chan softPwmMsg
}

func newSoftPwm(pin pinSetter, period time.Duration) *softPwm {
	p := &softPwm{
		pin:    pin,
		period: period,
		c:      make(chan softPwmMsg),
	}
	go p.handler()
	return p
}

// Set changes the duty cycle. It returns the first pin error since the previous Set,
// including errors raised while toggling in between.
func (p *softPwm) Set(duty uint8) error {
	done := make(chan error, 1)
	p.c <- softPwmMsg{duty: duty, done: done}
	return <-done
}

// Close stops the goroutine and leaves the output at the given static level
func (p *softPwm) Close(level int) error {
	done := make(chan error, 1)
	p.c <- softPwmMsg{duty: uint8(level), done: done, stop: true}
	return <-done
}

func (p *softPwm) phases(duty uint8) (on time.Duration, off time.Duration) {
	on = p.period * time.Duration(duty) / MaxDutyValue
	return on, p.period - on
}

func (p *softPwm) handler() {
	var on, off time.Duration
	level := 0
	// first pin error since the last reply, returned by the next Set or Close
	pending := p.pin.SetValue(level)

	report := func(err error) {
		if pending == nil {
			pending = err
		}
	}

	setLevel := func(value int) error {
		if level == value {
			return nil
		}
		level = value
		return p.pin.SetValue(value)
	}

	// wait blocks for d or until a new message arrives
	wait := func(d time.Duration) (softPwmMsg, bool) {
		if d <= 0 {
			return softPwmMsg{}, false
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case m := <-p.c:
			return m, true
		case <-timer.C:
			return softPwmMsg{}, false
		}
	}

	for {
		var m softPwmMsg
		var received bool
		if on == 0 && off == 0 {
			m, received = <-p.c, true
		} else {
			if on > 0 {
				report(setLevel(1))
				m, received = wait(on)
			}
			if !received && off > 0 {
				report(setLevel(0))
				m, received = wait(off)
			}
		}
		if !received {
			continue
		}

		if m.stop {
			report(p.pin.SetValue(int(m.duty)))
			m.done <- pending
			return
		}
		on, off = p.phases(m.duty)
		// start the new period right away
		switch {
		case on > 0:
			report(setLevel(1))
		default:
			report(setLevel(0))
		}
		m.done <- pending
		pending = nil
	}
}
