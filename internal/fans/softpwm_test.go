package fans

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type MockPin struct {
	mu       sync.Mutex
	values   []int
	failing  bool
	failures int
}

func (p *MockPin) SetValue(value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing {
		p.failures++
		return errors.New("line released")
	}
	p.values = append(p.values, value)
	return nil
}

func (p *MockPin) setFailing(failing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing = failing
}

func (p *MockPin) failureCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

func (p *MockPin) last() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[len(p.values)-1]
}

func (p *MockPin) count(value int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := 0
	for _, v := range p.values {
		if v == value {
			result++
		}
	}
	return result
}

func TestSoftPwm_Phases(t *testing.T) {
	// GIVEN
	pwm := &softPwm{period: 10 * time.Millisecond}

	// THEN
	on, off := pwm.phases(0)
	assert.Equal(t, time.Duration(0), on)
	assert.Equal(t, 10*time.Millisecond, off)

	on, off = pwm.phases(255)
	assert.Equal(t, 10*time.Millisecond, on)
	assert.Equal(t, time.Duration(0), off)

	on, off = pwm.phases(51)
	assert.Equal(t, 2*time.Millisecond, on)
	assert.Equal(t, 8*time.Millisecond, off)
}

func TestSoftPwm_FullDutyHoldsHigh(t *testing.T) {
	// GIVEN
	pin := &MockPin{}
	pwm := newSoftPwm(pin, time.Millisecond)

	// WHEN
	err := pwm.Set(255)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1, pin.last())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, pin.last())
	assert.Equal(t, 1, pin.count(0), "only the initial low level is expected")

	assert.NoError(t, pwm.Close(1))
	assert.Equal(t, 1, pin.last())
}

func TestSoftPwm_Toggles(t *testing.T) {
	// GIVEN
	pin := &MockPin{}
	pwm := newSoftPwm(pin, time.Millisecond)

	// WHEN
	err := pwm.Set(128)

	// THEN
	assert.NoError(t, err)
	assert.Eventually(t, func() bool {
		return pin.count(1) > 3 && pin.count(0) > 3
	}, time.Second, time.Millisecond)

	assert.NoError(t, pwm.Close(0))
	assert.Equal(t, 0, pin.last())
}

func TestSoftPwm_SetReportsPinErrors(t *testing.T) {
	// GIVEN
	pin := &MockPin{}
	pwm := newSoftPwm(pin, time.Millisecond)
	pin.mu.Lock()
	pin.failing = true
	pin.mu.Unlock()

	// WHEN
	err := pwm.Set(255)

	// THEN
	assert.EqualError(t, err, "line released")
	assert.Error(t, pwm.Close(0))
}

func TestSoftPwm_SetReportsErrorsWhileToggling(t *testing.T) {
	// GIVEN
	pin := &MockPin{}
	pwm := newSoftPwm(pin, time.Millisecond)
	assert.NoError(t, pwm.Set(128))

	// WHEN
	pin.setFailing(true)
	assert.Eventually(t, func() bool {
		return pin.failureCount() > 0
	}, time.Second, time.Millisecond)
	pin.setFailing(false)

	// THEN
	assert.EqualError(t, pwm.Set(128), "line released")
	assert.NoError(t, pwm.Set(128))
	assert.NoError(t, pwm.Close(0))
}

func TestSoftPwm_InitialPinErrorIsReported(t *testing.T) {
	// GIVEN
	pin := &MockPin{failing: true}
	pwm := newSoftPwm(pin, time.Millisecond)

	// WHEN
	err := pwm.Set(0)

	// THEN
	assert.EqualError(t, err, "line released")
	assert.Equal(t, 1, pin.failureCount())
	assert.Error(t, pwm.Close(0))
}
