// Package ramp limits how fast an actuator value may change.
package ramp

import (
	"errors"
	"github.com/markusressel/fanner/internal/util"
	"golang.org/x/exp/constraints"
)

var ErrZeroDelta = errors.New("ramp delta must be > 0")

// Limiter moves a value toward a target by at most Delta per step.
//
// All step arithmetic saturates at the bounds of T instead of wrapping around,
// so Next is total over the whole value range of T.
type Limiter[T constraints.Unsigned] struct {
	delta T
}

// NewLimiter creates a Limiter with the given maximum change per step
func NewLimiter[T constraints.Unsigned](delta T) (*Limiter[T], error) {
	if delta == 0 {
		return nil, ErrZeroDelta
	}
	return &Limiter[T]{delta: delta}, nil
}

func (l *Limiter[T]) Delta() T {
	return l.delta
}

// Next returns the value following current on the way to target.
// It never overshoots target and returns current unchanged once target is reached.
func (l *Limiter[T]) Next(current T, target T) T {
	switch {
	case current < target:
		next := util.SaturatingAdd(current, l.delta)
		if next > target {
			return target
		}
		return next
	case current > target:
		next := util.SaturatingSub(current, l.delta)
		if next < target {
			return target
		}
		return next
	default:
		return current
	}
}

// StepsToReach returns how many calls to Next it takes to get from current to target
func (l *Limiter[T]) StepsToReach(current T, target T) T {
	return util.CeilDiv(util.AbsDiff(current, target), l.delta)
}
