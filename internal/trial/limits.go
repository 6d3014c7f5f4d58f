package trial

import (
	"errors"
	"fmt"
	"time"
)

// Limits bound a single invocation.
type Limits struct {
	// Timeout caps one invocation. It applies to both metrics.
	Timeout time.Duration
	// Grace is how long the runner waits, after a timeout, for the invocation
	// to notice cancellation before abandoning it.
	Grace time.Duration
	// SampleInterval is the memory observer's sampling period.
	SampleInterval time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		Timeout:        60 * time.Second,
		Grace:          5 * time.Second,
		SampleInterval: 10 * time.Millisecond,
	}
}

func (l Limits) Validate() error {
	var errs []error
	if l.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", l.Timeout))
	}
	if l.Grace < 0 {
		errs = append(errs, fmt.Errorf("grace must not be negative, got %s", l.Grace))
	}
	if l.SampleInterval <= 0 {
		errs = append(errs, fmt.Errorf("sample interval must be positive, got %s", l.SampleInterval))
	}
	return errors.Join(errs...)
}
