package trial

import "fmt"

// Metric is the quantity a trial measures.
type Metric string

const (
	// MetricTime measures elapsed wall-clock seconds.
	MetricTime Metric = "time"
	// MetricMemory measures peak memory in MiB.
	MetricMemory Metric = "memory"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricTime, MetricMemory:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q (want %q or %q)", s, MetricTime, MetricMemory)
}

// Unit is the unit of a sample value.
func (m Metric) Unit() string {
	if m == MetricMemory {
		return "MiB"
	}
	return "s"
}

// Status tells how a trial ended.
type Status int

const (
	StatusOK Status = iota
	// StatusTimeout means the invocation ran past Limits.Timeout.
	StatusTimeout
	// StatusFault means the algorithm panicked or the observer failed.
	StatusFault
	// StatusCanceled means the caller's context was canceled.
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusFault:
		return "fault"
	case StatusCanceled:
		return "canceled"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Outcome is the single sample one trial produces. Value is zero unless
// Status is StatusOK.
type Outcome struct {
	Value  float64
	Status Status
	Err    error
}
