// Package memsample samples memory usage of the running process at a fixed
// interval and keeps the highest reading.
package memsample

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/procfs"
	"golang.org/x/sync/errgroup"
)

const mebibyte = 1 << 20

var (
	ErrRunning    = errors.New("sampler is already running")
	ErrNotRunning = errors.New("sampler is not running")
)

// Reader returns one memory reading in bytes.
type Reader func() (uint64, error)

// Source names a Reader in configuration.
type Source string

const (
	// SourceHeap reads heap and stack bytes in use from the Go runtime.
	SourceHeap Source = "heap"
	// SourceRSS reads the resident set size from /proc (Linux only).
	SourceRSS Source = "rss"
)

func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceHeap, SourceRSS:
		return src, nil
	}
	return "", fmt.Errorf("unknown memory source %q (want %q or %q)", s, SourceHeap, SourceRSS)
}

// Reader returns the reader behind src.
func (src Source) Reader() Reader {
	if src == SourceRSS {
		return ResidentSet
	}
	return HeapInUse
}

// HeapInUse reports heap spans and goroutine stacks in use.
func HeapInUse() (uint64, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapInuse + m.StackInuse, nil
}

// ResidentSet reports the resident set size of the current process.
func ResidentSet() (uint64, error) {
	self, err := procfs.Self()
	if err != nil {
		return 0, fmt.Errorf("failed to open /proc/self: %w", err)
	}
	stat, err := self.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to read /proc/self/stat: %w", err)
	}
	return uint64(stat.ResidentMemory()), nil
}

// Sampler implements trial.Observer. A Sampler watches one invocation at a
// time and may be restarted after Stop.
type Sampler struct {
	interval time.Duration
	read     Reader

	stop    chan struct{}
	group   *errgroup.Group
	peak    uint64
	samples int
}

func New(interval time.Duration, read Reader) *Sampler {
	if read == nil {
		read = HeapInUse
	}
	return &Sampler{interval: interval, read: read}
}

// Start takes a reading right away and keeps sampling in the background
// until Stop.
func (s *Sampler) Start() error {
	if s.stop != nil {
		return ErrRunning
	}

	first, err := s.read()
	if err != nil {
		return err
	}
	s.peak = first
	s.samples = 1

	stop := make(chan struct{})
	s.stop = stop
	s.group = new(errgroup.Group)
	s.group.Go(func() error {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return nil
			case <-ticker.C:
				if err := s.record(); err != nil {
					return err
				}
			}
		}
	})
	return nil
}

// Stop ends sampling, takes a final reading and returns the peak in MiB.
func (s *Sampler) Stop() (float64, int, error) {
	if s.stop == nil {
		return 0, 0, ErrNotRunning
	}
	close(s.stop)
	err := s.group.Wait()
	s.stop = nil
	s.group = nil
	if err == nil {
		err = s.record()
	}
	if err != nil {
		return 0, 0, err
	}
	return float64(s.peak) / mebibyte, s.samples, nil
}

func (s *Sampler) record() error {
	v, err := s.read()
	if err != nil {
		return err
	}
	s.samples++
	s.peak = max(s.peak, v)
	return nil
}
