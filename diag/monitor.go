// Package diag provides link health monitoring, a sliding window
// frequency monitor for event streams such as heartbeats and a
// Prometheus collector for channel I/O counters.
package diag

import (
	"sync"
	"sync/atomic"
	"time"
)

// Health classifies an observed rate against the configured bounds. A
// window holding no events at all reports stale rather than low, so a
// silent stream can be told apart from a slow one.
type Health int

const (
	HealthOK Health = iota
	HealthLow
	HealthHigh
	HealthStale
)

func (h Health) String() string {
	switch h {
	case HealthLow:
		return "low frequency"
	case HealthHigh:
		return "high frequency"
	case HealthStale:
		return "no events"
	default:
		return "normal"
	}
}

const (
	defaultWindowSize = 10
	defaultMinFreq    = 0.2
	defaultMaxFreq    = 100.0
	defaultTolerance  = 0.1
)

// Option rate monitor option
type Option func(*RateMonitor)

// WithWindowSize set the number of samples the frequency is averaged
// over, default is 10
func WithWindowSize(n int) Option {
	return func(m *RateMonitor) {
		if n > 0 {
			m.window = n
		}
	}
}

// WithFreqBounds set the expected frequency range in Hz, default is
// 0.2 to 100
func WithFreqBounds(min, max float64) Option {
	return func(m *RateMonitor) {
		m.minFreq = min
		m.maxFreq = max
	}
}

// WithTolerance set the fraction the frequency may leave the bounds
// before the health flips, default is 0.1
func WithTolerance(tolerance float64) Option {
	return func(m *RateMonitor) {
		m.tolerance = tolerance
	}
}

// RateMonitor measures the arrival rate of an event stream over a
// sliding window of samples. Tick is cheap and safe to call from a
// message handler, Sample is meant for a slower status loop and each
// call advances the window by one slot.
type RateMonitor struct {
	name      string
	window    int
	minFreq   float64
	maxFreq   float64
	tolerance float64
	clock     func() time.Time

	count atomic.Uint64

	mu    sync.Mutex
	times []time.Time
	seqs  []uint64
	idx   int
}

// NewRateMonitor create a rate monitor with the window primed at the
// current time, so the first samples report the rate since creation.
func NewRateMonitor(name string, opts ...Option) *RateMonitor {
	m := &RateMonitor{
		name:      name,
		window:    defaultWindowSize,
		minFreq:   defaultMinFreq,
		maxFreq:   defaultMaxFreq,
		tolerance: defaultTolerance,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	now := m.clock()
	m.times = make([]time.Time, m.window)
	for i := range m.times {
		m.times[i] = now
	}
	m.seqs = make([]uint64, m.window)
	return m
}

// Tick records one event.
func (m *RateMonitor) Tick() {
	m.count.Add(1)
}

// Total returns the number of events recorded since creation.
func (m *RateMonitor) Total() uint64 {
	return m.count.Load()
}

// Report is the outcome of one Sample call.
type Report struct {
	Name string
	// Total events since creation.
	Total uint64
	// Events seen inside the window.
	Events uint64
	// Window length in seconds.
	Window float64
	// Freq is Events divided by Window, in Hz.
	Freq   float64
	Health Health
}

// Sample reports the rate over the past window of samples and rotates
// the oldest slot out.
func (m *RateMonitor) Sample() Report {
	now := m.clock()
	total := m.count.Load()

	m.mu.Lock()
	events := total - m.seqs[m.idx]
	window := now.Sub(m.times[m.idx]).Seconds()
	m.times[m.idx] = now
	m.seqs[m.idx] = total
	m.idx = (m.idx + 1) % m.window
	m.mu.Unlock()

	freq := 0.0
	if window > 0 {
		freq = float64(events) / window
	}

	r := Report{
		Name:   m.name,
		Total:  total,
		Events: events,
		Window: window,
		Freq:   freq,
	}
	switch {
	case events == 0:
		r.Health = HealthStale
	case freq < m.minFreq*(1-m.tolerance):
		r.Health = HealthLow
	case freq > m.maxFreq*(1+m.tolerance):
		r.Health = HealthHigh
	default:
		r.Health = HealthOK
	}
	return r
}
