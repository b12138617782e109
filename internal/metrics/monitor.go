package metrics

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultPeriod is the sampling interval.
	DefaultPeriod = time.Second
	// DefaultCapacity is the number of points kept per channel.
	DefaultCapacity = 60
)

// Ticker is the part of time.Ticker the monitor needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Monitor owns one sampling ticker and a ring buffer per channel. At most one
// ticker runs at a time; Stop and Close wait for it to exit.
type Monitor struct {
	source    Source
	period    time.Duration
	newTicker TickerFunc

	ctl    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	buffers []*Ring[float64]
	latest  Sample
	ticks   uint64
	updates chan Sample
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPeriod sets the sampling interval.
func WithPeriod(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.period = d
		}
	}
}

// WithTicker replaces the ticker factory.
func WithTicker(fn TickerFunc) Option {
	return func(m *Monitor) {
		if fn != nil {
			m.newTicker = fn
		}
	}
}

// NewMonitor returns a stopped monitor with empty buffers of the given capacity.
func NewMonitor(source Source, capacity int, opts ...Option) *Monitor {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Monitor{
		source:    source,
		period:    DefaultPeriod,
		newTicker: NewTimeTicker,
		buffers:   make([]*Ring[float64], len(Channels)),
		updates:   make(chan Sample, 1),
	}
	for i := range m.buffers {
		m.buffers[i] = NewRing[float64](capacity)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins sampling. A running ticker is stopped first, so calling
// Start twice never leaves two tickers behind.
func (m *Monitor) Start() {
	m.ctl.Lock()
	defer m.ctl.Unlock()
	m.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	ticker := m.newTicker(m.period)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	go m.loop(ctx, ticker, done)
}

// Stop cancels the ticker and waits for the sampling goroutine to exit.
func (m *Monitor) Stop() {
	m.ctl.Lock()
	defer m.ctl.Unlock()
	m.stopLocked()
}

// Close is the teardown path; it is Stop.
func (m *Monitor) Close() {
	m.Stop()
}

// Running reports whether a ticker is active.
func (m *Monitor) Running() bool {
	m.ctl.Lock()
	defer m.ctl.Unlock()
	return m.cancel != nil
}

func (m *Monitor) stopLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	m.done = nil
}

func (m *Monitor) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			// A tick racing with cancellation must not be recorded.
			if ctx.Err() != nil {
				return
			}
			m.Tick(now)
		}
	}
}

// Tick records one sample into every channel buffer, visible or not.
func (m *Monitor) Tick(now time.Time) Sample {
	sample := m.source.Next(now)
	m.mu.Lock()
	for _, c := range Channels {
		m.buffers[c].Push(sample.Value(c))
	}
	m.latest = sample
	m.ticks++
	m.mu.Unlock()

	// Coalesce: a slow reader only ever sees the newest sample.
	select {
	case m.updates <- sample:
	default:
		select {
		case <-m.updates:
		default:
		}
		select {
		case m.updates <- sample:
		default:
		}
	}
	return sample
}

// Updates delivers the newest sample after each tick.
func (m *Monitor) Updates() <-chan Sample {
	return m.updates
}

// Series returns the buffered values of a channel, oldest first.
func (m *Monitor) Series(c Channel) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(c) < 0 || int(c) >= len(m.buffers) {
		return nil
	}
	return m.buffers[c].Values()
}

// Latest returns the newest sample and whether any was taken.
func (m *Monitor) Latest() (Sample, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.ticks > 0
}

// Ticks returns the number of samples recorded so far.
func (m *Monitor) Ticks() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// Reset clears every buffer.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.buffers {
		b.Reset()
	}
	m.latest = Sample{}
	m.ticks = 0
}
