package collision

import "time"

// Timer accumulates wall time over Start/Stop intervals.
type Timer struct {
	start   time.Time
	total   time.Duration
	running bool
}

func (t *Timer) Start() {
	t.start = time.Now()
	t.running = true
}

func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.total += time.Since(t.start)
	t.running = false
}

func (t *Timer) Reset() {
	t.total = 0
	t.running = false
}

func (t *Timer) Elapsed() time.Duration { return t.total }

func (t *Timer) Seconds() float64 { return t.total.Seconds() }
