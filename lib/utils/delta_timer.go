package utils

import "time"

// DeltaTimer measures the time between consecutive ticks. The first tick
// reports zero.
type DeltaTimer struct {
	last time.Time

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *DeltaTimer) Next() time.Duration {
	// one timestamp per tick so the deltas add up to the elapsed time
	now := d.now()

	defer d.Set(now)
	if d.last.IsZero() {
		return 0
	}
	return now.Sub(d.last)
}

func (d *DeltaTimer) Set(t time.Time) {
	d.last = t
}

// Reset makes the next tick report zero again.
func (d *DeltaTimer) Reset() {
	d.last = time.Time{}
}

func (d *DeltaTimer) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
