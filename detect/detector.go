// Package detect turns noisy periodic distance samples into clean start
// events using a hysteresis and hold-window scheme.
package detect

import "time"

// Config tunes the detector. Distances are in centimetres.
type Config struct {
	MaxDistanceCm int           // samples are clamped to this
	DropThreshold int           // baseline-sample deviation that counts as an obstruction
	BelowRequired uint          // qualifying samples needed to fire
	AboveRequired uint          // clear samples needed to re-arm
	HoldWindow    time.Duration // post-trigger interval suppressing re-arm counting
}

func DefaultConfig() Config {
	return Config{
		MaxDistanceCm: 183,
		DropThreshold: 10,
		BelowRequired: 2,
		AboveRequired: 2,
		HoldWindow:    500 * time.Millisecond,
	}
}

// StartEvent marks one physical crossing of the gate line.
type StartEvent struct {
	At time.Time
}

// Detector consumes one sample per control-loop iteration. Exactly one
// event is produced per arm cycle; further crossings before re-arm
// completes are swallowed.
type Detector struct {
	cfg Config
	now func() time.Time

	baseline    int
	hasBaseline bool
	belowCount  uint
	aboveCount  uint
	armed       bool
	triggered   bool
	lastDropAt  time.Time
}

func New(cfg Config) *Detector {
	return &Detector{
		cfg:   cfg,
		now:   time.Now,
		armed: true,
	}
}

// Update consumes one distance sample. Invalid samples (<= 0) change no
// state. Returns a StartEvent when a crossing is confirmed, else nil.
func (d *Detector) Update(sampleCm int) *StartEvent {
	if sampleCm <= 0 {
		return nil
	}
	if sampleCm > d.cfg.MaxDistanceCm {
		sampleCm = d.cfg.MaxDistanceCm
	}
	if !d.hasBaseline {
		// first valid sample after creation or re-arm learns the empty-lane distance
		d.baseline = sampleCm
		d.hasBaseline = true
	}
	drop := d.baseline - sampleCm
	if drop < 0 {
		drop = 0
	}
	now := d.now()

	if d.armed {
		if drop >= d.cfg.DropThreshold {
			d.belowCount++
			d.lastDropAt = now
			if d.belowCount >= d.cfg.BelowRequired {
				d.armed = false
				d.triggered = true
				d.aboveCount = 0
				return &StartEvent{At: now}
			}
		} else if d.belowCount > 0 {
			// decay rather than reset: one noisy clear sample must not
			// erase all progress toward the trigger
			d.belowCount--
		}
		return nil
	}

	// Disarmed: wait out the hold window, then count clear samples.
	if drop >= d.cfg.DropThreshold {
		d.aboveCount = 0
		return nil
	}
	if now.Sub(d.lastDropAt) < d.cfg.HoldWindow {
		return nil
	}
	d.aboveCount++
	if d.aboveCount >= d.cfg.AboveRequired {
		d.armed = true
		d.triggered = false
		d.belowCount = 0
		d.aboveCount = 0
		d.baseline = sampleCm // baseline re-learns on every re-arm
	}
	return nil
}

// Armed reports whether the detector is waiting for a crossing.
func (d *Detector) Armed() bool { return d.armed }

// BaselineCm returns the learned empty-lane distance, 0 before the first
// valid sample.
func (d *Detector) BaselineCm() int { return d.baseline }
