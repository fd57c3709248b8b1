package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleClock feeds samples on the 20ms sensor cadence.
type sampleClock struct {
	t time.Time
}

func newSampleClock() *sampleClock {
	return &sampleClock{t: time.Unix(1000, 0)}
}

func (c *sampleClock) now() time.Time { return c.t }

func (c *sampleClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDetector(cfg Config) (*Detector, *sampleClock) {
	d := New(cfg)
	clk := newSampleClock()
	d.now = clk.now
	return d, clk
}

// feed pushes samples 20ms apart, returning all events produced.
func feed(d *Detector, clk *sampleClock, samples ...int) []*StartEvent {
	var events []*StartEvent
	for i, s := range samples {
		if i > 0 {
			clk.advance(20 * time.Millisecond)
		}
		if ev := d.Update(s); ev != nil {
			events = append(events, ev)
		}
	}
	return events
}

func TestReferenceScenario(t *testing.T) {
	d, clk := newTestDetector(DefaultConfig())
	start := clk.now()

	// step feeds the next sample on the 20ms cadence
	step := func(s int) *StartEvent {
		clk.advance(20 * time.Millisecond)
		return d.Update(s)
	}

	// baseline 183, drop crosses 10 at 165, belowCount reaches 2 at 160
	require.Nil(t, d.Update(183)) // t=0
	require.Nil(t, step(175))     // t=20, drop 8
	require.Nil(t, step(165))     // t=40, drop 18, belowCount 1
	ev := step(160)               // t=60, drop 23, belowCount 2
	require.NotNil(t, ev)
	assert.Equal(t, start.Add(60*time.Millisecond), ev.At)
	assert.False(t, d.Armed())
	assert.Equal(t, 183, d.BaselineCm())

	// recovery samples within the 500ms hold window do not re-arm
	require.Nil(t, step(170)) // t=80
	require.Nil(t, step(180)) // t=100
	for clk.now().Sub(start) < 540*time.Millisecond {
		require.Nil(t, step(183))
		assert.False(t, d.Armed())
	}

	// hold window (from the last qualifying drop at t=60) ends at t=560:
	// two consecutive clear samples re-arm and re-learn the baseline
	require.Nil(t, step(182)) // t=560, aboveCount 1
	assert.False(t, d.Armed())
	require.Nil(t, step(183)) // t=580, aboveCount 2
	assert.True(t, d.Armed())
	assert.Equal(t, 183, d.BaselineCm())
}

func TestSingleEventPerCrossing(t *testing.T) {
	d, clk := newTestDetector(DefaultConfig())

	events := feed(d, clk, 183, 160, 160, 160, 150, 140, 160)
	assert.Len(t, events, 1, "one sustained crossing must produce exactly one event")

	// a second crossing before re-arm completes is swallowed
	clk.advance(time.Second)
	events = feed(d, clk, 120, 120, 120)
	assert.Empty(t, events)
}

func TestHoldWindowSuppression(t *testing.T) {
	d, clk := newTestDetector(DefaultConfig())

	events := feed(d, clk, 183, 160, 160)
	require.Len(t, events, 1)

	// plenty of clear samples, all inside the hold window: no re-arm
	for i := 0; i < 10; i++ {
		feed(d, clk, 183)
	}
	assert.False(t, d.Armed())

	// once the window has elapsed, two consecutive clear samples re-arm
	clk.advance(500 * time.Millisecond)
	feed(d, clk, 183, 183)
	assert.True(t, d.Armed())
}

func TestDropAfterWindowResetsRearmCount(t *testing.T) {
	d, clk := newTestDetector(DefaultConfig())

	events := feed(d, clk, 183, 160, 160)
	require.Len(t, events, 1)

	clk.advance(600 * time.Millisecond)
	feed(d, clk, 183)        // aboveCount 1
	feed(d, clk, 150)        // a lingering obstruction wipes re-arm progress
	feed(d, clk, 183)        // aboveCount 1 again
	assert.False(t, d.Armed())
	feed(d, clk, 183)
	assert.True(t, d.Armed())
}

func TestBaselineClamp(t *testing.T) {
	d, _ := newTestDetector(DefaultConfig())

	d.Update(5000)
	assert.Equal(t, 183, d.BaselineCm(), "baseline must never exceed the configured maximum")

	// clamp also applies at re-arm
	d2, clk := newTestDetector(DefaultConfig())
	events := feed(d2, clk, 183, 160, 160)
	require.Len(t, events, 1)
	clk.advance(600 * time.Millisecond)
	feed(d2, clk, 9000, 9000)
	assert.True(t, d2.Armed())
	assert.Equal(t, 183, d2.BaselineCm())
}

func TestBelowCountDecaysInsteadOfResetting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BelowRequired = 3
	d, clk := newTestDetector(cfg)

	// two qualifying samples, one clear sample (decays 2 -> 1), then two
	// more qualifying samples reach 3. A hard reset would need three.
	events := feed(d, clk, 183, 160, 160, 183, 160, 160)
	assert.Len(t, events, 1)
}

func TestInvalidSamplesIgnored(t *testing.T) {
	d, clk := newTestDetector(DefaultConfig())

	feed(d, clk, 0, -5)
	assert.Equal(t, 0, d.BaselineCm(), "invalid samples must not learn a baseline")

	events := feed(d, clk, 183, 160, 0, 160)
	assert.Len(t, events, 1, "invalid samples in the middle of a crossing change no state")
}
