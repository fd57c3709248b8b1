package power

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// BatteryStatus is recomputed periodically from raw sensing, never persisted.
type BatteryStatus struct {
	VoltageV     float64
	Percent      int
	Charging     bool
	FullyCharged bool
}

const (
	batteryHistorySize = 8
	batteryInterval    = 2 * time.Second
)

// socCurve maps single-cell LiPo voltage to state of charge. Points are
// interpolated linearly.
var socCurve = []struct {
	v   float64
	pct int
}{
	{4.20, 100},
	{4.05, 90},
	{3.97, 80},
	{3.91, 70},
	{3.85, 60},
	{3.80, 50},
	{3.77, 40},
	{3.74, 30},
	{3.70, 20},
	{3.60, 10},
	{3.30, 0},
}

// BatteryMonitor smooths raw voltage readings over a short history window
// and derives the charge percentage.
type BatteryMonitor struct {
	board Board
	now   func() time.Time

	history  []float64
	last     BatteryStatus
	lastRead time.Time
}

func NewBatteryMonitor(board Board) *BatteryMonitor {
	return &BatteryMonitor{
		board:   board,
		now:     time.Now,
		history: make([]float64, 0, batteryHistorySize),
	}
}

// Refresh re-reads the battery when the sampling interval has elapsed,
// otherwise returns the cached status.
func (m *BatteryMonitor) Refresh() BatteryStatus {
	now := m.now()
	if !m.lastRead.IsZero() && now.Sub(m.lastRead) < batteryInterval {
		return m.last
	}
	m.lastRead = now

	v, err := m.board.ReadBatteryVolts()
	if err != nil {
		log.WithError(err).Warn("battery read failed")
		return m.last
	}

	m.history = append(m.history, v)
	if len(m.history) > batteryHistorySize {
		m.history = m.history[1:]
	}
	var sum float64
	for _, h := range m.history {
		sum += h
	}
	avg := sum / float64(len(m.history))

	m.last = BatteryStatus{
		VoltageV:     avg,
		Percent:      VoltsToPercent(avg),
		Charging:     m.board.ChargerPresent(),
		FullyCharged: m.board.ChargeComplete(),
	}
	return m.last
}

// VoltsToPercent interpolates the charge curve. Clamped to 0..100.
func VoltsToPercent(v float64) int {
	if v >= socCurve[0].v {
		return 100
	}
	for i := 1; i < len(socCurve); i++ {
		hi, lo := socCurve[i-1], socCurve[i]
		if v >= lo.v {
			frac := (v - lo.v) / (hi.v - lo.v)
			return lo.pct + int(frac*float64(hi.pct-lo.pct)+0.5)
		}
	}
	return 0
}
