// Package power owns the mode state machine and the single cooperative
// control loop that drives detection, telemetry, and pairing.
package power

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/openlaps/startgate/detect"
	"github.com/openlaps/startgate/pairing"
	"github.com/openlaps/startgate/protocol"
	"github.com/openlaps/startgate/radio"
	"github.com/openlaps/startgate/store"
)

// Fault is the error indicator surfaced through the display hook.
type Fault uint8

const (
	FaultNone Fault = iota
	FaultRadio
	FaultSensor
)

// Config tunes loop and button timing.
type Config struct {
	LoopInterval     time.Duration
	LongPress        time.Duration // press-to-release duration separating short from long
	BootPressTimeout time.Duration // give up waiting for a boot-held button release
}

func DefaultConfig() Config {
	return Config{
		LoopInterval:     20 * time.Millisecond,
		LongPress:        5000 * time.Millisecond,
		BootPressTimeout: 5500 * time.Millisecond,
	}
}

// Status is the snapshot exposed to the pairing bearer. Published
// atomically each iteration so bearer callbacks never see torn state.
type Status struct {
	Paired   bool
	Battery  int
	Charging bool
	Mode     Mode
	Armed    bool
	Address  string
}

// DisplayFunc receives the current mode, battery percentage and fault state
// for the external visual feedback subsystem.
type DisplayFunc func(mode Mode, batteryPercent int, fault Fault)

type requestKind uint8

const (
	reqNetworkConfig requestKind = iota
	reqEnterPairing
	reqUnpair
)

// sensorFaultThreshold is the number of consecutive failed distance reads
// (half a second at the loop cadence) before the sensor fault is raised.
const sensorFaultThreshold = 25

type request struct {
	kind    requestKind
	payload string
}

// Controller is the top-level orchestrator. All shared state is owned by
// the control loop; the only cross-context paths in are the request queue
// and the atomic status snapshot.
type Controller struct {
	cfg      Config
	board    Board
	link     *radio.Link
	detector *detect.Detector
	pairing  *pairing.Service
	battery  *BatteryMonitor

	now   func() time.Time
	sleep func(time.Duration)

	mode     Mode
	requests chan request
	status   atomic.Pointer[Status]
	display  DisplayFunc
	fault    Fault

	buttonDown   bool
	pressStart   time.Time
	pressPending bool // short press seen while charging, consumed by the disconnect rule
	prevArmed    bool
	sensorErrs   int

	running atomic.Bool
	log     *log.Entry
}

// New wires a controller. The store is read here, before any radio
// configuration, since configuration depends on pairing state.
func New(board Board, link *radio.Link, st store.Store) *Controller {
	address := protocol.DeriveAddress(board.HardwareID())
	c := &Controller{
		cfg:      DefaultConfig(),
		board:    board,
		link:     link,
		detector: detect.New(detect.DefaultConfig()),
		pairing:  pairing.New(st, link, address),
		battery:  NewBatteryMonitor(board),
		now:      time.Now,
		sleep:    time.Sleep,
		mode:     DeepSleep,
		requests: make(chan request, 16),
		display:  func(Mode, int, Fault) {},
		log: log.WithFields(log.Fields{
			"boot":    uuid.NewString(),
			"address": address,
		}),
	}
	c.prevArmed = c.detector.Armed()
	c.publishStatus(c.battery.Refresh())
	return c
}

// SetDisplay installs the external display hook.
func (c *Controller) SetDisplay(fn DisplayFunc) {
	if fn != nil {
		c.display = fn
	}
}

// Mode returns the current mode. Main-loop context only; bearer callbacks
// read Status instead.
func (c *Controller) Mode() Mode { return c.mode }

// Fault returns the current error indicator.
func (c *Controller) Fault() Fault { return c.fault }

// Boot resolves the wake cause, measures a boot-held button, and brings up
// the radio link. Runs once before the loop.
func (c *Controller) Boot() {
	if c.board.ChargerPresent() {
		c.mode = Transition(c.mode, EventWakeCharger)
	} else {
		c.mode = Transition(c.mode, EventWakeButton)
	}
	c.log.WithField("mode", c.mode).Info("booted")

	if ev := c.measureBootPress(); ev == EventButtonLong {
		c.apply(EventButtonLong)
	}

	if err := c.link.Sync(); err != nil {
		c.fault = FaultRadio
		c.log.WithError(err).Error("radio module not detected")
	}
	// Configured regardless of sync outcome: detection stays active and a
	// paired gate keeps producing telemetry frames into the dead transport
	// rather than suppressing them.
	c.pairing.ConfigureLink()

	if _, err := c.board.ReadDistanceCm(); err != nil {
		c.fault = FaultSensor
		c.log.WithError(err).Error("distance sensor not detected")
	}
}

// measureBootPress resolves a button held through power-on: wait for the
// release to classify the press, giving up at BootPressTimeout and
// treating it as long. A short boot press is the wake press itself.
func (c *Controller) measureBootPress() Event {
	if !c.board.ButtonPressed() {
		return EventNone
	}
	start := c.now()
	deadline := start.Add(c.cfg.BootPressTimeout)
	for c.board.ButtonPressed() {
		if !c.now().Before(deadline) {
			return EventButtonLong
		}
		c.sleep(10 * time.Millisecond)
	}
	if c.now().Sub(start) >= c.cfg.LongPress {
		return EventButtonLong
	}
	return EventButtonShort
}

// Run executes the control loop until DeepSleep entry or Stop.
func (c *Controller) Run() {
	c.running.Store(true)
	for c.running.Load() {
		start := c.now()
		c.Step()
		if rem := c.cfg.LoopInterval - c.now().Sub(start); rem > 0 {
			c.sleep(rem)
		}
	}
}

// Stop ends the loop after the current iteration.
func (c *Controller) Stop() { c.running.Store(false) }

// Step is one loop iteration in the fixed order: drain requests, read the
// sensor, service radio I/O, update the detector, dispatch transitions,
// send telemetry on cadence, publish status, hand off to the display.
func (c *Controller) Step() {
	c.drainRequests()

	sample, err := c.board.ReadDistanceCm()
	if err != nil {
		sample = 0 // the detector ignores invalid samples
		c.sensorErrs++
		if c.sensorErrs == sensorFaultThreshold {
			c.fault = FaultSensor
			c.log.WithError(err).Error("distance sensor stopped responding")
		}
	} else {
		c.sensorErrs = 0
		if c.fault == FaultSensor {
			c.fault = FaultNone
		}
	}
	c.link.Poll()

	if c.mode == Standby || c.mode == Running {
		if ev := c.detector.Update(sample); ev != nil {
			c.link.NoteStart(ev.At)
			c.apply(EventStartDetected)
		}
		armed := c.detector.Armed()
		if armed && !c.prevArmed {
			c.apply(EventRearmed)
		}
		c.prevArmed = armed
	}

	if ev := c.pollButton(); ev != EventNone {
		if c.mode == Charging && ev == EventButtonShort {
			c.pressPending = true
		} else {
			c.apply(ev)
		}
	}
	if c.mode == Charging && !c.board.ChargerPresent() {
		if c.pressPending {
			c.apply(EventChargerLostButton)
		} else {
			c.apply(EventChargerLost)
		}
	}
	if c.mode != Charging {
		c.pressPending = false
	}

	bat := c.battery.Refresh()
	c.link.MaybeSendTelemetry(clampPercent(bat.Percent))

	c.publishStatus(bat)
	c.display(c.mode, bat.Percent, c.fault)
}

func (c *Controller) drainRequests() {
	for {
		select {
		case r := <-c.requests:
			switch r.kind {
			case reqNetworkConfig:
				c.pairing.ApplyNetworkConfig(r.payload)
				c.apply(EventPairingDone)
			case reqEnterPairing:
				c.apply(EventEnterPairing)
			case reqUnpair:
				c.pairing.Unpair()
			}
		default:
			return
		}
	}
}

func (c *Controller) pollButton() Event {
	pressed := c.board.ButtonPressed()
	switch {
	case pressed && !c.buttonDown:
		c.buttonDown = true
		c.pressStart = c.now()
	case !pressed && c.buttonDown:
		c.buttonDown = false
		if c.now().Sub(c.pressStart) >= c.cfg.LongPress {
			return EventButtonLong
		}
		return EventButtonShort
	}
	return EventNone
}

// apply runs the transition function and any mode entry action.
func (c *Controller) apply(ev Event) {
	next := Transition(c.mode, ev)
	if next == c.mode {
		return
	}
	c.log.WithFields(log.Fields{
		"from":  c.mode,
		"to":    next,
		"event": ev,
	}).Info("mode transition")
	c.mode = next

	switch next {
	case DeepSleep:
		c.enterDeepSleep()
	case OtaUpdate:
		// flashing itself is handled by the external update mechanism
		c.log.Info("entering firmware update mode")
	}
}

// enterDeepSleep powers down the peripheral rail, parks the sensor bus and
// suspends. Terminal within an iteration on real hardware; simulated
// boards return, so the loop is stopped as well.
func (c *Controller) enterDeepSleep() {
	c.log.Info("entering deep sleep")
	c.board.SetPeripheralPower(false)
	c.board.FloatSensorBus()
	c.board.DeepSleep()
	c.running.Store(false)
}

func (c *Controller) publishStatus(bat BatteryStatus) {
	rec := c.pairing.Record()
	c.status.Store(&Status{
		Paired:   rec.Paired,
		Battery:  bat.Percent,
		Charging: bat.Charging,
		Mode:     c.mode,
		Armed:    c.detector.Armed(),
		Address:  c.pairing.Address(),
	})
}

// Status returns the latest published snapshot. Safe from any goroutine.
func (c *Controller) Status() Status { return *c.status.Load() }

// AddressInfo is the read-only payload the pairing bearer exposes.
func (c *Controller) AddressInfo() string {
	return protocol.AddressInfoPayload(c.pairing.Address())
}

// StatusPayload renders the status snapshot for the pairing bearer.
func (c *Controller) StatusPayload() string {
	s := c.Status()
	return protocol.StatusPayload(s.Paired, s.Battery, s.Charging, s.Mode.String(), s.Armed, s.Address)
}

// SubmitNetworkConfig hands a network-config write to the main loop. Safe
// from bearer context; dropped with a warning if the queue is full.
func (c *Controller) SubmitNetworkConfig(payload string) {
	c.enqueue(request{kind: reqNetworkConfig, payload: payload})
}

// SubmitControl handles the bearer control commands.
func (c *Controller) SubmitControl(command string) error {
	switch command {
	case "enter_pairing":
		c.enqueue(request{kind: reqEnterPairing})
	case "unpair":
		c.enqueue(request{kind: reqUnpair})
	default:
		return fmt.Errorf("%w: unknown control command %q", protocol.ErrInvalidPayload, command)
	}
	return nil
}

func (c *Controller) enqueue(r request) {
	select {
	case c.requests <- r:
	default:
		c.log.Warn("request queue full, dropping request")
	}
}

func clampPercent(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return uint8(p)
}
