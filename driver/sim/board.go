package sim

import "sync"

// Board is a scriptable stand-in for the gate hardware.
type Board struct {
	mu sync.Mutex

	distance    int
	distanceErr error
	batteryV    float64
	batteryErr  error
	charger     bool
	full        bool
	button      bool

	railOn      bool
	busFloating bool
	slept       bool
	id          string
}

func NewBoard() *Board {
	return &Board{
		distance: 183,
		batteryV: 3.9,
		railOn:   true,
		id:       "sim-0001",
	}
}

func (b *Board) ReadDistanceCm() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.distance, b.distanceErr
}

func (b *Board) ReadBatteryVolts() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batteryV, b.batteryErr
}

func (b *Board) ChargerPresent() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.charger
}

func (b *Board) ChargeComplete() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.full
}

func (b *Board) ButtonPressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.button
}

func (b *Board) SetPeripheralPower(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.railOn = on
}

func (b *Board) FloatSensorBus() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busFloating = true
}

func (b *Board) DeepSleep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slept = true
}

func (b *Board) HardwareID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// Scripting controls.

func (b *Board) SetDistance(cm int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.distance = cm
	b.distanceErr = nil
}

func (b *Board) SetDistanceErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.distanceErr = err
}

func (b *Board) SetBatteryVolts(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batteryV = v
}

func (b *Board) SetBatteryErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batteryErr = err
}

func (b *Board) SetCharger(present bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.charger = present
}

func (b *Board) SetChargeComplete(full bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.full = full
}

func (b *Board) SetButton(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.button = pressed
}

func (b *Board) SetHardwareID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = id
}

// Observed side effects.

func (b *Board) RailOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.railOn
}

func (b *Board) BusFloating() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busFloating
}

func (b *Board) Slept() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slept
}
