package power

// Board abstracts the gate hardware so the control logic runs unmodified on
// real hardware and in simulation. Pin assignment and analog calibration
// live behind this interface.
type Board interface {
	// ReadDistanceCm returns one ranging sample from the optical sensor.
	// Values <= 0 mean no reading; an error means the sensor is absent.
	ReadDistanceCm() (int, error)

	ReadBatteryVolts() (float64, error)
	ChargerPresent() bool
	ChargeComplete() bool

	// ButtonPressed returns the current button level.
	ButtonPressed() bool

	// SetPeripheralPower switches the shared peripheral rail.
	SetPeripheralPower(on bool)

	// FloatSensorBus places the sensor-bus lines in a safe floating or
	// pulldown configuration so peripherals cannot be back-powered through
	// bus pull-ups while the rail is off.
	FloatSensorBus()

	// DeepSleep arms the two wake sources (button level and charger
	// voltage rise) and suspends until reset-on-wake. On real hardware it
	// never returns; simulated boards return so tests can observe it.
	DeepSleep()

	// HardwareID is the stable identifier the radio address derives from.
	HardwareID() string
}
