package power

// Mode is the device power/operating mode. Exactly one is active.
type Mode uint8

const (
	DeepSleep Mode = iota
	Charging
	Standby
	Running
	Pairing
	OtaUpdate
)

func (m Mode) String() string {
	switch m {
	case DeepSleep:
		return "deep_sleep"
	case Charging:
		return "charging"
	case Standby:
		return "standby"
	case Running:
		return "running"
	case Pairing:
		return "pairing"
	case OtaUpdate:
		return "ota_update"
	}
	return "unknown"
}

// Event is an input to the mode transition function.
type Event uint8

const (
	EventNone Event = iota
	EventWakeButton
	EventWakeCharger
	EventButtonShort
	EventButtonLong
	EventStartDetected
	EventRearmed
	EventChargerLost
	EventChargerLostButton // charger disconnect with a short press observed concurrently
	EventEnterPairing
	EventPairingDone
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventWakeButton:
		return "wake_button"
	case EventWakeCharger:
		return "wake_charger"
	case EventButtonShort:
		return "button_short"
	case EventButtonLong:
		return "button_long"
	case EventStartDetected:
		return "start_detected"
	case EventRearmed:
		return "rearmed"
	case EventChargerLost:
		return "charger_lost"
	case EventChargerLostButton:
		return "charger_lost_button"
	case EventEnterPairing:
		return "enter_pairing"
	case EventPairingDone:
		return "pairing_done"
	}
	return "unknown"
}

// Transition is the total mode transition function. Any (mode, event) pair
// without a rule is a no-op, so no input can leave the machine in an
// undefined mode.
func Transition(m Mode, e Event) Mode {
	switch e {
	case EventWakeButton:
		if m == DeepSleep {
			return Standby
		}
	case EventWakeCharger:
		if m == DeepSleep {
			return Charging
		}
	case EventButtonShort:
		if m == Standby || m == Running {
			return DeepSleep
		}
	case EventButtonLong:
		if m == Standby || m == Running {
			return OtaUpdate
		}
	case EventStartDetected:
		if m == Standby {
			return Running
		}
	case EventRearmed:
		if m == Running {
			return Standby
		}
	case EventChargerLost:
		if m == Charging {
			return DeepSleep
		}
	case EventChargerLostButton:
		if m == Charging {
			return Standby
		}
	case EventEnterPairing:
		if m != DeepSleep {
			return Pairing
		}
	case EventPairingDone:
		if m == Pairing {
			return Standby
		}
	}
	return m
}
