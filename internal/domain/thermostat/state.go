package thermostat

const (
	// MinTemperature is the lowest value the panel can be set to.
	MinTemperature = 0
	// MaxTemperature is the highest value the panel can be set to.
	MaxTemperature = 99
	// AlarmThreshold is exclusive: the alarm fires strictly above it.
	AlarmThreshold = 40
)

// Mode selects which rendering path runs on every loop iteration.
type Mode uint8

const (
	// ModeNumeric shows the temperature on the 7-segment display.
	ModeNumeric Mode = iota
	// ModeRangeIndicator lights one of the four range LEDs instead.
	ModeRangeIndicator
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNumeric:
		return "numeric"
	case ModeRangeIndicator:
		return "range"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeNumeric {
		return ModeRangeIndicator
	}

	return ModeNumeric
}

// Unit is the unit used by the numeric display.
// It never changes the stored temperature, which is always Celsius.
type Unit uint8

const (
	// UnitCelsius displays the stored value as is.
	UnitCelsius Unit = iota
	// UnitFahrenheit converts the stored value before display.
	UnitFahrenheit
)

// String returns a short unit label.
func (u Unit) String() string {
	switch u {
	case UnitCelsius:
		return "C"
	case UnitFahrenheit:
		return "F"
	default:
		return "?"
	}
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == UnitCelsius {
		return UnitFahrenheit
	}

	return UnitCelsius
}

// State is the whole mutable state of the panel.
type State struct {
	// Temperature is the current value in Celsius, always within
	// [MinTemperature, MaxTemperature].
	Temperature int
	// Mode selects numeric display or range indication.
	Mode Mode
	// Unit selects the unit of the numeric display.
	Unit Unit
	// AlarmTriggered mirrors Temperature > AlarmThreshold after every
	// temperature change, unless StopAlarm cleared it since.
	AlarmTriggered bool
}

// NewState returns the power-on state.
func NewState() State {
	return State{
		Temperature:    MinTemperature,
		Mode:           ModeNumeric,
		Unit:           UnitCelsius,
		AlarmTriggered: false,
	}
}

// Increment raises the temperature by one unless it is already at the
// upper bound. It reports whether the temperature changed; the alarm is
// recomputed only in that case.
func (s *State) Increment() bool {
	if s.Temperature >= MaxTemperature {
		return false
	}

	s.Temperature++
	s.RecomputeAlarm()

	return true
}

// Decrement lowers the temperature by one unless it is already at the
// lower bound. It reports whether the temperature changed.
func (s *State) Decrement() bool {
	if s.Temperature <= MinTemperature {
		return false
	}

	s.Temperature--
	s.RecomputeAlarm()

	return true
}

// RecomputeAlarm derives the alarm flag from the threshold.
func (s *State) RecomputeAlarm() {
	s.AlarmTriggered = s.Temperature > AlarmThreshold
}

// StopAlarm clears the alarm flag regardless of the temperature.
// The override holds until the next temperature change.
func (s *State) StopAlarm() {
	s.AlarmTriggered = false
}

// ToggleUnit flips between Celsius and Fahrenheit.
func (s *State) ToggleUnit() {
	s.Unit = s.Unit.Toggle()
}

// ToggleMode flips between numeric display and range indication.
func (s *State) ToggleMode() {
	s.Mode = s.Mode.Toggle()
}

// DisplayValue is the number shown in numeric mode.
// Fahrenheit uses truncating integer division: 99 C shows as 210.
func (s State) DisplayValue() int {
	if s.Unit == UnitFahrenheit {
		return s.Temperature*9/5 + 32
	}

	return s.Temperature
}
