package hal

// Port is an 8-bit GPIO port of the microcontroller.
type Port uint8

const (
	// PortB is GPIO port B.
	PortB Port = iota
	// PortC is GPIO port C.
	PortC
	// PortD is GPIO port D.
	PortD
)

// bitsPerPort is the width of every GPIO port.
const bitsPerPort = 8

// String returns the port letter.
func (p Port) String() string {
	switch p {
	case PortB:
		return "B"
	case PortC:
		return "C"
	case PortD:
		return "D"
	default:
		return "?"
	}
}

// Pin identifies a single GPIO line as port and bit.
type Pin uint8

// PinOf builds a pin from its port and bit number (0-7).
func PinOf(port Port, bit uint8) Pin {
	return Pin(uint8(port)*bitsPerPort + bit%bitsPerPort)
}

// PB returns pin bit of port B.
func PB(bit uint8) Pin { return PinOf(PortB, bit) }

// PC returns pin bit of port C.
func PC(bit uint8) Pin { return PinOf(PortC, bit) }

// PD returns pin bit of port D.
func PD(bit uint8) Pin { return PinOf(PortD, bit) }

// Port returns the port the pin belongs to.
func (p Pin) Port() Port {
	return Port(uint8(p) / bitsPerPort)
}

// Bit returns the bit number of the pin within its port.
func (p Pin) Bit() uint8 {
	return uint8(p) % bitsPerPort
}

// String returns the datasheet name of the pin, e.g. "PC5".
func (p Pin) String() string {
	return "P" + p.Port().String() + string(rune('0'+p.Bit()))
}

// Level is the electrical level of a pin.
type Level bool

const (
	// Low is logic zero.
	Low Level = false
	// High is logic one.
	High Level = true
)

// String returns "0" or "1".
func (l Level) String() string {
	if l {
		return "1"
	}

	return "0"
}

// Direction is the data direction of a pin.
type Direction uint8

const (
	// Input makes the pin readable.
	Input Direction = iota
	// Output makes the pin drivable.
	Output
)

// String returns the bridge protocol spelling of the direction.
func (d Direction) String() string {
	if d == Output {
		return "OUT"
	}

	return "IN"
}
