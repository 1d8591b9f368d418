package thermostat

// RangeLEDCount is the number of range-indicator LEDs.
const RangeLEDCount = 4

// Band is the temperature range shown by the range-indicator LEDs.
type Band uint8

const (
	// BandNone means no range LED is lit (41 and above).
	BandNone Band = iota
	// BandCold is below 15 and lights LED1.
	BandCold
	// BandCool is 15 to 25 and lights LED2.
	BandCool
	// BandWarm is 26 to 35 and lights LED3.
	BandWarm
	// BandHot is 36 to 40 and lights LED4.
	BandHot
)

// bandLimits holds the exclusive upper limit of each lit band, in order.
//
//nolint:gochecknoglobals // Immutable lookup table.
var bandLimits = [RangeLEDCount]struct {
	band  Band
	below int
}{
	{BandCold, 15},
	{BandCool, 26},
	{BandWarm, 36},
	{BandHot, 41},
}

// BandFor returns the band of a temperature. Limits are checked in
// ascending order and the first match wins.
func BandFor(temperature int) Band {
	for _, limit := range bandLimits {
		if temperature < limit.below {
			return limit.band
		}
	}

	return BandNone
}

// LED returns the zero-based index of the LED lit for the band.
func (b Band) LED() (int, bool) {
	if b == BandNone || b > BandHot {
		return 0, false
	}

	return int(b) - 1, true
}

// String returns a human-readable band name.
func (b Band) String() string {
	switch b {
	case BandNone:
		return "none"
	case BandCold:
		return "cold"
	case BandCool:
		return "cool"
	case BandWarm:
		return "warm"
	case BandHot:
		return "hot"
	default:
		return "unknown"
	}
}
