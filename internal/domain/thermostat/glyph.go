package thermostat

// DigitCount is the number of positions on the multiplexed display.
const DigitCount = 3

// glyphs maps a decimal digit to its common-cathode segment pattern,
// bit 0 being segment A and bit 6 segment G.
//
//nolint:gochecknoglobals // Immutable lookup table.
var glyphs = [10]byte{
	0b00111111, // 0
	0b00000110, // 1
	0b01011011, // 2
	0b01001111, // 3
	0b01100110, // 4
	0b01101101, // 5
	0b01111101, // 6
	0b00000111, // 7
	0b01111111, // 8
	0b01101111, // 9
}

// Glyph returns the segment pattern for a digit.
// Values outside 0-9 render blank.
func Glyph(digit int) byte {
	if digit < 0 || digit >= len(glyphs) {
		return 0
	}

	return glyphs[digit]
}

// DecodeGlyph maps a segment pattern back to its digit.
func DecodeGlyph(pattern byte) (int, bool) {
	for digit, glyph := range glyphs {
		if glyph == pattern {
			return digit, true
		}
	}

	return 0, false
}

// Digits splits a value into hundreds, tens and units.
// Extraction is fixed-width: anything above 999 wraps in the hundreds place.
func Digits(value int) [DigitCount]int {
	return [DigitCount]int{
		(value / 100) % 10,
		(value / 10) % 10,
		value % 10,
	}
}
