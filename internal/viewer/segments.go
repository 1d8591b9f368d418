package viewer

// Segment bit positions in a glyph pattern.
const (
	segA = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

// segmentRows draws a glyph pattern as three rows of ASCII art.
func segmentRows(pattern byte) [3]string {
	pick := func(mask byte, on string) string {
		if pattern&mask != 0 {
			return on
		}

		return " "
	}

	return [3]string{
		" " + pick(segA, "_") + " ",
		pick(segF, "|") + pick(segG, "_") + pick(segB, "|"),
		pick(segE, "|") + pick(segD, "_") + pick(segC, "|"),
	}
}
