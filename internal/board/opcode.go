package board

// Raised reports whether a raw fader position counts as a set bit.
func Raised(raw int) bool { return raw >= FaderThreshold }

// Encode packs eight fader bits into an opcode. Fader 0 is the MSB (bit 7),
// fader 7 the LSB (bit 0).
func Encode(bits [NumFader]bool) uint8 {
	var op uint8
	for i, on := range bits {
		if on {
			op |= 1 << (NumFader - 1 - i)
		}
	}
	return op
}

// Decode is the inverse of Encode.
func Decode(op uint8) [NumFader]bool {
	var bits [NumFader]bool
	for i := range bits {
		bits[i] = op&(1<<(NumFader-1-i)) != 0
	}
	return bits
}

// BitString renders the bits MSB first, e.g. "10000001".
func BitString(bits [NumFader]bool) string {
	b := make([]byte, NumFader)
	for i, on := range bits {
		if on {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}
