package isa

import "testing"

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		value  int
		width  int
		signed bool
	}{
		{"unsigned zero", 0, 8, false},
		{"unsigned max", 255, 8, false},
		{"unsigned 1-bit", 1, 1, false},
		{"signed zero", 0, 8, true},
		{"signed min", -128, 8, true},
		{"signed max", 127, 8, true},
		{"signed -1 width7", -1, 7, true},
		{"signed 16-bit min", -32768, 16, true},
		{"signed 16-bit max", 32767, 16, true},
		{"unsigned 16-bit max", 65535, 16, false},
		{"signed 1-bit -1", -1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTrip(tt.value, tt.width, tt.signed)
			if got != tt.value {
				t.Errorf("RoundTrip(%d, %d, %v) = %d, want %d", tt.value, tt.width, tt.signed, got, tt.value)
			}
		})
	}
}

func TestRoundTripAllWidths(t *testing.T) {
	for width := 1; width <= 16; width++ {
		min, max := bounds(width, true)
		for _, v := range []int{min, max, 0} {
			if got := RoundTrip(v, width, true); got != v {
				t.Errorf("signed width %d: RoundTrip(%d) = %d, want %d", width, v, got, v)
			}
		}
		_, umax := bounds(width, false)
		for _, v := range []int{0, umax} {
			if got := RoundTrip(v, width, false); got != v {
				t.Errorf("unsigned width %d: RoundTrip(%d) = %d, want %d", width, v, got, v)
			}
		}
	}
}

func TestEncodeMasksToWidth(t *testing.T) {
	if got := Encode(-1, 7); got != 0x7F {
		t.Errorf("Encode(-1, 7) = %#x, want %#x", got, 0x7F)
	}
	if got := Encode(128, 7); got != 0 {
		t.Errorf("Encode(128, 7) = %#x, want 0", got)
	}
}

func TestDecodeSignExtends(t *testing.T) {
	if got := Decode(0x7F, 7, true); got != -1 {
		t.Errorf("Decode(0x7F, 7, true) = %d, want -1", got)
	}
	if got := Decode(0x7F, 7, false); got != 127 {
		t.Errorf("Decode(0x7F, 7, false) = %d, want 127", got)
	}
}
