package binary

import "testing"

func TestSynchsafe(t *testing.T) {
	tests := []struct {
		value   uint32
		encoded [4]byte
	}{
		{0, [4]byte{0x00, 0x00, 0x00, 0x00}},
		{127, [4]byte{0x00, 0x00, 0x00, 0x7F}},
		{128, [4]byte{0x00, 0x00, 0x01, 0x00}},
		{257, [4]byte{0x00, 0x00, 0x02, 0x01}},
		{MaxSynchsafe, [4]byte{0x7F, 0x7F, 0x7F, 0x7F}},
	}

	for _, tt := range tests {
		got := EncodeSynchsafe(tt.value)
		if got != tt.encoded {
			t.Errorf("EncodeSynchsafe(%d) = %v, want %v", tt.value, got, tt.encoded)
		}
		if back := DecodeSynchsafe(tt.encoded[:]); back != tt.value {
			t.Errorf("DecodeSynchsafe(%v) = %d, want %d", tt.encoded, back, tt.value)
		}
	}
}

func TestDecodeSynchsafe_IgnoresHighBit(t *testing.T) {
	if got := DecodeSynchsafe([]byte{0x80, 0x80, 0x80, 0xFF}); got != 0x7F {
		t.Errorf("expected high bits to be masked, got %d", got)
	}
	if got := DecodeSynchsafe([]byte{0x01, 0x02}); got != 0 {
		t.Errorf("expected 0 for short input, got %d", got)
	}
}
