package hmc5883l

import (
	"errors"
	"testing"
)

func TestConfigARoundTrip(t *testing.T) {
	for avg := Average1; avg <= Average8; avg++ {
		for rate := Rate0Hz75; rate <= Rate75Hz; rate++ {
			for bias := BiasNormal; bias <= BiasNegative; bias++ {
				b := encodeConfigA(avg, rate, bias)
				gotAvg, gotRate, gotBias, err := decodeConfigA(b)
				if err != nil {
					t.Fatalf("decodeConfigA(%#02x) failed: %v", b, err)
				}
				if gotAvg != avg || gotRate != rate || gotBias != bias {
					t.Errorf("round trip of (%d, %d, %d) through %#02x got (%d, %d, %d)",
						avg, rate, bias, b, gotAvg, gotRate, gotBias)
				}
			}
		}
	}
}

func TestConfigBRoundTrip(t *testing.T) {
	for gain := Gain1370; gain <= Gain230; gain++ {
		b := encodeConfigB(gain)
		got, err := decodeConfigB(b)
		if err != nil {
			t.Fatalf("decodeConfigB(%#02x) failed: %v", b, err)
		}
		if got != gain {
			t.Errorf("round trip of gain %d through %#02x got %d", gain, b, got)
		}
	}
}

func TestModeRoundTrip(t *testing.T) {
	for mode := ModeContinuous; mode <= ModeSingle; mode++ {
		got, err := decodeMode(encodeMode(mode))
		if err != nil {
			t.Fatalf("decodeMode failed: %v", err)
		}
		if got != mode {
			t.Errorf("round trip of mode %d got %d", mode, got)
		}
	}
}

func TestDecodeConfigAInvalid(t *testing.T) {
	tests := []struct {
		name string
		b    byte
	}{
		{"reserved high bit set", 0x90},
		{"sample average out of range", 0xE0},
		{"data rate out of range", 0x1C},
		{"bias out of range", 0x03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := decodeConfigA(tt.b)
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("decodeConfigA(%#02x) = %v, want ErrInvalidEncoding", tt.b, err)
			}
		})
	}
}

func TestDecodeConfigBReserved(t *testing.T) {
	if _, err := decodeConfigB(0x21); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("decodeConfigB(0x21) = %v, want ErrInvalidEncoding", err)
	}
}

func TestDecodeModeReserved(t *testing.T) {
	if _, err := decodeMode(0x02); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("decodeMode(0x02) = %v, want ErrInvalidEncoding", err)
	}
}

func TestStatusBits(t *testing.T) {
	tests := []struct {
		b      byte
		ready  bool
		locked bool
	}{
		{0x00, false, false},
		{0x01, true, false},
		{0x02, false, true},
		{0x03, true, true},
	}

	for _, tt := range tests {
		if got := tt.b&statusReadyBit != 0; got != tt.ready {
			t.Errorf("status %#02x: ready = %v, want %v", tt.b, got, tt.ready)
		}
		if got := tt.b&statusLockBit != 0; got != tt.locked {
			t.Errorf("status %#02x: locked = %v, want %v", tt.b, got, tt.locked)
		}
	}
}

func TestAssembleIdentity(t *testing.T) {
	got := assembleIdentity([3]byte{'H', '4', '3'})
	if got != DeviceID {
		t.Errorf("assembleIdentity('H', '4', '3') = %#08x, want %#08x", got, DeviceID)
	}
}

// Each step up in gain code lowers the sensitivity, so the mG/LSB factor must
// strictly increase across the table.
func TestGainScaleOrdering(t *testing.T) {
	for gain := Gain1370; gain < Gain230; gain++ {
		if gain.Scale() >= (gain + 1).Scale() {
			t.Errorf("scale(%d) = %v not below scale(%d) = %v",
				gain, gain.Scale(), gain+1, (gain + 1).Scale())
		}
	}
}

func TestGainScaleValues(t *testing.T) {
	want := map[Gain]float64{
		Gain1370: 0.73,
		Gain1090: 0.92,
		Gain820:  1.22,
		Gain660:  1.52,
		Gain440:  2.27,
		Gain390:  2.56,
		Gain330:  3.03,
		Gain230:  4.35,
	}
	for gain, factor := range want {
		if gain.Scale() != factor {
			t.Errorf("scale(%d) = %v, want %v", gain, gain.Scale(), factor)
		}
	}
}
