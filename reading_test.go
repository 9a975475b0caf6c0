package hmc5883l

import (
	"math"
	"testing"
)

func TestMilligaussZero(t *testing.T) {
	for gain := Gain1370; gain <= Gain230; gain++ {
		got := RawReading{}.Milligauss(gain)
		if got.X != 0 || got.Y != 0 || got.Z != 0 {
			t.Errorf("zero reading at gain %d converted to %+v", gain, got)
		}
	}
}

func TestMilligaussGain1090(t *testing.T) {
	raw := RawReading{X: 2048, Y: -2048, Z: 100}
	got := raw.Milligauss(Gain1090)

	want := Reading{X: 1884.16, Y: -1884.16, Z: 92.0}
	const eps = 1e-9
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps || math.Abs(got.Z-want.Z) > eps {
		t.Errorf("%+v at Gain1090 converted to %+v, want %+v", raw, got, want)
	}
}
