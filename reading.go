package hmc5883l

// RawReading is a single measurement in sensor counts. Axes are 16-bit two's
// complement; the device reports -4096 on an axis that overflowed its range.
type RawReading struct {
	X, Y, Z int16
}

// Reading is a measurement converted to milligauss.
type Reading struct {
	X, Y, Z float64
}

// Milligauss converts the raw counts using the scale factor of gain. The gain
// passed in must be the one currently configured on the device; the conversion
// deliberately does not read it back, so a caller that changes the gain is
// responsible for passing the new value.
func (r RawReading) Milligauss(gain Gain) Reading {
	s := gain.Scale()
	return Reading{
		X: float64(r.X) * s,
		Y: float64(r.Y) * s,
		Z: float64(r.Z) * s,
	}
}
