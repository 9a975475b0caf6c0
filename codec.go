package hmc5883l

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding reports a register byte with reserved bits set or a field
// ordinal the device cannot produce. A healthy chip never generates such
// bytes, so it indicates a wiring or firmware mismatch rather than a transient
// fault. Test for it with errors.Is.
var ErrInvalidEncoding = errors.New("invalid register encoding")

func encodeConfigA(avg SampleAverage, rate DataRate, bias Bias) byte {
	return byte(avg)<<averageShift | byte(rate)<<rateShift | byte(bias)
}

func decodeConfigA(b byte) (SampleAverage, DataRate, Bias, error) {
	avg := SampleAverage((b & averageMask) >> averageShift)
	rate := DataRate((b & rateMask) >> rateShift)
	bias := Bias(b & biasMask)
	switch {
	case avg > Average8:
		return 0, 0, 0, fmt.Errorf("config A %#02x: sample average field out of range: %w", b, ErrInvalidEncoding)
	case rate > Rate75Hz:
		return 0, 0, 0, fmt.Errorf("config A %#02x: data rate field out of range: %w", b, ErrInvalidEncoding)
	case bias > BiasNegative:
		return 0, 0, 0, fmt.Errorf("config A %#02x: bias field out of range: %w", b, ErrInvalidEncoding)
	}
	return avg, rate, bias, nil
}

func encodeConfigB(gain Gain) byte {
	return byte(gain) << gainShift
}

func decodeConfigB(b byte) (Gain, error) {
	if b&configBReserved != 0 {
		return 0, fmt.Errorf("config B %#02x: reserved bits set: %w", b, ErrInvalidEncoding)
	}
	return Gain((b & gainMask) >> gainShift), nil
}

func encodeMode(mode OperatingMode) byte {
	return byte(mode)
}

func decodeMode(b byte) (OperatingMode, error) {
	if b&modeReserved != 0 {
		return 0, fmt.Errorf("mode %#02x: reserved bits set: %w", b, ErrInvalidEncoding)
	}
	return OperatingMode(b & modeMask), nil
}

// assembleIdentity packs the three identification registers least-significant
// byte first, so the wire bytes 'H', '4', '3' come out as DeviceID.
func assembleIdentity(b [3]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
