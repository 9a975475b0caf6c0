package hmc5883l

// DefaultAddr is the 7-bit I2C address of the HMC5883L. The address is fixed
// by the chip and cannot be strapped.
const DefaultAddr uint16 = 0x1E

// DeviceID is the value Identity returns when the IC is functioning properly.
// The three identification registers read 'H', '4', '3' on the wire.
const DeviceID uint32 = 0x00333448

// OperatingMode selects between free-running and one-shot measurement.
type OperatingMode uint8

const (
	ModeContinuous OperatingMode = iota
	ModeSingle
)

// SampleAverage is the number of internal samples averaged per output.
type SampleAverage uint8

const (
	Average1 SampleAverage = iota
	Average2
	Average4
	Average8
)

// DataRate is the output rate in continuous measurement mode.
type DataRate uint8

const (
	Rate0Hz75 DataRate = iota
	Rate1Hz5
	Rate3Hz
	Rate7Hz5
	Rate15Hz
	Rate30Hz
	Rate75Hz
)

// Bias selects the self-test excitation applied to all three axes. Positive
// and Negative produce a known artificial offset and are only meant for
// transient diagnostics, not normal operation.
type Bias uint8

const (
	BiasNormal Bias = iota
	BiasPositive
	BiasNegative
)

// Gain selects the sensor sensitivity in LSB/Gauss. Higher-numbered settings
// trade resolution for range.
type Gain uint8

const (
	Gain1370 Gain = iota // 0.73 mG/LSB, ±0.88 G
	Gain1090             // 0.92 mG/LSB, ±1.3 G
	Gain820              // 1.22 mG/LSB, ±1.9 G
	Gain660              // 1.52 mG/LSB, ±2.5 G
	Gain440              // 2.27 mG/LSB, ±4.0 G
	Gain390              // 2.56 mG/LSB, ±4.7 G
	Gain330              // 3.03 mG/LSB, ±5.6 G
	Gain230              // 4.35 mG/LSB, ±8.1 G
)

// Milligauss per LSB for each gain ordinal.
var gainScale = [8]float64{0.73, 0.92, 1.22, 1.52, 2.27, 2.56, 3.03, 4.35}

// Scale returns the milligauss-per-LSB factor for the gain.
func (g Gain) Scale() float64 {
	return gainScale[g]
}

const (
	configAReg uint8 = iota // sample average, data rate, bias
	configBReg              // gain
	modeReg                 // operating mode
	dataXMSBReg             // data registers are ordered X, Z, Y
	dataXLSBReg
	dataZMSBReg
	dataZLSBReg
	dataYMSBReg
	dataYLSBReg
	statusReg
	identAReg
	identBReg
	identCReg
)

const (
	averageMask  uint8 = 0xE0
	averageShift       = 5
	rateMask     uint8 = 0x1C
	rateShift          = 2
	biasMask     uint8 = 0x03

	gainMask        uint8 = 0xE0
	gainShift             = 5
	configBReserved uint8 = 0x1F

	modeMask     uint8 = 0x01
	modeReserved uint8 = 0xFE

	statusReadyBit uint8 = 0x01
	statusLockBit  uint8 = 0x02
)
