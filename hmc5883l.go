package hmc5883l

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// Opts holds the configuration New applies to the sensor
type Opts struct {
	// Addr is the I2C address. Leave zero for DefaultAddr; the HMC5883L
	// always answers on 0x1E so this only matters behind an address
	// translator.
	Addr    uint16
	Mode    OperatingMode
	Average SampleAverage
	Rate    DataRate
	Gain    Gain
}

// DefaultOpts returns continuous mode at 15 Hz with no averaging and the
// ±1.3 G range, matching the chip's power-on configuration apart from the
// mode.
func DefaultOpts() *Opts {
	return &Opts{
		Mode:    ModeContinuous,
		Average: Average1,
		Rate:    Rate15Hz,
		Gain:    Gain1090,
	}
}

// New writes the configuration in opts to the device and returns a handle to
// it. Bias always starts out Normal; use SetBias to run a self test.
//
// New does not verify the chip identity. Callers that want to guard against a
// miswired bus should compare Identity against DeviceID.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = DefaultOpts()
	}

	if opts.Mode > ModeSingle || opts.Average > Average8 || opts.Rate > Rate75Hz || opts.Gain > Gain230 {
		return nil, fmt.Errorf("hmc5883l: invalid options: %+v", *opts)
	}

	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddr
	}

	d := &Dev{
		d:    &i2c.Dev{Bus: bus, Addr: addr},
		name: "hmc5883l",
	}

	if err := d.writeReg(configAReg, encodeConfigA(opts.Average, opts.Rate, BiasNormal)); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.writeReg(configBReg, encodeConfigB(opts.Gain)); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.writeReg(modeReg, encodeMode(opts.Mode)); err != nil {
		return nil, d.wrap(err)
	}

	return d, nil
}

// Dev is a handle to an HMC5883L on an I2C bus.
//
// The device's own registers are the single source of truth: every getter
// re-reads the bus and nothing is cached in software. The embedded mutex
// serializes operations so a read-modify-write of a shared register cannot
// interleave with another caller on the same handle.
type Dev struct {
	d    *i2c.Dev
	name string

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}", d.name, d.d)
}

// OperatingMode reads the currently configured measurement mode.
func (d *Dev) OperatingMode() (OperatingMode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b [1]byte
	if err := d.readReg(modeReg, b[:]); err != nil {
		return 0, d.wrap(err)
	}
	mode, err := decodeMode(b[0])
	if err != nil {
		return 0, d.wrap(err)
	}
	return mode, nil
}

// SetOperatingMode switches between continuous and single measurement mode.
// As a side effect the device releases any data lock in effect.
func (d *Dev) SetOperatingMode(mode OperatingMode) error {
	if mode > ModeSingle {
		return d.wrap(fmt.Errorf("operating mode out of range: %d", mode))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(modeReg, modeMask, encodeMode(mode))
}

// SampleAverage reads the currently configured number of samples averaged per
// output.
func (d *Dev) SampleAverage() (SampleAverage, error) {
	avg, _, _, err := d.configA()
	return avg, err
}

// SetSampleAverage sets the number of samples averaged per output.
func (d *Dev) SetSampleAverage(avg SampleAverage) error {
	if avg > Average8 {
		return d.wrap(fmt.Errorf("sample average out of range: %d", avg))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(configAReg, averageMask, byte(avg)<<averageShift)
}

// DataRate reads the currently configured output rate.
func (d *Dev) DataRate() (DataRate, error) {
	_, rate, _, err := d.configA()
	return rate, err
}

// SetDataRate sets the output rate used in continuous mode.
func (d *Dev) SetDataRate(rate DataRate) error {
	if rate > Rate75Hz {
		return d.wrap(fmt.Errorf("data rate out of range: %d", rate))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(configAReg, rateMask, byte(rate)<<rateShift)
}

// Bias reads the currently configured self-test bias.
func (d *Dev) Bias() (Bias, error) {
	_, _, bias, err := d.configA()
	return bias, err
}

// SetBias sets the self-test bias. As a side effect the device releases any
// data lock in effect.
func (d *Dev) SetBias(bias Bias) error {
	if bias > BiasNegative {
		return d.wrap(fmt.Errorf("bias out of range: %d", bias))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateReg(configAReg, biasMask, byte(bias))
}

// Gain reads the currently configured gain.
func (d *Dev) Gain() (Gain, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b [1]byte
	if err := d.readReg(configBReg, b[:]); err != nil {
		return 0, d.wrap(err)
	}
	gain, err := decodeConfigB(b[0])
	if err != nil {
		return 0, d.wrap(err)
	}
	return gain, nil
}

// SetGain sets the sensor gain. Gain lives alone in its register, so this is
// a plain overwrite rather than a read-modify-write.
func (d *Dev) SetGain(gain Gain) error {
	if gain > Gain230 {
		return d.wrap(fmt.Errorf("gain out of range: %d", gain))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeReg(configBReg, encodeConfigB(gain)); err != nil {
		return d.wrap(err)
	}
	return nil
}

// Identity reads the three identification registers and returns them packed
// as a 24-bit value. A healthy part returns DeviceID; checking it is up to
// the caller.
func (d *Dev) Identity() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b [3]byte
	if err := d.readReg(identAReg, b[:]); err != nil {
		return 0, d.wrap(err)
	}
	return assembleIdentity(b), nil
}

// DataReady reports whether all six data registers hold a fresh measurement.
func (d *Dev) DataReady() (bool, error) {
	st, err := d.status()
	return st&statusReadyBit != 0, err
}

// DataLocked reports whether the data registers are latched. The device holds
// new measurements back until the previous six data bytes have been read in
// full, the operating mode changes, the bias changes, or power is cycled. A
// partial read of the data block leaves the lock engaged and readings stale.
func (d *Dev) DataLocked() (bool, error) {
	st, err := d.status()
	return st&statusLockBit != 0, err
}

// RawReading reads one measurement in sensor counts.
//
// All six data bytes are read in a single transaction, which is also what
// releases the device's data lock for the next measurement. The register
// block is ordered X, Z, Y with the MSB first on each axis.
func (d *Dev) RawReading() (RawReading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return RawReading{}, d.wrap(errors.New("already reading continuously"))
	}
	return d.rawReading()
}

// Reading reads one measurement converted to milligauss. The gain must match
// the one configured on the device; it is passed in rather than read back so
// the hot path stays a single bus transaction.
func (d *Dev) Reading(gain Gain) (Reading, error) {
	raw, err := d.RawReading()
	if err != nil {
		return Reading{}, err
	}
	return raw.Milligauss(gain), nil
}

// ReadContinuous polls the device at interval and delivers converted readings
// on the returned channel.
//
// The application must call Halt() to stop the polling when done; the channel
// is closed on Halt or on the first bus error. As with Reading, gain must
// match the configured gain.
//
// It's the responsibility of the caller to retrieve the values from the
// channel as fast as possible, otherwise the interval may not be respected.
func (d *Dev) ReadContinuous(interval time.Duration, gain Gain) (<-chan Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		// Don't touch the device, just restart the pump.
		close(d.stop)
		d.stop = nil
		d.wg.Wait()
	}

	readings := make(chan Reading)
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(readings)
		d.readingContinuous(interval, gain, readings, d.stop)
	}()
	return readings, nil
}

// Halt stops the polling started by ReadContinuous.
//
// It is recommended to call this function before terminating the process to
// avoid a goroutine leak.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	d.wg.Wait()

	return nil
}

func (d *Dev) readingContinuous(interval time.Duration, gain Gain, readings chan<- Reading, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		// Do one initial reading right away.
		d.mu.Lock()
		raw, err := d.rawReading()
		d.mu.Unlock()
		if err != nil {
			return
		}
		select {
		case readings <- raw.Milligauss(gain):
		case <-stop:
			return
		}
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

func (d *Dev) rawReading() (RawReading, error) {
	var b [6]byte
	if err := d.readReg(dataXMSBReg, b[:]); err != nil {
		return RawReading{}, d.wrap(err)
	}
	return RawReading{
		X: int16(uint16(b[0])<<8 | uint16(b[1])),
		Z: int16(uint16(b[2])<<8 | uint16(b[3])),
		Y: int16(uint16(b[4])<<8 | uint16(b[5])),
	}, nil
}

// configA reads and unpacks Configuration Register A.
func (d *Dev) configA() (SampleAverage, DataRate, Bias, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b [1]byte
	if err := d.readReg(configAReg, b[:]); err != nil {
		return 0, 0, 0, d.wrap(err)
	}
	avg, rate, bias, err := decodeConfigA(b[0])
	if err != nil {
		return 0, 0, 0, d.wrap(err)
	}
	return avg, rate, bias, nil
}

func (d *Dev) status() (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b [1]byte
	if err := d.readReg(statusReg, b[:]); err != nil {
		return 0, d.wrap(err)
	}
	return b[0], nil
}

// updateReg replaces the masked field of a register, leaving the other fields
// untouched. Registers are not bit-addressable on the wire, so this is a read
// of the full byte followed by a write of the full byte; the caller must hold
// d.mu across it.
func (d *Dev) updateReg(reg, mask, value uint8) error {
	var b [1]byte
	if err := d.readReg(reg, b[:]); err != nil {
		return d.wrap(err)
	}
	if err := d.writeReg(reg, b[0]&^mask|value); err != nil {
		return d.wrap(err)
	}
	return nil
}

func (d *Dev) readReg(reg uint8, b []byte) error {
	return d.d.Tx([]byte{reg}, b)
}

func (d *Dev) writeReg(reg uint8, val byte) error {
	return d.d.Tx([]byte{reg, val}, nil)
}

func (d *Dev) wrap(err error) error {
	return fmt.Errorf("%s: %w", d.name, err)
}

var _ conn.Resource = &Dev{}
