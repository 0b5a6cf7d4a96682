// Package apds9960 drives the APDS-9960 color, proximity and gesture sensor.
//
// The Device owns fixed scratch buffers and the gesture accumulation state, so a
// Device must not be used from more than one goroutine at a time.
package apds9960

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"
	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrDeviceNotFound  = errors.New("apds9960: device not found")
	ErrInvalidArgument = errors.New("apds9960: invalid argument")
)

const powerOnDelay = 10 * time.Millisecond

// Rotation is the mounting rotation of the sensor in degrees.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

var rotations = []Rotation{Rotation0, Rotation90, Rotation180, Rotation270}

// ParseRotation validates a rotation given in degrees.
func ParseRotation(deg int) (Rotation, error) {
	r := Rotation(deg)
	if !lo.Contains(rotations, r) {
		return Rotation0, fmt.Errorf("%w: rotation must be one of 0, 90, 180, 270, got %d", ErrInvalidArgument, deg)
	}
	return r, nil
}

// Config controls device setup and gesture timing.
type Config struct {
	// Rotation in degrees, one of 0, 90, 180, 270.
	Rotation int
	// Reset restores a register baseline and powers the device on.
	Reset bool
	// SetDefaults applies operating parameters suitable for gesture sensing.
	SetDefaults bool

	// GesturePace is the wait between FIFO reads. Default 30 ms; negative disables it.
	GesturePace time.Duration
	// GestureTimeout ends an attempt when no edge was seen for this long. Default 300 ms.
	GestureTimeout time.Duration
	// GestureMaxDuration bounds a whole attempt, however often edges arrive. Default 2 s.
	GestureMaxDuration time.Duration

	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// DefaultConfig resets the device and applies defaults.
func DefaultConfig() Config {
	return Config{
		Reset:              true,
		SetDefaults:        true,
		GesturePace:        30 * time.Millisecond,
		GestureTimeout:     300 * time.Millisecond,
		GestureMaxDuration: 2 * time.Second,
	}
}

// Color holds raw channel counts.
type Color struct {
	Red   uint16
	Green uint16
	Blue  uint16
	Clear uint16
}

// Device represents an APDS-9960 on an I2C bus.
type Device struct {
	bus      drivers.I2C
	clock    clock.Clock
	rotation Rotation

	pace        time.Duration
	edgeTimeout time.Duration
	maxDuration time.Duration

	tracker edgeTracker

	// Fixed buffers to avoid per-call heap allocations.
	w    [2]byte
	r    [2]byte
	fifo [fifoSize]byte
}

// New verifies the device identity and optionally resets and configures it.
func New(bus drivers.I2C, cfg Config) (*Device, error) {
	rot, err := ParseRotation(cfg.Rotation)
	if err != nil {
		return nil, err
	}

	d := &Device{
		bus:         bus,
		clock:       cfg.Clock,
		rotation:    rot,
		pace:        cfg.GesturePace,
		edgeTimeout: cfg.GestureTimeout,
		maxDuration: cfg.GestureMaxDuration,
	}
	if d.clock == nil {
		d.clock = clock.New()
	}
	if d.pace == 0 {
		d.pace = 30 * time.Millisecond
	}
	if d.edgeTimeout <= 0 {
		d.edgeTimeout = 300 * time.Millisecond
	}
	if d.maxDuration <= 0 {
		d.maxDuration = 2 * time.Second
	}

	id, err := d.read8(REG_ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read device ID: %w", err)
	}
	if id != DeviceID {
		return nil, fmt.Errorf("%w: ID 0x%02X (expected 0x%02X)", ErrDeviceNotFound, id, DeviceID)
	}

	if cfg.Reset {
		if err := d.reset(); err != nil {
			return nil, fmt.Errorf("failed to reset device: %w", err)
		}
	}

	if cfg.SetDefaults {
		if err := d.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to apply defaults: %w", err)
		}
	}

	d.tracker.reset()
	return d, nil
}

// reset disables all functions, restores the power-on baseline and enables the device.
func (d *Device) reset() error {
	if err := d.write8(REG_ENABLE, 0); err != nil {
		return err
	}

	baseline := []struct{ reg, val byte }{
		{REG_ATIME, 255},
		{REG_PIHT, 0},
		{REG_PERS, 0},
		{REG_CONTROL, 1},
		{REG_GPENTH, 0},
		{REG_GEXTH, 0},
		{REG_GCONF1, 0},
		{REG_GCONF2, 0},
		{REG_GPULSE, 0},
	}
	for _, b := range baseline {
		if err := d.write8(b.reg, b.val); err != nil {
			return err
		}
	}

	if err := d.ClearInterrupt(); err != nil {
		return err
	}
	if err := d.SetEnabled(true); err != nil {
		return err
	}

	time.Sleep(powerOnDelay)
	return nil
}

func (d *Device) setDefaults() error {
	// Trigger PINT at >= 5 after 4 cycles.
	if err := d.SetProximityInterruptThreshold(0, 5, 4); err != nil {
		return err
	}

	defaults := []struct{ reg, val byte }{
		{REG_GPENTH, 0x05},  // enter gesture engine at >= 5 counts
		{REG_GEXTH, 0x1E},   // exit when all counts drop below 30
		{REG_GCONF1, 0x82},  // GEXPERS 4 cycles, GFIFOTH 8 datasets
		{REG_GCONF2, 0x21},  // GWTIME 2.8 ms, GLDRIVE 100 mA, GGAIN 2x
		{REG_GPULSE, 0x85},  // 6 pulses of 16 us
		{REG_ATIME, 0xB6},   // 200 ms color integration
		{REG_CONTROL, 0x01}, // AGAIN 4x, PGAIN 1x
	}
	for _, b := range defaults {
		if err := d.write8(b.reg, b.val); err != nil {
			return err
		}
	}
	return nil
}

// I2C register operations.

func (d *Device) read8(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.bus.Tx(Address, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

// read16 reads two consecutive registers, low byte first.
func (d *Device) read16(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(Address, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0]) | uint16(d.r[1])<<8, nil
}

func (d *Device) write8(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.bus.Tx(Address, d.w[:2], nil)
}

// writeCmd addresses a register without a data byte.
func (d *Device) writeCmd(reg byte) error {
	d.w[0] = reg
	return d.bus.Tx(Address, d.w[:1], nil)
}
