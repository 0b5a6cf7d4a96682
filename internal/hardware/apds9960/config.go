package apds9960

import "fmt"

const (
	defaultPersistence = 4
	maxPersistence     = 7
)

// IsEnabled reports the power-on (PON) bit.
func (d *Device) IsEnabled() (bool, error) {
	return d.getBit(REG_ENABLE, ENABLE_PON)
}

// SetEnabled powers the device on or off.
func (d *Device) SetEnabled(on bool) error {
	return d.setBit(REG_ENABLE, ENABLE_PON, on)
}

// ColorEnabled reports whether the color (ALS) engine is enabled.
func (d *Device) ColorEnabled() (bool, error) {
	return d.getBit(REG_ENABLE, ENABLE_AEN)
}

// SetColorEnabled enables or disables color detection.
func (d *Device) SetColorEnabled(on bool) error {
	return d.setBit(REG_ENABLE, ENABLE_AEN, on)
}

// ProximityEnabled reports whether proximity detection is enabled.
func (d *Device) ProximityEnabled() (bool, error) {
	return d.getBit(REG_ENABLE, ENABLE_PEN)
}

// SetProximityEnabled enables or disables proximity detection.
func (d *Device) SetProximityEnabled(on bool) error {
	return d.setBit(REG_ENABLE, ENABLE_PEN, on)
}

// ProximityInterruptEnabled reports whether the proximity interrupt is enabled.
func (d *Device) ProximityInterruptEnabled() (bool, error) {
	return d.getBit(REG_ENABLE, ENABLE_PIEN)
}

// SetProximityInterruptEnabled enables or disables the proximity interrupt.
func (d *Device) SetProximityInterruptEnabled(on bool) error {
	return d.setBit(REG_ENABLE, ENABLE_PIEN, on)
}

// GestureEnabled reports whether the gesture engine is enabled.
func (d *Device) GestureEnabled() (bool, error) {
	return d.getBit(REG_ENABLE, ENABLE_GEN)
}

// SetGestureEnabled enables or disables the gesture engine.
func (d *Device) SetGestureEnabled(on bool) error {
	return d.setBit(REG_ENABLE, ENABLE_GEN, on)
}

// GestureMode reports GCONF4.GMODE.
func (d *Device) GestureMode() (bool, error) {
	return d.getBit(REG_GCONF4, GCONF4_GMODE)
}

// SetGestureMode forces the gesture state machine on or off.
func (d *Device) SetGestureMode(on bool) error {
	return d.setBit(REG_GCONF4, GCONF4_GMODE, on)
}

func (d *Device) gestureValid() (bool, error) {
	return d.getBit(REG_GSTATUS, GSTATUS_GVALID)
}

// Rotation returns the gesture rotation offset.
func (d *Device) Rotation() Rotation {
	return d.rotation
}

// SetRotation changes the gesture rotation offset. An invalid value leaves the
// current rotation in place.
func (d *Device) SetRotation(deg int) error {
	r, err := ParseRotation(deg)
	if err != nil {
		return err
	}
	d.rotation = r
	return nil
}

// ProximityInterruptThreshold returns the low and high thresholds and the
// interrupt persistence.
func (d *Device) ProximityInterruptThreshold() (low, high, persistence uint8, err error) {
	if low, err = d.read8(REG_PILT); err != nil {
		return 0, 0, 0, err
	}
	if high, err = d.read8(REG_PIHT); err != nil {
		return 0, 0, 0, err
	}
	if persistence, err = d.getBits(REG_PERS, PERS_PPERS_SHIFT, PERS_PPERS_MASK); err != nil {
		return 0, 0, 0, err
	}
	return low, high, persistence, nil
}

// SetProximityInterruptThreshold takes up to three values: low threshold, high
// threshold and persistence. Missing thresholds are left unchanged; persistence
// defaults to 4 and is clamped to 7.
func (d *Device) SetProximityInterruptThreshold(values ...uint8) error {
	if len(values) > 3 {
		return fmt.Errorf("%w: expected at most 3 threshold values, got %d", ErrInvalidArgument, len(values))
	}

	if len(values) > 0 {
		if err := d.write8(REG_PILT, values[0]); err != nil {
			return fmt.Errorf("failed to write low threshold: %w", err)
		}
	}
	if len(values) > 1 {
		if err := d.write8(REG_PIHT, values[1]); err != nil {
			return fmt.Errorf("failed to write high threshold: %w", err)
		}
	}

	persist := uint8(defaultPersistence)
	if len(values) > 2 {
		persist = min(values[2], maxPersistence)
	}
	if err := d.setBits(REG_PERS, PERS_PPERS_SHIFT, PERS_PPERS_MASK, persist); err != nil {
		return fmt.Errorf("failed to write persistence: %w", err)
	}
	return nil
}

// ClearInterrupt clears all pending interrupts.
func (d *Device) ClearInterrupt() error {
	return d.writeCmd(REG_AICLEAR)
}
