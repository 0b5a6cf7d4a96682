package apds9960

// ColorDataReady reports whether a complete color integration cycle is available.
func (d *Device) ColorDataReady() (bool, error) {
	return d.getBit(REG_STATUS, STATUS_AVALID)
}

// ReadColor reads the raw red, green, blue and clear channels. Callers should
// check ColorDataReady first to avoid mixing two integration cycles.
func (d *Device) ReadColor() (Color, error) {
	var c Color
	var err error

	if c.Red, err = d.read16(REG_RDATAL); err != nil {
		return Color{}, err
	}
	if c.Green, err = d.read16(REG_GDATAL); err != nil {
		return Color{}, err
	}
	if c.Blue, err = d.read16(REG_BDATAL); err != nil {
		return Color{}, err
	}
	if c.Clear, err = d.read16(REG_CDATAL); err != nil {
		return Color{}, err
	}
	return c, nil
}

// ProximityInterruptPending reports whether the proximity interrupt is latched.
func (d *Device) ProximityInterruptPending() (bool, error) {
	return d.getBit(REG_STATUS, STATUS_PINT)
}

// ReadProximity returns the proximity count, 0-255.
func (d *Device) ReadProximity() (uint8, error) {
	return d.read8(REG_PDATA)
}
