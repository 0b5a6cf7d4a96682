package apds9960

// withBit returns v with the bits in mask set or cleared.
func withBit(v, mask byte, on bool) byte {
	if on {
		return v | mask
	}
	return v &^ mask
}

// field extracts the bits in mask, shifted down by pos.
func field(v, pos, mask byte) byte {
	return (v & mask) >> pos
}

// withField replaces the bits in mask with val shifted up by pos.
// Bits of val that fall outside mask are dropped.
func withField(v, pos, mask, val byte) byte {
	return (v &^ mask) | ((val << pos) & mask)
}

// The accessors below read a register and then write it back as two separate
// bus transactions. They are not atomic with respect to other bus users.

func (d *Device) getBit(reg, mask byte) (bool, error) {
	v, err := d.read8(reg)
	if err != nil {
		return false, err
	}
	return v&mask != 0, nil
}

func (d *Device) setBit(reg, mask byte, on bool) error {
	v, err := d.read8(reg)
	if err != nil {
		return err
	}
	return d.write8(reg, withBit(v, mask, on))
}

func (d *Device) getBits(reg, pos, mask byte) (byte, error) {
	v, err := d.read8(reg)
	if err != nil {
		return 0, err
	}
	return field(v, pos, mask), nil
}

func (d *Device) setBits(reg, pos, mask, val byte) error {
	v, err := d.read8(reg)
	if err != nil {
		return err
	}
	return d.write8(reg, withField(v, pos, mask, val))
}
