package apds9960

// I2C address of the APDS-9960. The part has no alternate address.
const Address = 0x39

// Value reported by the ID register.
const DeviceID = 0xAB

// Registers
const (
	REG_ENABLE  = 0x80
	REG_ATIME   = 0x81
	REG_PILT    = 0x89
	REG_PIHT    = 0x8B
	REG_PERS    = 0x8C
	REG_CONTROL = 0x8F
	REG_ID      = 0x92
	REG_STATUS  = 0x93
	REG_CDATAL  = 0x94
	REG_RDATAL  = 0x96
	REG_GDATAL  = 0x98
	REG_BDATAL  = 0x9A
	REG_PDATA   = 0x9C
	REG_GPENTH  = 0xA0
	REG_GEXTH   = 0xA1
	REG_GCONF1  = 0xA2
	REG_GCONF2  = 0xA3
	REG_GPULSE  = 0xA6
	REG_GCONF4  = 0xAB
	REG_GFLVL   = 0xAE
	REG_GSTATUS = 0xAF
	REG_AICLEAR = 0xE7
	REG_GFIFO_U = 0xFC
)

// ENABLE register bits
const (
	ENABLE_PON  = 0x01
	ENABLE_AEN  = 0x02
	ENABLE_PEN  = 0x04
	ENABLE_PIEN = 0x20
	ENABLE_GEN  = 0x40
)

// Status and gesture bits
const (
	STATUS_AVALID  = 0x01
	STATUS_PINT    = 0x20
	GSTATUS_GVALID = 0x01
	GCONF4_GMODE   = 0x01
)

// PERS.PPERS occupies the upper nibble.
const (
	PERS_PPERS_SHIFT = 4
	PERS_PPERS_MASK  = 0xF0
)

// Gesture FIFO geometry: 32 datasets of (up, down, left, right).
const (
	fifoRecordSize = 4
	fifoSize       = 32 * fifoRecordSize
)
