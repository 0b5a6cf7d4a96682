// Package i2cbus opens Linux I2C buses as register transports for the sensor drivers.
package i2cbus

import (
	"fmt"
	"io"

	"tinygo.org/x/drivers"
)

// Backends accepted by Open.
const (
	BackendDev    = "dev"
	BackendPeriph = "periph"
)

// Bus is a register transport that must be closed when done.
type Bus interface {
	drivers.I2C
	io.Closer
}

// Open opens the named bus with the given backend. For the dev backend name is a
// device path such as /dev/i2c-1; for periph it is a periph bus name or number,
// empty for the first available bus.
func Open(backend, name string) (Bus, error) {
	switch backend {
	case BackendDev, "":
		b, err := OpenDev(name)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendPeriph:
		return OpenPeriph(name)
	default:
		return nil, fmt.Errorf("unknown I2C backend %q", backend)
	}
}
