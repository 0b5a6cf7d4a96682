package i2cbus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// OpenPeriph opens a bus through the periph.io host drivers. The periph bus
// already exposes Tx with the transport signature.
func OpenPeriph(name string) (Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open periph I2C bus %q: %w", name, err)
	}
	return bus, nil
}
