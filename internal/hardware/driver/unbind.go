package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// sysfsRoot is overridden in tests.
var sysfsRoot = "/sys/bus/i2c/drivers"

var busNumber = regexp.MustCompile(`(\d+)$`)

// DeviceID returns the sysfs name of an I2C client, e.g. "3-0039".
func DeviceID(bus int, addr uint16) string {
	return fmt.Sprintf("%d-%04x", bus, addr)
}

// BusNumber extracts the adapter number from a bus name such as /dev/i2c-3.
func BusNumber(name string) (int, error) {
	m := busNumber.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("no bus number in %q", name)
	}
	return strconv.Atoi(m[1])
}

// Unbind unbinds a kernel driver from a device. A driver that is not loaded
// is not an error.
func Unbind(driverName, deviceID string) error {
	unbindPath := filepath.Join(sysfsRoot, driverName, "unbind")

	file, err := os.OpenFile(unbindPath, os.O_WRONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open unbind file %s: %w", unbindPath, err)
	}
	defer file.Close()

	if _, err := file.WriteString(deviceID); err != nil {
		return fmt.Errorf("failed to write device ID to unbind file: %w", err)
	}

	return nil
}

// UnbindAPDS9960 releases the sensor on the given bus from the kernel's
// apds9960 IIO driver so it can be driven from user space.
func UnbindAPDS9960(busName string, addr uint16) error {
	bus, err := BusNumber(busName)
	if err != nil {
		return err
	}
	if err := Unbind("apds9960", DeviceID(bus, addr)); err != nil {
		return fmt.Errorf("failed to unbind apds9960: %w", err)
	}
	return nil
}
