package i2cbus

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// i2c-dev constants
const (
	I2C_RDWR  = 0x0707
	I2C_M_RD  = 0x0001
	I2C_FUNCS = 0x0705

	I2C_FUNC_I2C = 0x00000001
)

// i2cMsg mirrors struct i2c_msg.
type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   *byte
}

// i2cRdwrIoctlData mirrors struct i2c_rdwr_ioctl_data.
type i2cRdwrIoctlData struct {
	msgs  *i2cMsg
	nmsgs uint32
}

// DevBus is an I2C adapter opened through /dev/i2c-N.
type DevBus struct {
	mu   sync.Mutex
	fd   int
	path string
}

// OpenDev opens an i2c-dev adapter and checks that it supports plain I2C transfers.
func OpenDev(path string) (*DevBus, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", path, err)
	}

	var funcs uint64
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		I2C_FUNCS,
		uintptr(unsafe.Pointer(&funcs)),
	)
	if errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to query I2C functionality of %s: %v", path, errno)
	}
	if funcs&I2C_FUNC_I2C == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("I2C bus %s does not support combined transfers", path)
	}

	return &DevBus{fd: fd, path: path}, nil
}

// Tx performs a write followed by a repeated-start read as one ioctl, so
// transactions from different callers never interleave.
func (b *DevBus) Tx(addr uint16, w, r []byte) error {
	msgs := buildMessages(addr, w, r)
	if len(msgs) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fd < 0 {
		return fmt.Errorf("I2C bus %s is closed", b.path)
	}

	data := i2cRdwrIoctlData{
		msgs:  &msgs[0],
		nmsgs: uint32(len(msgs)),
	}

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(b.fd),
		I2C_RDWR,
		uintptr(unsafe.Pointer(&data)),
	)
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	runtime.KeepAlive(msgs)

	if errno != 0 {
		return fmt.Errorf("I2C transfer to 0x%02X on %s failed: %v", addr, b.path, errno)
	}
	return nil
}

// buildMessages turns a Tx into i2c_msg segments; empty halves are skipped.
func buildMessages(addr uint16, w, r []byte) []i2cMsg {
	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, len: uint16(len(w)), buf: &w[0]})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, flags: I2C_M_RD, len: uint16(len(r)), buf: &r[0]})
	}
	return msgs
}

// String returns the device path.
func (b *DevBus) String() string {
	return b.path
}

// Close closes the adapter.
func (b *DevBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fd < 0 {
		return nil
	}
	err := unix.Close(b.fd)
	b.fd = -1
	return err
}
