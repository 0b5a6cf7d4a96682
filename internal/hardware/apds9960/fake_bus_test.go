package apds9960

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBus)(nil)

var errBus = errors.New("bus error")

type regWrite struct {
	reg, val byte
}

// fakeBus is a register file with auto-increment reads and a scripted gesture FIFO.
type fakeBus struct {
	mu sync.Mutex

	regs     [256]byte
	writes   []regWrite
	commands []byte
	txCount  int

	// FIFO records handed out one per GFLVL read.
	fifo [][4]byte
	// repeat is returned once fifo is drained, when set.
	repeat *[4]byte
	// level overrides the reported FIFO level when non-zero.
	level byte
	// lastFIFORead is the byte count of the most recent FIFO read.
	lastFIFORead int

	// onLevel runs on every GFLVL read.
	onLevel func()
	// failReads fails reads of these registers.
	failReads map[byte]error
	// failAll fails every transaction.
	failAll error
}

func newFakeBus() *fakeBus {
	f := &fakeBus{failReads: map[byte]error{}}
	f.regs[REG_ID] = DeviceID
	return f
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.txCount++
	if f.failAll != nil {
		return f.failAll
	}
	if addr != Address {
		return errors.New("no device at address")
	}
	if len(w) == 0 {
		return errors.New("missing register pointer")
	}

	reg := w[0]
	switch {
	case len(r) > 0:
		if err, ok := f.failReads[reg]; ok {
			return err
		}
		f.read(reg, r)
	case len(w) == 1:
		f.commands = append(f.commands, reg)
	default:
		for i, v := range w[1:] {
			f.regs[reg+byte(i)] = v
			f.writes = append(f.writes, regWrite{reg + byte(i), v})
		}
	}
	return nil
}

func (f *fakeBus) read(reg byte, r []byte) {
	switch reg {
	case REG_GFLVL:
		if f.onLevel != nil {
			f.onLevel()
		}
		switch {
		case f.level != 0:
			r[0] = f.level
		case len(f.fifo) > 0 || f.repeat != nil:
			r[0] = 1
		default:
			r[0] = 0
		}
	case REG_GFIFO_U:
		f.lastFIFORead = len(r)
		for i := range r {
			r[i] = 0
		}
		var rec [4]byte
		switch {
		case len(f.fifo) > 0:
			rec = f.fifo[0]
			f.fifo = f.fifo[1:]
		case f.repeat != nil:
			rec = *f.repeat
		}
		copy(r, rec[:])
	default:
		for i := range r {
			r[i] = f.regs[reg+byte(i)]
		}
	}
}

func (f *fakeBus) pushRecords(recs ...[4]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fifo = append(f.fifo, recs...)
}

func (f *fakeBus) transactions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txCount
}

// newGestureDevice builds a device whose clock advances 30 ms per FIFO level read.
func newGestureDevice(f *fakeBus, rotation int) (*Device, *clock.Mock, error) {
	mock := clock.NewMock()
	f.onLevel = func() { mock.Add(30 * time.Millisecond) }
	f.regs[REG_GSTATUS] = GSTATUS_GVALID

	d, err := New(f, Config{
		Rotation:           rotation,
		GesturePace:        -1,
		GestureTimeout:     300 * time.Millisecond,
		GestureMaxDuration: 2 * time.Second,
		Clock:              mock,
	})
	return d, mock, err
}
