package pm

import (
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/godbus/dbus/v5"
)

const (
	login1Dest   = "org.freedesktop.login1"
	login1Path   = dbus.ObjectPath("/org/freedesktop/login1")
	inhibitCall  = "org.freedesktop.login1.Manager.Inhibit"
	inhibitWhat  = "sleep"
	inhibitBlock = "block"
)

// Inhibitor holds a systemd-logind sleep inhibitor lock
type Inhibitor struct {
	conn       *dbus.Conn
	who        string
	log        *slog.Logger
	mu         sync.Mutex
	fd         dbus.UnixFD
	hasLock    bool
	lastReason string
}

// NewInhibitor connects to the system bus. who is the application name shown
// by systemd-inhibit --list.
func NewInhibitor(who string, log *slog.Logger) (*Inhibitor, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	return &Inhibitor{
		conn: conn,
		who:  who,
		log:  log,
	}, nil
}

// Close releases any held lock and closes the bus connection
func (i *Inhibitor) Close() error {
	if err := i.Release(); err != nil {
		return err
	}
	return i.conn.Close()
}

// Held reports whether a lock is currently held
func (i *Inhibitor) Held() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hasLock
}

// Acquire takes a sleep inhibitor lock. Acquiring again with the same reason
// is a no-op; a new reason replaces the old lock.
func (i *Inhibitor) Acquire(reason string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.hasLock && i.lastReason == reason {
		i.log.Debug("already have inhibitor lock", "reason", reason)
		return nil
	}

	call := i.conn.Object(login1Dest, login1Path).Call(inhibitCall, 0,
		inhibitWhat,
		i.who,
		reason,
		inhibitBlock)
	if call.Err != nil {
		return fmt.Errorf("failed to acquire inhibitor lock: %w", call.Err)
	}

	var newFd dbus.UnixFD
	if err := call.Store(&newFd); err != nil {
		return fmt.Errorf("failed to store inhibitor fd: %w", err)
	}

	// Drop the old lock only once the new one is held.
	if i.hasLock {
		i.closeFd()
	}

	i.fd = newFd
	i.hasLock = true
	i.lastReason = reason
	i.log.Info("acquired sleep inhibitor", "reason", reason)

	return nil
}

// Release releases the inhibitor lock
func (i *Inhibitor) Release() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.hasLock {
		return nil
	}

	i.closeFd()
	i.hasLock = false
	i.lastReason = ""
	i.log.Info("released sleep inhibitor")

	return nil
}

func (i *Inhibitor) closeFd() {
	if err := syscall.Close(int(i.fd)); err != nil {
		i.log.Warn("error closing inhibitor fd", "error", err)
	}
}
