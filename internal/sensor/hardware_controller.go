package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"
)

// Device is the sensor surface the controller drives.
type Device interface {
	SetEnabled(on bool) error
	SetColorEnabled(on bool) error
	SetProximityEnabled(on bool) error
	SetProximityInterruptEnabled(on bool) error
	SetGestureEnabled(on bool) error
	SetGestureMode(on bool) error
	SetRotation(deg int) error
	SetProximityInterruptThreshold(values ...uint8) error
	ClearInterrupt() error
}

// Poller interface for enabling/disabling gesture and proximity polling
type Poller interface {
	EnableGestures()
	DisableGestures()
	EnableProximity()
	DisableProximity()
}

// HardwareController controls the APDS-9960 directly
type HardwareController struct {
	dev      Device
	poller   Poller
	readings bool
	log      *slog.Logger
}

// NewHardwareController creates a new hardware controller. With readings set,
// the proximity and color engines are kept running for periodic readings.
func NewHardwareController(dev Device, poller Poller, readings bool, log *slog.Logger) *HardwareController {
	return &HardwareController{
		dev:      dev,
		poller:   poller,
		readings: readings,
		log:      log,
	}
}

// EnableReadings starts the engines needed for periodic readings
func (c *HardwareController) EnableReadings(ctx context.Context) error {
	if !c.readings {
		return nil
	}
	c.log.Info("enabling proximity and color engines")

	if err := c.dev.SetProximityEnabled(true); err != nil {
		return fmt.Errorf("failed to enable proximity: %w", err)
	}
	if err := c.dev.SetColorEnabled(true); err != nil {
		return fmt.Errorf("failed to enable color: %w", err)
	}
	return nil
}

// SetRotation sets the mounting rotation applied to gestures
func (c *HardwareController) SetRotation(ctx context.Context, degrees int) error {
	c.log.Info("setting rotation", "degrees", degrees)

	if err := c.dev.SetRotation(degrees); err != nil {
		return fmt.Errorf("failed to set rotation: %w", err)
	}
	return nil
}

// SetProximityThreshold sets the proximity interrupt window and persistence
func (c *HardwareController) SetProximityThreshold(ctx context.Context, values ...uint8) error {
	c.log.Info("setting proximity threshold", "values", values)

	if err := c.dev.SetProximityInterruptThreshold(values...); err != nil {
		return fmt.Errorf("failed to set proximity threshold: %w", err)
	}
	return nil
}

// EnableGestures turns on the gesture engine and gesture polling
func (c *HardwareController) EnableGestures(ctx context.Context) error {
	c.log.Info("enabling gestures")

	if err := c.dev.SetProximityEnabled(true); err != nil {
		return fmt.Errorf("failed to enable proximity: %w", err)
	}
	if err := c.dev.SetGestureEnabled(true); err != nil {
		return fmt.Errorf("failed to enable gesture engine: %w", err)
	}
	if err := c.dev.SetGestureMode(true); err != nil {
		return fmt.Errorf("failed to enter gesture mode: %w", err)
	}

	c.poller.EnableGestures()

	return nil
}

// DisableGestures turns off gesture polling and the gesture engine
func (c *HardwareController) DisableGestures(ctx context.Context) error {
	c.log.Info("disabling gestures")

	// Stop polling first so nothing reads a half-configured engine.
	c.poller.DisableGestures()

	err := multierr.Combine(
		c.dev.SetGestureMode(false),
		c.dev.SetGestureEnabled(false),
	)
	if err != nil {
		return fmt.Errorf("failed to disable gestures: %w", err)
	}
	return nil
}

// EnableProximityWake arms the proximity interrupt
func (c *HardwareController) EnableProximityWake(ctx context.Context) error {
	c.log.Info("enabling proximity wake")

	if err := c.dev.SetProximityEnabled(true); err != nil {
		return fmt.Errorf("failed to enable proximity: %w", err)
	}
	if err := c.dev.ClearInterrupt(); err != nil {
		return fmt.Errorf("failed to clear interrupt: %w", err)
	}
	if err := c.dev.SetProximityInterruptEnabled(true); err != nil {
		return fmt.Errorf("failed to enable proximity interrupt: %w", err)
	}

	c.poller.EnableProximity()

	return nil
}

// DisableProximityWake disarms the proximity interrupt
func (c *HardwareController) DisableProximityWake(ctx context.Context) error {
	c.log.Info("disabling proximity wake")

	// Always disarm the poller, even if the hardware write fails.
	c.poller.DisableProximity()

	err := multierr.Combine(
		c.dev.SetProximityInterruptEnabled(false),
		c.dev.ClearInterrupt(),
	)
	if err != nil {
		return fmt.Errorf("failed to disable proximity wake: %w", err)
	}
	return nil
}

// Reset turns every engine off, clears interrupts and power cycles the chip
func (c *HardwareController) Reset(ctx context.Context) error {
	c.log.Info("performing reset")

	c.poller.DisableGestures()
	c.poller.DisableProximity()

	err := multierr.Combine(
		c.dev.SetGestureMode(false),
		c.dev.SetGestureEnabled(false),
		c.dev.SetProximityInterruptEnabled(false),
		c.dev.SetColorEnabled(false),
		c.dev.SetProximityEnabled(false),
		c.dev.ClearInterrupt(),
		c.dev.SetEnabled(false),
		c.dev.SetEnabled(true),
	)

	time.Sleep(10 * time.Millisecond)

	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	return c.EnableReadings(ctx)
}
