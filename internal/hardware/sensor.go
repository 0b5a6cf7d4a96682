package hardware

import (
	"context"
	"sync"

	"gesture-service/internal/hardware/apds9960"
)

// Sensor serialises access to an APDS-9960 shared by the poller, the
// controller and the command path.
type Sensor struct {
	mu  sync.Mutex
	dev *apds9960.Device
}

// NewSensor wraps an initialized device.
func NewSensor(dev *apds9960.Device) *Sensor {
	return &Sensor{dev: dev}
}

func (s *Sensor) PollGesture(ctx context.Context) (apds9960.Gesture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.PollGesture(ctx)
}

func (s *Sensor) ReadProximity() (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ReadProximity()
}

func (s *Sensor) ProximityInterruptPending() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ProximityInterruptPending()
}

// ReadColor returns the color channels and whether a complete cycle was available.
func (s *Sensor) ReadColor() (apds9960.Color, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ready, err := s.dev.ColorDataReady()
	if err != nil || !ready {
		return apds9960.Color{}, false, err
	}
	c, err := s.dev.ReadColor()
	if err != nil {
		return apds9960.Color{}, false, err
	}
	return c, true, nil
}

func (s *Sensor) SetEnabled(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetEnabled(on)
}

func (s *Sensor) SetColorEnabled(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetColorEnabled(on)
}

func (s *Sensor) SetProximityEnabled(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetProximityEnabled(on)
}

func (s *Sensor) SetProximityInterruptEnabled(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetProximityInterruptEnabled(on)
}

func (s *Sensor) SetGestureEnabled(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetGestureEnabled(on)
}

func (s *Sensor) SetGestureMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetGestureMode(on)
}

func (s *Sensor) SetRotation(deg int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetRotation(deg)
}

func (s *Sensor) SetProximityInterruptThreshold(values ...uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.SetProximityInterruptThreshold(values...)
}

func (s *Sensor) ClearInterrupt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ClearInterrupt()
}
