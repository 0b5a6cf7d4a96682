package redis

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gesture-service/internal/fsm"

	ipc "github.com/librescoot/redis-ipc"
)

// EventSink receives state machine events
type EventSink interface {
	SendEvent(event fsm.Event)
}

// Subscriber watches the vehicle and settings hashes using HashWatcher
type Subscriber struct {
	vehicleWatcher  *ipc.HashWatcher
	settingsWatcher *ipc.HashWatcher
	log             *slog.Logger
	sink            EventSink
}

// NewSubscriber creates a new Subscriber with HashWatcher instances
func NewSubscriber(client *Client, sink EventSink, log *slog.Logger) *Subscriber {
	s := &Subscriber{
		vehicleWatcher:  client.ipc.NewHashWatcher("vehicle"),
		settingsWatcher: client.ipc.NewHashWatcher("settings"),
		log:             log,
		sink:            sink,
	}

	s.vehicleWatcher.OnField("state", s.handleVehicleState)
	s.settingsWatcher.OnField("gesture.enabled", s.handleGestureEnabled)
	s.settingsWatcher.OnField("gesture.rotation", s.handleRotation)
	s.settingsWatcher.OnField("proximity.threshold", s.handleThreshold)

	return s
}

func (s *Subscriber) handleVehicleState(stateStr string) error {
	state := fsm.ParseVehicleState(stateStr)
	s.log.Debug("vehicle state changed", "state", state.String())
	s.sink.SendEvent(fsm.VehicleStateChangedEvent{State: state})
	return nil
}

func (s *Subscriber) handleGestureEnabled(value string) error {
	enabled := value == "true"
	s.log.Debug("gesture enabled changed", "enabled", enabled)
	s.sink.SendEvent(fsm.GestureModeChangedEvent{Enabled: enabled})
	return nil
}

func (s *Subscriber) handleRotation(value string) error {
	degrees, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		s.log.Error("invalid gesture.rotation value", "value", value, "error", err)
		return nil
	}
	s.log.Debug("gesture rotation changed", "degrees", degrees)
	s.sink.SendEvent(fsm.RotationChangedEvent{Degrees: degrees})
	return nil
}

func (s *Subscriber) handleThreshold(value string) error {
	values, err := fsm.ParseThreshold(value)
	if err != nil {
		s.log.Error("invalid proximity.threshold value", "value", value, "error", err)
		return nil
	}
	s.log.Debug("proximity threshold changed", "values", values)
	s.sink.SendEvent(fsm.ProximityThresholdChangedEvent{Values: values})
	return nil
}

// Start starts all watchers with initial state sync
func (s *Subscriber) Start() error {
	s.log.Info("starting hash watchers with initial sync")

	if err := s.vehicleWatcher.StartWithSync(); err != nil {
		return fmt.Errorf("failed to start vehicle watcher: %w", err)
	}

	if err := s.settingsWatcher.StartWithSync(); err != nil {
		return fmt.Errorf("failed to start settings watcher: %w", err)
	}

	return nil
}

// Stop stops all watchers
func (s *Subscriber) Stop() {
	s.vehicleWatcher.Stop()
	s.settingsWatcher.Stop()
}
