package fsm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// State represents a gesture service state
type State int

const (
	StateInit State = iota
	StateDisabled
	StateStandby
	StateActive
)

func (s State) String() string {
	return []string{
		"init",
		"disabled",
		"standby",
		"active",
	}[s]
}

// wakeHold is how long a proximity wake stays latched before re-arming.
const wakeHold = time.Second

// StateMachine implements the gesture service FSM
type StateMachine struct {
	mu     sync.RWMutex
	state  State
	events chan Event
	log    *slog.Logger
	clock  clock.Clock

	sensor    SensorClient
	publisher StatusPublisher
	inhibitor SuspendInhibitor

	timers         map[string]*clock.Timer
	gestureEnabled bool
	vehicleReady   bool
	rotation       int
}

// SensorClient interface for sensor commands
type SensorClient interface {
	SetRotation(ctx context.Context, degrees int) error
	SetProximityThreshold(ctx context.Context, values ...uint8) error
	EnableGestures(ctx context.Context) error
	DisableGestures(ctx context.Context) error
	EnableProximityWake(ctx context.Context) error
	DisableProximityWake(ctx context.Context) error
	Reset(ctx context.Context) error
}

// StatusPublisher interface for publishing service status
type StatusPublisher interface {
	PublishStatus(ctx context.Context, status string) error
	PublishRotation(ctx context.Context, degrees int) error
	PublishWake(ctx context.Context) error
}

// SuspendInhibitor interface for managing wake locks
type SuspendInhibitor interface {
	Acquire(reason string) error
	Release() error
}

// New creates a new StateMachine. rotation is the mounting rotation the
// sensor was initialized with.
func New(
	sensor SensorClient,
	pub StatusPublisher,
	inh SuspendInhibitor,
	rotation int,
	log *slog.Logger,
) *StateMachine {
	return &StateMachine{
		state:     StateInit,
		events:    make(chan Event, 100),
		log:       log,
		clock:     clock.New(),
		sensor:    sensor,
		publisher: pub,
		inhibitor: inh,
		timers:    make(map[string]*clock.Timer),
		rotation:  rotation,
	}
}

// Run runs the state machine event loop
func (sm *StateMachine) Run(ctx context.Context) {
	sm.log.Info("starting state machine")

	for {
		select {
		case event := <-sm.events:
			sm.handleEvent(ctx, event)

		case <-ctx.Done():
			sm.log.Info("state machine stopped")
			sm.mu.Lock()
			sm.cleanupTimers()
			sm.mu.Unlock()
			return
		}
	}
}

// SendEvent sends an event to the state machine
func (sm *StateMachine) SendEvent(event Event) {
	select {
	case sm.events <- event:
	default:
		sm.log.Warn("event queue full, dropping event", "type", event.Type())
	}
}

// ProximityInterrupt implements the poller's proximity callback
func (sm *StateMachine) ProximityInterrupt() { sm.SendEvent(ProximityInterruptEvent{}) }

// State returns the current state
func (sm *StateMachine) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.state
}

// handleEvent processes an event
func (sm *StateMachine) handleEvent(ctx context.Context, event Event) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	switch e := event.(type) {
	case RotationChangedEvent:
		sm.applyRotation(ctx, e.Degrees)
		return

	case ProximityThresholdChangedEvent:
		if err := sm.sensor.SetProximityThreshold(ctx, e.Values...); err != nil {
			sm.log.Error("failed to set proximity threshold", "values", e.Values, "error", err)
			return
		}
		sm.log.Info("proximity threshold updated", "values", e.Values)
		return

	case ResetRequestedEvent:
		sm.resetSensor(ctx)
		return
	}

	oldState := sm.state
	sm.log.Debug("handling event",
		"event", event.Type(),
		"state", oldState.String())

	newState := sm.getTransition(ctx, event)

	if newState != oldState {
		sm.exitState(ctx, oldState)
		sm.state = newState
		sm.log.Info("state transition",
			"from", oldState.String(),
			"to", newState.String(),
			"event", event.Type())
		sm.enterState(ctx, newState)
		sm.publishCurrentStatus(ctx)
	}
}

// applyRotation updates the mounting rotation; invalid values keep the old one
func (sm *StateMachine) applyRotation(ctx context.Context, degrees int) {
	if degrees == sm.rotation {
		return
	}
	if err := sm.sensor.SetRotation(ctx, degrees); err != nil {
		sm.log.Error("failed to set rotation", "degrees", degrees, "error", err)
		return
	}
	sm.rotation = degrees
	sm.log.Info("rotation updated", "degrees", degrees)

	if err := sm.publisher.PublishRotation(ctx, degrees); err != nil {
		sm.log.Error("failed to publish rotation", "error", err)
	}
}

// resetSensor resets the chip and restores the current state's configuration
func (sm *StateMachine) resetSensor(ctx context.Context) {
	sm.log.Info("resetting sensor", "state", sm.state.String())
	if err := sm.sensor.Reset(ctx); err != nil {
		sm.log.Error("failed to reset sensor", "error", err)
	}
	if sm.state != StateInit {
		sm.exitState(ctx, sm.state)
		sm.enterState(ctx, sm.state)
	}
}

// targetState is where the service belongs given the current inputs
func (sm *StateMachine) targetState() State {
	if !sm.gestureEnabled {
		return StateDisabled
	}
	if sm.vehicleReady {
		return StateActive
	}
	return StateStandby
}

// publishCurrentStatus publishes the current status
func (sm *StateMachine) publishCurrentStatus(ctx context.Context) {
	if err := sm.publisher.PublishStatus(ctx, sm.state.String()); err != nil {
		sm.log.Error("failed to publish status", "error", err)
	}
}

// startTimer starts a timer
func (sm *StateMachine) startTimer(name string, duration time.Duration, callback func()) {
	sm.stopTimer(name)

	timer := sm.clock.AfterFunc(duration, func() {
		if callback != nil {
			callback()
		}
	})

	sm.timers[name] = timer
	sm.log.Debug("started timer", "name", name, "duration", duration)
}

// stopTimer stops a timer
func (sm *StateMachine) stopTimer(name string) {
	if timer, ok := sm.timers[name]; ok {
		timer.Stop()
		delete(sm.timers, name)
		sm.log.Debug("stopped timer", "name", name)
	}
}

// cleanupTimers stops all timers
func (sm *StateMachine) cleanupTimers() {
	for name := range sm.timers {
		sm.stopTimer(name)
	}
}
