package fsm

import (
	"context"
)

// onEnterDisabled handles entry to disabled state
func (sm *StateMachine) onEnterDisabled(ctx context.Context) {
	sm.log.Info("entering disabled state")

	if err := sm.sensor.DisableGestures(ctx); err != nil {
		sm.log.Error("failed to disable gestures", "error", err)
	}

	if err := sm.sensor.DisableProximityWake(ctx); err != nil {
		sm.log.Error("failed to disable proximity wake", "error", err)
	}

	if err := sm.inhibitor.Release(); err != nil {
		sm.log.Error("failed to release inhibitor", "error", err)
	}
}

// onEnterStandby handles entry to standby state
func (sm *StateMachine) onEnterStandby(ctx context.Context) {
	sm.log.Info("entering standby state")

	if err := sm.sensor.DisableGestures(ctx); err != nil {
		sm.log.Error("failed to disable gestures", "error", err)
	}

	if err := sm.sensor.EnableProximityWake(ctx); err != nil {
		sm.log.Error("failed to enable proximity wake", "error", err)
	}

	if err := sm.inhibitor.Release(); err != nil {
		sm.log.Error("failed to release inhibitor", "error", err)
	}
}

// onExitStandby handles exit from standby state
func (sm *StateMachine) onExitStandby(ctx context.Context) {
	sm.stopTimer("wake_hold")
}

// onProximityWake publishes a wake request and holds off re-arming
func (sm *StateMachine) onProximityWake(ctx context.Context) {
	sm.log.Info("proximity wake", "hold", wakeHold)

	if err := sm.publisher.PublishWake(ctx); err != nil {
		sm.log.Error("failed to publish wake", "error", err)
	}

	sm.startTimer("wake_hold", wakeHold, func() {
		sm.SendEvent(WakeHoldTimerEvent{})
	})
}

// onWakeHoldExpired re-arms the proximity interrupt
func (sm *StateMachine) onWakeHoldExpired(ctx context.Context) {
	delete(sm.timers, "wake_hold")

	if err := sm.sensor.EnableProximityWake(ctx); err != nil {
		sm.log.Error("failed to re-arm proximity wake", "error", err)
	}
}

// onEnterActive handles entry to active state
func (sm *StateMachine) onEnterActive(ctx context.Context) {
	sm.log.Info("entering active state")

	if err := sm.inhibitor.Acquire("Gesture sensing"); err != nil {
		sm.log.Error("failed to acquire inhibitor", "error", err)
	}

	if err := sm.sensor.DisableProximityWake(ctx); err != nil {
		sm.log.Error("failed to disable proximity wake", "error", err)
	}

	if err := sm.sensor.EnableGestures(ctx); err != nil {
		sm.log.Error("failed to enable gestures", "error", err)
	}
}

// onExitActive handles exit from active state
func (sm *StateMachine) onExitActive(ctx context.Context) {
	if err := sm.sensor.DisableGestures(ctx); err != nil {
		sm.log.Error("failed to disable gestures", "error", err)
	}
}
