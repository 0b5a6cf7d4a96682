package fsm

import "context"

// getTransition determines the next state based on current state and event
func (sm *StateMachine) getTransition(ctx context.Context, event Event) State {
	if e, ok := event.(VehicleStateChangedEvent); ok {
		sm.vehicleReady = e.State == VehicleStateReadyToDrive
	}
	if e, ok := event.(GestureModeChangedEvent); ok {
		sm.gestureEnabled = e.Enabled
	}

	switch sm.state {
	case StateInit:
		if _, ok := event.(InitCompleteEvent); ok {
			return sm.targetState()
		}

	case StateDisabled:
		if _, ok := event.(GestureModeChangedEvent); ok {
			return sm.targetState()
		}

	case StateStandby:
		switch event.(type) {
		case GestureModeChangedEvent, VehicleStateChangedEvent:
			return sm.targetState()
		case ProximityInterruptEvent:
			sm.onProximityWake(ctx)
		case WakeHoldTimerEvent:
			sm.onWakeHoldExpired(ctx)
		}

	case StateActive:
		switch event.(type) {
		case GestureModeChangedEvent, VehicleStateChangedEvent:
			return sm.targetState()
		}
	}

	return sm.state
}

// enterState handles state entry actions
func (sm *StateMachine) enterState(ctx context.Context, state State) {
	switch state {
	case StateDisabled:
		sm.onEnterDisabled(ctx)
	case StateStandby:
		sm.onEnterStandby(ctx)
	case StateActive:
		sm.onEnterActive(ctx)
	}
}

// exitState handles state exit actions
func (sm *StateMachine) exitState(ctx context.Context, state State) {
	switch state {
	case StateStandby:
		sm.onExitStandby(ctx)
	case StateActive:
		sm.onExitActive(ctx)
	}
}
