package fsm

import (
	"fmt"
	"strconv"
	"strings"
)

// Event represents an event that can trigger state transitions
type Event interface {
	Type() string
}

// InitCompleteEvent signals that the sensor is initialized
type InitCompleteEvent struct{}

func (e InitCompleteEvent) Type() string { return "init_complete" }

// GestureModeChangedEvent signals gesture sensing enabled/disabled
type GestureModeChangedEvent struct {
	Enabled bool
}

func (e GestureModeChangedEvent) Type() string { return "gesture_mode_changed" }

// VehicleStateChangedEvent signals vehicle state change
type VehicleStateChangedEvent struct {
	State VehicleState
}

func (e VehicleStateChangedEvent) Type() string { return "vehicle_state_changed" }

// RotationChangedEvent signals a new mounting rotation in degrees
type RotationChangedEvent struct {
	Degrees int
}

func (e RotationChangedEvent) Type() string { return "rotation_changed" }

// ProximityThresholdChangedEvent carries low, high and persistence
type ProximityThresholdChangedEvent struct {
	Values []uint8
}

func (e ProximityThresholdChangedEvent) Type() string { return "proximity_threshold_changed" }

// ProximityInterruptEvent signals an object within the proximity threshold
type ProximityInterruptEvent struct{}

func (e ProximityInterruptEvent) Type() string { return "proximity_interrupt" }

// ResetRequestedEvent requests a sensor reset
type ResetRequestedEvent struct{}

func (e ResetRequestedEvent) Type() string { return "reset_requested" }

// WakeHoldTimerEvent signals the wake hold-off expired
type WakeHoldTimerEvent struct{}

func (e WakeHoldTimerEvent) Type() string { return "wake_hold_timer" }

// VehicleState represents the vehicle state
type VehicleState int

const (
	VehicleStateUnknown VehicleState = iota
	VehicleStateInit
	VehicleStateStandby
	VehicleStateParked
	VehicleStateReadyToDrive
	VehicleStateWaitingSeatbox
	VehicleStateShuttingDown
	VehicleStateWaitingHibernation
)

func (s VehicleState) String() string {
	switch s {
	case VehicleStateInit:
		return "init"
	case VehicleStateStandby:
		return "stand-by"
	case VehicleStateParked:
		return "parked"
	case VehicleStateReadyToDrive:
		return "ready-to-drive"
	case VehicleStateWaitingSeatbox:
		return "waiting-seatbox"
	case VehicleStateShuttingDown:
		return "shutting-down"
	case VehicleStateWaitingHibernation:
		return "waiting-hibernation"
	default:
		return "unknown"
	}
}

// ParseVehicleState parses a string to VehicleState
func ParseVehicleState(s string) VehicleState {
	switch s {
	case "init":
		return VehicleStateInit
	case "stand-by":
		return VehicleStateStandby
	case "parked":
		return VehicleStateParked
	case "ready-to-drive":
		return VehicleStateReadyToDrive
	case "waiting-seatbox":
		return VehicleStateWaitingSeatbox
	case "shutting-down":
		return VehicleStateShuttingDown
	case "waiting-hibernation":
		return VehicleStateWaitingHibernation
	default:
		return VehicleStateUnknown
	}
}

// ParseThreshold parses "low[,high[,persistence]]" into byte values
func ParseThreshold(s string) ([]uint8, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return nil, fmt.Errorf("expected at most 3 values, got %d", len(parts))
	}

	values := make([]uint8, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold value %q: %w", part, err)
		}
		values = append(values, uint8(v))
	}
	return values, nil
}
