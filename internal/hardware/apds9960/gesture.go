package apds9960

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Gesture is a classified swipe direction.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureUp
	GestureDown
	GestureLeft
	GestureRight
)

func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureUp:
		return "up"
	case GestureDown:
		return "down"
	case GestureLeft:
		return "left"
	case GestureRight:
		return "right"
	default:
		return "unknown"
	}
}

// Differences at or below this many counts are treated as noise.
const noiseFloor = 13

// Clockwise order used to apply the mounting rotation.
var rotationOrder = []Gesture{GestureUp, GestureRight, GestureDown, GestureLeft}

// Rotate maps a gesture seen by a sensor mounted at r onto the caller's frame.
func (g Gesture) Rotate(r Rotation) Gesture {
	if g == GestureNone || r == Rotation0 {
		return g
	}
	i := lo.IndexOf(rotationOrder, g)
	if i < 0 {
		return g
	}
	return rotationOrder[(i+int(r)/90)%len(rotationOrder)]
}

type sample struct {
	up, down, left, right int
}

// edgeTracker counts leading edges per direction. A swipe is recognised once
// the trailing edge in the opposite sense arrives.
type edgeTracker struct {
	sawUpStart    int
	sawDownStart  int
	sawLeftStart  int
	sawRightStart int
}

func (t *edgeTracker) reset() {
	*t = edgeTracker{}
}

func (t *edgeTracker) idle() bool {
	return *t == edgeTracker{}
}

// observe feeds one FIFO record and reports a classified gesture, if any, and
// whether the record contained an edge.
func (t *edgeTracker) observe(s sample) (Gesture, bool) {
	upDown := s.up - s.down
	if abs(upDown) <= noiseFloor {
		upDown = 0
	}
	leftRight := s.left - s.right
	if abs(leftRight) <= noiseFloor {
		leftRight = 0
	}

	g := GestureNone

	switch {
	case upDown < 0:
		// leading edge of down, or trailing edge of up
		if t.sawUpStart > 0 {
			g = GestureUp
		} else {
			t.sawDownStart++
		}
	case upDown > 0:
		// leading edge of up, or trailing edge of down
		if t.sawDownStart > 0 {
			g = GestureDown
		} else {
			t.sawUpStart++
		}
	}

	switch {
	case leftRight < 0:
		// leading edge of right, or trailing edge of left
		if t.sawLeftStart > 0 {
			g = GestureLeft
		} else {
			t.sawRightStart++
		}
	case leftRight > 0:
		// leading edge of left, or trailing edge of right
		if t.sawRightStart > 0 {
			g = GestureRight
		} else {
			t.sawLeftStart++
		}
	}

	return g, upDown != 0 || leftRight != 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PollGesture returns GestureNone straight away unless the sensor flags gesture
// data as valid. Otherwise it samples the FIFO until a swipe is classified, no
// edge was seen for the gesture timeout, the attempt exceeds its maximum
// duration, or ctx is done. The result is adjusted for the device rotation.
func (d *Device) PollGesture(ctx context.Context) (Gesture, error) {
	valid, err := d.gestureValid()
	if err != nil {
		return GestureNone, fmt.Errorf("failed to read gesture status: %w", err)
	}
	if !valid {
		return GestureNone, nil
	}

	defer d.tracker.reset()

	start := d.clock.Now()
	mark := start

	for {
		if d.pace > 0 {
			select {
			case <-ctx.Done():
				return GestureNone, ctx.Err()
			case <-d.clock.After(d.pace):
			}
		} else if err := ctx.Err(); err != nil {
			return GestureNone, err
		}

		s, ok, err := d.readFIFO()
		if err != nil {
			return GestureNone, err
		}

		if ok {
			g, edge := d.tracker.observe(s)
			if edge {
				mark = d.clock.Now()
			}
			if g != GestureNone {
				return g.Rotate(d.rotation), nil
			}
		}

		now := d.clock.Now()
		if now.Sub(mark) > d.edgeTimeout || now.Sub(start) > d.maxDuration {
			return GestureNone, nil
		}
	}
}

// readFIFO drains the available datasets and returns the first one.
func (d *Device) readFIFO() (sample, bool, error) {
	n, err := d.read8(REG_GFLVL)
	if err != nil {
		return sample{}, false, fmt.Errorf("failed to read gesture FIFO level: %w", err)
	}
	if n == 0 {
		return sample{}, false, nil
	}

	size := min(int(n)*fifoRecordSize, fifoSize)
	d.w[0] = REG_GFIFO_U
	if err := d.bus.Tx(Address, d.w[:1], d.fifo[:size]); err != nil {
		return sample{}, false, fmt.Errorf("failed to read gesture FIFO: %w", err)
	}

	return sample{
		up:    int(d.fifo[0]),
		down:  int(d.fifo[1]),
		left:  int(d.fifo[2]),
		right: int(d.fifo[3]),
	}, true, nil
}
