package apds9960

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGesture_Rotate(t *testing.T) {
	all := []Gesture{GestureUp, GestureDown, GestureLeft, GestureRight}

	for _, r := range rotations {
		seen := map[Gesture]bool{}
		for _, g := range all {
			got := g.Rotate(r)
			if got == GestureNone {
				t.Fatalf("rotation %d mapped %s to none", r, g)
			}
			seen[got] = true
			if r == Rotation0 && got != g {
				t.Errorf("rotation 0 must be identity, %s became %s", g, got)
			}
		}
		if len(seen) != len(all) {
			t.Errorf("rotation %d is not a bijection: %v", r, seen)
		}
	}

	tests := []struct {
		g    Gesture
		r    Rotation
		want Gesture
	}{
		{GestureUp, Rotation90, GestureRight},
		{GestureRight, Rotation90, GestureDown},
		{GestureDown, Rotation90, GestureLeft},
		{GestureLeft, Rotation90, GestureUp},
		{GestureUp, Rotation180, GestureDown},
		{GestureLeft, Rotation270, GestureDown},
		{GestureNone, Rotation90, GestureNone},
	}
	for _, tt := range tests {
		if got := tt.g.Rotate(tt.r); got != tt.want {
			t.Errorf("%s rotated by %d: expected %s, got %s", tt.g, tt.r, tt.want, got)
		}
	}
}

func TestGesture_CodesAndNames(t *testing.T) {
	codes := map[Gesture]int{GestureNone: 0, GestureUp: 1, GestureDown: 2, GestureLeft: 3, GestureRight: 4}
	for g, code := range codes {
		if int(g) != code {
			t.Errorf("%s: expected code %d, got %d", g, code, int(g))
		}
	}
	if GestureLeft.String() != "left" || Gesture(9).String() != "unknown" {
		t.Error("unexpected gesture names")
	}
}

func TestPollGesture_NotValid(t *testing.T) {
	bus := newFakeBus()
	d, _, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bus.regs[REG_GSTATUS] = 0

	before := bus.transactions()
	g, err := d.PollGesture(context.Background())
	if err != nil {
		t.Fatalf("PollGesture failed: %v", err)
	}
	if g != GestureNone {
		t.Errorf("expected none, got %s", g)
	}
	if got := bus.transactions() - before; got != 1 {
		t.Errorf("expected only the status read, got %d transactions", got)
	}
}

func TestPollGesture_Sequences(t *testing.T) {
	tests := []struct {
		name     string
		rotation int
		records  [][4]byte
		want     Gesture
	}{
		{
			name:    "single leading edge times out",
			records: [][4]byte{{100, 50, 10, 10}},
			want:    GestureNone,
		},
		{
			name:    "up",
			records: [][4]byte{{100, 50, 10, 10}, {50, 100, 10, 10}},
			want:    GestureUp,
		},
		{
			name:    "down",
			records: [][4]byte{{50, 100, 10, 10}, {100, 50, 10, 10}},
			want:    GestureDown,
		},
		{
			name:    "left",
			records: [][4]byte{{10, 10, 100, 50}, {10, 10, 50, 100}},
			want:    GestureLeft,
		},
		{
			name:    "right",
			records: [][4]byte{{10, 10, 50, 100}, {10, 10, 100, 50}},
			want:    GestureRight,
		},
		{
			name:    "repeated leading edges then trailing edge",
			records: [][4]byte{{100, 50, 10, 10}, {120, 60, 10, 10}, {50, 100, 10, 10}},
			want:    GestureUp,
		},
		{
			name:    "differences at the noise floor are ignored",
			records: [][4]byte{{63, 50, 10, 10}, {50, 63, 10, 10}},
			want:    GestureNone,
		},
		{
			name:     "rotated up",
			rotation: 90,
			records:  [][4]byte{{100, 50, 10, 10}, {50, 100, 10, 10}},
			want:     GestureRight,
		},
		{
			name:    "horizontal result overrides vertical in one record",
			records: [][4]byte{{100, 50, 10, 50}, {50, 100, 50, 10}},
			want:    GestureRight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			d, _, err := newGestureDevice(bus, tt.rotation)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			bus.pushRecords(tt.records...)

			g, err := d.PollGesture(context.Background())
			if err != nil {
				t.Fatalf("PollGesture failed: %v", err)
			}
			if g != tt.want {
				t.Errorf("expected %s, got %s", tt.want, g)
			}
			if !d.tracker.idle() {
				t.Errorf("expected counters reset, got %+v", d.tracker)
			}
		})
	}
}

func TestPollGesture_TimeoutFromValidMark(t *testing.T) {
	bus := newFakeBus()
	d, mock, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	start := mock.Now()
	g, err := d.PollGesture(context.Background())
	if err != nil {
		t.Fatalf("PollGesture failed: %v", err)
	}
	if g != GestureNone {
		t.Errorf("expected none, got %s", g)
	}

	elapsed := mock.Now().Sub(start)
	if elapsed <= 300*time.Millisecond || elapsed > 400*time.Millisecond {
		t.Errorf("expected the attempt to end just after 300ms without edges, took %v", elapsed)
	}
}

func TestPollGesture_MaxDuration(t *testing.T) {
	bus := newFakeBus()
	d, mock, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// A hand held over the top photodiode keeps producing leading edges.
	bus.repeat = &[4]byte{100, 50, 10, 10}

	start := mock.Now()
	g, err := d.PollGesture(context.Background())
	if err != nil {
		t.Fatalf("PollGesture failed: %v", err)
	}
	if g != GestureNone {
		t.Errorf("expected none, got %s", g)
	}

	elapsed := mock.Now().Sub(start)
	if elapsed <= 2*time.Second || elapsed > 2100*time.Millisecond {
		t.Errorf("expected the attempt to be bounded at 2s, took %v", elapsed)
	}
	if !d.tracker.idle() {
		t.Errorf("expected counters reset, got %+v", d.tracker)
	}
}

func TestPollGesture_CountersDoNotLeak(t *testing.T) {
	bus := newFakeBus()
	d, _, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// A leading up edge that times out must not complete a later down edge.
	bus.pushRecords([4]byte{100, 50, 10, 10})
	if g, err := d.PollGesture(context.Background()); err != nil || g != GestureNone {
		t.Fatalf("expected none, got %s (err %v)", g, err)
	}

	bus.pushRecords([4]byte{50, 100, 10, 10})
	if g, err := d.PollGesture(context.Background()); err != nil || g != GestureNone {
		t.Fatalf("expected none on second attempt, got %s (err %v)", g, err)
	}
}

func TestPollGesture_FIFOReadCapped(t *testing.T) {
	bus := newFakeBus()
	d, _, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bus.level = 40
	bus.pushRecords([4]byte{100, 50, 10, 10}, [4]byte{50, 100, 10, 10})

	g, err := d.PollGesture(context.Background())
	if err != nil {
		t.Fatalf("PollGesture failed: %v", err)
	}
	if g != GestureUp {
		t.Errorf("expected up, got %s", g)
	}
	if bus.lastFIFORead != 128 {
		t.Errorf("expected FIFO read capped at 128 bytes, got %d", bus.lastFIFORead)
	}
}

func TestPollGesture_TransportErrorAborts(t *testing.T) {
	bus := newFakeBus()
	d, _, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bus.pushRecords([4]byte{100, 50, 10, 10})
	bus.failReads[REG_GFIFO_U] = errBus

	g, err := d.PollGesture(context.Background())
	if !errors.Is(err, errBus) {
		t.Fatalf("expected bus error, got %v", err)
	}
	if g != GestureNone {
		t.Errorf("expected none on error, got %s", g)
	}
	if !d.tracker.idle() {
		t.Errorf("expected counters reset, got %+v", d.tracker)
	}
}

func TestPollGesture_StatusError(t *testing.T) {
	bus := newFakeBus()
	d, _, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bus.failReads[REG_GSTATUS] = errBus

	if _, err := d.PollGesture(context.Background()); !errors.Is(err, errBus) {
		t.Fatalf("expected bus error, got %v", err)
	}
}

func TestPollGesture_Cancelled(t *testing.T) {
	bus := newFakeBus()
	d, _, err := newGestureDevice(bus, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bus.repeat = &[4]byte{100, 50, 10, 10}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := d.PollGesture(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if g != GestureNone {
		t.Errorf("expected none, got %s", g)
	}
}

func TestPollGesture_PacedWithRealClock(t *testing.T) {
	bus := newFakeBus()
	bus.regs[REG_GSTATUS] = GSTATUS_GVALID
	d, err := New(bus, Config{GestureTimeout: 60 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bus.pushRecords([4]byte{100, 50, 10, 10}, [4]byte{50, 100, 10, 10})

	start := time.Now()
	g, err := d.PollGesture(context.Background())
	if err != nil {
		t.Fatalf("PollGesture failed: %v", err)
	}
	if g != GestureUp {
		t.Errorf("expected up, got %s", g)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("expected two 30ms waits, took %v", elapsed)
	}
}
