package hardware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"gesture-service/internal/hardware/apds9960"
)

const pollInterval = 100 * time.Millisecond

// Source is the part of the sensor the poller reads from.
type Source interface {
	PollGesture(ctx context.Context) (apds9960.Gesture, error)
	ReadProximity() (uint8, error)
	ProximityInterruptPending() (bool, error)
	ReadColor() (apds9960.Color, bool, error)
}

// Publisher receives what the poller observes.
type Publisher interface {
	PublishGesture(ctx context.Context, gesture string) error
	PublishProximity(ctx context.Context, value uint8) error
	PublishColor(ctx context.Context, c apds9960.Color) error
}

// Poller watches the sensor for gestures and proximity interrupts and
// publishes periodic readings.
type Poller struct {
	source          Source
	publisher       Publisher
	irq             <-chan struct{}
	readingInterval time.Duration
	onProximity     func()
	log             *slog.Logger
	gestures        atomic.Bool
	proximity       atomic.Bool
}

// NewPoller creates a Poller. irq may be nil, in which case the proximity
// interrupt is detected from the status register on every tick. A zero
// readingInterval disables periodic readings.
func NewPoller(
	source Source,
	publisher Publisher,
	irq <-chan struct{},
	readingInterval time.Duration,
	log *slog.Logger,
) *Poller {
	return &Poller{
		source:          source,
		publisher:       publisher,
		irq:             irq,
		readingInterval: readingInterval,
		log:             log,
	}
}

// SetProximityHandler sets the callback for a detected proximity interrupt.
// Must be called before Run.
func (p *Poller) SetProximityHandler(fn func()) {
	p.onProximity = fn
}

// EnableGestures enables gesture polling
func (p *Poller) EnableGestures() {
	p.gestures.Store(true)
	p.log.Info("gesture polling enabled")
}

// DisableGestures disables gesture polling
func (p *Poller) DisableGestures() {
	p.gestures.Store(false)
	p.log.Info("gesture polling disabled")
}

// EnableProximity arms proximity interrupt handling. It disarms itself after
// each detected interrupt.
func (p *Poller) EnableProximity() {
	p.proximity.Store(true)
	p.log.Info("proximity monitoring enabled")
}

// DisableProximity disarms proximity interrupt handling
func (p *Poller) DisableProximity() {
	p.proximity.Store(false)
	p.log.Info("proximity monitoring disabled")
}

// Run starts the polling loop
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("starting sensor poller", "reading_interval", p.readingInterval, "irq", p.irq != nil)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var readings <-chan time.Time
	if p.readingInterval > 0 {
		rt := time.NewTicker(p.readingInterval)
		defer rt.Stop()
		readings = rt.C
	}

	for {
		select {
		case <-ctx.Done():
			p.log.Info("sensor poller stopped")
			return

		case <-ticker.C:
			p.poll(ctx, false)

		case <-p.irq:
			p.poll(ctx, true)

		case <-readings:
			if err := p.publishReadings(ctx); err != nil {
				p.log.Error("failed to publish readings", "error", err)
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context, irqFired bool) {
	if p.proximity.Load() {
		if err := p.checkProximity(irqFired); err != nil {
			p.log.Error("failed to check proximity interrupt", "error", err)
		}
	}

	if p.gestures.Load() {
		if err := p.checkGesture(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.log.Error("failed to poll gesture", "error", err)
		}
	}
}

// checkProximity hands a proximity interrupt to the handler
func (p *Poller) checkProximity(irqFired bool) error {
	pending := irqFired
	if !pending && p.irq == nil {
		var err error
		if pending, err = p.source.ProximityInterruptPending(); err != nil {
			return err
		}
	}
	if !pending {
		return nil
	}

	// The interrupt stays latched until the handler re-arms it.
	p.proximity.Store(false)
	p.log.Info("proximity interrupt detected")

	if p.onProximity != nil {
		p.onProximity()
	}
	return nil
}

// checkGesture runs one gesture attempt and publishes the result
func (p *Poller) checkGesture(ctx context.Context) error {
	g, err := p.source.PollGesture(ctx)
	if err != nil {
		return err
	}
	if g == apds9960.GestureNone {
		return nil
	}

	p.log.Info("gesture detected", "gesture", g.String())
	if err := p.publisher.PublishGesture(ctx, g.String()); err != nil {
		return err
	}
	return nil
}

// publishReadings publishes proximity and, when a cycle is complete, color
func (p *Poller) publishReadings(ctx context.Context) error {
	prox, err := p.source.ReadProximity()
	if err != nil {
		return fmt.Errorf("failed to read proximity: %w", err)
	}
	if err := p.publisher.PublishProximity(ctx, prox); err != nil {
		return err
	}

	c, ok, err := p.source.ReadColor()
	if err != nil {
		return fmt.Errorf("failed to read color: %w", err)
	}
	if !ok {
		return nil
	}
	return p.publisher.PublishColor(ctx, c)
}
