package hardware

import (
	"fmt"
	"log/slog"

	"github.com/warthog618/go-gpiocdev"
)

// Interrupt watches the sensor's active-low INT line.
type Interrupt struct {
	line *gpiocdev.Line
	c    chan struct{}
	log  *slog.Logger
}

// OpenInterrupt requests the line as a pulled-up input with falling edge detection.
// Edges that arrive while a previous one is still pending are coalesced.
func OpenInterrupt(chip string, offset int, log *slog.Logger) (*Interrupt, error) {
	irq := &Interrupt{
		c:   make(chan struct{}, 1),
		log: log,
	}

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithConsumer("gesture-service"),
		gpiocdev.WithEventHandler(irq.handle),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request interrupt line %s:%d: %w", chip, offset, err)
	}
	irq.line = line

	log.Info("watching interrupt line", "chip", chip, "offset", offset)
	return irq, nil
}

func (i *Interrupt) handle(evt gpiocdev.LineEvent) {
	i.log.Debug("interrupt edge", "offset", evt.Offset, "seqno", evt.Seqno)
	select {
	case i.c <- struct{}{}:
	default:
	}
}

// C returns the channel that receives one value per (coalesced) interrupt.
func (i *Interrupt) C() <-chan struct{} {
	return i.c
}

// Close releases the line.
func (i *Interrupt) Close() error {
	return i.line.Close()
}
