package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gesture-service/internal/hardware/apds9960"

	ipc "github.com/librescoot/redis-ipc"
)

// Hash and channel names
const (
	SensorHash     = "apds9960"
	GestureChannel = "apds9960:gesture"
	WakeChannel    = "apds9960:wake"
)

// Publisher publishes sensor state to the apds9960 hash and event channels
type Publisher struct {
	sensorPub *ipc.HashPublisher
	ipc       *ipc.Client
}

// NewPublisher creates a new Publisher
func NewPublisher(client *Client) *Publisher {
	return &Publisher{
		sensorPub: client.ipc.NewHashPublisher(SensorHash),
		ipc:       client.ipc,
	}
}

// PublishStatus publishes the service status
func (p *Publisher) PublishStatus(ctx context.Context, status string) error {
	if err := p.sensorPub.Set("status", status); err != nil {
		return fmt.Errorf("failed to publish status: %w", err)
	}
	return nil
}

// PublishInitialized marks the sensor as initialized
func (p *Publisher) PublishInitialized(ctx context.Context) error {
	if err := p.sensorPub.Set("initialized", "true"); err != nil {
		return fmt.Errorf("failed to publish initialized: %w", err)
	}
	return nil
}

// PublishRotation publishes the active mounting rotation
func (p *Publisher) PublishRotation(ctx context.Context, degrees int) error {
	if err := p.sensorPub.Set("rotation", strconv.Itoa(degrees)); err != nil {
		return fmt.Errorf("failed to publish rotation: %w", err)
	}
	return nil
}

// PublishGesture records the last gesture and announces it on the gesture channel
func (p *Publisher) PublishGesture(ctx context.Context, gesture string) error {
	if err := p.sensorPub.Set("gesture", gesture); err != nil {
		return fmt.Errorf("failed to publish gesture: %w", err)
	}
	if _, err := p.ipc.Publish(GestureChannel, gesture); err != nil {
		return fmt.Errorf("failed to announce gesture: %w", err)
	}
	return nil
}

// PublishProximity publishes the last proximity reading
func (p *Publisher) PublishProximity(ctx context.Context, value uint8) error {
	if err := p.sensorPub.Set("proximity", strconv.Itoa(int(value))); err != nil {
		return fmt.Errorf("failed to publish proximity: %w", err)
	}
	return nil
}

// PublishColor publishes the last color reading
func (p *Publisher) PublishColor(ctx context.Context, c apds9960.Color) error {
	fields := []struct {
		name  string
		value uint16
	}{
		{"color:red", c.Red},
		{"color:green", c.Green},
		{"color:blue", c.Blue},
		{"color:clear", c.Clear},
	}
	for _, f := range fields {
		if err := p.sensorPub.Set(f.name, strconv.Itoa(int(f.value))); err != nil {
			return fmt.Errorf("failed to publish %s: %w", f.name, err)
		}
	}
	return nil
}

// PublishWake announces a proximity wake with a millisecond timestamp
func (p *Publisher) PublishWake(ctx context.Context) error {
	payload := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if _, err := p.ipc.Publish(WakeChannel, payload); err != nil {
		return fmt.Errorf("failed to publish wake: %w", err)
	}
	return nil
}
