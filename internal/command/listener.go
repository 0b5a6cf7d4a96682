package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gesture-service/internal/fsm"

	"github.com/redis/go-redis/v9"
)

// Queue is the Redis list commands are pushed to.
const Queue = "scooter:gesture"

const (
	popTimeout   = 5 * time.Second
	errorBackoff = time.Second
)

// EventSink receives parsed commands as state machine events
type EventSink interface {
	SendEvent(event fsm.Event)
}

// Listener pops commands from the gesture queue
type Listener struct {
	redis *redis.Client
	sink  EventSink
	log   *slog.Logger
}

// NewListener connects to Redis for the command queue
func NewListener(redisAddr string, sink EventSink, log *slog.Logger) (*Listener, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Listener{
		redis: rdb,
		sink:  sink,
		log:   log,
	}, nil
}

// Close closes the Redis connection
func (l *Listener) Close() error {
	return l.redis.Close()
}

// Run listens for commands on the gesture queue until ctx is cancelled
func (l *Listener) Run(ctx context.Context) {
	l.log.Info("starting command listener", "queue", Queue)

	for {
		select {
		case <-ctx.Done():
			return

		default:
			result, err := l.redis.BRPop(ctx, popTimeout, Queue).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				l.log.Error("error reading command queue", "queue", Queue, "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(errorBackoff):
				}
				continue
			}

			if len(result) >= 2 {
				l.handleCommand(result[1])
			}
		}
	}
}

// handleCommand handles a command string
func (l *Listener) handleCommand(cmd string) {
	event, err := Parse(cmd)
	if err != nil {
		l.log.Error("invalid command", "command", cmd, "error", err)
		return
	}
	l.log.Info("received command", "command", cmd, "event", event.Type())
	l.sink.SendEvent(event)
}

// Parse turns a queue command into a state machine event. Accepted commands
// are enable, disable, reset, rotation:<degrees> and threshold:<low,high,pers>.
func Parse(cmd string) (fsm.Event, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(cmd), ":")

	switch name {
	case "enable", "disable", "reset":
		if hasArg {
			return nil, fmt.Errorf("%s takes no argument", name)
		}
	}

	switch name {
	case "enable":
		return fsm.GestureModeChangedEvent{Enabled: true}, nil

	case "disable":
		return fsm.GestureModeChangedEvent{Enabled: false}, nil

	case "reset":
		return fsm.ResetRequestedEvent{}, nil

	case "rotation":
		degrees, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid rotation %q: %w", arg, err)
		}
		return fsm.RotationChangedEvent{Degrees: degrees}, nil

	case "threshold":
		values, err := fsm.ParseThreshold(arg)
		if err != nil {
			return nil, err
		}
		return fsm.ProximityThresholdChangedEvent{Values: values}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}
