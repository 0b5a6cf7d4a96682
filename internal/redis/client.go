package redis

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	ipc "github.com/librescoot/redis-ipc"
)

const defaultPort = 6379

// Client wraps redis-ipc client
type Client struct {
	ipc *ipc.Client
	log *slog.Logger
}

// splitAddr parses host[:port], falling back to localhost:6379
func splitAddr(addr string) (string, int) {
	if addr == "" {
		return "localhost", defaultPort
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, defaultPort
	}
	if host == "" {
		host = "localhost"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}

// NewClient creates a new Redis client using redis-ipc
func NewClient(addr string, log *slog.Logger) (*Client, error) {
	host, port := splitAddr(addr)

	client, err := ipc.New(
		ipc.WithAddress(host),
		ipc.WithPort(port),
		ipc.WithCodec(ipc.StringCodec{}),
		ipc.WithOnDisconnect(func(err error) {
			if err != nil {
				log.Warn("Redis disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis-ipc client: %w", err)
	}

	return &Client{
		ipc: client,
		log: log,
	}, nil
}

// Connect verifies the connection to Redis
func (c *Client) Connect(ctx context.Context) error {
	if !c.ipc.Connected() {
		return fmt.Errorf("not connected to Redis")
	}
	c.log.Info("connected to Redis")
	return nil
}

// SetSetting writes a field of the settings hash and notifies watchers
func (c *Client) SetSetting(ctx context.Context, field, value string) error {
	if err := c.ipc.NewHashPublisher("settings").Set(field, value); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", field, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.ipc.Close()
}
