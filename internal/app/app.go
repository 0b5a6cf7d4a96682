package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"gesture-service/internal/command"
	"gesture-service/internal/fsm"
	"gesture-service/internal/hardware"
	"gesture-service/internal/hardware/apds9960"
	"gesture-service/internal/hardware/driver"
	"gesture-service/internal/hardware/i2cbus"
	"gesture-service/internal/pm"
	"gesture-service/internal/redis"
	"gesture-service/internal/sensor"

	"go.uber.org/multierr"
)

// Config holds application configuration
type Config struct {
	I2CBus                string
	I2CBackend            string
	Unbind                bool
	GPIOChip              string
	GPIOLine              int
	Rotation              int
	Reset                 bool
	SetDefaults           bool
	RedisAddr             string
	Logger                *slog.Logger
	GestureEnabled        bool
	GestureEnabledFlagSet bool
	ReadingInterval       time.Duration
}

// App represents the gesture-service application
type App struct {
	cfg     *Config
	log     *slog.Logger
	closers []io.Closer

	redis        *redis.Client
	publisher    *redis.Publisher
	subscriber   *redis.Subscriber
	sensor       *hardware.Sensor
	poller       *hardware.Poller
	controller   *sensor.HardwareController
	inhibitor    *pm.Inhibitor
	stateMachine *fsm.StateMachine
	listener     *command.Listener
}

// New creates a new App
func New(cfg *Config) *App {
	return &App{
		cfg: cfg,
		log: cfg.Logger,
	}
}

// Run runs the application until ctx is cancelled
func (a *App) Run(ctx context.Context) (err error) {
	a.log.Info("starting gesture-service",
		"i2c_bus", a.cfg.I2CBus,
		"redis_addr", a.cfg.RedisAddr)

	defer func() {
		err = multierr.Append(err, a.closeAll())
	}()

	if err := a.openSensor(); err != nil {
		return err
	}

	a.redis, err = redis.NewClient(a.cfg.RedisAddr, a.log)
	if err != nil {
		return fmt.Errorf("create redis client: %w", err)
	}
	a.track(a.redis)
	if err := a.redis.Connect(ctx); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	a.publisher = redis.NewPublisher(a.redis)

	a.poller = hardware.NewPoller(a.sensor, a.publisher, a.openInterrupt(), a.cfg.ReadingInterval, a.log)
	a.controller = sensor.NewHardwareController(a.sensor, a.poller, a.cfg.ReadingInterval > 0, a.log)
	if err := a.controller.EnableReadings(ctx); err != nil {
		return fmt.Errorf("enable readings: %w", err)
	}

	a.inhibitor, err = pm.NewInhibitor("gesture-service", a.log)
	if err != nil {
		return fmt.Errorf("create suspend inhibitor: %w", err)
	}
	a.track(a.inhibitor)

	a.stateMachine = fsm.New(
		a.controller,
		a.publisher,
		a.inhibitor,
		a.cfg.Rotation,
		a.log,
	)
	a.poller.SetProximityHandler(a.stateMachine.ProximityInterrupt)

	a.listener, err = command.NewListener(a.cfg.RedisAddr, a.stateMachine, a.log)
	if err != nil {
		return fmt.Errorf("create command listener: %w", err)
	}
	a.track(a.listener)

	if a.cfg.GestureEnabledFlagSet {
		a.log.Info("gesture flag set, writing to Redis", "enabled", a.cfg.GestureEnabled)
		if err := a.redis.SetSetting(ctx, "gesture.enabled", strconv.FormatBool(a.cfg.GestureEnabled)); err != nil {
			a.log.Error("failed to write gesture.enabled to Redis", "error", err)
		}
	}

	go a.stateMachine.Run(ctx)

	a.subscriber = redis.NewSubscriber(a.redis, a.stateMachine, a.log)
	if err := a.subscriber.Start(); err != nil {
		return fmt.Errorf("start subscriber: %w", err)
	}
	defer a.subscriber.Stop()

	if err := a.publisher.PublishRotation(ctx, a.cfg.Rotation); err != nil {
		a.log.Error("failed to publish rotation", "error", err)
	}
	if err := a.publisher.PublishInitialized(ctx); err != nil {
		a.log.Error("failed to publish initialized", "error", err)
	}
	a.stateMachine.SendEvent(fsm.InitCompleteEvent{})

	go a.poller.Run(ctx)
	go a.listener.Run(ctx)

	<-ctx.Done()
	a.log.Info("shutting down")
	return nil
}

// openSensor opens the bus and initializes the chip
func (a *App) openSensor() error {
	if a.cfg.Unbind {
		if err := driver.UnbindAPDS9960(a.cfg.I2CBus, apds9960.Address); err != nil {
			a.log.Warn("failed to unbind kernel driver", "error", err)
		}
	}

	bus, err := i2cbus.Open(a.cfg.I2CBackend, a.cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open I2C bus: %w", err)
	}
	a.track(bus)

	cfg := apds9960.DefaultConfig()
	cfg.Rotation = a.cfg.Rotation
	cfg.Reset = a.cfg.Reset
	cfg.SetDefaults = a.cfg.SetDefaults

	dev, err := apds9960.New(bus, cfg)
	if err != nil {
		return fmt.Errorf("initialize APDS-9960: %w", err)
	}
	a.sensor = hardware.NewSensor(dev)

	a.log.Info("APDS-9960 initialized", "rotation", a.cfg.Rotation, "reset", cfg.Reset, "defaults", cfg.SetDefaults)
	return nil
}

// openInterrupt watches the INT line if configured. Without it the poller
// falls back to reading the status register.
func (a *App) openInterrupt() <-chan struct{} {
	if a.cfg.GPIOLine < 0 {
		return nil
	}

	irq, err := hardware.OpenInterrupt(a.cfg.GPIOChip, a.cfg.GPIOLine, a.log)
	if err != nil {
		a.log.Warn("interrupt line unavailable, polling status register", "error", err)
		return nil
	}
	a.track(irq)
	return irq.C()
}

func (a *App) track(c io.Closer) {
	a.closers = append(a.closers, c)
}

// closeAll closes resources in reverse order of opening
func (a *App) closeAll() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i].Close())
	}
	a.closers = nil
	return err
}
