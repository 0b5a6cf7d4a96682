package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gesture-service/internal/app"
)

var version = "dev"

func main() {
	i2cBus := flag.String("i2c-bus", "/dev/i2c-2", "I2C bus device path (dev backend) or bus name (periph backend)")
	i2cBackend := flag.String("i2c-backend", "dev", "I2C backend: dev, periph")
	unbind := flag.Bool("unbind", true, "Unbind the kernel apds9960 driver before opening the sensor")
	gpioChip := flag.String("gpio-chip", "gpiochip0", "GPIO chip of the sensor interrupt line")
	gpioLine := flag.Int("gpio-line", -1, "GPIO line offset of the sensor interrupt (-1 polls the status register)")
	rotation := flag.Int("rotation", 0, "Sensor mounting rotation in degrees: 0, 90, 180, 270")
	noReset := flag.Bool("no-reset", false, "Skip the register reset on startup")
	noDefaults := flag.Bool("no-defaults", false, "Skip loading the default gesture configuration on startup")
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	gestureEnabled := flag.Bool("gesture-enabled", false, "Enable gesture sensing (writes to Redis on startup)")
	readingInterval := flag.Duration("reading-interval", 0, "Interval for publishing proximity and color readings (0 disables)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	gestureFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "gesture-enabled" {
			gestureFlagSet = true
		}
	})

	if *versionFlag {
		fmt.Printf("gesture-service %s\n", version)
		os.Exit(0)
	}

	level := parseLogLevel(*logLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("librescoot-gesture "+version+" starting",
		"i2c_bus", *i2cBus,
		"i2c_backend", *i2cBackend,
		"gpio_chip", *gpioChip,
		"gpio_line", *gpioLine,
		"rotation", *rotation,
		"redis", *redisAddr,
		"log_level", *logLevel,
		"reading_interval", *readingInterval)

	if *readingInterval < 0 {
		*readingInterval = 0
	} else if *readingInterval > 0 && *readingInterval < 100*time.Millisecond {
		logger.Warn("reading interval too short, using 100ms", "requested", *readingInterval)
		*readingInterval = 100 * time.Millisecond
	}

	application := app.New(&app.Config{
		I2CBus:                *i2cBus,
		I2CBackend:            *i2cBackend,
		Unbind:                *unbind,
		GPIOChip:              *gpioChip,
		GPIOLine:              *gpioLine,
		Rotation:              *rotation,
		Reset:                 !*noReset,
		SetDefaults:           !*noDefaults,
		RedisAddr:             *redisAddr,
		Logger:                logger,
		GestureEnabled:        *gestureEnabled,
		GestureEnabledFlagSet: gestureFlagSet,
		ReadingInterval:       *readingInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig)
		cancel()
		if err := <-errChan; err != nil {
			logger.Error("shutdown error", "error", err)
		}

	case err := <-errChan:
		if err != nil {
			logger.Error("application error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("gesture-service stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
