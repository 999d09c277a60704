package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/config"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/adapters/output/persistence"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/adapters/output/zeptrion"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/service"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/ports"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	host := flag.String("host", "", "hub address, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *host == "" {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}
	if *host != "" {
		cfg.Host = *host
	}

	logger := setupLogger(cfg.Log)

	if cfg.Host == "" {
		logger.Error("no hub host configured")
		os.Exit(1)
	}
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	opts := []zeptrion.Option{zeptrion.WithLogger(logger)}
	if cfg.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			logger.Warn("invalid timeout, ignoring", "value", cfg.Timeout, "error", err)
		} else {
			opts = append(opts, zeptrion.WithTimeout(timeout))
		}
	}
	if notifyTimeout, err := time.ParseDuration(cfg.NotifyTimeout); err == nil {
		opts = append(opts, zeptrion.WithNotifyTimeout(notifyTimeout))
	}

	if cfg.MetricsAddr != "" {
		metrics := zeptrion.NewMetrics()
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			logger.Error("registering metrics", "error", err)
			os.Exit(1)
		}
		opts = append(opts, zeptrion.WithMetrics(metrics))
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Error("metrics listener", "error", err)
			}
		}()
	}

	client := zeptrion.NewClient(cfg.Host, opts...)
	repo := persistence.NewJSONConfigRepository(cfg.StateFile)
	notifier := ports.StateNotifierFunc(func(entityID string) {
		logger.Debug("state changed", "entity", entityID)
	})

	hub := service.NewHub(client, repo, notifier, logger)
	defer hub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := hub.Connect(ctx); err != nil {
		logger.Error("connecting to hub", "host", cfg.Host, "error", err)
		os.Exit(1)
	}

	args := flag.Args()
	switch args[0] {
	case "info":
		infoCmd(ctx, hub)
	case "channels":
		channelsCmd(hub)
	case "light":
		lightCmd(ctx, hub, args[1:])
	case "blind":
		blindCmd(ctx, hub, args[1:])
	case "rename":
		renameCmd(ctx, hub, args[1:])
	case "watch":
		watchCmd(ctx, hub, logger)
	default:
		usage()
		os.Exit(2)
	}
}

func infoCmd(ctx context.Context, hub *service.Hub) {
	info, err := hub.DeviceInfo(ctx)
	if err != nil {
		fatal("device info", err)
	}
	if info == nil {
		fatal("device info", fmt.Errorf("hub returned malformed device info"))
	}
	fmt.Printf("type: %s\n", info.Type)
	fmt.Printf("serial: %s\n", info.SerialNumber)
	fmt.Printf("hardware: %s\n", info.HardwareVersion)
	fmt.Printf("software: %s\n", info.SoftwareVersion)
	fmt.Printf("mac: %s\n", hub.Network().MAC)
}

func channelsCmd(hub *service.Hub) {
	for _, ch := range hub.Channels() {
		fmt.Printf("%s\t%s\t%s\t%s\n", ch.ID, ch.Name, ch.Group, ch.Category)
	}
}

func lightCmd(ctx context.Context, hub *service.Hub, args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	light, err := hub.Light(args[0])
	if err != nil {
		fatal("light", err)
	}
	switch args[1] {
	case "on":
		light.TurnOn(ctx)
	case "off":
		light.TurnOff(ctx)
	case "state":
		light.Refresh(ctx)
		if light.IsOn() {
			fmt.Println("on")
		} else {
			fmt.Println("off")
		}
	default:
		usage()
		os.Exit(2)
	}
}

func blindCmd(ctx context.Context, hub *service.Hub, args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	blind, err := hub.Blind(args[0])
	if err != nil {
		fatal("blind", err)
	}
	switch args[1] {
	case "open":
		blind.Open(ctx)
	case "close":
		blind.Close(ctx)
	case "stop":
		blind.Stop(ctx)
	case "up":
		blind.OpenTilt(ctx)
	case "down":
		blind.CloseTilt(ctx)
	case "toggle":
		blind.Toggle(ctx)
	default:
		usage()
		os.Exit(2)
	}
}

func renameCmd(ctx context.Context, hub *service.Hub, args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := hub.Rename(ctx, args[0], args[1]); err != nil {
		fatal("rename", err)
	}
}

// watchCmd loops on the hub's state-change long poll and prints the light
// states after each wakeup.
func watchCmd(ctx context.Context, hub *service.Hub, logger *slog.Logger) {
	for ctx.Err() == nil {
		if err := hub.WaitForChange(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("state-change poll failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		for _, light := range hub.Lights() {
			light.Refresh(ctx)
			state := "off"
			if light.IsOn() {
				state = "on"
			}
			fmt.Printf("%s\t%s\t%s\n", light.Channel().ID, light.Name(), state)
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: zeptrion [-config file] [-host addr] <command>

commands:
  info                         print hub device and network info
  channels                     list channels
  light <id> on|off|state      control or read a light channel
  blind <id> open|close|stop|up|down|toggle
                               control a blind channel
  rename <id> <name>           store a display-name override
  watch                        print light states whenever the hub reports a change`)
}
