package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/ports"
)

// Light is an on/off channel. Its state is re-read from the hub's live scan
// after every command and never cached beyond that.
type Light struct {
	hub      ports.HubPort
	notifier ports.StateNotifier
	logger   *slog.Logger

	key     string
	mac     string
	channel model.Channel

	mu sync.Mutex
	on bool
}

func newLight(hub ports.HubPort, key string, channel model.Channel, mac string, notifier ports.StateNotifier, logger *slog.Logger) *Light {
	return &Light{
		hub:      hub,
		notifier: notifier,
		logger:   logger,
		key:      key,
		mac:      mac,
		channel:  channel,
	}
}

func (l *Light) Channel() model.Channel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channel
}

func (l *Light) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channel.Name
}

func (l *Light) setName(name string) {
	l.mu.Lock()
	l.channel.Name = name
	l.mu.Unlock()
}

func (l *Light) UniqueID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprintf("%s_%s_%s", l.channel.Name, l.key, l.mac)
}

func (l *Light) IsOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

func (l *Light) TurnOn(ctx context.Context) {
	l.switchTo(ctx, true)
}

func (l *Light) TurnOff(ctx context.Context) {
	l.switchTo(ctx, false)
}

func (l *Light) switchTo(ctx context.Context, on bool) {
	var err error
	if on {
		err = l.hub.TurnLightOn(ctx, l.channel.ID)
	} else {
		err = l.hub.TurnLightOff(ctx, l.channel.ID)
	}
	if err != nil {
		l.logger.Warn("switching light", "channel", l.channel.ID, "on", on, "error", err)
	}
	l.Refresh(ctx)
}

// Refresh re-reads the on/off state from the hub and notifies the host.
func (l *Light) Refresh(ctx context.Context) {
	on := l.hub.LightState(ctx, l.channel.ID)
	l.mu.Lock()
	l.on = on
	l.mu.Unlock()
	l.notifier.StateChanged(l.UniqueID())
}
