package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/ports"
)

// Blind is a roller-blind channel with assumed state. The hub cannot report
// cover position, so the closed guess and the stop direction are derived
// from the last command this client issued. State only moves when the send
// succeeded; a failed send is logged and leaves the tracked state alone.
type Blind struct {
	hub      ports.HubPort
	notifier ports.StateNotifier
	logger   *slog.Logger

	key     string
	mac     string
	channel model.Channel

	mu       sync.Mutex
	movement model.CoverMovement
	closed   bool
	known    bool
}

func newBlind(hub ports.HubPort, key string, channel model.Channel, mac string, notifier ports.StateNotifier, logger *slog.Logger) *Blind {
	return &Blind{
		hub:      hub,
		notifier: notifier,
		logger:   logger,
		key:      key,
		mac:      mac,
		channel:  channel,
	}
}

func (b *Blind) Channel() model.Channel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.channel
}

func (b *Blind) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.channel.Name
}

func (b *Blind) setName(name string) {
	b.mu.Lock()
	b.channel.Name = name
	b.mu.Unlock()
}

func (b *Blind) UniqueID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("%s_%s_%s", b.channel.Name, b.key, b.mac)
}

// IsClosed reports the assumed closed state. known is false until the first
// directional command.
func (b *Blind) IsClosed() (closed, known bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed, b.known
}

// Movement returns the tracked direction of the last command.
func (b *Blind) Movement() model.CoverMovement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.movement
}

func (b *Blind) Open(ctx context.Context) {
	if err := b.hub.BlindOpen(ctx, b.channel.ID); err != nil {
		b.logger.Warn("opening blind", "channel", b.channel.ID, "error", err)
	} else {
		b.setState(model.MovedOpen, false)
	}
	b.notifier.StateChanged(b.UniqueID())
}

func (b *Blind) Close(ctx context.Context) {
	if err := b.hub.BlindClose(ctx, b.channel.ID); err != nil {
		b.logger.Warn("closing blind", "channel", b.channel.ID, "error", err)
	} else {
		b.setState(model.MovedClosed, true)
	}
	b.notifier.StateChanged(b.UniqueID())
}

// Stop halts a travelling blind. With no tracked movement there is nothing
// to stop and no request is sent.
func (b *Blind) Stop(ctx context.Context) {
	b.mu.Lock()
	last := b.movement
	b.mu.Unlock()
	if last == model.MovementIdle {
		return
	}
	if err := b.hub.BlindStop(ctx, b.channel.ID, last); err != nil {
		b.logger.Warn("stopping blind", "channel", b.channel.ID, "error", err)
	} else {
		b.setState(model.MovementIdle, false)
	}
	b.notifier.StateChanged(b.UniqueID())
}

// OpenTilt is a one-shot command outside the open/close/stop cycle; it
// resets the tracked movement.
func (b *Blind) OpenTilt(ctx context.Context) {
	if err := b.hub.BlindOpenTilt(ctx, b.channel.ID); err != nil {
		b.logger.Warn("tilting blind open", "channel", b.channel.ID, "error", err)
	} else {
		b.setState(model.MovementIdle, false)
	}
	b.notifier.StateChanged(b.UniqueID())
}

// CloseTilt is skipped entirely when the last directional command already
// drove the blind closed.
func (b *Blind) CloseTilt(ctx context.Context) {
	b.mu.Lock()
	last := b.movement
	b.mu.Unlock()
	if last == model.MovedClosed {
		return
	}
	if err := b.hub.BlindCloseTilt(ctx, b.channel.ID); err != nil {
		b.logger.Warn("tilting blind closed", "channel", b.channel.ID, "error", err)
	} else {
		b.setState(model.MovementIdle, false)
	}
	b.notifier.StateChanged(b.UniqueID())
}

func (b *Blind) Toggle(ctx context.Context) {
	if err := b.hub.BlindToggle(ctx, b.channel.ID); err != nil {
		b.logger.Warn("toggling blind", "channel", b.channel.ID, "error", err)
	} else {
		b.setState(model.MovementIdle, false)
	}
	b.notifier.StateChanged(b.UniqueID())
}

func (b *Blind) setState(movement model.CoverMovement, closed bool) {
	b.mu.Lock()
	b.movement = movement
	b.closed = closed
	b.known = true
	b.mu.Unlock()
}
