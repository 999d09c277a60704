package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/ports"
)

// Hub is the per-connection context: it owns the hub client for the lifetime
// of an attached integration, holds the channels discovered at connect time
// and hands out the light and blind entities built from them.
type Hub struct {
	hub      ports.HubPort
	configs  ports.ConfigRepository
	notifier ports.StateNotifier
	logger   *slog.Logger

	mu       sync.RWMutex
	config   *model.Config
	network  *model.NetworkInfo
	channels map[string]model.Channel
	lights   map[string]*Light
	blinds   map[string]*Blind
}

func NewHub(hub ports.HubPort, configs ports.ConfigRepository, notifier ports.StateNotifier, logger *slog.Logger) *Hub {
	if notifier == nil {
		notifier = ports.StateNotifierFunc(func(string) {})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		hub:      hub,
		configs:  configs,
		notifier: notifier,
		logger:   logger,
	}
}

// Connect loads the persisted configuration, fetches the hub's channel
// descriptions and network identity and builds the entity registry. A hub
// that cannot be reached, answers garbage, or has no configured channels is
// a connect error.
func (h *Hub) Connect(ctx context.Context) error {
	cfg, err := h.configs.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading hub config: %w", err)
	}

	channels, err := h.hub.ChannelDescriptions(ctx, cfg.ChannelNames)
	if err != nil {
		return fmt.Errorf("fetching channel descriptions: %w", err)
	}
	if len(channels) == 0 {
		return fmt.Errorf("hub has no configured channels")
	}

	network, err := h.hub.NetworkInfo(ctx)
	if err != nil {
		return fmt.Errorf("fetching network info: %w", err)
	}
	if network == nil {
		return fmt.Errorf("hub returned malformed network info")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.config = cfg
	h.network = network
	h.channels = channels
	h.lights = make(map[string]*Light)
	h.blinds = make(map[string]*Blind)
	for key, ch := range channels {
		switch ch.Category {
		case model.CategoryLight:
			h.lights[ch.ID] = newLight(h.hub, key, ch, network.MAC, h.notifier, h.logger)
		case model.CategoryBlind:
			h.blinds[ch.ID] = newBlind(h.hub, key, ch, network.MAC, h.notifier, h.logger)
		default:
			h.logger.Info("ignoring channel with unsupported category",
				"channel", key, "category", ch.Category.String())
		}
	}
	h.logger.Info("connected to hub",
		"mac", network.MAC, "lights", len(h.lights), "blinds", len(h.blinds))
	return nil
}

// Close releases the underlying hub client. The Hub is not reusable after.
func (h *Hub) Close() error {
	return h.hub.Close()
}

// Network returns the identity fetched at connect time, nil before Connect.
func (h *Hub) Network() *model.NetworkInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.network
}

func (h *Hub) DeviceInfo(ctx context.Context) (*model.DeviceInfo, error) {
	return h.hub.DeviceInfo(ctx)
}

// Channels returns every usable channel, sorted by ID.
func (h *Hub) Channels() []model.Channel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	channels := make([]model.Channel, 0, len(h.channels))
	for _, ch := range h.channels {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	return channels
}

func (h *Hub) Lights() []*Light {
	h.mu.RLock()
	defer h.mu.RUnlock()
	lights := make([]*Light, 0, len(h.lights))
	for _, l := range h.lights {
		lights = append(lights, l)
	}
	sort.Slice(lights, func(i, j int) bool { return lights[i].Channel().ID < lights[j].Channel().ID })
	return lights
}

func (h *Hub) Blinds() []*Blind {
	h.mu.RLock()
	defer h.mu.RUnlock()
	blinds := make([]*Blind, 0, len(h.blinds))
	for _, b := range h.blinds {
		blinds = append(blinds, b)
	}
	sort.Slice(blinds, func(i, j int) bool { return blinds[i].Channel().ID < blinds[j].Channel().ID })
	return blinds
}

func (h *Hub) Light(channelID string) (*Light, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	l, ok := h.lights[channelID]
	if !ok {
		return nil, fmt.Errorf("no light on channel %s", channelID)
	}
	return l, nil
}

func (h *Hub) Blind(channelID string) (*Blind, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.blinds[channelID]
	if !ok {
		return nil, fmt.Errorf("no blind on channel %s", channelID)
	}
	return b, nil
}

// Rename stores a display-name override for a channel and applies it to the
// live entity.
func (h *Hub) Rename(ctx context.Context, channelID, name string) error {
	h.mu.Lock()
	if h.config == nil {
		h.mu.Unlock()
		return fmt.Errorf("hub is not connected")
	}
	if h.config.ChannelNames == nil {
		h.config.ChannelNames = make(map[string]string)
	}
	h.config.ChannelNames[model.OverrideKey(channelID)] = name
	if ch, ok := h.channels[model.ChannelKey(channelID)]; ok {
		ch.Name = name
		h.channels[model.ChannelKey(channelID)] = ch
	}
	if l, ok := h.lights[channelID]; ok {
		l.setName(name)
	}
	if b, ok := h.blinds[channelID]; ok {
		b.setName(name)
	}
	cfg := h.config
	h.mu.Unlock()

	if err := h.configs.Save(ctx, cfg); err != nil {
		return fmt.Errorf("persisting channel name: %w", err)
	}
	return nil
}

// WaitForChange exposes the hub's state-change long poll for callers that
// re-render on hub activity.
func (h *Hub) WaitForChange(ctx context.Context) error {
	return h.hub.WaitForChange(ctx)
}
