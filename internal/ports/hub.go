package ports

import (
	"context"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

// HubPort is the outbound interface to a Zeptrion hub. Implementations must
// be safe for concurrent use; multiple entities poll and command at once.
type HubPort interface {
	// ChannelDescriptions returns the hub's channels keyed by element tag
	// ("ch3"). Channels the hub reports as disconnected are omitted. Names
	// from overrides win over hub-reported names.
	ChannelDescriptions(ctx context.Context, overrides map[string]string) (map[string]model.Channel, error)
	// NetworkInfo returns nil without an error when the hub's response could
	// not be parsed.
	NetworkInfo(ctx context.Context) (*model.NetworkInfo, error)
	// DeviceInfo returns nil without an error when the hub's response could
	// not be parsed.
	DeviceInfo(ctx context.Context) (*model.DeviceInfo, error)

	TurnLightOn(ctx context.Context, channel string) error
	TurnLightOff(ctx context.Context, channel string) error
	// LightState never fails; an unreachable hub or unparseable scan reads
	// as off.
	LightState(ctx context.Context, channel string) bool

	BlindOpen(ctx context.Context, channel string) error
	BlindClose(ctx context.Context, channel string) error
	// BlindStop issues the command that halts the motor given the last
	// directional command. A no-op when last is MovementIdle.
	BlindStop(ctx context.Context, channel string, last model.CoverMovement) error
	BlindOpenTilt(ctx context.Context, channel string) error
	BlindCloseTilt(ctx context.Context, channel string) error
	BlindToggle(ctx context.Context, channel string) error

	// WaitForChange blocks until the hub reports a state change, the hub's
	// own poll timeout elapses, or ctx is done.
	WaitForChange(ctx context.Context) error

	Close() error
}
