package model

import "fmt"

// DeviceCategory is the hub's numeric category for a channel. Values other
// than the known ones are carried through unchanged so future firmware
// categories stay visible to callers.
type DeviceCategory int

const (
	CategoryUnknown DeviceCategory = -1
	CategoryLight   DeviceCategory = 1
	CategoryBlind   DeviceCategory = 5
)

func (c DeviceCategory) String() string {
	switch c {
	case CategoryUnknown:
		return "unknown"
	case CategoryLight:
		return "light"
	case CategoryBlind:
		return "blind"
	default:
		return fmt.Sprintf("other(%d)", int(c))
	}
}

// Channel is one actuator channel on the hub. Channels are rebuilt from the
// hub on every description fetch; nothing here is persisted.
type Channel struct {
	ID       string
	Name     string
	Group    string
	Category DeviceCategory
}

// Key returns the channel's element tag on the wire, e.g. "ch3".
func (c Channel) Key() string {
	return ChannelKey(c.ID)
}

// ChannelKey maps a channel ID to its element tag.
func ChannelKey(id string) string {
	return "ch" + id
}

// OverrideKey is the lookup key for a user-supplied channel display name.
func OverrideKey(id string) string {
	return fmt.Sprintf("Channel %s Name", id)
}

// CoverMovement records the last directional command issued for a blind
// channel. The hub exposes no position query, so stop direction and the
// closed guess are inferred from this alone.
type CoverMovement int

const (
	MovementIdle CoverMovement = iota
	MovedOpen
	MovedClosed
)

func (m CoverMovement) String() string {
	switch m {
	case MovedOpen:
		return "open"
	case MovedClosed:
		return "closed"
	default:
		return "idle"
	}
}
