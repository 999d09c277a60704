package model

// Config is the persisted per-hub configuration: the host address, a display
// name for the hub and the user's channel display-name overrides keyed by
// OverrideKey.
type Config struct {
	Host         string            `json:"host"`
	Name         string            `json:"name"`
	ChannelNames map[string]string `json:"channel_names"`
}
