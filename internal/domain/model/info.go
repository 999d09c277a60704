package model

// NetworkInfo identifies a hub on the network. The MAC is the stable device
// identity for the lifetime of a configured connection.
type NetworkInfo struct {
	MAC string
}

// DeviceInfo is informational only, used to build a readable default name
// during setup.
type DeviceInfo struct {
	HardwareVersion string
	SerialNumber    string
	Type            string
	SoftwareVersion string
}
