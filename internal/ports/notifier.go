package ports

// StateNotifier is the host callback signalling "state changed, re-render"
// after an entity handled a command. The entity ID passed is the stable
// unique ID, not the channel number.
type StateNotifier interface {
	StateChanged(entityID string)
}

// StateNotifierFunc adapts a plain function to a StateNotifier.
type StateNotifierFunc func(entityID string)

func (f StateNotifierFunc) StateChanged(entityID string) {
	f(entityID)
}
