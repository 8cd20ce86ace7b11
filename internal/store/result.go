package store

// Destination says where a write ended up.
type Destination string

const (
	DestinationRemote Destination = "remote"
	DestinationLocal  Destination = "local"
)

// SaveResult is the outcome of a write. Writes do not fail on remote errors;
// they degrade to the local mirror and report it here. The only error a
// write can return is a failure of the mirror itself.
type SaveResult struct {
	ID          string      `json:"id"`
	PersistedTo Destination `json:"persistedTo"`
}

// Snapshot is the full current contents of a collection, replacing any
// prior snapshot. Err is set only for unclassified subscription failures,
// which produce no data and no fallback but must not be hidden.
type Snapshot[T Entity] struct {
	Items   []T
	Loading bool
	Err     error
}

// Notifier is the side channel distinguishing "saved to cloud" from "saved
// locally". It carries information, never errors.
type Notifier interface {
	Notify(message string, dest Destination)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, dest Destination)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string, dest Destination) { f(message, dest) }
