// internal/status/snapshot.go
package status

// Snapshot is the health of one node after its most recent poll.
// It contains no logic.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16

	// LastSample is the sample number of the last successful poll.
	LastSample uint16

	// StalePolls counts consecutive successful polls that returned
	// LastSample unchanged.
	StalePolls int
}
