// internal/status/constants.go
package status

// Node health codes.
// These values are reported in logs and MUST NOT be configurable.

// ---- LIMITS ----

// MaxSecondsInError is where SecondsInError saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents a node not polled yet.
const HealthUnknown uint16 = 0

// HealthOK represents a node returning fresh samples.
const HealthOK uint16 = 1

// HealthError represents a node whose last poll failed.
const HealthError uint16 = 2

// HealthStale represents a node answering with a sample number that no
// longer advances.
const HealthStale uint16 = 3

// HealthDisabled represents a node the coordinator has stopped.
const HealthDisabled uint16 = 4

// HealthName returns a short label for logs.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	default:
		return "invalid"
	}
}
