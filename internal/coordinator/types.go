// internal/coordinator/types.go
package coordinator

import (
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// State is the coordinator lifecycle phase.
type State int32

const (
	StateInitializing State = iota
	StateConfiguring
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateConfiguring:
		return "configuring"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	default:
		return "invalid"
	}
}

// NodeSpec is one registry entry. The registry is fixed at construction.
type NodeSpec struct {
	Addr node.Addr
	Role regmap.Role
	Name string // optional, for reports
}

// Values holds the measurements of one role.
// Exactly one implementation exists per role.
type Values interface {
	Role() regmap.Role
}

// Climate is what a climate node publishes.
type Climate struct {
	Temperature float32
	Humidity    float32
}

func (Climate) Role() regmap.Role { return regmap.RoleClimate }

// Sound is what a sound node publishes.
type Sound struct {
	Leq float32
}

func (Sound) Role() regmap.Role { return regmap.RoleSound }

// SensorReading is one node's data for one polling cycle.
// Built fresh, never mutated.
type SensorReading struct {
	Addr         node.Addr
	At           time.Time
	SampleNumber uint16
	Values       Values
}

// Ops carried by NodeResult.
const (
	OpStop      = "stop"
	OpSetPeriod = "set_sampling_period"
	OpVerify    = "verify_sampling_period"
	OpGo        = "go"
	OpPoll      = "poll"
)

// NodeResult is the outcome of one operation on one node.
// Exactly one of Reading and Err is set.
type NodeResult struct {
	Addr    node.Addr
	Name    string
	Op      string
	At      time.Time
	Reading *SensorReading
	Err     error
}

// Reporter receives results synchronously, from the coordinator goroutine.
type Reporter interface {
	Report(res NodeResult)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(res NodeResult)

func (f ReporterFunc) Report(res NodeResult) { f(res) }

// Opener acquires the bus. The closer is called once when Run returns.
type Opener func() (node.Bus, func() error, error)
