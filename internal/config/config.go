// internal/config/config.go
package config

type Config struct {
	Coordinator CoordinatorConfig `yaml:"coordinator"`
}

// ---- COORDINATOR ----

type CoordinatorConfig struct {
	Bus BusConfig `yaml:"bus"`

	// Period programmed into every node, in seconds.
	SamplingPeriodS uint8 `yaml:"sampling_period_s"`

	// Pause after each set-period command (node processing time).
	CommandDelayMs int `yaml:"command_delay_ms"`

	// Read register 0 back after configuring and report mismatches.
	VerifyPeriod bool `yaml:"verify_period"`

	// Consecutive polls without a new sample before a node is stale.
	// nil = default, 0 = stale detection disabled.
	StaleAfter *int `yaml:"stale_after"`

	Poll  PollConfig   `yaml:"poll"`
	Nodes []NodeConfig `yaml:"nodes"`
}

// ---- BUS ----

const (
	DriverSMBus     = "smbus"
	DriverPeriph    = "periph"
	DriverBusPirate = "buspirate"
	DriverSim       = "sim"
)

type BusConfig struct {
	Driver string `yaml:"driver"`

	// smbus: /dev/i2c-<number>
	Number int `yaml:"number"`

	// periph: registry name ("" = first bus)
	Name string `yaml:"name"`

	// buspirate
	Serial SerialConfig `yaml:"serial"`
}

type SerialConfig struct {
	Address   string `yaml:"address"`
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
	SpeedKHz  int    `yaml:"speed_khz"`
}

// ---- NODES ----

const (
	RoleClimate = "climate" // temperature + humidity
	RoleSound   = "sound"   // Leq
)

type NodeConfig struct {
	Address int    `yaml:"address"`
	Role    string `yaml:"role"`
	Name    string `yaml:"name"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}
