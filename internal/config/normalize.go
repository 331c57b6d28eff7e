// internal/config/normalize.go
package config

const (
	DefaultCommandDelayMs  = 100
	DefaultStaleAfter      = 2
	DefaultSMBusNumber     = 1
	DefaultSerialBaudRate  = 115200
	DefaultSerialTimeoutMs = 500
	DefaultSerialSpeedKHz  = 100
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.Coordinator

	// ------------------------------------------------------------
	// BUS DEFAULTS
	// ------------------------------------------------------------

	if c.Bus.Driver == "" {
		c.Bus.Driver = DriverSMBus
		if c.Bus.Number == 0 {
			c.Bus.Number = DefaultSMBusNumber
		}
	}

	if c.Bus.Driver == DriverBusPirate {
		s := &c.Bus.Serial
		if s.BaudRate <= 0 {
			s.BaudRate = DefaultSerialBaudRate
		}
		if s.TimeoutMs <= 0 {
			s.TimeoutMs = DefaultSerialTimeoutMs
		}
		if s.SpeedKHz == 0 {
			s.SpeedKHz = DefaultSerialSpeedKHz
		}
	}

	// ------------------------------------------------------------
	// TIMING DEFAULTS
	// ------------------------------------------------------------

	// 0 means "not set"; a zero delay is not useful on real nodes.
	if c.CommandDelayMs == 0 {
		c.CommandDelayMs = DefaultCommandDelayMs
	}
	// an explicit 0 disables stale detection
	if c.StaleAfter == nil {
		v := DefaultStaleAfter
		c.StaleAfter = &v
	}
}
