// internal/regmap/fields.go
package regmap

// Field describes one multi-byte value on a node.
// Registers are listed in buffer index order: index 0 is the least
// significant byte. Readers visit them from the last index down to 0.
type Field struct {
	Name      string
	Registers []Register
}

// Width is the value size in bytes.
func (f Field) Width() int { return len(f.Registers) }

var (
	SampleCount = Field{
		Name:      "sample_count",
		Registers: []Register{SampleCountLSB, SampleCountMSB},
	}

	Temperature = Field{
		Name:      "temperature",
		Registers: []Register{TemperatureLSB0, TemperatureLSB1, TemperatureMSB0, TemperatureMSB1},
	}

	Humidity = Field{
		Name:      "humidity",
		Registers: []Register{HumidityLSB0, HumidityLSB1, HumidityMSB0, HumidityMSB1},
	}

	Leq = Field{
		Name:      "leq",
		Registers: []Register{LeqLSB0, LeqLSB1, LeqMSB0, LeqMSB1},
	}
)

// ---- ROLES ----

// Role selects which value fields a node exposes.
type Role string

const (
	RoleClimate Role = "climate"
	RoleSound   Role = "sound"
)

// Fields lists the value fields of a role, in report order.
// Unknown roles expose no fields.
func (r Role) Fields() []Field {
	switch r {
	case RoleClimate:
		return []Field{Temperature, Humidity}
	case RoleSound:
		return []Field{Leq}
	default:
		return nil
	}
}
