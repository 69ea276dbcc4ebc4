package timezone

import (
	"time"
	_ "time/tzdata"
)

// Default is where the statements of poll are counted.
const Default = "America/Guyana"

// Load resolves an IANA zone name, an empty name resolves to Default.
// The tz database is embedded so hosts without zoneinfo still work.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = Default
	}
	return time.LoadLocation(name)
}
