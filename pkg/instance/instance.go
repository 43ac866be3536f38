package instance

import (
	"os"

	"github.com/angelmondragon/campuseats-backend/pkg/env"
)

// ID names the running API replica for log correlation. DYNO wins on the
// hosted dyno runtime, then the container hostname.
func ID() string {
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
