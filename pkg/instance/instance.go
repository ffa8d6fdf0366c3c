package instance

import "os"

// GetID returns the process instance identifier used in logs and lock
// ownership: INSTANCE_ID, then the Heroku DYNO name, then the hostname.
func GetID() string {
	for _, key := range []string{"INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
