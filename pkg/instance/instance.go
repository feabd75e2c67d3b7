package instance

import (
	"os"

	"github.com/smarttech/storefront/pkg/env"
)

// GetID returns the process instance identifier: STOREFRONT_INSTANCE_ID, then the
// platform's DYNO, then the hostname.
func GetID() string {
	if id := env.Get("STOREFRONT_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
