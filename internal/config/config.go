package config

import "os"

// Get returns the environment value for key, or fallback when unset or
// empty. Process environment is the single configuration source; local
// runs load a .env file before calling this.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
