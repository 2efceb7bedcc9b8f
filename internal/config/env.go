// Package config loads the game configuration from a TOML file and the
// environment.
package config

import "os"

// Environment variables read by the binaries.
const (
	EnvConfig     = "INVADERS_CONFIG"
	EnvSSHHost    = "SSH_HOST"
	EnvSSHPort    = "SSH_PORT"
	EnvSSHHostKey = "SSH_HOST_KEY"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ApplyEnv overrides the SSH listener settings from the environment.
func (c *Config) ApplyEnv() {
	c.SSH.Host = GetEnv(EnvSSHHost, c.SSH.Host)
	c.SSH.Port = GetEnv(EnvSSHPort, c.SSH.Port)
	c.SSH.HostKey = GetEnv(EnvSSHHostKey, c.SSH.HostKey)
}
