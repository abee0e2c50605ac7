// Package models contains the data structures used throughout gowol-homelab.
package models

// Config holds the contents of the optional configuration file.
type Config struct {
	Port     int               // default UDP destination port
	Networks []string          // default interface selectors (IP[/PREFIX])
	Hosts    map[string]string // host alias -> MAC address
}

// WakeConfig holds everything a wake run needs.
type WakeConfig struct {
	Targets  []string          // MAC addresses or host aliases
	Networks []string          // interface selectors; empty means every eligible interface
	Port     int               // UDP destination port
	Hosts    map[string]string // host alias -> MAC address
}
