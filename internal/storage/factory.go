package storage

import (
	"github.com/lotar-dev/lotar/internal/config"
)

// NewBackendFromConfig constructs the FSBackend for root, reading the
// discovery mode from the resolved configuration's scan.discovery_mode
// field (DESIGN.md Open Question a).
func NewBackendFromConfig(root string, cfg *config.Config) (*FSBackend, error) {
	mode := DiscoveryWide
	if cfg != nil && cfg.Scan.DiscoveryMode == string(DiscoverySingle) {
		mode = DiscoverySingle
	}
	return NewFSBackend(root, mode)
}
