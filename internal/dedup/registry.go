package dedup

import (
	"fmt"
	"sync"
)

// Registry hands out detector instances keyed by similarity threshold.
//
// Command handlers that run in the same process share one registry so
// repeated invocations at the same threshold reuse the same index instead of
// rebuilding it. Unlike a module-level singleton, asking for a second
// threshold constructs a second detector alongside the first; prior index
// state is never discarded.
type Registry struct {
	base Config

	mu        sync.Mutex
	detectors map[float64]*Detector
}

// NewRegistry creates a registry whose detectors inherit base for everything
// except the threshold.
func NewRegistry(base Config) (*Registry, error) {
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}
	return &Registry{
		base:      base,
		detectors: make(map[float64]*Detector),
	}, nil
}

// Get returns the detector for the given threshold, constructing it on first
// use. A zero threshold selects the registry's base threshold.
func (r *Registry) Get(threshold float64) (*Detector, error) {
	if threshold == 0 {
		threshold = r.base.Threshold
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if det, ok := r.detectors[threshold]; ok {
		return det, nil
	}

	cfg := r.base
	cfg.Threshold = threshold
	det, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	r.detectors[threshold] = det
	return det, nil
}
