// Package adapters maps ad platforms onto their integration adapters.
package adapters

import "github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"

// Registry resolves a platform to either its step-based adapter or its
// single-call adapter. The platform set is closed; callers handle
// PlatformUnknown explicitly.
type Registry struct {
	step   map[domain.Platform]domain.StepAdapter
	simple map[domain.Platform]domain.CampaignAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		step:   make(map[domain.Platform]domain.StepAdapter),
		simple: make(map[domain.Platform]domain.CampaignAdapter),
	}
}

// RegisterStep binds a step-based platform.
func (r *Registry) RegisterStep(platform domain.Platform, adapter domain.StepAdapter) *Registry {
	r.step[platform] = adapter
	return r
}

// RegisterSimple binds a single-call platform.
func (r *Registry) RegisterSimple(platform domain.Platform, adapter domain.CampaignAdapter) *Registry {
	r.simple[platform] = adapter
	return r
}

// StepFor returns the step-based adapter for a platform.
func (r *Registry) StepFor(platform domain.Platform) (domain.StepAdapter, bool) {
	adapter, ok := r.step[platform]
	return adapter, ok
}

// SimpleFor returns the single-call adapter for a platform.
func (r *Registry) SimpleFor(platform domain.Platform) (domain.CampaignAdapter, bool) {
	adapter, ok := r.simple[platform]
	return adapter, ok
}
