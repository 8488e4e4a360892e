package enhance

import (
	"autobi/domain/report"
	"autobi/ports"
)

// Router hands out the provider a plan is entitled to
type Router struct {
	config        Config
	deterministic *Deterministic
	enhanced      ports.EnhancementProvider
}

// NewRouter creates a router; enhanced may be nil when no language model
// is configured
func NewRouter(config Config, deterministic *Deterministic, enhanced ports.EnhancementProvider) *Router {
	return &Router{config: config, deterministic: deterministic, enhanced: enhanced}
}

// For returns the provider for plan
func (r *Router) For(plan report.Plan) ports.EnhancementProvider {
	if r.enhanced != nil && r.config.Eligible(plan) {
		return r.enhanced
	}
	return r.deterministic
}
