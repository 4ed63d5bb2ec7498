package config

import (
	"time"

	"github.com/bacalhau-project/convergence/pkg/poller"
)

// Profile is a named MaxWait/Period/InitialDelay triple.
type Profile struct {
	MaxWait      time.Duration `mapstructure:"max_wait"      json:"max_wait"      validate:"gt=0"`
	Period       time.Duration `mapstructure:"period"        json:"period"        validate:"gt=0"`
	InitialDelay time.Duration `mapstructure:"initial_delay" json:"initial_delay" validate:"gte=0"`
}

const (
	ProfileReady     = "ready"
	ProfileStopped   = "stopped"
	ProfileDeleted   = "deleted"
	ProfileOperation = "operation"
)

// DefaultProfiles are the budgets used by the live lifecycle flows: state
// transitions get ten minutes checked every five seconds, mutating operations
// that may conflict are retried every thirty.
func DefaultProfiles() map[string]Profile {
	transition := Profile{
		MaxWait:      600 * time.Second,
		Period:       5 * time.Second,
		InitialDelay: 5 * time.Second,
	}
	return map[string]Profile{
		ProfileReady:   transition,
		ProfileStopped: transition,
		ProfileDeleted: transition,
		ProfileOperation: {
			MaxWait:      600 * time.Second,
			Period:       30 * time.Second,
			InitialDelay: 30 * time.Second,
		},
	}
}

// Options converts the profile into poller options. Hooks such as Notify and
// Classifier are left for the caller.
func (p Profile) Options() poller.Options {
	return poller.Options{
		MaxWait:      p.MaxWait,
		Period:       p.Period,
		InitialDelay: p.InitialDelay,
	}
}
