package entity

// AlgorithmConfig holds the scoring/eligibility thresholds of §6.4.
type AlgorithmConfig struct {
	MinTimeOverlapMinutes     int
	MinOverlapDistanceMeters  float64
	OverlapToleranceMeters    float64
	OverlapWeight             float64
	InterestWeight            float64
	SharedMetersPerMinute     float64
}

// ServiceConfig holds the lifecycle/decision thresholds of §6.4.
type ServiceConfig struct {
	PassCooldownDays         int
	QueueAssignmentDaysAhead int
}

// MatchingConfig is the typed config the engine depends on, with the
// defaults from §6.4 baked in as the zero-config value.
type MatchingConfig struct {
	Algorithm AlgorithmConfig
	Service   ServiceConfig
}

// DefaultMatchingConfig returns the §6.4 defaults.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Algorithm: AlgorithmConfig{
			MinTimeOverlapMinutes:    10,
			MinOverlapDistanceMeters: 250.0,
			OverlapToleranceMeters:   120.0,
			OverlapWeight:            0.7,
			InterestWeight:           0.3,
			SharedMetersPerMinute:    80.0,
		},
		Service: ServiceConfig{
			PassCooldownDays:         7,
			QueueAssignmentDaysAhead: 1,
		},
	}
}
