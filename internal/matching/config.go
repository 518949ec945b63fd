package matching

import "RegistryLinker/internal/domain"

// Default thresholds.
const (
	DefaultJaccardThreshold   = 0.1
	DefaultAlignmentThreshold = 0.72
	DefaultTokenSetThreshold  = 82
	DefaultEditRatioThreshold = 82
	DefaultConsensusCount     = 2
	DefaultWorkers            = 4
)

// Config holds the run-scoped matching options. Immutable during a run.
type Config struct {
	// JaccardThreshold is the candidate prefilter floor. It bounds cost,
	// it does not make matching decisions.
	JaccardThreshold float64
	// AlignmentThreshold applies to the [0,1] character-alignment metric.
	AlignmentThreshold float64
	// TokenSetThreshold and EditRatioThreshold apply to the [0,100]
	// token-set and edit-distance metrics.
	TokenSetThreshold  float64
	EditRatioThreshold float64
	// ConsensusCount is how many of the three metrics must pass.
	ConsensusCount int
	// Workers sizes the parallel per-record scoring pool.
	Workers int
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		JaccardThreshold:   DefaultJaccardThreshold,
		AlignmentThreshold: DefaultAlignmentThreshold,
		TokenSetThreshold:  DefaultTokenSetThreshold,
		EditRatioThreshold: DefaultEditRatioThreshold,
		ConsensusCount:     DefaultConsensusCount,
		Workers:            DefaultWorkers,
	}
}

// Validate rejects out-of-range options before any matching begins.
func (c Config) Validate() error {
	if c.JaccardThreshold < 0 || c.JaccardThreshold > 1 {
		return &domain.ConfigurationError{Option: "jaccard_threshold", Value: c.JaccardThreshold, Reason: "must be within [0,1]"}
	}
	if c.AlignmentThreshold < 0 || c.AlignmentThreshold > 1 {
		return &domain.ConfigurationError{Option: "alignment_threshold", Value: c.AlignmentThreshold, Reason: "must be within [0,1]"}
	}
	if c.TokenSetThreshold < 0 || c.TokenSetThreshold > 100 {
		return &domain.ConfigurationError{Option: "token_set_threshold", Value: c.TokenSetThreshold, Reason: "must be within [0,100]"}
	}
	if c.EditRatioThreshold < 0 || c.EditRatioThreshold > 100 {
		return &domain.ConfigurationError{Option: "edit_ratio_threshold", Value: c.EditRatioThreshold, Reason: "must be within [0,100]"}
	}
	if c.ConsensusCount < 1 || c.ConsensusCount > 3 {
		return &domain.ConfigurationError{Option: "consensus_count", Value: float64(c.ConsensusCount), Reason: "must be within [1,3]"}
	}
	if c.Workers < 1 {
		return &domain.ConfigurationError{Option: "workers", Value: float64(c.Workers), Reason: "must be at least 1"}
	}
	return nil
}
