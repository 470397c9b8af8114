package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/nikogura/resume-forge/pkg/cache"
)

// Temperatures holds the sampling temperature for each stage.
type Temperatures struct {
	Normalize  float64
	Extract    float64
	Categorize float64
	Expand     float64
	Enhance    float64
}

// DefaultTemperatures keeps extraction steps near-deterministic and gives
// writing steps room for varied phrasing.
func DefaultTemperatures() (t Temperatures) {
	t = Temperatures{
		Normalize:  0.1,
		Extract:    0.1,
		Categorize: 0.1,
		Expand:     0.7,
		Enhance:    0.4,
	}
	return t
}

type settings struct {
	temperatures Temperatures
	equivalence  Equivalence
	logger       zerolog.Logger
	cache        cache.DigestCache
}

func newSettings(opts []Option) (s settings) {
	s = settings{
		temperatures: DefaultTemperatures(),
		equivalence:  DefaultEquivalence(),
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option customizes a stage or the Pipeline.
type Option func(*settings)

// WithTemperatures overrides every stage temperature.
func WithTemperatures(t Temperatures) (opt Option) {
	opt = func(s *settings) {
		s.temperatures = t
	}
	return opt
}

// WithEquivalence replaces the skill equivalence table used by gap analysis.
func WithEquivalence(table Equivalence) (opt Option) {
	opt = func(s *settings) {
		if table != nil {
			s.equivalence = table
		}
	}
	return opt
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) (opt Option) {
	opt = func(s *settings) {
		s.logger = logger
	}
	return opt
}

// WithCache stores job description digests between runs.
func WithCache(c cache.DigestCache) (opt Option) {
	opt = func(s *settings) {
		s.cache = c
	}
	return opt
}
