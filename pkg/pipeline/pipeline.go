// Package pipeline enriches a resume: it expands sparse sections, analyzes skill
// gaps against a job description, regroups skills and tailors the content.
package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nikogura/resume-forge/pkg/cache"
	"github.com/nikogura/resume-forge/pkg/jd"
	"github.com/nikogura/resume-forge/pkg/llm"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// sparseThreshold is the bullet count below which an item triggers expansion.
const sparseThreshold = 2

// Result is everything one run produces.
type Result struct {
	RunID    string        `json:"run_id"`
	Resume   resume.Resume `json:"resume"`
	Analysis *GapAnalysis  `json:"analysis,omitempty"`
	Digest   string        `json:"digest,omitempty"`
	Usage    llm.Usage     `json:"usage"`
}

// Pipeline runs the enrichment stages in order against one generator.
type Pipeline struct {
	gen  llm.Generator
	opts []Option
	s    settings
}

// New creates a Pipeline.
func New(gen llm.Generator, opts ...Option) (p *Pipeline) {
	p = &Pipeline{
		gen:  gen,
		opts: opts,
		s:    newSettings(opts),
	}
	return p
}

// NeedsExpansion reports whether any experience item, or any named project,
// has fewer than two bullets.
func NeedsExpansion(r resume.Resume) (sparse bool) {
	for _, exp := range r.Experience {
		if len(exp.Details) < sparseThreshold {
			sparse = true
			return sparse
		}
	}

	for _, proj := range r.Projects {
		if proj.Name != "" && len(proj.Details) < sparseThreshold {
			sparse = true
			return sparse
		}
	}

	return sparse
}

// Process runs Normalize, Expand, Analyze, Categorize and Enhance on a copy of r.
// Stages that need a job description are skipped when its digest is empty.
// Only an expansion failure aborts the run.
func (p *Pipeline) Process(ctx context.Context, r resume.Resume) (result Result, err error) {
	runID := uuid.NewString()
	logger := p.s.logger.With().Str("run_id", runID).Logger()

	meter := &llm.Meter{}
	gen := llm.Metered(p.gen, meter)
	opts := append(append([]Option{}, p.opts...), WithLogger(logger))

	result.RunID = runID
	working := r.Clone()
	working.Normalize()

	digest := p.digest(ctx, gen, working.JobDescription, logger)

	if NeedsExpansion(working) {
		logger.Info().Msg("sparse content detected, expanding")
		working, err = NewExpander(gen, opts...).Expand(ctx, working)
		if err != nil {
			err = errors.Wrap(err, "expansion failed")
			result.Usage = meter.Usage()
			return result, err
		}
	} else {
		logger.Info().Msg("resume has sufficient detail, skipping expansion")
	}

	if digest != "" {
		analysis := NewAnalyzer(gen, opts...).Analyze(ctx, working, digest)
		result.Analysis = &analysis
	}

	working = NewCategorizer(gen, opts...).Categorize(ctx, working)

	if digest != "" {
		working = NewEnhancer(gen, opts...).Enhance(ctx, working, digest)
	}

	result.Resume = working
	result.Digest = digest
	result.Usage = meter.Usage()

	logger.Info().
		Int("calls", result.Usage.Calls).
		Int("tokens", result.Usage.Total()).
		Msg("pipeline complete")

	return result, err
}

// digest normalizes the job description, consulting the cache when configured.
// Empty digests are never cached so a failed normalization is retried next run.
func (p *Pipeline) digest(ctx context.Context, gen llm.Generator, raw string, logger zerolog.Logger) (digest string) {
	if strings.TrimSpace(raw) == "" {
		return digest
	}

	key := cache.Key(raw)
	if p.s.cache != nil {
		cached, found, err := p.s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Msg("digest cache read failed")
		}
		if found {
			logger.Debug().Str("key", key).Msg("using cached job description digest")
			digest = cached
			return digest
		}
	}

	normalizer := jd.NewNormalizer(gen,
		jd.WithTemperature(p.s.temperatures.Normalize),
		jd.WithLogger(logger),
	)
	digest = normalizer.Normalize(ctx, raw).Digest()

	if digest != "" && p.s.cache != nil {
		err := p.s.cache.Set(ctx, key, digest)
		if err != nil {
			logger.Warn().Err(err).Msg("digest cache write failed")
		}
	}

	return digest
}

// Analyze runs only the job description normalization and gap analysis.
// The returned Result carries the unmodified resume.
func (p *Pipeline) Analyze(ctx context.Context, r resume.Resume) (result Result, err error) {
	runID := uuid.NewString()
	logger := p.s.logger.With().Str("run_id", runID).Logger()

	meter := &llm.Meter{}
	gen := llm.Metered(p.gen, meter)
	opts := append(append([]Option{}, p.opts...), WithLogger(logger))

	result.RunID = runID
	result.Resume = r.Clone()
	result.Resume.Normalize()

	if strings.TrimSpace(result.Resume.JobDescription) == "" {
		err = errors.New("resume has no job description to analyze against")
		return result, err
	}

	result.Digest = p.digest(ctx, gen, result.Resume.JobDescription, logger)
	if result.Digest == "" {
		result.Usage = meter.Usage()
		err = errors.New("job description could not be normalized")
		return result, err
	}

	analysis := NewAnalyzer(gen, opts...).Analyze(ctx, result.Resume, result.Digest)
	result.Analysis = &analysis
	result.Usage = meter.Usage()

	return result, err
}
