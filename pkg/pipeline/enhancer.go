package pipeline

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/nikogura/resume-forge/pkg/llm"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// Enhancer rewrites a resume against a job description digest.
type Enhancer struct {
	gen         llm.Generator
	temperature float64
	logger      zerolog.Logger
}

// NewEnhancer creates an Enhancer.
func NewEnhancer(gen llm.Generator, opts ...Option) (e *Enhancer) {
	s := newSettings(opts)
	e = &Enhancer{
		gen:         gen,
		temperature: s.temperatures.Enhance,
		logger:      s.logger,
	}
	return e
}

// Enhance returns the tailored resume. Skills and project technologies are
// pruned to those already on r, and certifications, languages and custom
// sections dropped by the generator are restored. Any failure returns r.
func (e *Enhancer) Enhance(ctx context.Context, r resume.Resume, digest string) (out resume.Resume) {
	out = r
	allowed := resume.AllowedSkills(r)

	resumeJSON, err := promptResumeJSON(r)
	if err != nil {
		e.logger.Warn().Err(err).Msg("could not serialize resume, skipping enhancement")
		return out
	}

	req := llm.Request{
		System:      buildEnhancerSystemPrompt(allowed),
		User:        buildEnhancerUserPrompt(digest, resumeJSON),
		Temperature: e.temperature,
	}

	result := llm.Call(ctx, e.gen, req, parseResume)
	if result.Kind != llm.KindOK {
		e.logger.Warn().
			Str("outcome", result.Kind.String()).
			Str("raw", llm.Truncate(result.Raw, 200)).
			Err(result.Err).
			Msg("enhancement failed, returning original resume")
		return out
	}

	enhanced := result.Value

	for i := range enhanced.Skills {
		enhanced.Skills[i].Skills = allowed.Filter(enhanced.Skills[i].Skills)
	}

	for i := range enhanced.Projects {
		enhanced.Projects[i].Technologies = allowed.Filter(enhanced.Projects[i].Technologies)
	}

	if len(r.Certifications) > 0 && len(enhanced.Certifications) == 0 {
		e.logger.Warn().Msg("generator dropped certifications, restoring original")
		enhanced.Certifications = r.Clone().Certifications
	}

	if len(r.Languages) > 0 && len(enhanced.Languages) == 0 {
		e.logger.Warn().Msg("generator dropped languages, restoring original")
		enhanced.Languages = r.Clone().Languages
	}

	if len(r.CustomSections) > 0 && len(enhanced.CustomSections) == 0 {
		e.logger.Warn().Msg("generator dropped custom sections, restoring original")
		enhanced.CustomSections = r.Clone().CustomSections
	}

	enhanced.JobDescription = r.JobDescription

	out = enhanced
	return out
}

// promptResumeJSON serializes r for the prompt without the raw job description,
// which the digest already stands in for.
func promptResumeJSON(r resume.Resume) (data []byte, err error) {
	data, err = json.MarshalIndent(r, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal resume")
		return data, err
	}

	data, err = sjson.DeleteBytes(data, "job_description")
	if err != nil {
		err = errors.Wrap(err, "failed to strip job description")
		return data, err
	}

	return data, err
}

// parseResume decodes a generated resume. A reply without a name is treated
// as malformed since it cannot be a faithful rewrite.
func parseResume(raw string) (r resume.Resume, err error) {
	err = json.Unmarshal([]byte(llm.StripCodeFences(raw)), &r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse enhanced resume")
		return r, err
	}

	if r.PersonalInfo.Name == "" {
		err = errors.New("enhanced resume is missing personal_info.name")
		return r, err
	}

	r.Normalize()
	return r, err
}
