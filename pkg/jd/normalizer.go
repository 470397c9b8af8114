package jd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nikogura/resume-forge/pkg/llm"
)

// DefaultTemperature keeps extraction close to deterministic.
const DefaultTemperature = 0.1

const normalizerSystemPrompt = `You are an expert ATS (Applicant Tracking System) analyst specializing in job description parsing.

Your task: Extract ONLY the essential, ATS-relevant information from job descriptions.

CRITICAL RULES:
1. DE-NOISE: Remove ALL of the following:
   - Company history, founding stories, "About Us" sections
   - Mission statements, vision statements, company values
   - Equal Opportunity Employer disclaimers
   - Benefits, perks, office culture descriptions
   - Application instructions, "How to Apply" sections
   - Any marketing or promotional content

2. EXTRACT EXACT KEYWORDS: Use the EXACT words from the job description
   - Do NOT paraphrase or summarize
   - Do NOT use synonyms
   - Preserve technical terms, acronyms, and version numbers (e.g., "Java 11", "AWS Lambda")

3. CATEGORIZE PRECISELY:
   - Primary Technical Skills: Core technologies/languages required (e.g., Java, Python, React)
   - Secondary Technical Skills: Tools, platforms, databases (e.g., Git, Docker, MySQL, AWS)
   - Soft Skills: Non-technical abilities (e.g., Leadership, Communication)
   - Experience Requirements: Years of experience, specific experience types
   - Educational Requirements: Degrees, certifications, educational background
   - Key Responsibilities: Top 5-7 action-oriented tasks (start with verbs)

4. MAINTAIN ATS COMPATIBILITY:
   - Keep exact keyword matches for ATS scanning
   - Preserve technical terminology as written
   - Include version numbers and specific tool names

Return ONLY a valid JSON object matching this schema:
{
    "primary_technical_skills": ["skill1", "skill2"],
    "secondary_technical_skills": ["tool1", "tool2"],
    "soft_skills": ["skill1", "skill2"],
    "experience_requirements": ["requirement1", "requirement2"],
    "educational_requirements": ["requirement1", "requirement2"],
    "key_responsibilities": ["responsibility1", "responsibility2"]
}`

const normalizerUserPrompt = `Parse this job description and extract essential information:

%s

Remove all company history, mission statements, and disclaimers.
Extract EXACT keywords and categorize them.
Return ONLY the JSON object.`

// Normalizer reduces raw job description text to a ParsedJobDescription.
type Normalizer struct {
	gen         llm.Generator
	temperature float64
	logger      zerolog.Logger
}

// NormalizerOption customizes a Normalizer.
type NormalizerOption func(*Normalizer)

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) (opt NormalizerOption) {
	opt = func(n *Normalizer) {
		n.temperature = t
	}
	return opt
}

// WithLogger sets the logger used for stats and degrade warnings.
func WithLogger(logger zerolog.Logger) (opt NormalizerOption) {
	opt = func(n *Normalizer) {
		n.logger = logger
	}
	return opt
}

// NewNormalizer creates a Normalizer on top of gen.
func NewNormalizer(gen llm.Generator, opts ...NormalizerOption) (n *Normalizer) {
	n = &Normalizer{
		gen:         gen,
		temperature: DefaultTemperature,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize parses raw into its six buckets. It never fails: blank input,
// transport errors and malformed replies all yield an empty result.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (parsed ParsedJobDescription) {
	if strings.TrimSpace(raw) == "" {
		parsed = Empty()
		return parsed
	}

	req := llm.Request{
		System:      normalizerSystemPrompt,
		User:        fmt.Sprintf(normalizerUserPrompt, raw),
		Temperature: n.temperature,
	}

	out := llm.Call(ctx, n.gen, req, parseJobDescription)
	switch out.Kind {
	case llm.KindOK:
		parsed = out.Value
	case llm.KindMalformed:
		n.logger.Warn().
			Str("outcome", out.Kind.String()).
			Str("raw", llm.Truncate(out.Raw, 200)).
			Err(out.Err).
			Msg("could not parse job description response, using empty result")
		parsed = Empty()
		return parsed
	default:
		n.logger.Warn().
			Str("outcome", out.Kind.String()).
			Err(out.Err).
			Msg("job description normalization failed, using empty result")
		parsed = Empty()
		return parsed
	}

	originalWords := len(strings.Fields(raw))
	parsedWords := len(strings.Fields(parsed.Digest()))
	reduction := 0.0
	if originalWords > 0 {
		reduction = float64(originalWords-parsedWords) / float64(originalWords) * 100
	}

	n.logger.Info().
		Int("original_words", originalWords).
		Int("parsed_words", parsedWords).
		Float64("reduction_pct", reduction).
		Msg("job description parsed")

	return parsed
}

func parseJobDescription(raw string) (parsed ParsedJobDescription, err error) {
	err = json.Unmarshal([]byte(llm.StripCodeFences(raw)), &parsed)
	if err != nil {
		return parsed, err
	}
	parsed.clean()
	return parsed, err
}
