package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/nikogura/resume-forge/pkg/llm"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// titleWordThreshold separates a bare job title from a real description.
const titleWordThreshold = 10

// criticalSkillCount is how many missing skills are called out as critical.
const criticalSkillCount = 5

// BackendFallbackSkills stand in for required skills when extraction fails
// on a backend posting.
//
//nolint:gochecknoglobals // Fallback configuration
var BackendFallbackSkills = []string{"Python", "Java", "Node.js", "SQL", "REST API", "Docker", "Git"}

// GapAnalysis compares a job's required skills with the skills a resume claims.
type GapAnalysis struct {
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Recommendations []string `json:"recommendations"`
}

func emptyAnalysis() (a GapAnalysis) {
	a = GapAnalysis{
		MatchingSkills:  []string{},
		MissingSkills:   []string{},
		Recommendations: []string{},
	}
	return a
}

// Analyzer performs skills gap analysis.
type Analyzer struct {
	gen         llm.Generator
	temperature float64
	equivalence Equivalence
	logger      zerolog.Logger
}

// NewAnalyzer creates an Analyzer. Only WithTemperatures, WithEquivalence and
// WithLogger apply.
func NewAnalyzer(gen llm.Generator, opts ...Option) (a *Analyzer) {
	s := newSettings(opts)
	a = &Analyzer{
		gen:         gen,
		temperature: s.temperatures.Extract,
		equivalence: s.equivalence,
		logger:      s.logger,
	}
	return a
}

// Analyze classifies each required skill of the digest as matching or missing.
// An empty digest yields an empty analysis without calling the generator.
func (a *Analyzer) Analyze(ctx context.Context, r resume.Resume, digest string) (analysis GapAnalysis) {
	analysis = emptyAnalysis()
	if strings.TrimSpace(digest) == "" {
		return analysis
	}

	held := make(map[string]struct{})
	for _, skill := range resume.AllowedSkills(r).Items() {
		held[NormalizeSkill(skill)] = struct{}{}
	}

	required := a.requiredSkills(ctx, digest)

	for _, skill := range required {
		if _, ok := held[NormalizeSkill(skill)]; ok {
			analysis.MatchingSkills = append(analysis.MatchingSkills, skill)
			continue
		}

		if a.equivalence.Implies(skill, held) {
			analysis.MatchingSkills = append(analysis.MatchingSkills, skill)
			continue
		}

		analysis.MissingSkills = append(analysis.MissingSkills, skill)
	}

	analysis.Recommendations = recommend(analysis.MissingSkills, len(r.Projects) > 0)

	a.logger.Info().
		Int("required", len(required)).
		Int("matching", len(analysis.MatchingSkills)).
		Int("missing", len(analysis.MissingSkills)).
		Msg("skills gap analysis complete")

	return analysis
}

// requiredSkills asks the generator for the digest's skills, deduplicated by
// normalized form with the first spelling kept.
func (a *Analyzer) requiredSkills(ctx context.Context, digest string) (skills []string) {
	titleOnly := len(strings.Fields(digest)) < titleWordThreshold
	system, user := buildSkillExtractionPrompts(digest, titleOnly)

	out := llm.Call(ctx, a.gen, llm.Request{System: system, User: user, Temperature: a.temperature}, parseSkillArray)

	var extracted []string
	switch out.Kind {
	case llm.KindOK:
		extracted = out.Value
	default:
		a.logger.Warn().
			Str("outcome", out.Kind.String()).
			Str("raw", llm.Truncate(out.Raw, 200)).
			Err(out.Err).
			Msg("could not extract skills from job description")
		if mentionsBackend(digest) {
			extracted = append([]string{}, BackendFallbackSkills...)
		}
	}

	skills = make([]string, 0, len(extracted))
	seen := make(map[string]struct{}, len(extracted))
	for _, skill := range extracted {
		key := NormalizeSkill(skill)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}

	return skills
}

// parseSkillArray decodes a JSON array of strings. Valid JSON of any other
// shape is an empty list rather than an error; non-string elements are skipped.
func parseSkillArray(raw string) (skills []string, err error) {
	cleaned := llm.StripCodeFences(raw)
	if !gjson.Valid(cleaned) {
		err = errors.New("response is not valid JSON")
		return skills, err
	}

	skills = []string{}
	result := gjson.Parse(cleaned)
	if !result.IsArray() {
		return skills, err
	}

	result.ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.String {
			if s := strings.TrimSpace(value.String()); s != "" {
				skills = append(skills, s)
			}
		}
		return true
	})

	return skills, err
}

func mentionsBackend(text string) (ok bool) {
	lower := strings.ToLower(text)
	ok = strings.Contains(lower, "backend") || strings.Contains(lower, "back-end")
	return ok
}

func recommend(missing []string, hasProjects bool) (recs []string) {
	if len(missing) == 0 {
		recs = []string{"Your resume covers all key skills from the job description!"}
		return recs
	}

	critical := missing
	var others []string
	if len(missing) > criticalSkillCount {
		critical = missing[:criticalSkillCount]
		others = missing[criticalSkillCount:]
	}

	recs = append(recs,
		fmt.Sprintf("Critical missing skills: %s", strings.Join(critical, ", ")),
		"Consider adding these to your Skills section if you have experience with them",
	)

	if len(others) > 0 {
		recs = append(recs, fmt.Sprintf("Additional skills to consider: %s", strings.Join(others, ", ")))
	}

	if hasProjects {
		recs = append(recs, "If you've used any of these in your projects, mention them in the project descriptions")
	}

	return recs
}

// Report renders the analysis as a plain text block.
func (g GapAnalysis) Report() (report string) {
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	b.WriteString(rule + "\nSKILLS GAP ANALYSIS\n" + rule + "\n\n")

	if len(g.MatchingSkills) > 0 {
		fmt.Fprintf(&b, "✓ Matching Skills (%d):\n", len(g.MatchingSkills))
		for _, s := range g.MatchingSkills {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
		b.WriteString("\n")
	}

	if len(g.MissingSkills) > 0 {
		fmt.Fprintf(&b, "✗ Missing Skills (%d):\n", len(g.MissingSkills))
		for _, s := range g.MissingSkills {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("✓ No missing skills detected!\n\n")
	}

	if len(g.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for i, rec := range g.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")

	report = b.String()
	return report
}

// WriteReport writes Report to path, creating parent directories.
func (g GapAnalysis) WriteReport(path string) (err error) {
	err = os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create directory for %s", path)
		return err
	}

	err = os.WriteFile(path, []byte(g.Report()), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write skills analysis: %s", path)
		return err
	}

	return err
}
