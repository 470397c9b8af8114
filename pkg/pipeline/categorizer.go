package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/nikogura/resume-forge/pkg/llm"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// DefaultRoleContext is used when neither a job description nor an experience role is available.
const DefaultRoleContext = "Software Developer"

const roleContextLimit = 100

//nolint:gochecknoglobals // Compiled once
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Categorizer regroups a resume's skills into 3-5 named categories.
type Categorizer struct {
	gen         llm.Generator
	temperature float64
	logger      zerolog.Logger
}

// NewCategorizer creates a Categorizer.
func NewCategorizer(gen llm.Generator, opts ...Option) (c *Categorizer) {
	s := newSettings(opts)
	c = &Categorizer{
		gen:         gen,
		temperature: s.temperatures.Categorize,
		logger:      s.logger,
	}
	return c
}

// Categorize returns r with its skill categories replaced by generated ones.
// Skills not already on the resume are pruned and categories left empty are
// dropped. On any failure the skills are returned untouched.
func (c *Categorizer) Categorize(ctx context.Context, r resume.Resume) (out resume.Resume) {
	out = r
	allowed := resume.AllowedSkills(r)
	if allowed.Len() == 0 {
		return out
	}

	roleContext := RoleContext(r)
	c.logger.Info().Int("skills", allowed.Len()).Str("role", roleContext).Msg("categorizing skills")

	req := llm.Request{
		System:      categorizerSystemPrompt,
		User:        buildCategorizerPrompt(roleContext, allowed),
		Temperature: c.temperature,
	}

	result := llm.Call(ctx, c.gen, req, parseCategories)
	if result.Kind != llm.KindOK {
		c.logger.Warn().
			Str("outcome", result.Kind.String()).
			Str("raw", llm.Truncate(result.Raw, 200)).
			Err(result.Err).
			Msg("categorization failed, keeping original layout")
		return out
	}

	pruned := make([]resume.SkillCategory, 0, len(result.Value))
	for _, cat := range result.Value {
		kept := allowed.Filter(cat.Skills)
		if len(kept) > 0 {
			pruned = append(pruned, resume.SkillCategory{Category: cat.Category, Skills: kept})
		}
	}

	if len(pruned) == 0 {
		c.logger.Warn().Msg("no categorized skills survived pruning")
	}

	out = r.Clone()
	out.Skills = pruned
	return out
}

// RoleContext picks the role the skills are organized for: the first sentence of
// the job description, else the first experience role, else DefaultRoleContext.
func RoleContext(r resume.Resume) (role string) {
	if r.JobDescription != "" {
		first := strings.TrimSpace(strings.SplitN(r.JobDescription, ".", 2)[0])
		if runes := []rune(first); len(runes) > roleContextLimit {
			first = string(runes[:roleContextLimit])
		}
		if first != "" {
			role = first
			return role
		}
	}

	if len(r.Experience) > 0 && strings.TrimSpace(r.Experience[0].Role) != "" {
		role = r.Experience[0].Role
		return role
	}

	role = DefaultRoleContext
	return role
}

// parseCategories locates the first bracketed array and decodes it into categories.
// An empty array counts as malformed so the caller keeps the existing layout.
func parseCategories(raw string) (cats []resume.SkillCategory, err error) {
	cleaned := llm.StripCodeFences(raw)
	candidate := jsonArrayPattern.FindString(cleaned)
	if candidate == "" {
		candidate = cleaned
	}

	if !gjson.Valid(candidate) {
		err = errors.New("no JSON array found in response")
		return cats, err
	}

	result := gjson.Parse(candidate)
	if !result.IsArray() {
		err = errors.New("response is not a JSON array")
		return cats, err
	}

	for _, item := range result.Array() {
		if !item.IsObject() {
			err = errors.Errorf("unexpected category entry: %s", item.Raw)
			return cats, err
		}

		name := strings.TrimSpace(item.Get("category").String())
		if name == "" {
			name = "Other"
		}

		skills := make([]string, 0)
		for _, s := range item.Get("skills").Array() {
			if s.Type == gjson.String {
				skills = append(skills, strings.TrimSpace(s.String()))
			}
		}

		cats = append(cats, resume.SkillCategory{Category: name, Skills: skills})
	}

	if len(cats) == 0 {
		err = errors.New("response contained no categories")
		return cats, err
	}

	return cats, err
}
