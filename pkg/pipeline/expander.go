package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nikogura/resume-forge/pkg/llm"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// Bullet targets.
const (
	DefaultExperienceBullets = 4
	LongExperienceBullets    = 5
	ShortExperienceBullets   = 3
	ConciseProjectBullets    = 3
	ProjectBullets           = 4
	CustomItemBullets        = 3
)

//nolint:gochecknoglobals // Compiled once
var trailingYear = regexp.MustCompile(`(?:20|19)?\d{2}$`)

// TargetBullets estimates how many bullets a position deserves from its dates.
// Current roles and stints of a year or more get 5, shorter ones 3. Missing
// or unparseable dates get 4.
func TargetBullets(start, end string) (target int) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if start == "" || end == "" {
		target = DefaultExperienceBullets
		return target
	}

	lowerEnd := strings.ToLower(end)
	for _, word := range []string{"present", "current", "now"} {
		if strings.Contains(lowerEnd, word) {
			target = LongExperienceBullets
			return target
		}
	}

	startYear, okStart := parseYear(start)
	endYear, okEnd := parseYear(end)
	if !okStart || !okEnd {
		target = DefaultExperienceBullets
		return target
	}

	duration := endYear - startYear
	if duration < 0 {
		duration = -duration
	}

	target = ShortExperienceBullets
	if duration >= 1 {
		target = LongExperienceBullets
	}

	return target
}

// parseYear reads a 2 or 4 digit year at the end of s. Two digit years
// below 70 are taken as 20xx.
func parseYear(s string) (year int, ok bool) {
	match := trailingYear.FindString(s)
	if match == "" {
		return year, ok
	}

	var err error
	year, err = strconv.Atoi(match)
	if err != nil {
		return year, ok
	}

	if len(match) == 2 && year < 70 {
		year += 2000
	}

	ok = true
	return year, ok
}

// ProjectTarget is the bullet target for each project, and whether concise mode applies.
func ProjectTarget(projectCount int) (target int, concise bool) {
	concise = projectCount >= 2
	target = ProjectBullets
	if concise {
		target = ConciseProjectBullets
	}
	return target, concise
}

// Expander fills sparse experience, project and custom-section items with
// generated bullets.
type Expander struct {
	gen         llm.Generator
	temperature float64
	logger      zerolog.Logger
}

// NewExpander creates an Expander.
func NewExpander(gen llm.Generator, opts ...Option) (e *Expander) {
	s := newSettings(opts)
	e = &Expander{
		gen:         gen,
		temperature: s.temperatures.Expand,
		logger:      s.logger,
	}
	return e
}

// Expand returns a copy of r with every item topped up to its bullet target.
// Existing bullets are kept in place; new ones are appended. A generation
// failure is returned to the caller.
func (e *Expander) Expand(ctx context.Context, r resume.Resume) (out resume.Resume, err error) {
	out = r.Clone()
	allowed := resume.AllowedSkills(out)

	for i := range out.Experience {
		exp := &out.Experience[i]
		target := TargetBullets(exp.StartDate, exp.EndDate)
		needed := target - len(exp.Details)
		if needed <= 0 {
			continue
		}

		e.logger.Info().Str("company", exp.Company).Int("have", len(exp.Details)).Int("target", target).Msg("expanding experience")

		system, user := buildExperienceBulletPrompts(*exp, needed, allowed)
		var bullets []string
		bullets, err = e.generate(ctx, system, user, needed, exp.Details)
		if err != nil {
			err = errors.Wrapf(err, "failed to expand experience at %s", exp.Company)
			return r, err
		}
		exp.Details = append(exp.Details, bullets...)
	}

	target, concise := ProjectTarget(len(out.Projects))
	for i := range out.Projects {
		proj := &out.Projects[i]
		needed := target - len(proj.Details)
		if needed <= 0 {
			continue
		}

		e.logger.Info().Str("project", proj.Name).Int("have", len(proj.Details)).Int("target", target).Msg("expanding project")

		system, user := buildProjectBulletPrompts(*proj, needed, concise, allowed)
		var bullets []string
		bullets, err = e.generate(ctx, system, user, needed, proj.Details)
		if err != nil {
			err = errors.Wrapf(err, "failed to expand project %s", proj.Name)
			return r, err
		}
		proj.Details = append(proj.Details, bullets...)
	}

	for i := range out.CustomSections {
		section := &out.CustomSections[i]
		for j := range section.Items {
			item := &section.Items[j]
			needed := CustomItemBullets - len(item.Details)
			if needed <= 0 {
				continue
			}

			e.logger.Info().Str("section", section.Title).Str("item", item.Name).Msg("expanding custom section item")

			system, user := buildCustomBulletPrompts(section.Title, *item, needed, allowed)
			var bullets []string
			bullets, err = e.generate(ctx, system, user, needed, item.Details)
			if err != nil {
				err = errors.Wrapf(err, "failed to expand %s item %s", section.Title, item.Name)
				return r, err
			}
			item.Details = append(item.Details, bullets...)
		}
	}

	return out, err
}

func (e *Expander) generate(ctx context.Context, system, user string, count int, existing []string) (bullets []string, err error) {
	req := llm.Request{System: system, User: user, Temperature: e.temperature}
	result := llm.Call(ctx, e.gen, req, func(raw string) (lines []string, parseErr error) {
		lines = SplitBullets(raw, count, existing...)
		return lines, parseErr
	})

	if result.Kind == llm.KindTransportFailed {
		err = result.Err
		return bullets, err
	}

	bullets = result.Value
	if len(bullets) < count {
		e.logger.Debug().Int("requested", count).Int("received", len(bullets)).Msg("generator returned fewer bullets than requested")
	}

	return bullets, err
}

// SplitBullets turns a line-oriented reply into at most limit trimmed, non-blank
// lines. Lines repeating an earlier line or one of existing, ignoring case, are skipped.
func SplitBullets(text string, limit int, existing ...string) (bullets []string) {
	bullets = make([]string, 0, limit)
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	for _, line := range strings.Split(text, "\n") {
		if len(bullets) == limit {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		bullets = append(bullets, line)
	}
	return bullets
}
