// Package scorer audits an enriched resume against its source without any LLM calls.
package scorer

import (
	"fmt"
	"strings"

	"github.com/nikogura/resume-forge/pkg/pipeline"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// Violation is one rule broken by the enriched resume.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Location string `json:"location"`
	Found    string `json:"found"`
}

// Scores holds per-category scores out of 100 and the violations behind them.
type Scores struct {
	AntiFabrication int         `json:"anti_fabrication"`
	Accuracy        int         `json:"accuracy"`
	Quality         int         `json:"quality"`
	Overall         int         `json:"overall"`
	Violations      []Violation `json:"violations"`
}

// Scorer calculates scores from an original and enriched resume pair.
type Scorer struct {
	buzzwords []string
}

// NewScorer creates a new scorer instance.
func NewScorer() (scorer *Scorer) {
	scorer = &Scorer{buzzwords: pipeline.BannedBuzzwords()}
	return scorer
}

// Audit checks enriched against original and computes the scores.
func (s *Scorer) Audit(original, enriched resume.Resume) (scores Scores) {
	violations := make([]Violation, 0)
	violations = append(violations, s.skillViolations(original, enriched)...)
	violations = append(violations, s.experienceViolations(original, enriched)...)
	violations = append(violations, s.qualityViolations(enriched)...)

	scores = s.CalculateScores(violations)
	return scores
}

// CalculateScores computes all scores from violations.
func (s *Scorer) CalculateScores(violations []Violation) (scores Scores) {
	deductions := map[string]int{}
	for _, v := range violations {
		rule, exists := ScoringRules[v.Rule]
		if !exists {
			continue
		}
		deductions[rule.Category] += rule.Weight
	}

	scores = Scores{
		AntiFabrication: clamp(100 - deductions[CategoryAntiFabrication]),
		Accuracy:        clamp(100 - deductions[CategoryAccuracy]),
		Quality:         clamp(100 - deductions[CategoryQuality]),
		Violations:      violations,
	}

	// Overall Score (weighted by category)
	scores.Overall = int(float64(scores.AntiFabrication)*CategoryWeights[CategoryAntiFabrication] +
		float64(scores.Accuracy)*CategoryWeights[CategoryAccuracy] +
		float64(scores.Quality)*CategoryWeights[CategoryQuality])

	return scores
}

func (s *Scorer) skillViolations(original, enriched resume.Resume) (violations []Violation) {
	allowed := resume.AllowedSkills(original)

	for i, cat := range enriched.Skills {
		for _, skill := range cat.Skills {
			if !allowed.Contains(skill) {
				violations = append(violations, violation(RuleSkillFabrication, fmt.Sprintf("skills[%d]", i), skill))
			}
		}
	}

	for i, proj := range enriched.Projects {
		for _, tech := range proj.Technologies {
			if !allowed.Contains(tech) {
				violations = append(violations, violation(RuleSkillFabrication, fmt.Sprintf("projects[%d].technologies", i), tech))
			}
		}
	}

	return violations
}

func (s *Scorer) experienceViolations(original, enriched resume.Resume) (violations []Violation) {
	if len(enriched.Experience) < len(original.Experience) {
		for _, exp := range original.Experience[len(enriched.Experience):] {
			violations = append(violations, violation(RuleExperienceDropped, "experience", exp.Company))
		}
	}

	n := min(len(original.Experience), len(enriched.Experience))
	for i := range n {
		before, after := original.Experience[i], enriched.Experience[i]
		loc := fmt.Sprintf("experience[%d]", i)

		if !sameText(before.Company, after.Company) {
			violations = append(violations, violation(RuleCompanyMismatch, loc, after.Company))
		}
		if !sameText(before.Role, after.Role) {
			violations = append(violations, violation(RuleRoleTitleMismatch, loc, after.Role))
		}
		if !sameText(before.StartDate, after.StartDate) || !sameText(before.EndDate, after.EndDate) {
			violations = append(violations, violation(RuleDateMismatch, loc, after.StartDate+" - "+after.EndDate))
		}
	}

	return violations
}

func (s *Scorer) qualityViolations(enriched resume.Resume) (violations []Violation) {
	check := func(loc string, details []string) {
		if len(details) < 2 {
			violations = append(violations, violation(RuleSparseSection, loc, fmt.Sprintf("%d bullets", len(details))))
		}
		for j, d := range details {
			if word := s.buzzword(d); word != "" {
				violations = append(violations, violation(RuleBannedBuzzword, fmt.Sprintf("%s.details[%d]", loc, j), word))
			}
		}
	}

	for i, exp := range enriched.Experience {
		check(fmt.Sprintf("experience[%d]", i), exp.Details)
	}
	for i, proj := range enriched.Projects {
		if proj.Name == "" {
			continue
		}
		check(fmt.Sprintf("projects[%d]", i), proj.Details)
	}

	for i, cat := range enriched.Skills {
		if len(cat.Skills) == 0 {
			violations = append(violations, violation(RuleEmptySkillCategory, fmt.Sprintf("skills[%d]", i), cat.Category))
		}
	}

	return violations
}

func (s *Scorer) buzzword(text string) (word string) {
	lower := strings.ToLower(text)
	for _, w := range s.buzzwords {
		if strings.Contains(lower, w) {
			word = w
			return word
		}
	}
	return word
}

// ExtractLessons summarizes the violations as human-readable lines.
func (s *Scorer) ExtractLessons(scores Scores) (lessons []string) {
	lessons = []string{}

	counts := map[string]int{}
	for _, v := range scores.Violations {
		counts[v.Rule]++
		if v.Severity == "critical" {
			lessons = append(lessons, fmt.Sprintf("%s at %s: %s", v.Rule, v.Location, v.Found))
		}
	}

	if counts[RuleBannedBuzzword] > 0 {
		lessons = append(lessons, fmt.Sprintf("%d bullets use banned buzzwords", counts[RuleBannedBuzzword]))
	}

	if counts[RuleSparseSection] > 0 {
		lessons = append(lessons, fmt.Sprintf("%d entries still have fewer than two bullets", counts[RuleSparseSection]))
	}

	// Check overall score
	if scores.Overall < AcceptableScore {
		lessons = append(lessons, "Overall quality below acceptable threshold - review the enriched resume before use")
	}

	return lessons
}

func violation(rule, location, found string) (v Violation) {
	v = Violation{
		Rule:     rule,
		Severity: ScoringRules[rule].Severity,
		Location: location,
		Found:    found,
	}
	return v
}

func sameText(a, b string) (same bool) {
	same = strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	return same
}

func clamp(score int) (clamped int) {
	clamped = max(0, min(100, score))
	return clamped
}
