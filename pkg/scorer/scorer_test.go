package scorer

import (
	"testing"

	"github.com/nikogura/resume-forge/pkg/resume"
)

func sourceResume() (r resume.Resume) {
	r = resume.Resume{
		PersonalInfo: resume.PersonalInfo{Name: "Jane Doe"},
		Experience: []resume.ExperienceItem{
			{Company: "Acme", Role: "Engineer", StartDate: "2020", EndDate: "Present", Details: []string{"Wrote Go", "Ran Postgres"}},
			{Company: "Initech", Role: "Intern", StartDate: "2019", EndDate: "2019", Details: []string{"Fixed printers", "Filed TPS reports"}},
		},
		Projects: []resume.ProjectItem{
			{Name: "forge", Technologies: []string{"Go"}, Details: []string{"Built a CLI", "Shipped it"}},
		},
		Skills: []resume.SkillCategory{{Category: "Languages", Skills: []string{"Go", "SQL"}}},
	}
	r.Normalize()
	return r
}

func TestAuditCleanResume(t *testing.T) {
	r := sourceResume()
	scores := NewScorer().Audit(r, r.Clone())

	if len(scores.Violations) != 0 {
		t.Errorf("Expected no violations, got %+v", scores.Violations)
	}

	if scores.Overall != 100 {
		t.Errorf("Expected overall score 100, got %d", scores.Overall)
	}
}

func TestAuditDetectsViolations(t *testing.T) {
	original := sourceResume()
	enriched := original.Clone()

	enriched.Skills = []resume.SkillCategory{
		{Category: "Languages", Skills: []string{"Go", "Rust"}},
		{Category: "Empty", Skills: []string{}},
	}
	enriched.Projects[0].Technologies = []string{"go", "Kubernetes"}
	enriched.Experience = enriched.Experience[:1]
	enriched.Experience[0].Role = "Staff Engineer"
	enriched.Experience[0].Details = []string{"A passionate team player who wrote Go"}

	scores := NewScorer().Audit(original, enriched)

	counts := map[string]int{}
	for _, v := range scores.Violations {
		counts[v.Rule]++
	}

	expected := map[string]int{
		RuleSkillFabrication:   2,
		RuleExperienceDropped:  1,
		RuleRoleTitleMismatch:  1,
		RuleBannedBuzzword:     1,
		RuleSparseSection:      1,
		RuleEmptySkillCategory: 1,
	}

	for rule, want := range expected {
		if counts[rule] != want {
			t.Errorf("Expected %d %s violations, got %d", want, rule, counts[rule])
		}
	}

	if counts[RuleCompanyMismatch] != 0 || counts[RuleDateMismatch] != 0 {
		t.Errorf("Unexpected company/date violations: %+v", scores.Violations)
	}

	// 100 - 2*30 = 40, 100 - 25 - 15 = 60, 100 - 5 - 5 - 2 = 88
	if scores.AntiFabrication != 40 || scores.Accuracy != 60 || scores.Quality != 88 {
		t.Errorf("Unexpected category scores: %+v", scores)
	}

	// 40*0.5 + 60*0.3 + 88*0.2 = 55.6
	if scores.Overall != 55 {
		t.Errorf("Expected overall 55, got %d", scores.Overall)
	}
}

func TestCalculateScoresClampsAndIgnoresUnknownRules(t *testing.T) {
	violations := []Violation{
		{Rule: RuleSkillFabrication},
		{Rule: RuleSkillFabrication},
		{Rule: RuleSkillFabrication},
		{Rule: RuleSkillFabrication},
		{Rule: "NOT_A_RULE"},
	}

	scores := NewScorer().CalculateScores(violations)

	if scores.AntiFabrication != 0 {
		t.Errorf("Expected anti-fabrication score clamped to 0, got %d", scores.AntiFabrication)
	}

	if scores.Accuracy != 100 || scores.Quality != 100 {
		t.Errorf("Unknown rules should not deduct points: %+v", scores)
	}
}

func TestExtractLessons(t *testing.T) {
	s := NewScorer()

	lessons := s.ExtractLessons(Scores{Overall: 100})
	if len(lessons) != 0 {
		t.Errorf("Expected no lessons for a clean score, got %v", lessons)
	}

	scores := s.CalculateScores([]Violation{
		violation(RuleSkillFabrication, "skills[0]", "Rust"),
		violation(RuleSkillFabrication, "skills[0]", "Kubernetes"),
		violation(RuleExperienceDropped, "experience", "Initech"),
		violation(RuleBannedBuzzword, "experience[0].details[0]", "passionate"),
	})

	lessons = s.ExtractLessons(scores)
	if len(lessons) != 5 {
		t.Fatalf("Expected 5 lessons, got %d: %v", len(lessons), lessons)
	}

	if lessons[0] != "SKILL_FABRICATION at skills[0]: Rust" {
		t.Errorf("Unexpected first lesson %q", lessons[0])
	}
}
