package scorer

// Rule represents a scoring rule.
type Rule struct {
	Name        string
	Category    string // anti_fabrication, accuracy, quality
	Severity    string // critical, major, minor
	Description string
	Weight      int // Points deducted for violation
}

// Rule names.
const (
	RuleSkillFabrication   = "SKILL_FABRICATION"
	RuleExperienceDropped  = "EXPERIENCE_DROPPED"
	RuleCompanyMismatch    = "COMPANY_MISMATCH"
	RuleRoleTitleMismatch  = "ROLE_TITLE_MISMATCH"
	RuleDateMismatch       = "DATE_MISMATCH"
	RuleBannedBuzzword     = "BANNED_BUZZWORD"
	RuleSparseSection      = "SPARSE_SECTION"
	RuleEmptySkillCategory = "EMPTY_SKILL_CATEGORY"
)

// Categories.
const (
	CategoryAntiFabrication = "anti_fabrication"
	CategoryAccuracy        = "accuracy"
	CategoryQuality         = "quality"
)

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = map[string]Rule{
	// Anti-Fabrication Rules (Critical)
	RuleSkillFabrication: {
		Name:        RuleSkillFabrication,
		Category:    CategoryAntiFabrication,
		Severity:    "critical",
		Description: "Skill or technology that does not appear anywhere in the source resume",
		Weight:      30,
	},

	// Accuracy Rules
	RuleExperienceDropped: {
		Name:        RuleExperienceDropped,
		Category:    CategoryAccuracy,
		Severity:    "critical",
		Description: "Experience entry present in the source resume is missing",
		Weight:      25,
	},
	RuleCompanyMismatch: {
		Name:        RuleCompanyMismatch,
		Category:    CategoryAccuracy,
		Severity:    "critical",
		Description: "Company name changed from the source resume",
		Weight:      25,
	},
	RuleRoleTitleMismatch: {
		Name:        RuleRoleTitleMismatch,
		Category:    CategoryAccuracy,
		Severity:    "major",
		Description: "Role title changed from the source resume",
		Weight:      15,
	},
	RuleDateMismatch: {
		Name:        RuleDateMismatch,
		Category:    CategoryAccuracy,
		Severity:    "major",
		Description: "Employment dates changed from the source resume",
		Weight:      15,
	},

	// Quality Rules
	RuleBannedBuzzword: {
		Name:        RuleBannedBuzzword,
		Category:    CategoryQuality,
		Severity:    "minor",
		Description: "Bullet uses a banned buzzword",
		Weight:      5,
	},
	RuleSparseSection: {
		Name:        RuleSparseSection,
		Category:    CategoryQuality,
		Severity:    "minor",
		Description: "Experience or project still has fewer than two bullets",
		Weight:      5,
	},
	RuleEmptySkillCategory: {
		Name:        RuleEmptySkillCategory,
		Category:    CategoryQuality,
		Severity:    "minor",
		Description: "Skill category left empty after pruning",
		Weight:      2,
	},
}

//nolint:gochecknoglobals // Scoring configuration constants
var CategoryWeights = map[string]float64{
	CategoryAntiFabrication: 0.50, // 50%
	CategoryAccuracy:        0.30, // 30%
	CategoryQuality:         0.20, // 20%
}

// AcceptableScore is the overall score below which an enrichment deserves a manual review.
const AcceptableScore = 70
