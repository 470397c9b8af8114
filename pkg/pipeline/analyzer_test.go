package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/resume-forge/pkg/llm/llmtest"
	"github.com/nikogura/resume-forge/pkg/resume"
)

func skilledResume(skills ...string) (r resume.Resume) {
	r = resume.Resume{
		PersonalInfo: resume.PersonalInfo{Name: "Jane Doe"},
		Skills:       []resume.SkillCategory{{Category: "Languages", Skills: skills}},
	}
	r.Normalize()
	return r
}

const longDigest = `Primary Technical Skills: Python, Django, PostgreSQL

Secondary Technical Skills: Docker, Kubernetes

Key Responsibilities:
- Build scalable services for the backend platform`

func TestAnalyzeEmptyDigest(t *testing.T) {
	fake := llmtest.New(`["Go"]`)
	analysis := NewAnalyzer(fake).Analyze(context.Background(), skilledResume("Go"), "  ")

	assert.Empty(t, analysis.MatchingSkills)
	assert.Empty(t, analysis.MissingSkills)
	assert.Empty(t, analysis.Recommendations)
	assert.NotNil(t, analysis.MissingSkills)
	assert.Equal(t, 0, fake.Calls())
}

func TestAnalyzeJobTitle(t *testing.T) {
	fake := llmtest.New(`["Python","Django","PostgreSQL"]`)
	analysis := NewAnalyzer(fake).Analyze(context.Background(), skilledResume("Python", "SQL"), "Backend Engineer")

	assert.Equal(t, []string{"Python"}, analysis.MatchingSkills)
	assert.Equal(t, []string{"Django", "PostgreSQL"}, analysis.MissingSkills)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].System, "Given a job title")
	assert.Contains(t, reqs[0].User, "Job Title: Backend Engineer")
}

func TestAnalyzeFullDescriptionPrompt(t *testing.T) {
	fake := llmtest.New(`["Python"]`)
	NewAnalyzer(fake).Analyze(context.Background(), skilledResume("Python"), longDigest)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].System, "Extract ALL technical skills")
	assert.Contains(t, reqs[0].System, "soft skills")
	assert.Contains(t, reqs[0].User, longDigest)
}

func TestAnalyzeEquivalence(t *testing.T) {
	fake := llmtest.New("```json\n[\"SQL\", \"REST API\", \"Git\", \"React\", \"Node.js\", \"Rust\"]\n```")
	r := skilledResume("MySQL", "Java", "GitLab", "ReactJS", "Node")

	analysis := NewAnalyzer(fake).Analyze(context.Background(), r, longDigest)

	assert.Equal(t, []string{"SQL", "REST API", "Git", "React", "Node.js"}, analysis.MatchingSkills)
	assert.Equal(t, []string{"Rust"}, analysis.MissingSkills)
}

func TestAnalyzeInjectedEquivalence(t *testing.T) {
	fake := llmtest.New(`["Kubernetes", "SQL"]`)
	r := skilledResume("K8s", "MySQL")

	analysis := NewAnalyzer(fake, WithEquivalence(Equivalence{"kubernetes": {"k8s"}})).
		Analyze(context.Background(), r, longDigest)

	assert.Equal(t, []string{"Kubernetes"}, analysis.MatchingSkills)
	assert.Equal(t, []string{"SQL"}, analysis.MissingSkills, "default table must be replaced, not merged")
}

func TestAnalyzeDeduplicatesRequiredSkills(t *testing.T) {
	fake := llmtest.New(`["Node.js", "nodejs", "NodeJS", "Go", " ", 42, "go"]`)
	analysis := NewAnalyzer(fake).Analyze(context.Background(), skilledResume("Go"), longDigest)

	assert.Equal(t, []string{"Go"}, analysis.MatchingSkills)
	assert.Equal(t, []string{"Node.js"}, analysis.MissingSkills)
}

func TestAnalyzeBackendFallback(t *testing.T) {
	tests := []struct {
		name     string
		fake     *llmtest.Fake
		digest   string
		expected []string
	}{
		{
			name:     "malformed reply on backend posting",
			fake:     llmtest.New("I think they want Python"),
			digest:   "Senior Back-End Developer",
			expected: BackendFallbackSkills,
		},
		{
			name:     "transport failure on backend posting",
			fake:     llmtest.Failing("timeout"),
			digest:   longDigest,
			expected: BackendFallbackSkills,
		},
		{
			name:     "malformed reply elsewhere",
			fake:     llmtest.New("not json"),
			digest:   "Frontend Developer",
			expected: nil,
		},
		{
			name:     "valid json that is not a list",
			fake:     llmtest.New(`{"skills": ["Python"]}`),
			digest:   "Backend Engineer",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := NewAnalyzer(tt.fake).Analyze(context.Background(), skilledResume("Haskell"), tt.digest)

			all := append(append([]string{}, analysis.MatchingSkills...), analysis.MissingSkills...)
			if tt.expected == nil {
				assert.Empty(t, all)
				return
			}
			assert.ElementsMatch(t, tt.expected, all)
		})
	}
}

func TestRecommendations(t *testing.T) {
	recs := recommend(nil, true)
	assert.Equal(t, []string{"Your resume covers all key skills from the job description!"}, recs)

	recs = recommend([]string{"Go", "Rust"}, false)
	assert.Equal(t, []string{
		"Critical missing skills: Go, Rust",
		"Consider adding these to your Skills section if you have experience with them",
	}, recs)

	recs = recommend([]string{"A", "B", "C", "D", "E", "F", "G"}, true)
	require.Len(t, recs, 4)
	assert.Equal(t, "Critical missing skills: A, B, C, D, E", recs[0])
	assert.Equal(t, "Additional skills to consider: F, G", recs[2])
	assert.Contains(t, recs[3], "project descriptions")
}

func TestAnalyzeRecommendsProjectsWhenPresent(t *testing.T) {
	r := skilledResume("Go")
	r.Projects = []resume.ProjectItem{{Name: "forge", Technologies: []string{"Go"}, Details: []string{}}}

	analysis := NewAnalyzer(llmtest.New(`["Rust"]`)).Analyze(context.Background(), r, longDigest)

	require.NotEmpty(t, analysis.Recommendations)
	assert.Contains(t, analysis.Recommendations[len(analysis.Recommendations)-1], "project descriptions")
}

func TestReport(t *testing.T) {
	analysis := GapAnalysis{
		MatchingSkills:  []string{"Python"},
		MissingSkills:   []string{"Django"},
		Recommendations: []string{"Critical missing skills: Django"},
	}

	report := analysis.Report()
	assert.Contains(t, report, "SKILLS GAP ANALYSIS")
	assert.Contains(t, report, "Matching Skills (1):\n  • Python")
	assert.Contains(t, report, "Missing Skills (1):\n  • Django")
	assert.Contains(t, report, "  1. Critical missing skills: Django")

	clean := GapAnalysis{Recommendations: recommend(nil, false)}
	assert.Contains(t, clean.Report(), "No missing skills detected")

	path := filepath.Join(t.TempDir(), "out", "skills_analysis.txt")
	require.NoError(t, analysis.WriteReport(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Repeat("=", 60)))
	assert.Equal(t, report, string(data))
}
