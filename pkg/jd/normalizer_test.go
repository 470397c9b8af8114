package jd

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/resume-forge/pkg/llm/llmtest"
)

const rawPosting = `About Us: Acme was founded in 1999 and loves its customers.
We are looking for a Backend Engineer with Go 1.22 and PostgreSQL experience.
You will design REST APIs and mentor teammates. Acme is an Equal Opportunity Employer.`

const parsedReply = "```json\n" + `{
  "primary_technical_skills": ["Go 1.22", " PostgreSQL "],
  "secondary_technical_skills": ["Docker"],
  "soft_skills": ["Mentoring", ""],
  "experience_requirements": ["5+ years building backend services, preferably in fintech"],
  "educational_requirements": [],
  "key_responsibilities": ["Design REST APIs", "Mentor teammates"]
}` + "\n```"

func TestNormalizeBlankInput(t *testing.T) {
	fake := llmtest.New(parsedReply)
	n := NewNormalizer(fake)

	for _, raw := range []string{"", "   \n\t "} {
		parsed := n.Normalize(context.Background(), raw)
		assert.True(t, parsed.IsEmpty())
		assert.NotNil(t, parsed.KeyResponsibilities)
	}

	assert.Equal(t, 0, fake.Calls(), "blank input must not reach the generator")
}

func TestNormalizeParsesFencedReply(t *testing.T) {
	fake := llmtest.New(parsedReply)
	n := NewNormalizer(fake, WithTemperature(0.2))

	parsed := n.Normalize(context.Background(), rawPosting)

	assert.Equal(t, []string{"Go 1.22", "PostgreSQL"}, parsed.PrimaryTechnicalSkills)
	assert.Equal(t, []string{"Docker"}, parsed.SecondaryTechnicalSkills)
	assert.Equal(t, []string{"Mentoring"}, parsed.SoftSkills)
	assert.Empty(t, parsed.EducationalRequirements)
	assert.NotNil(t, parsed.EducationalRequirements)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.InDelta(t, 0.2, reqs[0].Temperature, 1e-9)
	assert.Contains(t, reqs[0].User, rawPosting)
	assert.Contains(t, reqs[0].System, "EXACT")
}

func TestNormalizeDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		fake *llmtest.Fake
	}{
		{name: "not json", fake: llmtest.New("Sure! Here are the skills: Go, SQL")},
		{name: "json array", fake: llmtest.New(`["Go", "SQL"]`)},
		{name: "transport failure", fake: llmtest.Failing("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := NewNormalizer(tt.fake).Normalize(context.Background(), rawPosting)
			assert.True(t, parsed.IsEmpty())
			assert.Equal(t, "", parsed.Digest())
		})
	}
}

func TestNormalizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parsed := NewNormalizer(llmtest.New(parsedReply)).Normalize(ctx, rawPosting)
	assert.True(t, parsed.IsEmpty())
}

func TestDigest(t *testing.T) {
	parsed := ParsedJobDescription{
		PrimaryTechnicalSkills:   []string{"Python", "Django"},
		SecondaryTechnicalSkills: []string{"Docker"},
		SoftSkills:               []string{},
		ExperienceRequirements:   []string{"3+ years of Python", "startup experience"},
		EducationalRequirements:  nil,
		KeyResponsibilities:      []string{"Build APIs", "Review code"},
	}

	expected := strings.Join([]string{
		"Primary Technical Skills: Python, Django",
		"Secondary Technical Skills: Docker",
		"Experience: 3+ years of Python; startup experience",
		"Key Responsibilities:\n- Build APIs\n- Review code",
	}, "\n\n")

	assert.Equal(t, expected, parsed.Digest())
	assert.False(t, parsed.IsEmpty())
	assert.Equal(t, "", Empty().Digest())
}
