package jd

import (
	"strings"
)

// ParsedJobDescription is the compact, ATS-relevant core of a job description.
type ParsedJobDescription struct {
	PrimaryTechnicalSkills   []string `json:"primary_technical_skills"`
	SecondaryTechnicalSkills []string `json:"secondary_technical_skills"`
	SoftSkills               []string `json:"soft_skills"`
	ExperienceRequirements   []string `json:"experience_requirements"`
	EducationalRequirements  []string `json:"educational_requirements"`
	KeyResponsibilities      []string `json:"key_responsibilities"`
}

// Empty returns a ParsedJobDescription whose six lists are empty, not nil.
func Empty() (parsed ParsedJobDescription) {
	parsed = ParsedJobDescription{
		PrimaryTechnicalSkills:   []string{},
		SecondaryTechnicalSkills: []string{},
		SoftSkills:               []string{},
		ExperienceRequirements:   []string{},
		EducationalRequirements:  []string{},
		KeyResponsibilities:      []string{},
	}
	return parsed
}

// IsEmpty reports whether all six lists are empty.
func (p ParsedJobDescription) IsEmpty() (empty bool) {
	empty = len(p.PrimaryTechnicalSkills) == 0 &&
		len(p.SecondaryTechnicalSkills) == 0 &&
		len(p.SoftSkills) == 0 &&
		len(p.ExperienceRequirements) == 0 &&
		len(p.EducationalRequirements) == 0 &&
		len(p.KeyResponsibilities) == 0
	return empty
}

// Digest renders the compact text form handed to downstream prompts.
// Empty lists are omitted; sections are separated by a blank line.
func (p ParsedJobDescription) Digest() (digest string) {
	parts := make([]string, 0, 6)

	if len(p.PrimaryTechnicalSkills) > 0 {
		parts = append(parts, "Primary Technical Skills: "+strings.Join(p.PrimaryTechnicalSkills, ", "))
	}

	if len(p.SecondaryTechnicalSkills) > 0 {
		parts = append(parts, "Secondary Technical Skills: "+strings.Join(p.SecondaryTechnicalSkills, ", "))
	}

	if len(p.SoftSkills) > 0 {
		parts = append(parts, "Soft Skills: "+strings.Join(p.SoftSkills, ", "))
	}

	// Requirements are often full sentences containing commas.
	if len(p.ExperienceRequirements) > 0 {
		parts = append(parts, "Experience: "+strings.Join(p.ExperienceRequirements, "; "))
	}

	if len(p.EducationalRequirements) > 0 {
		parts = append(parts, "Education: "+strings.Join(p.EducationalRequirements, "; "))
	}

	if len(p.KeyResponsibilities) > 0 {
		var b strings.Builder
		b.WriteString("Key Responsibilities:")
		for _, r := range p.KeyResponsibilities {
			b.WriteString("\n- ")
			b.WriteString(r)
		}
		parts = append(parts, b.String())
	}

	digest = strings.Join(parts, "\n\n")
	return digest
}

// clean trims entries, drops blanks, and turns nil lists into empty ones.
func (p *ParsedJobDescription) clean() {
	p.PrimaryTechnicalSkills = cleanList(p.PrimaryTechnicalSkills)
	p.SecondaryTechnicalSkills = cleanList(p.SecondaryTechnicalSkills)
	p.SoftSkills = cleanList(p.SoftSkills)
	p.ExperienceRequirements = cleanList(p.ExperienceRequirements)
	p.EducationalRequirements = cleanList(p.EducationalRequirements)
	p.KeyResponsibilities = cleanList(p.KeyResponsibilities)
}

func cleanList(in []string) (out []string) {
	out = make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
