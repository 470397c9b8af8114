package renderer

import (
	"strings"
	"testing"

	"github.com/nikogura/resume-forge/pkg/resume"
)

func sampleResume() (r resume.Resume) {
	r = resume.Resume{
		PersonalInfo: resume.PersonalInfo{
			Name:     "Jane O'Doe",
			Email:    "jane@example.com",
			GitHub:   "github.com/jane",
			Location: "Austin, TX",
		},
		Summary: "Backend engineer who ships.",
		Experience: []resume.ExperienceItem{
			{Company: "Acme", Role: "Engineer", StartDate: "2020", EndDate: "Present", Details: []string{"Cut p99 latency by 40%", "Built *fast* C# tools"}},
		},
		Projects: []resume.ProjectItem{
			{Name: "forge", Link: "https://example.com/forge", Technologies: []string{"Go", "Redis"}, Details: []string{"Wrote it"}},
		},
		Skills: []resume.SkillCategory{
			{Category: "Languages", Skills: []string{"Go", "C++"}},
			{Category: "Empty", Skills: []string{}},
		},
		Education: []resume.EducationItem{
			{Institution: "State U", Degree: "BS CS", StartDate: "2012", EndDate: "2016", GPA: "3.8"},
		},
		Certifications: []resume.CertificationItem{{Name: "CKA", Issuer: "CNCF", Date: "2023"}},
		Languages:      []string{"English", "Spanish"},
		CustomSections: []resume.CustomSection{
			{Title: "Awards", Items: []resume.CustomItem{{Name: "Hackathon", Organizer: "MLH", Date: "2019", Details: []string{"First place"}}}},
		},
	}
	r.Normalize()
	return r
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sampleResume())

	expected := []string{
		"\\begin{center}\n{\\Large\\bfseries Jane O'Doe}\n\nAustin, TX\n\n",
		"\\href{mailto:jane@example.com}{jane@example.com} | \\href{https://github.com/jane}{GitHub}",
		"## Professional Summary\n\nBackend engineer who ships.\n",
		"## Experience\n\n**Acme** | *Engineer* | 2020 - Present\n- Cut p99 latency by 40%\n- Built \\*fast\\* C\\# tools\n",
		"**[forge](https://example.com/forge)** | *Go, Redis*\n- Wrote it\n",
		"- **Languages:** Go, C++\n",
		"**State U** | *BS CS* | 2012 - 2016 | GPA: 3.8\n",
		"- **CKA**, CNCF (2023)\n",
		"## Languages\n\nEnglish, Spanish\n",
		"## Awards\n\n**Hackathon** | *MLH* | 2019\n- First place\n",
	}

	for _, want := range expected {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q\n\ngot:\n%s", want, md)
		}
	}

	if strings.Contains(md, "Empty") {
		t.Error("Empty skill categories should not be rendered")
	}

	if !strings.HasSuffix(md, "\n") || strings.HasSuffix(md, "\n\n") {
		t.Error("Markdown should end with exactly one newline")
	}
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	r := resume.Resume{PersonalInfo: resume.PersonalInfo{Name: "Jane"}}
	r.Normalize()

	md := Markdown(r)

	for _, heading := range []string{"## Experience", "## Projects", "## Skills", "## Education", "## Certifications", "## Languages", "## Professional Summary"} {
		if strings.Contains(md, heading) {
			t.Errorf("Unexpected %q in markdown for an empty resume", heading)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Go developer", expected: "Go developer"},
		{name: "emphasis", input: "*bold* and _under_", expected: "\\*bold\\* and \\_under\\_"},
		{name: "link syntax", input: "[x](y)", expected: "\\[x\\](y)"},
		{name: "html", input: "<script>", expected: "\\<script\\>"},
		{name: "math and tables", input: "$5 | 10^2", expected: "\\$5 \\| 10\\^2"},
		{name: "control characters", input: "a\x00b\tc\x1b", expected: "ab c"},
		{name: "trimmed", input: "  spaced  ", expected: "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeMarkdown(tt.input)
			if got != tt.expected {
				t.Errorf("EscapeMarkdown(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeLaTeX(t *testing.T) {
	got := EscapeLaTeX(`R&D 100% #1 {x} a_b ~ ^ \`)
	expected := `R\&D 100\% \#1 \{x\} a\_b \textasciitilde{} \textasciicircum{} \textbackslash{}`
	if got != expected {
		t.Errorf("EscapeLaTeX = %q, expected %q", got, expected)
	}
}
