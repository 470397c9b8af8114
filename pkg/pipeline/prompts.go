package pipeline

import (
	"fmt"
	"strings"

	"github.com/nikogura/resume-forge/pkg/resume"
)

const titleSkillsSystemPrompt = `You are a technical recruiter. Given a job title, list the typical technical skills required.

Return ONLY a JSON array of skills. Example:
["Python", "Django", "PostgreSQL", "Docker", "AWS"]`

const extractSkillsSystemPrompt = `You are a technical recruiter analyzing job descriptions.
Extract ALL technical skills, tools, frameworks, and technologies mentioned.
Do NOT include soft skills such as communication or leadership.

Return ONLY a JSON array of skills, nothing else. Example:
["Python", "Docker", "AWS", "React", "SQL"]`

const categorizerSystemPrompt = `You are a precise Data Structuring Assistant specializing in Resume Skill Categorization.
Organize technical skills into standard Resume Categories (e.g., Programming Languages, Frameworks, Tools, Cloud, Databases).

RULES:
- Do not lose any skills from the input list.
- Do not duplicate skills.
- Create 3-5 categories max.
- Return ONLY valid JSON (list of objects).`

// bannedBuzzwords never appear in generated bullets.
//
//nolint:gochecknoglobals // Prompt configuration
var bannedBuzzwords = []string{"problem-solving", "dynamic", "team player", "passionate"}

// BannedBuzzwords returns the phrases generated bullets are told to avoid.
func BannedBuzzwords() (words []string) {
	words = append([]string{}, bannedBuzzwords...)
	return words
}

// buildSkillExtractionPrompts picks the title or full-text prompt pair.
func buildSkillExtractionPrompts(digest string, titleOnly bool) (system, user string) {
	if titleOnly {
		system = titleSkillsSystemPrompt
		user = fmt.Sprintf(`Job Title: %s

List typical technical skills required for this role.
Return ONLY the JSON array.`, digest)
		return system, user
	}

	system = extractSkillsSystemPrompt
	user = fmt.Sprintf(`Extract all technical skills from this job description:

%s

Return ONLY the JSON array of skills.`, digest)
	return system, user
}

func buildCategorizerPrompt(roleContext string, allowed resume.SkillSet) (prompt string) {
	prompt = fmt.Sprintf(`ROLE CONTEXT: %s
SKILLS LIST: %s

Return JSON format:
[
    {"category": "Programming Languages", "skills": ["Python", "Java"]},
    {"category": "Frameworks & Libraries", "skills": ["React", "FastAPI"]}
]`, roleContext, allowed.String())
	return prompt
}

// bulletRules is the rule block shared by every bullet generation prompt.
func bulletRules(verbExamples string, extra ...string) (rules string) {
	lines := []string{
		"Rules:",
		fmt.Sprintf("- Start each bullet with a strong action verb (%s, etc.)", verbExamples),
		"- BALANCED METRICS: Include natural metrics (%, numbers, $, time saved) only where they add value. Do not force a number into every bullet.",
		"- ABSOLUTE UNIQUENESS: No two bullets may repeat phrasing, structure, or content.",
		"- BANNED BUZZWORDS: Never use words like: " + quoteAll(bannedBuzzwords) + ".",
		"- NO HALLUCINATIONS: ONLY use skills and technologies from the ALLOWED SKILLS list. Do NOT invent other tools.",
	}
	lines = append(lines, extra...)
	rules = strings.Join(lines, "\n")
	return rules
}

func quoteAll(words []string) (quoted string) {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%q", w)
	}
	quoted = strings.Join(parts, ", ")
	return quoted
}

func buildExperienceBulletPrompts(exp resume.ExperienceItem, count int, allowed resume.SkillSet) (system, user string) {
	system = fmt.Sprintf(`You are a professional resume writer. Generate exactly %d compelling, achievement-oriented bullet points.

%s

ALLOWED SKILLS:
%s`, count, bulletRules("Led, Developed, Implemented, Designed", "- Keep bullets concise (1-2 lines max)."), allowed.String())

	user = fmt.Sprintf(`Generate %d professional bullet points for this work experience:

Role: %s
Company: %s
Duration: %s to %s
Location: %s

Return ONLY the bullet points, one per line, without numbers or bullet symbols.`,
		count, exp.Role, exp.Company, exp.StartDate, exp.EndDate, exp.Location)

	return system, user
}

func buildProjectBulletPrompts(proj resume.ProjectItem, count int, concise bool, allowed resume.SkillSet) (system, user string) {
	style := "- Focus on features, functionality, and impact."
	length := "- Keep bullets concise (1-2 lines max)."
	if concise {
		style = "- Focus strictly on the most important technical implementation details."
		length = "- EXTREMELY CONCISE: One technical sentence per bullet. No fluff."
	}

	system = fmt.Sprintf(`You are a professional resume writer. Generate exactly %d compelling, technical bullet points.

%s

ALLOWED SKILLS:
%s`, count, bulletRules("Built, Developed, Implemented, Designed", style, length), allowed.String())

	techList := "modern technologies"
	if len(proj.Technologies) > 0 {
		techList = strings.Join(proj.Technologies, ", ")
	}

	user = fmt.Sprintf(`Generate %d professional bullet points for this project:

Project Name: %s
Technologies: %s

Return ONLY the bullet points, one per line, without numbers or bullet symbols.`, count, proj.Name, techList)

	return system, user
}

func buildCustomBulletPrompts(sectionTitle string, item resume.CustomItem, count int, allowed resume.SkillSet) (system, user string) {
	system = fmt.Sprintf(`You are a professional resume writer. Generate exactly %d professional bullet points for a section titled %q.

%s

ALLOWED SKILLS:
%s`, count, sectionTitle, bulletRules("Organized, Won, Delivered, Presented", fmt.Sprintf("- Context: This is for a %q part of the resume.", sectionTitle)), allowed.String())

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d professional bullet points for:\nItem Name: %s\n", count, item.Name)
	if item.Organizer != "" {
		fmt.Fprintf(&b, "Organizer: %s\n", item.Organizer)
	}
	if item.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", item.Date)
	}
	fmt.Fprintf(&b, "Section: %s\n\nReturn ONLY the bullet points, one per line, without numbers or bullet symbols.", sectionTitle)
	user = b.String()

	return system, user
}

func buildEnhancerSystemPrompt(allowed resume.SkillSet) (prompt string) {
	prompt = fmt.Sprintf(`You are an expert resume writer specializing in ATS (Applicant Tracking System) optimization.

Your task: Rewrite resume bullet points to align with a job description while maintaining ABSOLUTE authenticity.

CRITICAL ATS & INTEGRITY RULES:
1. Use EXACT keywords from the job description (not synonyms), BUT ONLY if they already exist in the ALLOWED SKILLS list.
2. Incorporate technical terms and tools mentioned in the job description ONLY after verifying they are in the ALLOWED SKILLS list.
3. QUANTIFICATION: Include metrics (%%, numbers, $, or volume) where they add value, but keep them balanced and realistic. Do not force numbers into every bullet.
4. ABSOLUTE UNIQUENESS: Every bullet point must be UNIQUE. Do not repeat phrases, sentence structures, or content anywhere in the resume.
5. NO HALLUCINATIONS: Do not invent skills, tools, or experiences. If a skill in the job description is not in the ALLOWED SKILLS, do not add it.
6. VOCABULARY DIVERSITY: Use fresh, professional phrasing. Avoid filler phrases like "showcasing ability to" or "demonstrating proficiency".
7. ACTION ORIENTED: Start each bullet with a strong, varied action verb.

ALLOWED SKILLS LIST (STRICT):
%s

Focus on making the resume ATS-friendly while keeping it 100%% truthful.`, allowed.String())
	return prompt
}

func buildEnhancerUserPrompt(digest string, resumeJSON []byte) (prompt string) {
	prompt = fmt.Sprintf(`JOB DESCRIPTION:
%s

CURRENT RESUME (JSON):
%s

TASK:
Rewrite the resume to align with the job description using ONLY skills from the ALLOWED SKILLS LIST.

CRITICAL: Include ALL sections from the original resume:
- personal_info
- summary
- experience (with enhanced bullet points)
- education
- projects (with enhanced descriptions)
- skills (categorized)
- certifications (MUST be preserved exactly as provided)
- languages (MUST be preserved exactly as provided)
- custom_sections (MUST be preserved exactly as provided)

Ensure every bullet is unique and varied. Add subtle metrics where appropriate.
Return ONLY a valid JSON object matching the resume schema.`, digest, string(resumeJSON))
	return prompt
}
