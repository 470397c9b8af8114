package renderer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nikogura/resume-forge/pkg/resume"
)

//nolint:gochecknoglobals // Immutable replacer
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`$`, `\$`,
	`|`, `\|`,
	`~`, `\~`,
	`^`, `\^`,
)

//nolint:gochecknoglobals // Immutable replacer
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeMarkdown makes s safe as inline markdown text. Control characters are dropped.
func EscapeMarkdown(s string) (escaped string) {
	escaped = markdownEscaper.Replace(stripControl(s))
	return escaped
}

// EscapeLaTeX makes s safe inside the raw LaTeX header block.
func EscapeLaTeX(s string) (escaped string) {
	escaped = latexEscaper.Replace(stripControl(s))
	return escaped
}

func stripControl(s string) (clean string) {
	clean = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if r == '\t' || r == '\n' {
				return ' '
			}
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	return clean
}

// Markdown renders a resume in the layout the pandoc template expects: a raw
// LaTeX centered header followed by one ## section per populated part.
func Markdown(r resume.Resume) (md string) {
	var b strings.Builder

	writeHeader(&b, r.PersonalInfo)

	if strings.TrimSpace(r.Summary) != "" {
		b.WriteString("## Professional Summary\n\n")
		b.WriteString(EscapeMarkdown(r.Summary))
		b.WriteString("\n\n")
	}

	if len(r.Experience) > 0 {
		b.WriteString("## Experience\n\n")
		for _, exp := range r.Experience {
			fmt.Fprintf(&b, "**%s** | *%s* | %s\n", EscapeMarkdown(exp.Company), EscapeMarkdown(exp.Role), dateRange(exp.StartDate, exp.EndDate))
			if exp.Location != "" {
				fmt.Fprintf(&b, "*%s*\n", EscapeMarkdown(exp.Location))
			}
			writeBullets(&b, exp.Details)
		}
	}

	if len(r.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, proj := range r.Projects {
			name := EscapeMarkdown(proj.Name)
			if proj.Link != "" {
				name = fmt.Sprintf("[%s](%s)", name, proj.Link)
			}
			fmt.Fprintf(&b, "**%s**", name)
			if len(proj.Technologies) > 0 {
				fmt.Fprintf(&b, " | *%s*", escapeJoin(proj.Technologies))
			}
			b.WriteString("\n")
			writeBullets(&b, proj.Details)
		}
	}

	if len(r.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		for _, cat := range r.Skills {
			if len(cat.Skills) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- **%s:** %s\n", EscapeMarkdown(cat.Category), escapeJoin(cat.Skills))
		}
		b.WriteString("\n")
	}

	if len(r.Education) > 0 {
		b.WriteString("## Education\n\n")
		for _, edu := range r.Education {
			fmt.Fprintf(&b, "**%s** | *%s* | %s", EscapeMarkdown(edu.Institution), EscapeMarkdown(edu.Degree), dateRange(edu.StartDate, edu.EndDate))
			if edu.GPA != "" {
				fmt.Fprintf(&b, " | GPA: %s", EscapeMarkdown(edu.GPA))
			}
			b.WriteString("\n")
			writeBullets(&b, edu.Details)
		}
	}

	if len(r.Certifications) > 0 {
		b.WriteString("## Certifications\n\n")
		for _, cert := range r.Certifications {
			line := "**" + EscapeMarkdown(cert.Name) + "**"
			if cert.Issuer != "" {
				line += ", " + EscapeMarkdown(cert.Issuer)
			}
			if cert.Date != "" {
				line += " (" + EscapeMarkdown(cert.Date) + ")"
			}
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(r.Languages) > 0 {
		b.WriteString("## Languages\n\n")
		b.WriteString(escapeJoin(r.Languages))
		b.WriteString("\n\n")
	}

	for _, section := range r.CustomSections {
		if len(section.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", EscapeMarkdown(section.Title))
		for _, item := range section.Items {
			parts := []string{"**" + EscapeMarkdown(item.Name) + "**"}
			if item.Organizer != "" {
				parts = append(parts, "*"+EscapeMarkdown(item.Organizer)+"*")
			}
			if item.Date != "" {
				parts = append(parts, EscapeMarkdown(item.Date))
			}
			b.WriteString(strings.Join(parts, " | "))
			b.WriteString("\n")
			writeBullets(&b, item.Details)
		}
	}

	md = strings.TrimRight(b.String(), "\n") + "\n"
	return md
}

func writeHeader(b *strings.Builder, info resume.PersonalInfo) {
	b.WriteString("\\begin{center}\n")
	fmt.Fprintf(b, "{\\Large\\bfseries %s}\n\n", EscapeLaTeX(info.Name))

	if info.Location != "" {
		fmt.Fprintf(b, "%s\n\n", EscapeLaTeX(info.Location))
	}

	links := make([]string, 0, 6)
	if info.Email != "" {
		links = append(links, fmt.Sprintf("\\href{mailto:%s}{%s}", info.Email, EscapeLaTeX(info.Email)))
	}
	if info.Phone != "" {
		links = append(links, EscapeLaTeX(info.Phone))
	}
	for _, link := range []struct{ url, label string }{
		{info.GitHub, "GitHub"},
		{info.LinkedIn, "LinkedIn"},
		{info.Website, "Website"},
	} {
		if link.url != "" {
			links = append(links, fmt.Sprintf("\\href{%s}{%s}", withScheme(link.url), link.label))
		}
	}
	if len(links) > 0 {
		b.WriteString(strings.Join(links, " | "))
		b.WriteString("\n")
	}

	b.WriteString("\\end{center}\n\n")
}

func writeBullets(b *strings.Builder, details []string) {
	for _, d := range details {
		if strings.TrimSpace(d) == "" {
			continue
		}
		fmt.Fprintf(b, "- %s\n", EscapeMarkdown(d))
	}
	b.WriteString("\n")
}

func dateRange(start, end string) (dates string) {
	start = EscapeMarkdown(start)
	end = EscapeMarkdown(end)
	switch {
	case start != "" && end != "":
		dates = start + " - " + end
	case start != "":
		dates = start
	default:
		dates = end
	}
	return dates
}

func escapeJoin(items []string) (joined string) {
	escaped := make([]string, 0, len(items))
	for _, item := range items {
		if e := EscapeMarkdown(item); e != "" {
			escaped = append(escaped, e)
		}
	}
	joined = strings.Join(escaped, ", ")
	return joined
}

func withScheme(url string) (full string) {
	full = url
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		full = "https://" + url
	}
	return full
}
