package llm

import (
	"strings"
)

// StripCodeFences removes a markdown code fence wrapping a response. The opening
// fence may carry a language tag such as json; surrounding whitespace is trimmed.
func StripCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, including any language tag
	newline := strings.IndexByte(cleaned, '\n')
	if newline == -1 {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "json"))
		return cleaned
	}
	cleaned = strings.TrimSpace(cleaned[newline+1:])

	// Some models put the language tag on its own line
	if strings.HasPrefix(cleaned, "json\n") || cleaned == "json" {
		cleaned = cleaned[4:]
	}

	cleaned = strings.TrimRight(cleaned, " \t\r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	return cleaned
}
