package resume

import (
	"sort"
	"strings"
)

// SkillSet is the whitelist of skills a resume already claims. Members keep their
// original spelling; membership checks ignore case.
type SkillSet struct {
	members map[string]struct{}
	lower   map[string]struct{}
}

// AllowedSkills unions every skill category entry with every project technology.
// Entries are trimmed and blanks dropped.
func AllowedSkills(r Resume) (set SkillSet) {
	set = SkillSet{
		members: make(map[string]struct{}),
		lower:   make(map[string]struct{}),
	}

	for _, cat := range r.Skills {
		for _, s := range cat.Skills {
			set.add(s)
		}
	}

	for _, proj := range r.Projects {
		for _, t := range proj.Technologies {
			set.add(t)
		}
	}

	return set
}

func (s *SkillSet) add(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	s.members[skill] = struct{}{}
	s.lower[strings.ToLower(skill)] = struct{}{}
}

// Len returns the number of distinct (case-sensitive) members.
func (s SkillSet) Len() (n int) {
	n = len(s.members)
	return n
}

// Contains reports whether skill is a member, ignoring case and surrounding space.
func (s SkillSet) Contains(skill string) (ok bool) {
	_, ok = s.lower[strings.ToLower(strings.TrimSpace(skill))]
	return ok
}

// Items returns the members sorted.
func (s SkillSet) Items() (items []string) {
	items = make([]string, 0, len(s.members))
	for m := range s.members {
		items = append(items, m)
	}
	sort.Strings(items)
	return items
}

// String joins the sorted members with ", " for use in prompts.
func (s SkillSet) String() (joined string) {
	joined = strings.Join(s.Items(), ", ")
	return joined
}

// Filter keeps only entries that are members, preserving order.
func (s SkillSet) Filter(skills []string) (kept []string) {
	kept = make([]string, 0, len(skills))
	for _, skill := range skills {
		if s.Contains(skill) {
			kept = append(kept, skill)
		}
	}
	return kept
}
