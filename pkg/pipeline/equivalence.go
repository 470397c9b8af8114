package pipeline

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Equivalence maps a normalized required skill to normalized skills whose
// possession implies it. Lookups are one-directional and never transitive.
type Equivalence map[string][]string

//nolint:gochecknoglobals // Immutable replacer
var skillNormalizer = strings.NewReplacer(" ", "", ".", "", "-", "")

// NormalizeSkill lowercases s and strips spaces, dots and hyphens.
func NormalizeSkill(s string) (normalized string) {
	normalized = skillNormalizer.Replace(strings.ToLower(s))
	return normalized
}

// DefaultEquivalence returns a fresh copy of the built-in table.
func DefaultEquivalence() (table Equivalence) {
	table = Equivalence{
		"sql":      {"mysql", "postgresql", "nosql", "mongodb"},
		"restapi":  {"nodejs", "python", "java"},
		"restapis": {"nodejs", "python", "java"},
		"git":      {"github", "gitlab"},
		"react":    {"reactjs"},
		"reactjs":  {"react"},
		"nodejs":   {"node"},
		"node":     {"nodejs"},
	}
	return table
}

// Implies reports whether any of the held skills implies required.
// Both sides are normalized before comparison.
func (e Equivalence) Implies(required string, held map[string]struct{}) (ok bool) {
	related, found := e[NormalizeSkill(required)]
	if !found {
		return ok
	}

	for _, rel := range related {
		if _, has := held[NormalizeSkill(rel)]; has {
			ok = true
			return ok
		}
	}

	return ok
}

// LoadEquivalence reads a YAML mapping of skill to implying skills, e.g.
//
//	sql: [mysql, postgresql]
//	kubernetes: [k8s, eks, gke]
//
// Keys and values are normalized on load.
func LoadEquivalence(path string) (table Equivalence, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read equivalence file: %s", path)
		return table, err
	}

	raw := make(map[string][]string)
	err = yaml.Unmarshal(data, &raw)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse equivalence file: %s", path)
		return table, err
	}

	table = make(Equivalence, len(raw))
	for key, related := range raw {
		normKey := NormalizeSkill(key)
		if normKey == "" {
			continue
		}
		for _, rel := range related {
			if normRel := NormalizeSkill(rel); normRel != "" {
				table[normKey] = append(table[normKey], normRel)
			}
		}
	}

	return table, err
}
