package resume

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Load reads a resume profile from a JSON file.
func Load(path string) (r Resume, err error) {
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume file: %s", path)
		return r, err
	}

	r, err = Parse(fileData)
	if err != nil {
		err = errors.Wrapf(err, "failed to load resume: %s", path)
		return r, err
	}

	return r, err
}

// Parse decodes and validates resume JSON. Unknown fields are ignored.
func Parse(data []byte) (r Resume, err error) {
	err = json.Unmarshal(data, &r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse resume JSON")
		return r, err
	}

	r.Normalize()

	err = r.Validate()
	if err != nil {
		err = errors.Wrap(err, "resume validation failed")
		return r, err
	}

	return r, err
}

// Save writes the resume as indented JSON, creating parent directories as needed.
func Save(r Resume, path string) (err error) {
	r.Normalize()

	var data []byte
	data, err = json.MarshalIndent(r, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal resume")
		return err
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create directory: %s", dir)
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write resume file: %s", path)
		return err
	}

	return err
}

// Validate checks the fields every stage relies on.
func (r *Resume) Validate() (err error) {
	if r.PersonalInfo.Name == "" {
		err = errors.New("personal_info.name is required")
		return err
	}

	for i, exp := range r.Experience {
		if exp.Company == "" && exp.Role == "" {
			err = errors.Errorf("experience at index %d needs a company or role", i)
			return err
		}
	}

	for i, proj := range r.Projects {
		if proj.Name == "" {
			err = errors.Errorf("project at index %d missing name", i)
			return err
		}
	}

	return err
}

// Normalize replaces nil lists with empty ones so the JSON form never carries null.
func (r *Resume) Normalize() {
	r.Education = emptyIfNil(r.Education)
	r.Experience = emptyIfNil(r.Experience)
	r.Projects = emptyIfNil(r.Projects)
	r.Skills = emptyIfNil(r.Skills)
	r.Certifications = emptyIfNil(r.Certifications)
	r.Languages = emptyIfNil(r.Languages)
	r.CustomSections = emptyIfNil(r.CustomSections)

	for i := range r.Education {
		r.Education[i].Details = emptyIfNil(r.Education[i].Details)
	}
	for i := range r.Experience {
		r.Experience[i].Details = emptyIfNil(r.Experience[i].Details)
	}
	for i := range r.Projects {
		r.Projects[i].Technologies = emptyIfNil(r.Projects[i].Technologies)
		r.Projects[i].Details = emptyIfNil(r.Projects[i].Details)
	}
	for i := range r.Skills {
		r.Skills[i].Skills = emptyIfNil(r.Skills[i].Skills)
	}
	for i := range r.Certifications {
		r.Certifications[i].Details = emptyIfNil(r.Certifications[i].Details)
	}
	for i := range r.CustomSections {
		r.CustomSections[i].Items = emptyIfNil(r.CustomSections[i].Items)
		for j := range r.CustomSections[i].Items {
			r.CustomSections[i].Items[j].Details = emptyIfNil(r.CustomSections[i].Items[j].Details)
		}
	}
}

// Clone returns a deep copy; stages mutate the clone, never the caller's slices.
func (r Resume) Clone() (c Resume) {
	c = r
	c.Education = make([]EducationItem, len(r.Education))
	for i, e := range r.Education {
		e.Details = cloneStrings(e.Details)
		c.Education[i] = e
	}
	c.Experience = make([]ExperienceItem, len(r.Experience))
	for i, e := range r.Experience {
		e.Details = cloneStrings(e.Details)
		c.Experience[i] = e
	}
	c.Projects = make([]ProjectItem, len(r.Projects))
	for i, p := range r.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		p.Details = cloneStrings(p.Details)
		c.Projects[i] = p
	}
	c.Skills = make([]SkillCategory, len(r.Skills))
	for i, s := range r.Skills {
		s.Skills = cloneStrings(s.Skills)
		c.Skills[i] = s
	}
	c.Certifications = make([]CertificationItem, len(r.Certifications))
	for i, cert := range r.Certifications {
		cert.Details = cloneStrings(cert.Details)
		c.Certifications[i] = cert
	}
	c.Languages = cloneStrings(r.Languages)
	c.CustomSections = make([]CustomSection, len(r.CustomSections))
	for i, s := range r.CustomSections {
		items := make([]CustomItem, len(s.Items))
		for j, item := range s.Items {
			item.Details = cloneStrings(item.Details)
			items[j] = item
		}
		s.Items = items
		c.CustomSections[i] = s
	}
	return c
}

func cloneStrings(in []string) (out []string) {
	out = make([]string, len(in))
	copy(out, in)
	return out
}

func emptyIfNil[T any](in []T) (out []T) {
	out = in
	if out == nil {
		out = []T{}
	}
	return out
}
