package resume

// Resume is the aggregate that flows through every enrichment stage.
type Resume struct {
	PersonalInfo   PersonalInfo        `json:"personal_info"`
	Education      []EducationItem     `json:"education"`
	Experience     []ExperienceItem    `json:"experience"`
	Projects       []ProjectItem       `json:"projects"`
	Skills         []SkillCategory     `json:"skills"`
	Certifications []CertificationItem `json:"certifications"`
	Languages      []string            `json:"languages"`
	CustomSections []CustomSection     `json:"custom_sections"`
	JobDescription string              `json:"job_description,omitempty"`
	Summary        string              `json:"summary,omitempty"`
}

// PersonalInfo represents contact details.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

// EducationItem represents a degree or program.
type EducationItem struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Location    string   `json:"location,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Details     []string `json:"details"`
}

// ExperienceItem represents a position. EndDate is "Present" for a current role.
type ExperienceItem struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Location  string   `json:"location,omitempty"`
	Details   []string `json:"details"`
}

// ProjectItem represents a project and the technologies it used.
type ProjectItem struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
	Details      []string `json:"details"`
}

// SkillCategory is a named, ordered list of skills.
type SkillCategory struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// CertificationItem represents a certification.
type CertificationItem struct {
	Name    string   `json:"name"`
	Issuer  string   `json:"issuer"`
	Date    string   `json:"date"`
	Link    string   `json:"link,omitempty"`
	Details []string `json:"details"`
}

// CustomSection is a user-titled section such as "Awards & Achievements".
type CustomSection struct {
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

// CustomItem is a single entry of a custom section.
type CustomItem struct {
	Name      string   `json:"name"`
	Organizer string   `json:"organizer,omitempty"`
	Date      string   `json:"date,omitempty"`
	Link      string   `json:"link,omitempty"`
	Details   []string `json:"details"`
}
