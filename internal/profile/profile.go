package profile

// Project is a single resume project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	KeyFeatures  []string `json:"key_features"`
}

// Experience is a single employment entry.
type Experience struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Duration     string   `json:"duration"`
	Achievements []string `json:"achievements"`
}

// Education is a single degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Profile is the structured candidate record extracted from a resume.
// It is immutable once a session is created.
type Profile struct {
	Name           string       `json:"name"`
	Skills         []string     `json:"skills"`
	Certifications []string     `json:"certifications"`
	Projects       []Project    `json:"projects"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	SoftSkills     []string     `json:"soft_skills"`
}

// JobContext is the structured job-description record. Immutable once loaded.
type JobContext struct {
	Title            string   `json:"job_title"`
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	ExperienceLevel  string   `json:"experience_level"`
	Responsibilities []string `json:"key_responsibilities"`
	SoftSkills       []string `json:"soft_skills_needed"`
	FocusAreas       []string `json:"interview_focus_areas"`
}

// ProjectNames returns the project names in resume order.
func (p Profile) ProjectNames() []string {
	names := make([]string, 0, len(p.Projects))
	for _, pr := range p.Projects {
		if pr.Name != "" {
			names = append(names, pr.Name)
		}
	}
	return names
}
