package models

// Portfolio is the single document the whole server is built around.
// It lives as one JSON file on disk and is replaced wholesale on upload;
// the chat pipeline only ever reads it.
type Portfolio struct {
	Profile        Profile         `json:"profile"`
	Skills         []SkillCategory `json:"skills,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Interests      []string        `json:"interests,omitempty"`
	Socials        []Social        `json:"socials,omitempty"`
}

// Profile holds the owner's identity. A portfolio without a profile name is
// considered invalid and is rejected at upload time.
type Profile struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
	Email    string `json:"email,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// SkillCategory groups related skills under one label ("Languages", "Cloud").
type SkillCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items,omitempty"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tech        []string `json:"tech,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Experience prefers Highlights over Description when both are present.
type Experience struct {
	Role        string   `json:"role"`
	Company     string   `json:"company,omitempty"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

type Social struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}
