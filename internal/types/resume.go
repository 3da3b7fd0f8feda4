package types

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resume is the structured record of an applicant's resume.
// The same type holds both the source (verbatim) and adapted (tailored) instances.
type Resume struct {
	BasicInfo      BasicInfo     `json:"basic_info" yaml:"basic_info"`
	Experience     []Experience  `json:"experience,omitempty" yaml:"experience,omitempty"`
	Education      []Education   `json:"education,omitempty" yaml:"education,omitempty"`
	Projects       []Project     `json:"projects,omitempty" yaml:"projects,omitempty"`
	Publications   []Publication `json:"publications,omitempty" yaml:"publications,omitempty"`
	Skills         []SkillGroup  `json:"skills,omitempty" yaml:"skills,omitempty"`
	Awards         []string      `json:"awards,omitempty" yaml:"awards,omitempty"`
	Certifications []string      `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	Languages      []string      `json:"languages,omitempty" yaml:"languages,omitempty"`
	OtherInfo      string        `json:"other_info,omitempty" yaml:"other_info,omitempty"`
}

// BasicInfo holds the applicant's identity and contact details.
// Links use the "Platform: url" form, e.g. "GitHub: https://github.com/jane".
type BasicInfo struct {
	Name            string   `json:"name" yaml:"name"`
	Email           string   `json:"email,omitempty" yaml:"email,omitempty"`
	PhoneNumber     string   `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	OneLiner        string   `json:"one_liner,omitempty" yaml:"one_liner,omitempty"`
	Summary         string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Links           []string `json:"links,omitempty" yaml:"links,omitempty"`
	ResidenceStatus string   `json:"residence_status,omitempty" yaml:"residence_status,omitempty"`
}

// Experience is a single work experience entry
type Experience struct {
	Title        string   `json:"title" yaml:"title"`
	Company      string   `json:"company" yaml:"company"`
	Start        string   `json:"start" yaml:"start"`
	End          string   `json:"end" yaml:"end"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	Descriptions []string `json:"descriptions" yaml:"descriptions"`
	OtherInfo    string   `json:"other_info,omitempty" yaml:"other_info,omitempty"`
}

// Education is a single education entry
type Education struct {
	Degree       string   `json:"degree" yaml:"degree"`
	Area         string   `json:"area" yaml:"area"`
	School       string   `json:"school" yaml:"school"`
	Start        string   `json:"start" yaml:"start"`
	End          string   `json:"end" yaml:"end"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	GPA          string   `json:"gpa,omitempty" yaml:"gpa,omitempty"`
	Descriptions []string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	Courses      []string `json:"courses,omitempty" yaml:"courses,omitempty"`
}

// Project is a single project entry
type Project struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Highlights   []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Link         string   `json:"link,omitempty" yaml:"link,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
}

// Publication is a single publication entry
type Publication struct {
	Title       string   `json:"title" yaml:"title"`
	Authors     []string `json:"authors" yaml:"authors"`
	Date        string   `json:"date" yaml:"date"`
	JournalName string   `json:"journal_name" yaml:"journal_name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Link        string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// SkillGroup is a named group of skills, e.g. "Programming Languages": [Go, Python].
type SkillGroup struct {
	Group  string   `json:"group" yaml:"group"`
	Skills []string `json:"skills" yaml:"skills"`
}

// UnmarshalYAML accepts both the mapping form and the legacy flat
// "Group: skill, skill" string form.
func (g *SkillGroup) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*g = ParseSkillLine(value.Value)
		return nil
	}

	type plain SkillGroup
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("failed to decode skill group: %w", err)
	}
	*g = SkillGroup(p)
	return nil
}

// ParseSkillLine converts "Group: a, b" into a SkillGroup.
// A line without a colon becomes a group named "Skills".
func ParseSkillLine(line string) SkillGroup {
	group := "Skills"
	rest := line
	if idx := strings.Index(line, ":"); idx >= 0 {
		group = strings.TrimSpace(line[:idx])
		rest = line[idx+1:]
	}

	var skills []string
	for _, s := range strings.Split(rest, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return SkillGroup{Group: group, Skills: skills}
}

// SkillNames returns every skill across all groups, in order.
func (r *Resume) SkillNames() []string {
	var names []string
	for _, g := range r.Skills {
		names = append(names, g.Skills...)
	}
	return names
}

// Clone returns a deep copy of the resume.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	out.BasicInfo.Links = slices.Clone(r.BasicInfo.Links)

	out.Experience = nil
	for _, e := range r.Experience {
		e.Descriptions = slices.Clone(e.Descriptions)
		out.Experience = append(out.Experience, e)
	}
	out.Education = nil
	for _, e := range r.Education {
		e.Descriptions = slices.Clone(e.Descriptions)
		e.Courses = slices.Clone(e.Courses)
		out.Education = append(out.Education, e)
	}
	out.Projects = nil
	for _, p := range r.Projects {
		p.Highlights = slices.Clone(p.Highlights)
		p.Technologies = slices.Clone(p.Technologies)
		out.Projects = append(out.Projects, p)
	}
	out.Publications = nil
	for _, p := range r.Publications {
		p.Authors = slices.Clone(p.Authors)
		out.Publications = append(out.Publications, p)
	}
	out.Skills = nil
	for _, g := range r.Skills {
		g.Skills = slices.Clone(g.Skills)
		out.Skills = append(out.Skills, g)
	}

	out.Awards = slices.Clone(r.Awards)
	out.Certifications = slices.Clone(r.Certifications)
	out.Languages = slices.Clone(r.Languages)
	return &out
}
