package parsing

import (
	"strings"

	"github.com/jonathan/hirable/internal/types"
)

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
}

// CanonicalSkill returns the canonical spelling of a known skill alias,
// or the trimmed input unchanged.
func CanonicalSkill(skill string) string {
	trimmed := strings.TrimSpace(skill)
	if canonical, ok := skillAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// SkillKey is the comparison key for skills: aliases fold together and case is ignored.
func SkillKey(skill string) string {
	return strings.ToLower(CanonicalSkill(skill))
}

// DedupeSkills trims entries, drops empty ones and removes duplicates by SkillKey,
// keeping the first spelling seen.
func DedupeSkills(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := SkillKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// NormalizeJobPosting trims every field, drops empty list entries and dedupes keywords.
func NormalizeJobPosting(job *types.JobPosting) {
	job.Title = strings.TrimSpace(job.Title)
	job.Purpose = strings.TrimSpace(job.Purpose)
	job.CompanyName = strings.TrimSpace(job.CompanyName)
	job.Location = strings.TrimSpace(job.Location)
	job.CompanyDescription = strings.TrimSpace(job.CompanyDescription)
	job.ComplianceText = strings.TrimSpace(job.ComplianceText)
	job.Miscellaneous = strings.TrimSpace(job.Miscellaneous)

	job.Keywords = DedupeSkills(job.Keywords)
	job.Responsibilities = trimList(job.Responsibilities)
	job.RequiredQualifications = trimList(job.RequiredQualifications)
	job.DesiredQualifications = trimList(job.DesiredQualifications)
}

// NormalizeResume trims strings, drops empty entries and empty skill groups,
// and dedupes skills inside each group.
func NormalizeResume(r *types.Resume) {
	b := &r.BasicInfo
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	b.PhoneNumber = strings.TrimSpace(b.PhoneNumber)
	b.OneLiner = strings.TrimSpace(b.OneLiner)
	b.Summary = strings.TrimSpace(b.Summary)
	b.ResidenceStatus = strings.TrimSpace(b.ResidenceStatus)
	b.Links = trimList(b.Links)

	for i := range r.Experience {
		e := &r.Experience[i]
		e.Title = strings.TrimSpace(e.Title)
		e.Company = strings.TrimSpace(e.Company)
		e.Start = strings.TrimSpace(e.Start)
		e.End = strings.TrimSpace(e.End)
		e.Location = strings.TrimSpace(e.Location)
		e.Descriptions = trimList(e.Descriptions)
		e.OtherInfo = strings.TrimSpace(e.OtherInfo)
	}
	for i := range r.Education {
		e := &r.Education[i]
		e.Degree = strings.TrimSpace(e.Degree)
		e.Area = strings.TrimSpace(e.Area)
		e.School = strings.TrimSpace(e.School)
		e.Start = strings.TrimSpace(e.Start)
		e.End = strings.TrimSpace(e.End)
		e.Location = strings.TrimSpace(e.Location)
		e.GPA = strings.TrimSpace(e.GPA)
		e.Descriptions = trimList(e.Descriptions)
		e.Courses = trimList(e.Courses)
	}
	for i := range r.Projects {
		p := &r.Projects[i]
		p.Title = strings.TrimSpace(p.Title)
		p.Description = strings.TrimSpace(p.Description)
		p.Link = strings.TrimSpace(p.Link)
		p.Highlights = trimList(p.Highlights)
		p.Technologies = DedupeSkills(p.Technologies)
	}
	for i := range r.Publications {
		p := &r.Publications[i]
		p.Title = strings.TrimSpace(p.Title)
		p.Date = strings.TrimSpace(p.Date)
		p.JournalName = strings.TrimSpace(p.JournalName)
		p.Description = strings.TrimSpace(p.Description)
		p.Link = strings.TrimSpace(p.Link)
		p.Authors = trimList(p.Authors)
	}

	var groups []types.SkillGroup
	for _, g := range r.Skills {
		g.Group = strings.TrimSpace(g.Group)
		g.Skills = DedupeSkills(g.Skills)
		if len(g.Skills) == 0 {
			continue
		}
		if g.Group == "" {
			g.Group = "Skills"
		}
		groups = append(groups, g)
	}
	r.Skills = groups

	r.Awards = trimList(r.Awards)
	r.Certifications = trimList(r.Certifications)
	r.Languages = trimList(r.Languages)
	r.OtherInfo = strings.TrimSpace(r.OtherInfo)
}

// trimList trims entries and drops empty ones. nil stays nil.
func trimList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
