package types

import (
	"fmt"
	"strings"
)

// Markdown renders the job posting as Markdown for prompts and display.
func (j *JobPosting) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s at %s\n", j.Title, j.CompanyName)
	if j.Location != "" {
		fmt.Fprintf(&sb, "**Location:** %s\n", j.Location)
	}
	fmt.Fprintf(&sb, "\n## Purpose\n%s\n", j.Purpose)
	writeList(&sb, "Keywords", j.Keywords)
	writeList(&sb, "Responsibilities", j.Responsibilities)
	writeList(&sb, "Required Qualifications", j.RequiredQualifications)
	writeList(&sb, "Desired Qualifications", j.DesiredQualifications)
	if j.CompanyDescription != "" {
		fmt.Fprintf(&sb, "\n## About %s\n%s\n", j.CompanyName, j.CompanyDescription)
	}
	if j.ComplianceText != "" {
		fmt.Fprintf(&sb, "\n## Compliance\n%s\n", j.ComplianceText)
	}
	if j.Miscellaneous != "" {
		fmt.Fprintf(&sb, "\n## Miscellaneous\n%s\n", j.Miscellaneous)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

// Markdown renders the basic information section.
func (b *BasicInfo) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## Basic Information\n")
	fmt.Fprintf(&sb, "- Name: %s\n", b.Name)
	if b.Email != "" {
		fmt.Fprintf(&sb, "- Email: %s\n", b.Email)
	}
	if b.PhoneNumber != "" {
		fmt.Fprintf(&sb, "- Phone number: %s\n", b.PhoneNumber)
	}
	if b.OneLiner != "" {
		fmt.Fprintf(&sb, "- One-liner: %s\n", b.OneLiner)
	}
	if b.Summary != "" {
		fmt.Fprintf(&sb, "- Summary: %s\n", b.Summary)
	}
	if b.ResidenceStatus != "" {
		fmt.Fprintf(&sb, "- Residence status: %s\n", b.ResidenceStatus)
	}
	if len(b.Links) > 0 {
		fmt.Fprintf(&sb, "- Links: %s\n", strings.Join(b.Links, ", "))
	}
	return sb.String()
}

// Markdown renders a work experience entry.
func (e *Experience) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s at %s", e.Title, e.Company)
	if e.Location != "" {
		fmt.Fprintf(&sb, ", %s", e.Location)
	}
	fmt.Fprintf(&sb, " from %s to %s\n", e.Start, e.End)
	if len(e.Descriptions) > 0 {
		sb.WriteString("Responsibilities and Achievements:\n")
		for _, d := range e.Descriptions {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
	}
	if e.OtherInfo != "" {
		fmt.Fprintf(&sb, "\nOther Information:\n%s\n", e.OtherInfo)
	}
	return sb.String()
}

// Markdown renders an education entry.
func (e *Education) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s in %s from %s", e.Degree, e.Area, e.School)
	if e.Location != "" {
		fmt.Fprintf(&sb, ", %s", e.Location)
	}
	fmt.Fprintf(&sb, " (%s - %s)\n", e.Start, e.End)
	for _, d := range e.Descriptions {
		fmt.Fprintf(&sb, "- %s\n", d)
	}
	if e.GPA != "" {
		fmt.Fprintf(&sb, "- GPA: %s\n", e.GPA)
	}
	if len(e.Courses) > 0 {
		fmt.Fprintf(&sb, "- Courses: %s\n", strings.Join(e.Courses, ", "))
	}
	return sb.String()
}

// Markdown renders a project entry.
func (p *Project) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n", p.Title)
	fmt.Fprintf(&sb, "- %s\n", p.Description)
	for _, h := range p.Highlights {
		fmt.Fprintf(&sb, "- %s\n", h)
	}
	if p.Link != "" {
		fmt.Fprintf(&sb, "- Link: %s\n", p.Link)
	}
	if len(p.Technologies) > 0 {
		fmt.Fprintf(&sb, "- Technologies Used: %s\n", strings.Join(p.Technologies, ", "))
	}
	return sb.String()
}

// Markdown renders a publication as a single bullet line.
func (p *Publication) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- %s by %s (published on %s at %s)", p.Title, strings.Join(p.Authors, ", "), p.Date, p.JournalName)
	if p.Description != "" {
		fmt.Fprintf(&sb, ": %s.", strings.TrimSuffix(p.Description, "."))
	}
	if p.Link != "" {
		fmt.Fprintf(&sb, " Link: %s", p.Link)
	}
	sb.WriteString("\n")
	return sb.String()
}

// String renders the group in its flat "Group: a, b" form.
func (g SkillGroup) String() string {
	return fmt.Sprintf("%s: %s", g.Group, strings.Join(g.Skills, ", "))
}

// Markdown renders the full resume.
func (r *Resume) Markdown() string {
	var sb strings.Builder
	sb.WriteString(r.BasicInfo.Markdown())
	sb.WriteString("\n")

	if len(r.Experience) > 0 {
		sb.WriteString("## Work Experience\n")
		for i := range r.Experience {
			sb.WriteString(r.Experience[i].Markdown())
			sb.WriteString("\n")
		}
	}
	if len(r.Education) > 0 {
		sb.WriteString("## Education\n")
		for i := range r.Education {
			sb.WriteString(r.Education[i].Markdown())
			sb.WriteString("\n")
		}
	}
	if len(r.Projects) > 0 {
		sb.WriteString("## Projects\n")
		for i := range r.Projects {
			sb.WriteString(r.Projects[i].Markdown())
			sb.WriteString("\n")
		}
	}
	if len(r.Publications) > 0 {
		sb.WriteString("## Publications\n")
		for i := range r.Publications {
			sb.WriteString(r.Publications[i].Markdown())
		}
		sb.WriteString("\n")
	}
	if len(r.Skills) > 0 {
		sb.WriteString("## Skills\n")
		for _, g := range r.Skills {
			fmt.Fprintf(&sb, "- %s\n", g)
		}
		sb.WriteString("\n")
	}
	writeList(&sb, "Awards", r.Awards)
	writeList(&sb, "Certifications", r.Certifications)
	writeList(&sb, "Languages", r.Languages)
	if r.OtherInfo != "" {
		fmt.Fprintf(&sb, "\n## Other Information\n%s\n", r.OtherInfo)
	}
	return sb.String()
}

// Markdown renders the cover letter with a small header block.
func (c *CoverLetter) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", c.CompanyName)
	if c.TeamName != "" {
		fmt.Fprintf(&sb, "**Team:** %s\n", c.TeamName)
	}
	fmt.Fprintf(&sb, "**Position:** %s\n\n", c.PositionTitle)
	fmt.Fprintf(&sb, "%s\n\n", c.Salutation)
	fmt.Fprintf(&sb, "%s\n\n", c.Body)
	fmt.Fprintf(&sb, "%s,\n", strings.TrimSuffix(c.Closing, ","))
	return sb.String()
}
