package export

import (
	"bytes"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/hirable/internal/types"
)

// DefaultTheme is the RenderCV theme used when none is configured.
const DefaultTheme = "sb2nov"

// RenderCVOptions controls the design part of a RenderCV document.
type RenderCVOptions struct {
	Theme        string
	BoldKeywords []string
}

// RenderCVDocument is the input file format of the rendercv CLI.
type RenderCVDocument struct {
	CV       CV        `yaml:"cv"`
	Design   Design    `yaml:"design"`
	Settings *Settings `yaml:"rendercv_settings,omitempty"`
}

// CV is the content part of a RenderCV document.
type CV struct {
	Name           string          `yaml:"name"`
	Location       string          `yaml:"location,omitempty"`
	Email          string          `yaml:"email,omitempty"`
	Phone          string          `yaml:"phone,omitempty"`
	Website        string          `yaml:"website,omitempty"`
	SocialNetworks []SocialNetwork `yaml:"social_networks,omitempty"`
	Sections       Sections        `yaml:"sections,omitempty"`
}

// SocialNetwork is a profile on one of the networks RenderCV knows.
type SocialNetwork struct {
	Network  string `yaml:"network"`
	Username string `yaml:"username"`
}

// Design selects the RenderCV theme.
type Design struct {
	Theme string `yaml:"theme"`
}

// Settings holds rendercv_settings.
type Settings struct {
	BoldKeywords []string `yaml:"bold_keywords,omitempty"`
}

// Section is a titled list of entries. All entries of a section share one type.
type Section struct {
	Title   string
	Entries []any
}

// Sections keeps section order, which RenderCV uses as page order.
type Sections []Section

// MarshalYAML encodes the sections as one mapping in slice order.
func (s Sections) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, sec := range s {
		var entries yaml.Node
		if err := entries.Encode(sec.Entries); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: sec.Title},
			&entries,
		)
	}
	return node, nil
}

// Lookup returns the section with the given title.
func (s Sections) Lookup(title string) (Section, bool) {
	for _, sec := range s {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

// ExperienceEntry is a RenderCV experience entry.
type ExperienceEntry struct {
	Company    string   `yaml:"company"`
	Position   string   `yaml:"position"`
	Location   string   `yaml:"location,omitempty"`
	StartDate  string   `yaml:"start_date,omitempty"`
	EndDate    string   `yaml:"end_date,omitempty"`
	Date       string   `yaml:"date,omitempty"`
	Summary    string   `yaml:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty"`
}

// EducationEntry is a RenderCV education entry.
type EducationEntry struct {
	Institution string   `yaml:"institution"`
	Area        string   `yaml:"area"`
	Degree      string   `yaml:"degree,omitempty"`
	Location    string   `yaml:"location,omitempty"`
	StartDate   string   `yaml:"start_date,omitempty"`
	EndDate     string   `yaml:"end_date,omitempty"`
	Date        string   `yaml:"date,omitempty"`
	Summary     string   `yaml:"summary,omitempty"`
	Highlights  []string `yaml:"highlights,omitempty"`
}

// NormalEntry is a RenderCV normal entry.
type NormalEntry struct {
	Name       string   `yaml:"name"`
	Summary    string   `yaml:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty"`
}

// PublicationEntry is a RenderCV publication entry.
type PublicationEntry struct {
	Title   string   `yaml:"title"`
	Authors []string `yaml:"authors"`
	Date    string   `yaml:"date,omitempty"`
	Journal string   `yaml:"journal,omitempty"`
	Summary string   `yaml:"summary,omitempty"`
}

// OneLineEntry is a RenderCV "label: details" entry.
type OneLineEntry struct {
	Label   string `yaml:"label"`
	Details string `yaml:"details"`
}

// BulletEntry is a RenderCV bullet entry.
type BulletEntry struct {
	Bullet string `yaml:"bullet"`
}

// knownNetworks maps lower-cased platform names to RenderCV network names.
var knownNetworks = map[string]string{
	"linkedin":       "LinkedIn",
	"github":         "GitHub",
	"gitlab":         "GitLab",
	"instagram":      "Instagram",
	"orcid":          "ORCID",
	"stackoverflow":  "StackOverflow",
	"stack overflow": "StackOverflow",
	"researchgate":   "ResearchGate",
	"youtube":        "YouTube",
	"google scholar": "Google Scholar",
	"telegram":       "Telegram",
	"x":              "X",
	"twitter":        "X",
}

// rendercvDate matches the date forms RenderCV accepts in start_date and end_date.
var rendercvDate = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2})?)?$`)

// ToRenderCV converts a resume into a RenderCV document.
func ToRenderCV(r *types.Resume, opts RenderCVOptions) *RenderCVDocument {
	theme := opts.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	doc := &RenderCVDocument{
		CV: CV{
			Name:     r.BasicInfo.Name,
			Location: r.BasicInfo.ResidenceStatus,
			Email:    r.BasicInfo.Email,
			Phone:    r.BasicInfo.PhoneNumber,
		},
		Design: Design{Theme: theme},
	}
	if kw := cleanKeywords(opts.BoldKeywords); len(kw) > 0 {
		doc.Settings = &Settings{BoldKeywords: kw}
	}

	var extraLinks []any
	for _, link := range r.BasicInfo.Links {
		network, target := splitLink(link)
		if name, ok := knownNetworks[strings.ToLower(network)]; ok {
			doc.CV.SocialNetworks = append(doc.CV.SocialNetworks, SocialNetwork{Network: name, Username: username(target)})
			continue
		}
		if doc.CV.Website == "" {
			doc.CV.Website = target
			continue
		}
		extraLinks = append(extraLinks, markdownLink(network, target))
	}

	var sections Sections
	add := func(title string, entries []any) {
		if len(entries) > 0 {
			sections = append(sections, Section{Title: title, Entries: entries})
		}
	}

	var summary []any
	for _, s := range []string{r.BasicInfo.OneLiner, r.BasicInfo.Summary} {
		if s = strings.TrimSpace(s); s != "" {
			summary = append(summary, s)
		}
	}
	add("Summary", summary)

	var experience []any
	for _, e := range r.Experience {
		entry := ExperienceEntry{
			Company:    e.Company,
			Position:   e.Title,
			Location:   e.Location,
			Summary:    e.OtherInfo,
			Highlights: e.Descriptions,
		}
		entry.StartDate, entry.EndDate, entry.Date = dates(e.Start, e.End)
		experience = append(experience, entry)
	}
	add("Experience", experience)

	var education []any
	for _, e := range r.Education {
		entry := EducationEntry{
			Institution: e.School,
			Area:        e.Area,
			Degree:      e.Degree,
			Location:    e.Location,
			Highlights:  e.Descriptions,
		}
		entry.StartDate, entry.EndDate, entry.Date = dates(e.Start, e.End)
		var summary []string
		if e.GPA != "" {
			summary = append(summary, "GPA: "+e.GPA)
		}
		if len(e.Courses) > 0 {
			summary = append(summary, "Courses: "+strings.Join(e.Courses, ", "))
		}
		entry.Summary = strings.Join(summary, "\n")
		education = append(education, entry)
	}
	add("Education", education)

	var projects []any
	for _, p := range r.Projects {
		highlights := slices.Clone(p.Highlights)
		if len(p.Technologies) > 0 {
			highlights = append(highlights, "Technologies: "+strings.Join(p.Technologies, ", "))
		}
		projects = append(projects, NormalEntry{
			Name:       markdownLink(p.Title, p.Link),
			Summary:    p.Description,
			Highlights: highlights,
		})
	}
	add("Projects", projects)

	var publications []any
	for _, p := range r.Publications {
		publications = append(publications, PublicationEntry{
			Title:   markdownLink(p.Title, p.Link),
			Authors: p.Authors,
			Date:    p.Date,
			Journal: p.JournalName,
			Summary: p.Description,
		})
	}
	add("Publications", publications)

	var skills []any
	for _, g := range r.Skills {
		skills = append(skills, OneLineEntry{Label: g.Group, Details: strings.Join(g.Skills, ", ")})
	}
	add("Skills", skills)

	add("Awards", bullets(r.Awards))
	add("Certifications", bullets(r.Certifications))
	if len(r.Languages) > 0 {
		add("Languages", []any{strings.Join(r.Languages, ", ")})
	}
	if r.OtherInfo != "" {
		add("Other Information", []any{r.OtherInfo})
	}
	add("Links", extraLinks)

	doc.CV.Sections = sections
	return doc
}

// MarshalRenderCV converts a resume and encodes the RenderCV document as YAML.
func MarshalRenderCV(r *types.Resume, opts RenderCVOptions) ([]byte, error) {
	if r == nil {
		return nil, &Error{Message: "resume is nil"}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToRenderCV(r, opts)); err != nil {
		return nil, &Error{Message: "failed to encode RenderCV document", Cause: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &Error{Message: "failed to encode RenderCV document", Cause: err}
	}
	return buf.Bytes(), nil
}

// SaveRenderCV writes the RenderCV document for a resume to path.
func SaveRenderCV(path string, r *types.Resume, opts RenderCVOptions) error {
	data, err := MarshalRenderCV(r, opts)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// splitLink splits "Platform: url". A bare URL is treated as a website.
func splitLink(link string) (network, target string) {
	link = strings.TrimSpace(link)
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return "Website", link
	}
	if idx := strings.Index(link, ":"); idx >= 0 {
		return strings.TrimSpace(link[:idx]), strings.TrimSpace(link[idx+1:])
	}
	return "Website", link
}

// username returns the last path segment of a profile URL.
func username(target string) string {
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		target = u.Path
	}
	target = strings.TrimRight(target, "/")
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		target = target[idx+1:]
	}
	return target
}

func markdownLink(text, link string) string {
	if link == "" {
		return text
	}
	return "[" + text + "](" + link + ")"
}

// dates returns RenderCV start and end dates when both parse, or a free-form
// date range otherwise.
func dates(start, end string) (startDate, endDate, date string) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if strings.EqualFold(end, "present") {
		end = "present"
	}
	if rendercvDate.MatchString(start) && (end == "present" || end == "" || rendercvDate.MatchString(end)) {
		return start, end, ""
	}
	switch {
	case start != "" && end != "":
		return "", "", start + " – " + end
	case start != "":
		return "", "", start
	}
	return "", "", end
}

func bullets(items []string) []any {
	var out []any
	for _, item := range items {
		out = append(out, BulletEntry{Bullet: item})
	}
	return out
}

func cleanKeywords(keywords []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}
