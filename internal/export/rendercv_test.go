package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirable/internal/types"
)

func sectionTitles(s Sections) []string {
	var titles []string
	for _, sec := range s {
		titles = append(titles, sec.Title)
	}
	return titles
}

func TestToRenderCV(t *testing.T) {
	r := janeResume(t)
	r.BasicInfo.Summary = "Backend engineer."
	r.BasicInfo.PhoneNumber = "+1 555 0100"
	r.BasicInfo.Links = append(r.BasicInfo.Links, "Blog: https://jane.dev", "https://jane.example.com/talks")
	r.Education[0].GPA = "3.9"
	r.Education[0].Courses = []string{"Compilers", "Networks"}

	doc := ToRenderCV(r, RenderCVOptions{BoldKeywords: []string{"Python", " ", "python", "Kubernetes"}})

	assert.Equal(t, "Jane Doe", doc.CV.Name)
	assert.Equal(t, "jane@x.com", doc.CV.Email)
	assert.Equal(t, DefaultTheme, doc.Design.Theme)
	require.NotNil(t, doc.Settings)
	assert.Equal(t, []string{"Python", "Kubernetes"}, doc.Settings.BoldKeywords)

	assert.Equal(t, []SocialNetwork{{Network: "GitHub", Username: "janedoe"}}, doc.CV.SocialNetworks)
	assert.Equal(t, "https://jane.dev", doc.CV.Website)

	assert.Equal(t, []string{
		"Summary", "Experience", "Education", "Projects", "Skills",
		"Awards", "Certifications", "Languages", "Other Information", "Links",
	}, sectionTitles(doc.CV.Sections))

	exp, _ := doc.CV.Sections.Lookup("Experience")
	require.Len(t, exp.Entries, 1)
	assert.Equal(t, ExperienceEntry{
		Company:    "Initech",
		Position:   "Software Engineer",
		StartDate:  "2019",
		EndDate:    "present",
		Highlights: []string{"Built billing services in Go", "Maintained Kubernetes clusters"},
	}, exp.Entries[0])

	edu, _ := doc.CV.Sections.Lookup("Education")
	assert.Equal(t, "GPA: 3.9\nCourses: Compilers, Networks", edu.Entries[0].(EducationEntry).Summary)

	skills, _ := doc.CV.Sections.Lookup("Skills")
	assert.Equal(t, OneLineEntry{Label: "Languages", Details: "Python, Go"}, skills.Entries[0])

	awards, _ := doc.CV.Sections.Lookup("Awards")
	assert.Equal(t, []any{BulletEntry{Bullet: "Employee of the Year 2022"}}, awards.Entries)

	links, _ := doc.CV.Sections.Lookup("Links")
	assert.Equal(t, []any{"[Website](https://jane.example.com/talks)"}, links.Entries)
}

func TestToRenderCV_Projects(t *testing.T) {
	r := &types.Resume{
		BasicInfo: types.BasicInfo{Name: "Jane Doe"},
		Projects: []types.Project{{
			Title:        "kubectl-tidy",
			Description:  "A kubectl plugin.",
			Link:         "https://github.com/janedoe/kubectl-tidy",
			Highlights:   []string{"200 stars"},
			Technologies: []string{"Go", "Kubernetes"},
		}},
	}

	doc := ToRenderCV(r, RenderCVOptions{Theme: "classic"})

	projects, ok := doc.CV.Sections.Lookup("Projects")
	require.True(t, ok)
	assert.Equal(t, NormalEntry{
		Name:       "[kubectl-tidy](https://github.com/janedoe/kubectl-tidy)",
		Summary:    "A kubectl plugin.",
		Highlights: []string{"200 stars", "Technologies: Go, Kubernetes"},
	}, projects.Entries[0])
	assert.Equal(t, []string{"200 stars"}, r.Projects[0].Highlights, "source highlights are not modified")
	assert.Equal(t, "classic", doc.Design.Theme)
	assert.Nil(t, doc.Settings)
}

func TestDates(t *testing.T) {
	tests := []struct {
		start, end         string
		wantStart, wantEnd string
		wantDate           string
	}{
		{"2019-06", "Present", "2019-06", "present", ""},
		{"2015", "2019", "2015", "2019", ""},
		{"2020-01-15", "", "2020-01-15", "", ""},
		{"Jan 2020", "Mar 2021", "", "", "Jan 2020 – Mar 2021"},
		{"Summer 2018", "", "", "", "Summer 2018"},
	}

	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			start, end, date := dates(tt.start, tt.end)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantDate, date)
		})
	}
}

func TestSplitLink(t *testing.T) {
	tests := []struct {
		link, network, target string
	}{
		{"GitHub: https://github.com/janedoe", "GitHub", "https://github.com/janedoe"},
		{"https://jane.dev", "Website", "https://jane.dev"},
		{"jane.dev", "Website", "jane.dev"},
		{"LinkedIn:https://linkedin.com/in/jane/", "LinkedIn", "https://linkedin.com/in/jane/"},
	}

	for _, tt := range tests {
		network, target := splitLink(tt.link)
		assert.Equal(t, tt.network, network, tt.link)
		assert.Equal(t, tt.target, target, tt.link)
	}
	assert.Equal(t, "jane", username("https://linkedin.com/in/jane/"))
}

func TestMarshalRenderCV_SectionOrder(t *testing.T) {
	data, err := MarshalRenderCV(janeResume(t), RenderCVOptions{BoldKeywords: []string{"Go"}})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "cv:\n  name: Jane Doe\n"))
	assert.Contains(t, out, "design:\n  theme: sb2nov\n")
	assert.Contains(t, out, "rendercv_settings:\n  bold_keywords:")

	experience := strings.Index(out, "Experience:")
	education := strings.Index(out, "Education:")
	skills := strings.Index(out, "Skills:")
	require.True(t, experience > 0 && education > 0 && skills > 0, out)
	assert.Less(t, experience, education)
	assert.Less(t, education, skills)
	assert.Contains(t, out, "label: Languages")
	assert.Contains(t, out, "details: Python, Go")
}
