package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResume_Markdown(t *testing.T) {
	md := sampleResume().Markdown()

	assert.Contains(t, md, "## Basic Information\n- Name: Jane Doe\n")
	assert.Contains(t, md, "- Links: GitHub: https://github.com/janedoe")
	assert.Contains(t, md, "### Backend Engineer at Initech from 2020 to Present")
	assert.Contains(t, md, "- Built Python services")
	assert.Contains(t, md, "- Languages: Python, Go")
	assert.Contains(t, md, "## Awards\n- Employee of the Year 2022")
	assert.Contains(t, md, "## Other Information\nOpen source maintainer")
	assert.NotContains(t, md, "## Projects")
}

func TestPublication_Markdown(t *testing.T) {
	p := Publication{
		Title:       "Fast Queues",
		Authors:     []string{"J. Doe", "A. Smith"},
		Date:        "2021",
		JournalName: "SIGOPS",
		Description: "A study of queues.",
		Link:        "https://doi.org/x",
	}
	assert.Equal(t,
		"- Fast Queues by J. Doe, A. Smith (published on 2021 at SIGOPS): A study of queues. Link: https://doi.org/x\n",
		p.Markdown())
}

func TestCoverLetter_Markdown(t *testing.T) {
	c := &CoverLetter{
		CompanyName:   "Acme",
		TeamName:      "Platform",
		PositionTitle: "Senior Backend Engineer",
		Salutation:    "Dear Hiring Manager,",
		Body:          "I am excited to apply.",
		Closing:       "Sincerely",
	}

	expected := "# Acme\n**Team:** Platform\n**Position:** Senior Backend Engineer\n\n" +
		"Dear Hiring Manager,\n\nI am excited to apply.\n\nSincerely,\n"
	assert.Equal(t, expected, c.Markdown())
}

func TestJobPosting_Markdown(t *testing.T) {
	j := &JobPosting{
		Title:                  "Senior Backend Engineer",
		CompanyName:            "Acme",
		Purpose:                "Build the platform",
		Keywords:               []string{"Python", "Kubernetes"},
		RequiredQualifications: []string{"5 years Python"},
	}

	md := j.Markdown()
	assert.Contains(t, md, "# Senior Backend Engineer at Acme")
	assert.Contains(t, md, "## Keywords\n- Python\n- Kubernetes\n")
	assert.Contains(t, md, "## Required Qualifications\n- 5 years Python")
	assert.NotContains(t, md, "## Desired Qualifications")
}

func TestSkillGroup_String(t *testing.T) {
	g := SkillGroup{Group: "Cloud", Skills: []string{"AWS", "GCP"}}
	assert.Equal(t, "Cloud: AWS, GCP", g.String())
}
