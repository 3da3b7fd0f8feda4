// Package adapting rewrites each section of a resume for a specific job posting.
package adapting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/parsing"
	"github.com/jonathan/hirable/internal/prompts"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/types"
)

// Section names a resume section that is adapted independently.
type Section string

// Adapted sections, in slot order.
const (
	SectionBasicInfo    Section = "basic_info"
	SectionExperience   Section = "experience"
	SectionEducation    Section = "education"
	SectionProjects     Section = "projects"
	SectionPublications Section = "publications"
	SectionSkills       Section = "skills"
)

// Sections lists every adapted section; the index is the section's result slot.
var Sections = [6]Section{
	SectionBasicInfo,
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionPublications,
	SectionSkills,
}

// sectionTiers picks the model for each section. Free-form rewriting of
// experience and projects gets the large model.
var sectionTiers = map[Section]llm.ModelTier{
	SectionBasicInfo:    llm.TierSmall,
	SectionExperience:   llm.TierLarge,
	SectionEducation:    llm.TierSmall,
	SectionProjects:     llm.TierLarge,
	SectionPublications: llm.TierSmall,
	SectionSkills:       llm.TierSmall,
}

// Tier returns the model tier used for a section.
func Tier(s Section) llm.ModelTier {
	return sectionTiers[s]
}

// sectionResult is the wire shape of every section answer: {"<section>": value}.
type sectionResult struct {
	BasicInfo    *types.BasicInfo    `json:"basic_info,omitempty"`
	Experience   []types.Experience  `json:"experience,omitempty"`
	Education    []types.Education   `json:"education,omitempty"`
	Projects     []types.Project     `json:"projects,omitempty"`
	Publications []types.Publication `json:"publications,omitempty"`
	Skills       []types.SkillGroup  `json:"skills,omitempty"`
}

// Adapter tailors resumes with one model call per section.
type Adapter struct {
	client llm.Client
	logger *slog.Logger
}

// New creates an Adapter.
func New(client llm.Client, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{client: client, logger: logger}
}

// Adapt returns a copy of source rewritten for job.
//
// The six section calls run concurrently and share one system preamble built
// from the job. Results are stored by slot, so the output does not depend on
// completion order. The first failing call fails the adaptation. Every section is
// sent, an empty one as "None"; entries returned for an empty source section are
// discarded. Awards, certifications, languages and other info are copied unchanged.
func (a *Adapter) Adapt(ctx context.Context, source *types.Resume, job *types.JobPosting) (*types.Resume, error) {
	if source == nil || job == nil {
		return nil, fmt.Errorf("adapt: resume and job posting are required")
	}

	system, err := prompts.Render("adapt.json", "system", map[string]string{"JobPosting": job.Markdown()})
	if err != nil {
		return nil, err
	}

	var results [len(Sections)]*sectionResult
	g, gCtx := errgroup.WithContext(ctx)

	for i, section := range Sections {
		call, err := buildCall(section, system, sectionContent(source, section))
		if err != nil {
			return nil, err
		}

		g.Go(func() error {
			a.logger.Debug("adapting section", "section", section, "tier", call.Tier)
			res, err := llm.Generate[sectionResult](gCtx, a.client, call)
			if err != nil {
				return fmt.Errorf("adapt %s: %w", section, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(source, results), nil
}

func buildCall(section Section, system, content string) (llm.Call, error) {
	prompt, err := prompts.Render("adapt.json", string(section), map[string]string{"Section": content})
	if err != nil {
		return llm.Call{}, err
	}
	schema, err := schemas.Section(string(section))
	if err != nil {
		return llm.Call{}, err
	}
	return llm.Call{
		Name:   string(section),
		Tier:   Tier(section),
		System: system,
		Prompt: prompt,
		Schema: schema,
	}, nil
}

// emptySection is the prompt body for a section the source resume leaves empty.
const emptySection = "None"

// sectionContent renders a source section for its prompt.
func sectionContent(r *types.Resume, section Section) string {
	var content string
	switch section {
	case SectionBasicInfo:
		content = r.BasicInfo.Markdown()
	case SectionExperience:
		content = joinMarkdown(r.Experience, (*types.Experience).Markdown)
	case SectionEducation:
		content = joinMarkdown(r.Education, (*types.Education).Markdown)
	case SectionProjects:
		content = joinMarkdown(r.Projects, (*types.Project).Markdown)
	case SectionPublications:
		content = joinMarkdown(r.Publications, (*types.Publication).Markdown)
	case SectionSkills:
		if len(r.Skills) > 0 {
			// skills go as JSON so the model sees the group structure exactly
			data, _ := json.Marshal(r.Skills)
			content = string(data)
		}
	}
	if strings.TrimSpace(content) == "" {
		return emptySection
	}
	return content
}

func joinMarkdown[T any](items []T, render func(*T) string) string {
	parts := make([]string, 0, len(items))
	for i := range items {
		parts = append(parts, render(&items[i]))
	}
	return strings.Join(parts, "\n")
}

// assemble builds the adapted resume from the slot results.
func assemble(source *types.Resume, results [len(Sections)]*sectionResult) *types.Resume {
	verbatim := source.Clone()
	out := &types.Resume{
		BasicInfo:      verbatim.BasicInfo,
		Awards:         verbatim.Awards,
		Certifications: verbatim.Certifications,
		Languages:      verbatim.Languages,
		OtherInfo:      verbatim.OtherInfo,
	}

	if r := results[0]; r != nil && r.BasicInfo != nil {
		out.BasicInfo = *r.BasicInfo
	}
	// a section empty in the source stays empty whatever the model answered
	if r := results[1]; r != nil && len(source.Experience) > 0 {
		out.Experience = r.Experience
	}
	if r := results[2]; r != nil && len(source.Education) > 0 {
		out.Education = r.Education
	}
	if r := results[3]; r != nil && len(source.Projects) > 0 {
		out.Projects = r.Projects
	}
	if r := results[4]; r != nil && len(source.Publications) > 0 {
		out.Publications = r.Publications
	}
	if r := results[5]; r != nil {
		out.Skills = restrictSkills(r.Skills, source)
	}

	parsing.NormalizeResume(out)
	// normalization trims strings; the verbatim fields must stay byte-identical
	out.Awards = verbatim.Awards
	out.Certifications = verbatim.Certifications
	out.Languages = verbatim.Languages
	out.OtherInfo = verbatim.OtherInfo
	return out
}

// restrictSkills drops adapted skills the source resume never listed.
func restrictSkills(groups []types.SkillGroup, source *types.Resume) []types.SkillGroup {
	known := make(map[string]bool)
	for _, s := range source.SkillNames() {
		known[parsing.SkillKey(s)] = true
	}

	var out []types.SkillGroup
	for _, g := range groups {
		var kept []string
		for _, s := range g.Skills {
			if known[parsing.SkillKey(s)] {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			out = append(out, types.SkillGroup{Group: g.Group, Skills: kept})
		}
	}
	return out
}
