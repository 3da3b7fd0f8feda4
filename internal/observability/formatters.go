// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hirable/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// writeList writes up to limit items under a heading, then a "... and N more" line.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// Print dispatches on the record type. Unknown values are ignored.
func (p *Printer) Print(content any) {
	switch v := content.(type) {
	case *types.JobPosting:
		p.PrintJobPosting(v)
	case *types.Resume:
		p.PrintResume("RESUME", v)
	case *types.CoverLetter:
		p.PrintCoverLetter(v)
	}
}

// PrintJobPosting outputs a human-readable summary of the parsed job posting.
func (p *Printer) PrintJobPosting(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.CompanyName))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", job.Title))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}
	sb.WriteString("\n")

	if len(job.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n\n", strings.Join(job.Keywords, ", ")))
	}
	writeList(&sb, "Required", job.RequiredQualifications, maxItemsToShow)
	writeList(&sb, "Nice-to-haves", job.DesiredQualifications, 3)

	p.printBox("PARSED JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a summary of a resume record under the given title.
func (p *Printer) PrintResume(title string, r *types.Resume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", r.BasicInfo.Name))
	if r.BasicInfo.OneLiner != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", r.BasicInfo.OneLiner))
	}
	sb.WriteString(fmt.Sprintf("Sections: %d experience, %d education, %d projects, %d publications\n",
		len(r.Experience), len(r.Education), len(r.Projects), len(r.Publications)))
	sb.WriteString("\n")

	var roles []string
	for _, e := range r.Experience {
		roles = append(roles, fmt.Sprintf("%s @ %s", e.Title, e.Company))
	}
	writeList(&sb, "Experience", roles, maxItemsToShow)

	var groups []string
	for _, g := range r.Skills {
		groups = append(groups, g.String())
	}
	writeList(&sb, "Skills", groups, maxItemsToShow)

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverLetter outputs the letter header and the opening of its body.
func (p *Printer) PrintCoverLetter(letter *types.CoverLetter) {
	if letter == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To:       %s", letter.CompanyName))
	if letter.TeamName != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", letter.TeamName))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Position: %s\n\n", letter.PositionTitle))
	sb.WriteString(letter.Salutation + "\n")

	paragraphs := strings.Split(strings.TrimSpace(letter.Body), "\n\n")
	sb.WriteString(strings.TrimSpace(paragraphs[0]) + "\n")
	if len(paragraphs) > 1 {
		sb.WriteString(fmt.Sprintf("... and %d more paragraphs\n", len(paragraphs)-1))
	}
	sb.WriteString(letter.Closing)

	p.printBox("COVER LETTER", sb.String())
}
