// Package steps defines the pipeline's step table, selects the steps a run needs,
// and validates the resulting dependency graph.
package steps

import (
	"fmt"
	"sort"
	"strings"

	dbpkg "github.com/jonathan/hirable/internal/db"
)

// Step names
const (
	IngestJob           = "ingest_job"
	IngestResume        = "ingest_resume"
	LoadResume          = "load_resume"
	AdaptResume         = "adapt_resume"
	GenerateCoverLetter = "generate_cover_letter"
)

// AcquireResume is the abstract dependency satisfied by whichever of
// ingest_resume or load_resume a run selects.
const AcquireResume = "acquire_resume"

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Artifact     string
	Dependencies []string
	// Provides names the abstract dependency this step can satisfy.
	Provides string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	IngestJob: {
		Name:     IngestJob,
		Category: dbpkg.CategoryIngestion,
		Artifact: dbpkg.StepJobPosting,
	},
	IngestResume: {
		Name:     IngestResume,
		Category: dbpkg.CategoryIngestion,
		Artifact: dbpkg.StepResume,
		Provides: AcquireResume,
	},
	LoadResume: {
		Name:     LoadResume,
		Category: dbpkg.CategoryIngestion,
		Artifact: dbpkg.StepResume,
		Provides: AcquireResume,
	},
	AdaptResume: {
		Name:         AdaptResume,
		Category:     dbpkg.CategoryAdaptation,
		Artifact:     dbpkg.StepResumeOut,
		Dependencies: []string{IngestJob, AcquireResume},
	},
	GenerateCoverLetter: {
		Name:         GenerateCoverLetter,
		Category:     dbpkg.CategoryGeneration,
		Artifact:     dbpkg.StepCoverLetter,
		Dependencies: []string{AdaptResume},
	},
}

// Source reports which way a run acquires its resume.
type Source interface {
	// HasResumeRecord is true when the run starts from a structured resume
	// instead of raw resume text.
	HasResumeRecord() bool
}

// GraphError reports an invalid step graph.
type GraphError struct {
	Step    string
	Message string
}

func (e *GraphError) Error() string {
	if e.Step == "" {
		return "invalid step graph: " + e.Message
	}
	return fmt.Sprintf("invalid step graph at %s: %s", e.Step, e.Message)
}

// Plan returns the steps a run executes, in dependency order, with the abstract
// acquire_resume dependency bound to the selected resume step.
func Plan(src Source) []StepDefinition {
	resumeStep := IngestResume
	if src.HasResumeRecord() {
		resumeStep = LoadResume
	}

	names := []string{IngestJob, resumeStep, AdaptResume, GenerateCoverLetter}
	plan := make([]StepDefinition, 0, len(names))
	for _, name := range names {
		def := StepRegistry[name]
		deps := make([]string, 0, len(def.Dependencies))
		for _, dep := range def.Dependencies {
			if dep == AcquireResume {
				dep = resumeStep
			}
			deps = append(deps, dep)
		}
		def.Dependencies = deps
		plan = append(plan, def)
	}
	return plan
}

// Validate checks that every dependency in the plan names a planned step, that
// no step appears twice, and that the graph has no cycles.
func Validate(plan []StepDefinition) error {
	byName := make(map[string]StepDefinition, len(plan))
	for _, def := range plan {
		if _, dup := byName[def.Name]; dup {
			return &GraphError{Step: def.Name, Message: "duplicate step"}
		}
		byName[def.Name] = def
	}
	for _, def := range plan {
		for _, dep := range def.Dependencies {
			if _, ok := byName[dep]; !ok {
				return &GraphError{Step: def.Name, Message: fmt.Sprintf("unknown dependency %q", dep)}
			}
		}
	}

	// Kahn's algorithm; whatever is left unsorted sits on a cycle.
	indegree := make(map[string]int, len(plan))
	dependents := make(map[string][]string, len(plan))
	for _, def := range plan {
		indegree[def.Name] += 0
		for _, dep := range def.Dependencies {
			indegree[def.Name]++
			dependents[dep] = append(dependents[dep], def.Name)
		}
	}
	var queue []string
	for name, n := range indegree {
		if n == 0 {
			queue = append(queue, name)
		}
	}
	sorted := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		sorted++
		for _, next := range dependents[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if sorted != len(plan) {
		var cyclic []string
		for name, n := range indegree {
			if n > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return &GraphError{Message: "dependency cycle through " + strings.Join(cyclic, ", ")}
	}
	return nil
}

// Ready returns the steps of pending whose dependencies are all in done,
// preserving plan order.
func Ready(pending []StepDefinition, done map[string]bool) []StepDefinition {
	var ready []StepDefinition
	for _, def := range pending {
		if dependenciesMet(def, done) {
			ready = append(ready, def)
		}
	}
	return ready
}

func dependenciesMet(def StepDefinition, done map[string]bool) bool {
	for _, dep := range def.Dependencies {
		if !done[dep] {
			return false
		}
	}
	return true
}
