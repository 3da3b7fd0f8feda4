// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/hirable/internal/llm"
)

// Request is one recorded call to the fake.
type Request struct {
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// Rule answers prompts that contain Match.
type Rule struct {
	Match    string
	Response string
	Err      error
}

// Fake is an llm.Client whose answers come from Rules, matched in order against the prompt.
// It is safe for concurrent use.
type Fake struct {
	Rules []Rule
	// Default answers prompts no rule matches. Empty means such prompts fail.
	Default string

	mu       sync.Mutex
	requests []Request
	closed   bool
}

var _ llm.Client = (*Fake)(nil)

// On appends a rule and returns the fake for chaining.
func (f *Fake) On(match, response string) *Fake {
	f.Rules = append(f.Rules, Rule{Match: match, Response: response})
	return f
}

// Fail appends a rule that returns err.
func (f *Fake) Fail(match string, err error) *Fake {
	f.Rules = append(f.Rules, Rule{Match: match, Err: err})
	return f
}

// GenerateContent records the call and answers from the rules
func (f *Fake) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.answer(Request{Prompt: prompt, Tier: tier})
}

// GenerateJSON records the call and answers from the rules
func (f *Fake) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.answer(Request{Prompt: prompt, Tier: tier, JSON: true})
}

// GetModel returns the tier name
func (f *Fake) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close marks the fake closed
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns how many requests were made.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of the recorded requests.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// CallsMatching counts requests whose prompt contains s.
func (f *Fake) CallsMatching(s string) int {
	n := 0
	for _, r := range f.Requests() {
		if strings.Contains(r.Prompt, s) {
			n++
		}
	}
	return n
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) answer(req Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	for _, rule := range f.Rules {
		if strings.Contains(req.Prompt, rule.Match) {
			if rule.Err != nil {
				return "", rule.Err
			}
			return rule.Response, nil
		}
	}
	if f.Default != "" {
		return f.Default, nil
	}
	return "", fmt.Errorf("llmtest: no rule matches prompt %.80q", req.Prompt)
}
