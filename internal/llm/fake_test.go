package llm

import (
	"context"
	"sync"
)

// fakeClient returns canned responses in order and records prompts.
type fakeClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
	tiers     []ModelTier
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "{}", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeClient) GetModel(tier ModelTier) string { return string(tier) }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
