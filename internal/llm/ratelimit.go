package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Client so that every call first waits on a shared limiter.
// Concurrent section calls therefore never exceed the configured request rate.
type RateLimited struct {
	Client
	limiter *rate.Limiter
}

// NewRateLimited wraps client with a limiter allowing rps requests per second.
// The burst is one request, or the whole per-second allowance when rps >= 1.
func NewRateLimited(client Client, rps float64) *RateLimited {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// GenerateContent waits for a token, then delegates
func (r *RateLimited) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", &APICallError{Message: "rate limiter wait aborted", Cause: err}
	}
	return r.Client.GenerateContent(ctx, prompt, tier)
}

// GenerateJSON waits for a token, then delegates
func (r *RateLimited) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", &APICallError{Message: "rate limiter wait aborted", Cause: err}
	}
	return r.Client.GenerateJSON(ctx, prompt, tier)
}
