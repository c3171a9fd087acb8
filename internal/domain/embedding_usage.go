package domain

import "context"

type usageKey struct{}

// EmbeddingUsage tallies query embedding calls made on behalf of one
// retrieval. A caller installs it with NewContextWithUsage and reads it
// after the call returns; a nil *EmbeddingUsage ignores writes.
type EmbeddingUsage struct {
	Calls       int // cache hits included
	TotalTokens int
	Used        bool
}

// NewContextWithUsage installs an empty tally in ctx.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := new(EmbeddingUsage)
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the installed tally, or nil.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(usageKey{}).(*EmbeddingUsage)
	return u
}

// AddTokens records one embedding call that billed n tokens.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.Calls++
	u.TotalTokens += n
	u.Used = true
}
