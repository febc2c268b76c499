// internal/quota/guard.go
package quota

import (
	"context"
	"fmt"
)

// HistoryReader exposes the cumulative quota already consumed by previously
// created campaigns. Read fresh on every check so the guard survives
// process restarts without drifting.
type HistoryReader interface {
	HistoricalQuotaConsumption(ctx context.Context) (int, error)
}

// Decision is the result of a quota check.
type Decision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// Guard enforces the global email send ceiling. The check is advisory and
// non-atomic: two concurrent compositions can both pass and jointly exceed
// the limit. Accepted for single-operator usage; do not add locking here
// without a product decision, it changes observable behavior.
type Guard struct {
	limit   int
	history HistoryReader
}

func NewGuard(limit int, history HistoryReader) *Guard {
	return &Guard{limit: limit, history: history}
}

// CanSend reports whether a batch of proposedCount recipients fits under
// the ceiling, along with the remaining allowance.
func (g *Guard) CanSend(ctx context.Context, proposedCount int) (Decision, error) {
	consumed, err := g.history.HistoricalQuotaConsumption(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("reading quota history: %w", err)
	}

	remaining := g.limit - consumed
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   proposedCount <= remaining,
		Remaining: remaining,
	}, nil
}
