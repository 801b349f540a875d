package sync

import (
	"fmt"
	"time"

	"github.com/agentstation/artcards/pkg/ledger"
)

// PriceResult is the refreshed pricing of one row. OK is false when the
// fetch failed and Pricing holds the zero fallback.
type PriceResult struct {
	Index   int            `json:"index" yaml:"index"`
	Key     string         `json:"key" yaml:"key"`
	ID      string         `json:"id" yaml:"id"`
	Pricing ledger.Pricing `json:"pricing" yaml:"pricing"`
	OK      bool           `json:"ok" yaml:"ok"`
	Err     error          `json:"-" yaml:"-"`
}

// BatchResult is the outcome of one batch invocation over rows [Start, End).
type BatchResult struct {
	RunID     string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Start     int           `json:"start" yaml:"start"`
	End       int           `json:"end" yaml:"end"`
	Total     int           `json:"total" yaml:"total"`
	Items     []PriceResult `json:"items" yaml:"items"`
	Completed bool          `json:"completed" yaml:"completed"`
	Canceled  bool          `json:"canceled" yaml:"canceled"`
	Next      Cursor        `json:"next" yaml:"next"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

func (r *BatchResult) finalize() {
	r.Duration = time.Since(r.StartTime)
}

// Updated returns the number of rows priced successfully.
func (r *BatchResult) Updated() int {
	n := 0
	for _, it := range r.Items {
		if it.OK {
			n++
		}
	}
	return n
}

// Failed returns the number of rows that fell back to zero prices.
func (r *BatchResult) Failed() int {
	return len(r.Items) - r.Updated()
}

// Summary returns a human-readable summary of the batch.
func (r *BatchResult) Summary() string {
	switch {
	case r.Total == 0:
		return "Ledger is empty, nothing to refresh"
	case r.Canceled:
		return fmt.Sprintf("Canceled after rows %d-%d of %d, pass will resume at %d", r.Start, r.End, r.Total, r.Start)
	case r.Completed:
		return fmt.Sprintf("Refreshed rows %d-%d of %d (%d failed), pass complete", r.Start, r.End, r.Total, r.Failed())
	default:
		return fmt.Sprintf("Refreshed rows %d-%d of %d (%d failed), next batch starts at %d", r.Start, r.End, r.Total, r.Failed(), r.Next.Offset)
	}
}
