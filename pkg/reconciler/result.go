package reconciler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/imports"
)

// Staged is an unsigned free-text entry held in the staging sheet for
// review before a structured import applies it.
type Staged struct {
	Group     string              `json:"group" yaml:"group"`
	Sequence  int                 `json:"sequence" yaml:"sequence"`
	Quantity  int                 `json:"quantity" yaml:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unit_price" yaml:"unit_price"`
}

// Cells lays the entry out in staging sheet order.
func (s Staged) Cells() []any {
	return imports.StagingRow(s.Group, s.Sequence, s.Quantity, s.UnitPrice)
}

// Unmatched is a free-text record whose name is not in the catalog.
type Unmatched struct {
	Record      imports.Record `json:"record" yaml:"record"`
	Suggestions []string       `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Metadata describes a reconciliation run.
type Metadata struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

func (m *Metadata) finalize() {
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
}

// TextResult is the outcome of a free-text reconciliation.
type TextResult struct {
	Records   int         `json:"records" yaml:"records"`
	Staged    []Staged    `json:"staged" yaml:"staged"`
	Mutations []Mutation  `json:"mutations" yaml:"mutations"`
	Unmatched []Unmatched `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
	// MissingSigned counts signed records whose catalog item has no row in
	// the Signed ledger.
	MissingSigned int      `json:"missing_signed" yaml:"missing_signed"`
	Metadata      Metadata `json:"metadata" yaml:"metadata"`
}

// Summary returns a human-readable summary of the result.
func (r *TextResult) Summary() string {
	return fmt.Sprintf("%d records: %d staged, %d signed updates, %d unmatched",
		r.Records, len(r.Staged), len(r.Mutations), len(r.Unmatched)+r.MissingSigned)
}

// TableResult is the outcome of a structured reconciliation.
type TableResult struct {
	Records   int                     `json:"records" yaml:"records"`
	Mutations []Mutation              `json:"mutations" yaml:"mutations"`
	Dropped   []imports.TabularRecord `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Invalid   int                     `json:"invalid" yaml:"invalid"`
	Metadata  Metadata                `json:"metadata" yaml:"metadata"`
}

// Applied returns the number of records that matched a ledger row.
func (r *TableResult) Applied() int {
	return len(r.Mutations)
}

// Summary returns a human-readable summary of the result.
func (r *TableResult) Summary() string {
	return fmt.Sprintf("%d cards updated, %d unmatched, %d invalid",
		r.Applied(), len(r.Dropped), r.Invalid)
}
