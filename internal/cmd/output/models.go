package output

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/reconciler"
	"github.com/agentstation/artcards/pkg/state"
	"github.com/agentstation/artcards/pkg/summary"
	pricesync "github.com/agentstation/artcards/pkg/sync"
)

// SummaryTable lays out the collection summary.
func SummaryTable(rows []summary.Row) Data {
	d := Data{
		Headers:         summary.Header,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
	for _, r := range rows {
		d.Rows = append(d.Rows, []string{r.Group, strconv.Itoa(r.TotalQuantity), money(r.TotalValue)})
	}
	return d
}

// CatalogTable lays out the outcome of a catalog refresh.
func CatalogTable(r *artcards.CatalogResult) Data {
	return propertyTable(
		[]string{"Items", strconv.Itoa(len(r.Items))},
		[]string{"Groups", strconv.Itoa(groups(r))},
		[]string{"Regular rows kept", strconv.Itoa(r.CarriedRegular)},
		[]string{"Signed rows kept", strconv.Itoa(r.CarriedSigned)},
		[]string{"Duration", r.Duration.Round(time.Millisecond).String()},
	)
}

// BatchTable lays out the outcome of one price batch. Failed rows are
// listed after the totals.
func BatchTable(r *pricesync.BatchResult) Data {
	d := propertyTable(
		[]string{"Run", r.RunID},
		[]string{"Rows", strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End) + " of " + strconv.Itoa(r.Total)},
		[]string{"Updated", strconv.Itoa(r.Updated())},
		[]string{"Failed", strconv.Itoa(r.Failed())},
		[]string{"Pass complete", strconv.FormatBool(r.Completed)},
		[]string{"Next offset", next(r)},
	)
	for _, it := range r.Items {
		if !it.OK && it.Err != nil {
			d.Rows = append(d.Rows, []string{"Failed " + it.Key, it.Err.Error()})
		}
	}
	return d
}

// StatusTable lays out the price refresh status.
func StatusTable(s *artcards.PriceStatus) Data {
	lastPass := "never"
	if !s.LastPass.IsZero() {
		lastPass = s.LastPass.Local().Format(constants.TimeFormatStatus)
	}
	d := propertyTable(
		[]string{"Pass in progress", strconv.FormatBool(s.InProgress)},
		[]string{"Cursor", s.Cursor.String()},
		[]string{"Ledger rows", strconv.Itoa(s.Rows)},
		[]string{"Remaining", strconv.Itoa(s.Remaining())},
		[]string{"Last pass", lastPass},
	)
	if s.LastRun != nil {
		d.Rows = append(d.Rows,
			[]string{"Last run", s.LastRun.ID},
			[]string{"Last run finished", s.LastRun.FinishedAt.Local().Format(constants.TimeFormatStatus)},
		)
	}
	return d
}

// TextImportTable lays out the outcome of a free-text import.
func TextImportTable(r *reconciler.TextResult) Data {
	d := Data{Headers: []string{"Line", "Outcome", "Detail"}}
	for _, s := range r.Staged {
		d.Rows = append(d.Rows, []string{"", "staged", s.Group + "-" + strconv.Itoa(s.Sequence) + " x" + strconv.Itoa(s.Quantity)})
	}
	for _, m := range r.Mutations {
		d.Rows = append(d.Rows, []string{"", "signed", m.Key + " x" + strconv.Itoa(m.Quantity.Int)})
	}
	for _, u := range r.Unmatched {
		detail := u.Record.DisplayName
		if len(u.Suggestions) > 0 {
			detail += " (did you mean " + joinQuoted(u.Suggestions) + "?)"
		}
		d.Rows = append(d.Rows, []string{strconv.Itoa(u.Record.Line), "unmatched", detail})
	}
	return d
}

// TableImportTable lays out the outcome of a structured import.
func TableImportTable(r *reconciler.TableResult) Data {
	d := Data{Headers: []string{"Card", "Ledger", "Outcome"}}
	for _, m := range r.Mutations {
		d.Rows = append(d.Rows, []string{m.Key, m.Variant.String(), "updated"})
	}
	for _, rec := range r.Dropped {
		d.Rows = append(d.Rows, []string{rec.Key(), "", "unmatched (import row " + strconv.Itoa(rec.Row) + ")"})
	}
	return d
}

// ChangesTable lays out price changes over a window.
func ChangesTable(changes []state.PriceChange) Data {
	d := Data{
		Headers:         []string{"Card", "Current", "Previous", "Change", "%"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for _, c := range changes {
		row := []string{c.Key, money(c.Current), "", "", ""}
		if c.Previous.Valid {
			row[2] = money(c.Previous.Decimal)
		}
		if delta, ok := c.Delta(); ok {
			row[3] = delta.StringFixed(2)
		}
		if pct, ok := c.Percent(); ok {
			row[4] = pct.StringFixed(2)
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// RunsTable lays out the batch run journal.
func RunsTable(runs []state.Run) Data {
	d := Data{Headers: []string{"Run", "Started", "Rows", "Updated", "Failed", "Pass"}}
	for _, r := range runs {
		pass := ""
		if r.Completed {
			pass = "complete"
		}
		d.Rows = append(d.Rows, []string{
			r.ID,
			r.StartedAt.Local().Format(constants.TimeFormatStatus),
			strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End) + "/" + strconv.Itoa(r.Total),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Failed),
			pass,
		})
	}
	return d
}

func propertyTable(rows ...[]string) Data {
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func next(r *pricesync.BatchResult) string {
	if r.Next.IsIdle() {
		return "-"
	}
	return strconv.Itoa(r.Next.Offset)
}

func groups(r *artcards.CatalogResult) int {
	seen := make(map[string]struct{})
	for _, it := range r.Items {
		seen[it.Group] = struct{}{}
	}
	return len(seen)
}

func joinQuoted(s []string) string {
	out := ""
	for i, v := range s {
		if i > 0 {
			out += ", "
		}
		out += strconv.Quote(v)
	}
	return out
}
