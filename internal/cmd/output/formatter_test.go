package output

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/state"
	"github.com/agentstation/artcards/pkg/summary"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", "", false},
		{"wide", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestTableFormatterRendersSummary(t *testing.T) {
	rows := []summary.Row{
		{Group: "NEO", TotalQuantity: 3, TotalValue: decimal.RequireFromString("4.5")},
		{Group: summary.GrandTotal, TotalQuantity: 3, TotalValue: decimal.RequireFromString("4.5")},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, SummaryTable(rows)))
	out := buf.String()
	assert.Contains(t, out, "NEO")
	assert.Contains(t, out, "$4.50")
	assert.Contains(t, out, summary.GrandTotal)
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"rows": 2}))
	assert.JSONEq(t, `{"rows": 2}`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	row := summary.Row{Group: "NEO", TotalQuantity: 2, TotalValue: decimal.RequireFromString("1.5")}
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, row))
	assert.Contains(t, buf.String(), "group: NEO")
	assert.Contains(t, buf.String(), "total_quantity: 2")
}

func TestChangesTable(t *testing.T) {
	changes := []state.PriceChange{
		{
			Key:      "NEO-42",
			Current:  decimal.RequireFromString("2"),
			Previous: decimal.NewNullDecimal(decimal.RequireFromString("1")),
		},
		{Key: "NEO-43", Current: decimal.RequireFromString("0.5")},
	}
	d := ChangesTable(changes)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, []string{"NEO-42", "$2.00", "$1.00", "1.00", "100.00"}, d.Rows[0])
	assert.Equal(t, []string{"NEO-43", "$0.50", "", "", ""}, d.Rows[1])
}
