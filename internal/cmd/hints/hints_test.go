package hints

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
)

func TestDefaultHints(t *testing.T) {
	tests := []struct {
		name    string
		ctx     Context
		command string
	}{
		{"after catalog", Context{Command: "artcards catalog refresh"}, "artcards prices refresh"},
		{"after parse", Context{Command: "artcards import parse"}, "artcards import apply"},
		{
			"missing ledger",
			Context{Command: "artcards summary", Err: fmt.Errorf("summary: %w",
				errors.NewPrerequisiteError("summary", constants.SheetRegular, ""))},
			"artcards catalog refresh",
		},
		{
			"missing staging",
			Context{Command: "artcards import apply", Err: errors.NewPrerequisiteError("import", constants.SheetStaging, "")},
			"artcards import parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default().Hints(tt.ctx)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.command, got[0].Command)
		})
	}
}

func TestNoHints(t *testing.T) {
	assert.Empty(t, Default().Hints(Context{Command: "artcards version"}))
	assert.Empty(t, Default().Hints(Context{Command: "artcards sort", Err: assert.AnError}))
}

func TestRegistryLimitsAndDeduplicates(t *testing.T) {
	r := NewRegistry(2)
	same := func(Context) []Hint { return []Hint{NewCommand("a", "x")} }
	r.Register(same)
	r.Register(same)
	r.Register(func(Context) []Hint { return []Hint{NewCommand("b", "y"), NewCommand("c", "z")} })

	got := r.Hints(Context{})
	assert.Equal(t, []Hint{NewCommand("a", "x"), NewCommand("b", "y")}, got)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Hint{NewCommand("Next", "artcards summary")}))
	assert.Equal(t, "\n💡 Next\n   Run: artcards summary\n", buf.String())
}
