package sync

import (
	"strconv"
	"strings"

	"github.com/agentstation/artcards/pkg/errors"
)

// Cursor is the number of Regular ledger rows already refreshed in the
// current pass. The zero value is Idle.
type Cursor struct {
	Offset int
}

// Idle is the cursor of a system with no pass in progress.
var Idle = Cursor{}

// IsIdle reports whether no pass is in progress.
func (c Cursor) IsIdle() bool {
	return c.Offset <= 0
}

// String renders the cursor for persisted state.
func (c Cursor) String() string {
	return strconv.Itoa(c.Offset)
}

// ParseCursor reads a persisted cursor. A missing or blank value is Idle.
// A corrupt value is reported together with Idle so the caller can start a
// fresh pass.
func ParseCursor(value string, found bool) (Cursor, error) {
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return Idle, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return Idle, &errors.ValidationError{
			Field:   "cursor",
			Value:   value,
			Message: "not a non-negative integer",
		}
	}
	return Cursor{Offset: n}, nil
}
