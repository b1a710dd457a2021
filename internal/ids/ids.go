// Package ids generates entity identifiers.
package ids

import (
	"github.com/google/uuid"
)

// Prefixes used for generated ids. Seeded and imported ids keep whatever form they had.
const (
	PrefixAccount      = "acc"
	PrefixTransaction  = "tx"
	PrefixGoal         = "goal"
	PrefixDebtGoal     = "goal_debt"
	PrefixDeposit      = "dep"
	PrefixRepayment    = "repay"
	PrefixRecurring    = "rec"
	PrefixNotification = "notif"
	PrefixCategory     = "cat"
)

// New returns a time-ordered unique id of the form "<prefix>_<uuidv7>".
// UUIDv7 keeps ids sortable by creation time.
func New(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to a random v4 if the clock-based generator fails.
		id = uuid.New()
	}
	if prefix == "" {
		return id.String()
	}
	return prefix + "_" + id.String()
}
