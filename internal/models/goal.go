package models

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "ACTIVE"
	GoalStatusCompleted GoalStatus = "COMPLETED"
)

// SavingsGoal tracks progress toward a target amount in base currency.
// A goal with LinkedAccountID set tracks repayment of that debt account.
type SavingsGoal struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	TargetAmount    float64    `json:"targetAmount"`
	CurrentAmount   float64    `json:"currentAmount"`
	Icon            string     `json:"icon"`
	Color           string     `json:"color"`
	Deadline        *string    `json:"deadline"`
	Status          GoalStatus `json:"status"`
	LinkedAccountID *string    `json:"linkedAccountId"`
}

// IsDebtRepayment reports whether the goal tracks a debt account.
func (g SavingsGoal) IsDebtRepayment() bool {
	return g.LinkedAccountID != nil && *g.LinkedAccountID != ""
}

// RemainingAmount returns how much is left to reach the target, never negative.
func (g SavingsGoal) RemainingAmount() float64 {
	if g.CurrentAmount >= g.TargetAmount {
		return 0
	}
	return g.TargetAmount - g.CurrentAmount
}

// Clone returns a deep copy of the goal.
func (g SavingsGoal) Clone() SavingsGoal {
	g.Deadline = cloneString(g.Deadline)
	g.LinkedAccountID = cloneString(g.LinkedAccountID)
	return g
}
