package models

// Transaction is a single income or expense entry against one account.
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"`
	CategoryID   string          `json:"categoryId"`
	Date         string          `json:"date"`
	Note         string          `json:"note"`
	LinkedGoalID *string         `json:"linkedGoalId"`
}

// SignedAmount is the transaction's effect on its account balance.
func (t Transaction) SignedAmount() float64 {
	return t.Type.Signed(t.Amount)
}

// Clone returns a deep copy of the transaction.
func (t Transaction) Clone() Transaction {
	t.LinkedGoalID = cloneString(t.LinkedGoalID)
	return t
}
