package models

// Category classifies transactions. Income and expense categories live in separate
// collections and an id is only looked up in the collection of its type.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// Fixed categories the ledger writes on its own.
const (
	// SavingsCategoryID tags the expense recorded on a goal deposit's source account.
	SavingsCategoryID = "exp_savings"
	// DebtCategoryID is the expense category offered for manual debt payments.
	DebtCategoryID = "exp_debt"
	// DebtRepaymentCategoryID tags the income recorded on a debt account when it is repaid.
	DebtRepaymentCategoryID = "inc_3"
)

// IsProtectedCategory reports whether the ledger depends on the category id.
func IsProtectedCategory(id string) bool {
	switch id {
	case SavingsCategoryID, DebtCategoryID, DebtRepaymentCategoryID:
		return true
	}
	return false
}
