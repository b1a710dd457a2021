package models

// Default seed collections for a brand-new document.
var (
	DefaultCurrencies = []Currency{
		{Code: "LAK", Name: "Lao Kip", Symbol: "₭", Rate: 1, IsBase: true},
		{Code: "THB", Name: "Thai Baht", Symbol: "฿", Rate: 680},
		{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: 22000},
	}

	DefaultAccounts = []Account{
		{ID: "acc_1", Name: "Cash", Type: AccountTypeCash, Color: "bg-green-500", CurrencyCode: "LAK"},
		{ID: "acc_2", Name: "Bank", Type: AccountTypeBank, Color: "bg-blue-500", CurrencyCode: "LAK"},
	}

	DefaultIncomeCategories = []Category{
		{ID: "inc_1", Name: "Salary", Icon: "Briefcase", Type: TransactionTypeIncome, Color: "#10b981"},
		{ID: "inc_2", Name: "Bonus", Icon: "PiggyBank", Type: TransactionTypeIncome, Color: "#34d399"},
		{ID: DebtRepaymentCategoryID, Name: "Other", Icon: "Wallet", Type: TransactionTypeIncome, Color: "#6ee7b7"},
	}

	DefaultExpenseCategories = []Category{
		{ID: "exp_1", Name: "Food", Icon: "Utensils", Type: TransactionTypeExpense, Color: "#f87171"},
		{ID: "exp_2", Name: "Transport", Icon: "Car", Type: TransactionTypeExpense, Color: "#fbbf24"},
		{ID: "exp_3", Name: "Shopping", Icon: "ShoppingCart", Type: TransactionTypeExpense, Color: "#60a5fa"},
		{ID: "exp_4", Name: "Utilities", Icon: "Zap", Type: TransactionTypeExpense, Color: "#a78bfa"},
		{ID: "exp_5", Name: "Health", Icon: "HeartPulse", Type: TransactionTypeExpense, Color: "#f472b6"},
		{ID: "exp_6", Name: "Social", Icon: "Coffee", Type: TransactionTypeExpense, Color: "#fb923c"},
		{ID: SavingsCategoryID, Name: "Savings", Icon: "PiggyBank", Type: TransactionTypeExpense, Color: "#0ea5e9"},
		{ID: DebtCategoryID, Name: "Debt payment", Icon: "CreditCard", Type: TransactionTypeExpense, Color: "#f43f5e"},
	}
)

// DefaultData returns a fresh document holding copies of the default collections.
func DefaultData() AppData {
	d := AppData{
		Accounts:          cloneSlice(DefaultAccounts),
		IncomeCategories:  cloneSlice(DefaultIncomeCategories),
		ExpenseCategories: cloneSlice(DefaultExpenseCategories),
		Currencies:        cloneSlice(DefaultCurrencies),
	}
	d.FillMissing(AppData{})
	return d
}
