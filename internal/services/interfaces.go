package services

import (
	"context"
	"io"
	"time"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/store"
)

// TransactionInput carries the user-editable fields of a transaction.
type TransactionInput struct {
	AccountID    string
	Type         models.TransactionType
	Amount       float64
	CategoryID   string
	Date         string
	Note         string
	LinkedGoalID *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Dates are inclusive YYYY-MM-DD bounds.
type TransactionFilter struct {
	FromDate   *string
	ToDate     *string
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
}

// CategoryTotal is the base-currency total for one category.
type CategoryTotal struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Total      float64 `json:"total"`
}

// Summary is the dashboard view of the ledger, in base currency.
type Summary struct {
	BaseCurrency      string          `json:"base_currency"`
	NetWorth          float64         `json:"net_worth"`
	TotalIncome       float64         `json:"total_income"`
	TotalExpense      float64         `json:"total_expense"`
	TransactionCount  int             `json:"transaction_count"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	RecordTransaction(input TransactionInput, recurrence *models.Frequency) (*models.Transaction, error)
	EditTransaction(id string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(id string) error
	GetTransactionByID(id string) (*models.Transaction, error)
	ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetSummary(filter TransactionFilter) (*Summary, error)
}

// AccountInput carries the user-editable fields of an account. Balance is only
// read on create; afterwards the ledger owns it.
type AccountInput struct {
	Name                string
	Type                models.AccountType
	Balance             float64
	Color               string
	CurrencyCode        string
	LowBalanceThreshold *float64
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(input AccountInput) (*models.Account, error)
	EditAccount(id string, input AccountInput) (*models.Account, error)
	DeleteAccount(id string) error
	GetAccountByID(id string) (*models.Account, error)
	ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
}

// GoalInput carries the user-editable fields of a savings goal.
type GoalInput struct {
	Name         string
	TargetAmount float64
	Icon         string
	Color        string
	Deadline     *string
}

// DepositResult reports everything a goal deposit wrote.
type DepositResult struct {
	Goal              models.SavingsGoal  `json:"goal"`
	SourceTransaction models.Transaction  `json:"source_transaction"`
	RepaymentTransfer *models.Transaction `json:"repayment_transaction"`
	GoalReached       bool                `json:"goal_reached"`
	DebtPaid          bool                `json:"debt_paid"`
}

// GoalServicer defines the contract for savings and debt goals.
type GoalServicer interface {
	CreateGoal(input GoalInput) (*models.SavingsGoal, error)
	DepositToGoal(goalID, sourceAccountID string, amount float64) (*DepositResult, error)
	DeleteGoal(id string) error
	GetGoalByID(id string) (*models.SavingsGoal, error)
	ListGoals() ([]models.SavingsGoal, error)
}

// CategoryInput carries the fields of a new category.
type CategoryInput struct {
	Name  string
	Icon  string
	Type  models.TransactionType
	Color string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(input CategoryInput) (*models.Category, error)
	DeleteCategory(categoryType models.TransactionType, id string) error
	ListCategories(categoryType models.TransactionType) ([]models.Category, error)
}

// RateFetcher looks up a live exchange rate: units of quote per one unit of base.
type RateFetcher interface {
	GetRate(ctx context.Context, base, quote string) (float64, error)
}

// RateRefresh reports the outcome of a forex refresh for one currency.
type RateRefresh struct {
	Code    string  `json:"code"`
	OldRate float64 `json:"old_rate"`
	NewRate float64 `json:"new_rate"`
	Error   string  `json:"error,omitempty"`
}

// CurrencyServicer defines the contract for currency settings.
type CurrencyServicer interface {
	ListCurrencies() ([]models.Currency, error)
	AddCurrency(currency models.Currency) (*models.Currency, error)
	UpdateCurrency(code string, name, symbol string, rate float64) (*models.Currency, error)
	DeleteCurrency(code string) error
	SetBaseCurrency(code string) error
	RefreshRates(ctx context.Context) ([]RateRefresh, error)
}

// RecurringInput carries the fields of a standalone recurring rule.
type RecurringInput struct {
	AccountID   string
	CategoryID  string
	Type        models.TransactionType
	Amount      float64
	Note        string
	Frequency   models.Frequency
	NextDueDate string
}

// ProcessResult reports one scheduler pass.
type ProcessResult struct {
	Materialized []models.Transaction `json:"materialized"`
}

// RecurringServicer defines the contract for the recurrence scheduler.
type RecurringServicer interface {
	CreateRecurring(input RecurringInput) (*models.RecurringTransaction, error)
	DeleteRecurring(id string) error
	ListRecurring() ([]models.RecurringTransaction, error)
	ProcessDue(today string) (*ProcessResult, error)
	Run(ctx context.Context, interval time.Duration)
}

// NotificationServicer defines the contract for the notification emitter.
// CheckLowBalances and Emit run inside a ledger transaction.
type NotificationServicer interface {
	CheckLowBalances(tx *store.Tx, now time.Time)
	Emit(tx *store.Tx, notification models.Notification, now time.Time)
	ScanLowBalances() error
	ListNotifications(page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	ClearNotifications() error
}

// ProposalParser turns free text or a receipt image into a proposal.
type ProposalParser interface {
	ParseText(ctx context.Context, text string, snapshot models.AppData, today string) (models.Proposal, error)
	ParseReceipt(ctx context.Context, image []byte, mimeType string, snapshot models.AppData, today string) (models.Proposal, error)
}

// AdviceGenerator writes a short financial summary for the user.
type AdviceGenerator interface {
	Advice(ctx context.Context, snapshot models.AppData, language string) (string, error)
}

// ValidatedProposal is a proposal whose ids have been checked against the live
// store. Missing lists the fields the user must fill before it can be applied.
type ValidatedProposal struct {
	Proposal models.Proposal       `json:"-"`
	Fields   models.ProposalFields `json:"proposal"`
	Missing  []string              `json:"missing"`
}

// Complete reports whether the proposal can be applied as is.
func (v *ValidatedProposal) Complete() bool { return len(v.Missing) == 0 }

// AppliedProposal reports what applying a proposal created.
type AppliedProposal struct {
	Action      models.ProposalAction `json:"action"`
	Transaction *models.Transaction   `json:"transaction,omitempty"`
	Goal        *models.SavingsGoal   `json:"goal,omitempty"`
	Deposit     *DepositResult        `json:"deposit,omitempty"`
}

// ProposalServicer defines the contract for AI-assisted entry.
type ProposalServicer interface {
	ParseText(ctx context.Context, text string) (*ValidatedProposal, error)
	ParseReceipt(ctx context.Context, image []byte, mimeType string) (*ValidatedProposal, error)
	Validate(proposal models.Proposal) *ValidatedProposal
	Apply(proposal models.Proposal) (*AppliedProposal, error)
	Advice(ctx context.Context, language string) (string, error)
}

// BackupServicer defines the contract for local backup files.
type BackupServicer interface {
	Export(w io.Writer) error
	Import(r io.Reader) ([]string, error)
	ExportTransactionsCSV(w io.Writer) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID string, changes map[string]any)
}
