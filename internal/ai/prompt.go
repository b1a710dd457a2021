package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cnds86/kiptrack/internal/currency"
	"github.com/cnds86/kiptrack/internal/models"
)

type accountContext struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Type     models.AccountType `json:"type"`
	Currency string             `json:"currency"`
}

type categoryContext struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Type models.TransactionType `json:"type"`
}

type goalContext struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LanguageName maps a UI language code to the name used in prompts.
func LanguageName(code string) string {
	switch strings.ToUpper(code) {
	case "TH":
		return "Thai"
	case "LA":
		return "Lao"
	}
	return "English"
}

func textPrompt(text string, d models.AppData, today string) string {
	var b strings.Builder
	b.WriteString("Analyze the following user input about personal finance.\n")
	fmt.Fprintf(&b, "User Input: %q\n", text)
	fmt.Fprintf(&b, "Current Date: %s\n\n", today)
	b.WriteString("Extract structured data and map it strictly to the provided IDs.\n\n")
	writeContext(&b, d, true)
	b.WriteString(`Rules:
1. Action:
   - "TRANSACTION": spending or income.
   - "CREATE_GOAL": starting a new savings goal.
   - "DEPOSIT_GOAL": adding money to an existing goal.
2. Account mapping:
   - Fuzzy match account names mentioned in the input.
   - "cash" means an account of type CASH; "bank", "transfer", "qr" or "scan" mean type BANK.
   - A named currency (Baht, Kip, Dollar) picks an account in that currency.
   - When unsure, use the first account in the list.
3. Category mapping:
   - Map the item or activity to the closest category name (rice, dinner, KFC are Food; taxi, gas, bus are Transport).
   - The category must belong to the transaction type (INCOME or EXPENSE).
4. Extract the numeric amount.

`)
	b.WriteString(jsonOnly)
	b.WriteString(`Schema:
{
  "action": "TRANSACTION" | "CREATE_GOAL" | "DEPOSIT_GOAL",
  "amount": number,
  "type": "INCOME" | "EXPENSE",
  "categoryId": string,
  "accountId": string,
  "date": string (YYYY-MM-DD),
  "note": string,
  "goalName": string,
  "targetAmount": number,
  "deadline": string (YYYY-MM-DD),
  "goalId": string
}
`)
	return b.String()
}

func receiptPrompt(d models.AppData, today string) string {
	var b strings.Builder
	b.WriteString(`Analyze this image.

First decide whether it is a receipt, bill, invoice or bank transfer slip.
If it is not (a person, a landscape, an unreadable photo), return {"action": "INVALID_IMAGE"}.

`)
	fmt.Fprintf(&b, "Current Date: %s\n\n", today)
	writeContext(&b, d, false)
	b.WriteString(`Rules:
1. Extract the total amount.
2. Receipts and bills are EXPENSE. A transfer slip showing "Received from" is INCOME; "Sent to" or ambiguous is EXPENSE.
3. Put the merchant or payee in "note".
4. Return the best matching categoryId from the context, judged by the items or merchant type.
5. Pick the account from payment clues: "Cash" means type CASH; transfer, QR or bank logos mean type BANK. Default to the first account.

`)
	b.WriteString(jsonOnly)
	b.WriteString(`Schema:
{
  "action": "TRANSACTION" | "INVALID_IMAGE",
  "amount": number,
  "type": "INCOME" | "EXPENSE",
  "categoryId": string,
  "accountId": string,
  "date": string (YYYY-MM-DD),
  "note": string
}
`)
	return b.String()
}

const jsonOnly = "Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n"

func writeContext(b *strings.Builder, d models.AppData, withGoals bool) {
	accounts := make([]accountContext, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		accounts = append(accounts, accountContext{ID: a.ID, Name: a.Name, Type: a.Type, Currency: a.CurrencyCode})
	}
	categories := make([]categoryContext, 0, len(d.IncomeCategories)+len(d.ExpenseCategories))
	for _, c := range append(append([]models.Category{}, d.IncomeCategories...), d.ExpenseCategories...) {
		categories = append(categories, categoryContext{ID: c.ID, Name: c.Name, Type: c.Type})
	}

	b.WriteString("--- CONTEXT DATA ---\n")
	fmt.Fprintf(b, "Accounts: %s\n", toJSON(accounts))
	fmt.Fprintf(b, "Categories: %s\n", toJSON(categories))
	if withGoals {
		goals := make([]goalContext, 0, len(d.Goals))
		for _, g := range d.Goals {
			goals = append(goals, goalContext{ID: g.ID, Name: g.Name})
		}
		fmt.Fprintf(b, "Goals: %s\n", toJSON(goals))
	}
	b.WriteString("--------------------\n\n")
}

type adviceAccount struct {
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

type adviceTransaction struct {
	Date     string                 `json:"date"`
	Type     models.TransactionType `json:"type"`
	Amount   float64                `json:"amount"`
	Currency string                 `json:"currency,omitempty"`
	Category string                 `json:"category"`
	Note     string                 `json:"note"`
}

func advicePrompt(d models.AppData, language string) string {
	conv := currency.NewConverter(d.Currencies, models.PolicyWarnAndSkip)
	netWorth, _ := conv.NetWorth(d.Accounts)
	base, _ := conv.Base()
	lang := LanguageName(language)

	accounts := make([]adviceAccount, 0, len(d.Accounts))
	currencyOf := make(map[string]string, len(d.Accounts))
	for _, a := range d.Accounts {
		accounts = append(accounts, adviceAccount{Name: a.Name, Balance: a.Balance, Currency: a.CurrencyCode})
		currencyOf[a.ID] = a.CurrencyCode
	}
	categoryName := make(map[string]string)
	for _, c := range append(append([]models.Category{}, d.IncomeCategories...), d.ExpenseCategories...) {
		categoryName[string(c.Type)+"/"+c.ID] = c.Name
	}
	txs := make([]adviceTransaction, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		name, ok := categoryName[string(t.Type)+"/"+t.CategoryID]
		if !ok {
			name = "Unknown"
		}
		txs = append(txs, adviceTransaction{
			Date:     t.Date,
			Type:     t.Type,
			Amount:   t.Amount,
			Currency: currencyOf[t.AccountID],
			Category: name,
			Note:     t.Note,
		})
	}

	var b strings.Builder
	b.WriteString("You are a financial advisor for a user.\n")
	fmt.Fprintf(&b, "Base Currency: %s (%s).\n", base.Name, base.Symbol)
	fmt.Fprintf(&b, "Language: %s.\n\n", lang)
	b.WriteString("Current Financial State:\n")
	fmt.Fprintf(&b, "- Total Net Worth (in base currency): %.2f %s\n", netWorth, base.Code)
	fmt.Fprintf(&b, "- Accounts: %s\n", toJSON(accounts))
	fmt.Fprintf(&b, "- Recent Transactions: %s\n\n", toJSON(txs))
	b.WriteString("Give a concise financial summary and 3 actionable tips to save money or manage better.\n")
	b.WriteString("Use emoji to keep it friendly. Keep the response under 200 words, formatted in Markdown.\n")
	fmt.Fprintf(&b, "Reply strictly in %s.\n", lang)
	return b.String()
}

func toJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// cleanModelJSON strips Markdown fences and any text around the JSON object
// when the model ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
