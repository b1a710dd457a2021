package handlers

import (
	"net/http"
	"testing"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/testutil"
)

func expenseBody(accountID, amount, date string) string {
	return `{"accountId":"` + accountID + `","type":"EXPENSE","amount":` + amount +
		`,"categoryId":"exp_1","date":"` + date + `","note":"Lunch"}`
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 and moves balance", func(t *testing.T) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 1000)

		rec := doRequest(env.router, "POST", "/api/v1/transactions", expenseBody(acc.ID, "250", "2024-03-10"))

		assertStatus(t, rec, http.StatusCreated)
		txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if txn["note"] != "Lunch" {
			t.Errorf("unexpected transaction: %v", txn)
		}
		testutil.AssertFloat(t, "balance", testutil.GetAccount(t, env.store, acc.ID).Balance, 750)
	})

	t.Run("recurrence schedules next occurrence", func(t *testing.T) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 1000)

		rec := doRequest(env.router, "POST", "/api/v1/transactions",
			`{"accountId":"`+acc.ID+`","type":"EXPENSE","amount":10,"categoryId":"exp_1","date":"2024-01-31","recurrence":"MONTHLY"}`)

		assertStatus(t, rec, http.StatusCreated)
		rules := env.store.Snapshot().RecurringTransactions
		if len(rules) != 1 {
			t.Fatalf("expected one recurring rule, got %d", len(rules))
		}
		if rules[0].Frequency != models.FrequencyMonthly {
			t.Errorf("expected MONTHLY, got %s", rules[0].Frequency)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/transactions", expenseBody("acc_1", "0", "2024-03-10"))

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/transactions", expenseBody("acc_1", "10", "10/03/2024"))

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on unknown recurrence", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/transactions",
			`{"accountId":"acc_1","type":"EXPENSE","amount":10,"categoryId":"exp_1","date":"2024-03-10","recurrence":"HOURLY"}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestTransactionHandler_UpdateAndDelete(t *testing.T) {
	t.Run("edit reverses old effect", func(t *testing.T) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 1000)
		rec := doRequest(env.router, "POST", "/api/v1/transactions", expenseBody(acc.ID, "100", "2024-03-10"))
		assertStatus(t, rec, http.StatusCreated)
		id := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

		rec = doRequest(env.router, "PUT", "/api/v1/transactions/"+id, expenseBody(acc.ID, "300", "2024-03-10"))

		assertStatus(t, rec, http.StatusOK)
		testutil.AssertFloat(t, "balance", testutil.GetAccount(t, env.store, acc.ID).Balance, 700)
	})

	t.Run("delete restores balance", func(t *testing.T) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 1000)
		rec := doRequest(env.router, "POST", "/api/v1/transactions", expenseBody(acc.ID, "100", "2024-03-10"))
		id := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

		rec = doRequest(env.router, "DELETE", "/api/v1/transactions/"+id, "")

		assertStatus(t, rec, http.StatusNoContent)
		testutil.AssertFloat(t, "balance", testutil.GetAccount(t, env.store, acc.ID).Balance, 1000)
	})

	t.Run("delete returns 404 for unknown id", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "DELETE", "/api/v1/transactions/tx_missing", "")

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_ListAndSummary(t *testing.T) {
	setup := func(t *testing.T) (*testEnv, models.Account) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 10000)
		for _, body := range []string{
			expenseBody(acc.ID, "100", "2024-03-01"),
			expenseBody(acc.ID, "200", "2024-03-05"),
			`{"accountId":"` + acc.ID + `","type":"INCOME","amount":1000,"categoryId":"inc_1","date":"2024-03-03"}`,
		} {
			assertStatus(t, doRequest(env.router, "POST", "/api/v1/transactions", body), http.StatusCreated)
		}
		return env, acc
	}

	t.Run("filters by type and date", func(t *testing.T) {
		env, _ := setup(t)

		rec := doRequest(env.router, "GET", "/api/v1/transactions?type=EXPENSE&from_date=2024-03-02", "")

		assertStatus(t, rec, http.StatusOK)
		data := parseJSON(t, rec)["data"].([]interface{})
		if len(data) != 1 || data[0].(map[string]interface{})["amount"].(float64) != 200 {
			t.Errorf("expected only the 200 expense, got %v", data)
		}
	})

	t.Run("sorted newest date first", func(t *testing.T) {
		env, _ := setup(t)

		rec := doRequest(env.router, "GET", "/api/v1/transactions", "")

		data := parseJSON(t, rec)["data"].([]interface{})
		dates := []string{}
		for _, d := range data {
			dates = append(dates, d.(map[string]interface{})["date"].(string))
		}
		if len(dates) != 3 || dates[0] != "2024-03-05" || dates[2] != "2024-03-01" {
			t.Errorf("unexpected order %v", dates)
		}
	})

	t.Run("returns 400 on invalid type filter", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "GET", "/api/v1/transactions?type=TRANSFER", "")

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on invalid date filter", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "GET", "/api/v1/summary?to_date=yesterday", "")

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("summary totals", func(t *testing.T) {
		env, _ := setup(t)

		rec := doRequest(env.router, "GET", "/api/v1/summary", "")

		assertStatus(t, rec, http.StatusOK)
		result := parseJSON(t, rec)
		if result["base_currency"] != "LAK" {
			t.Errorf("expected LAK base, got %v", result["base_currency"])
		}
		testutil.AssertFloat(t, "total_income", result["total_income"].(float64), 1000)
		testutil.AssertFloat(t, "total_expense", result["total_expense"].(float64), 300)
		testutil.AssertFloat(t, "net_worth", result["net_worth"].(float64), 10700)
	})
}
