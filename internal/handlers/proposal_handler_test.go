package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/testutil"
)

func TestProposalHandler_ParseText(t *testing.T) {
	t.Run("clears unknown ids", func(t *testing.T) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 1000)
		env.parser.proposal = models.TransactionProposal{
			Amount: 25000, Type: models.TransactionTypeExpense, CategoryID: "exp_99", AccountID: acc.ID, Date: "2024-03-10",
		}

		rec := doRequest(env.router, "POST", "/api/v1/ai/parse", `{"text":"noodles 25000"}`)

		assertStatus(t, rec, http.StatusOK)
		result := parseJSON(t, rec)
		proposal := result["proposal"].(map[string]interface{})
		if _, present := proposal["categoryId"]; present {
			t.Errorf("expected unknown category cleared, got %v", proposal["categoryId"])
		}
		if proposal["accountId"] != acc.ID {
			t.Errorf("expected known account kept, got %v", proposal["accountId"])
		}
		missing := result["missing"].([]interface{})
		if len(missing) != 1 || missing[0] != "categoryId" {
			t.Errorf("expected categoryId missing, got %v", missing)
		}
	})

	t.Run("returns 400 on empty text", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/ai/parse", `{"text":""}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 503 when model fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.parser.err = errors.New("deadline exceeded")

		rec := doRequest(env.router, "POST", "/api/v1/ai/parse", `{"text":"coffee"}`)

		assertStatus(t, rec, http.StatusServiceUnavailable)
		assertErrorCode(t, parseJSON(t, rec), "AI_UNAVAILABLE")
	})
}

func TestProposalHandler_ParseReceipt(t *testing.T) {
	t.Run("detects mime type", func(t *testing.T) {
		env := newTestEnv(t)
		env.parser.proposal = models.TransactionProposal{Amount: 10, Type: models.TransactionTypeExpense}
		png := []byte("\x89PNG\r\n\x1a\n0000")

		rec := doUpload(env.router, "/api/v1/ai/receipt", "image", "receipt.png", png)

		assertStatus(t, rec, http.StatusOK)
		if env.parser.mimeType != "image/png" {
			t.Errorf("expected image/png, got %q", env.parser.mimeType)
		}
	})

	t.Run("not a receipt", func(t *testing.T) {
		env := newTestEnv(t)
		env.parser.proposal = models.InvalidImageProposal{}

		rec := doUpload(env.router, "/api/v1/ai/receipt", "image", "cat.jpg", []byte{0xff, 0xd8, 0xff})

		assertStatus(t, rec, http.StatusUnprocessableEntity)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PROPOSAL")
	})

	t.Run("missing file", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doUpload(env.router, "/api/v1/ai/receipt", "photo", "x.jpg", []byte{1})

		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestProposalHandler_Apply(t *testing.T) {
	t.Run("records transaction", func(t *testing.T) {
		env := newTestEnv(t)
		acc := testutil.AddTestCashAccount(t, env.store, 1000)

		rec := doRequest(env.router, "POST", "/api/v1/ai/apply",
			`{"action":"TRANSACTION","amount":300,"type":"EXPENSE","categoryId":"exp_1","accountId":"`+acc.ID+`","date":"2024-03-09","note":"noodles"}`)

		assertStatus(t, rec, http.StatusCreated)
		testutil.AssertFloat(t, "balance", testutil.GetAccount(t, env.store, acc.ID).Balance, 700)
	})

	t.Run("creates goal", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/ai/apply", `{"action":"CREATE_GOAL","goalName":"Phone","targetAmount":5000000}`)

		assertStatus(t, rec, http.StatusCreated)
		goals := env.store.Snapshot().Goals
		if len(goals) != 1 || goals[0].Icon != "Target" {
			t.Errorf("unexpected goals %+v", goals)
		}
	})

	t.Run("incomplete proposal", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/ai/apply", `{"action":"DEPOSIT_GOAL","amount":10}`)

		assertStatus(t, rec, http.StatusUnprocessableEntity)
		assertErrorCode(t, parseJSON(t, rec), "PROPOSAL_INCOMPLETE")
	})

	t.Run("unknown action", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/ai/apply", `{"action":"TRANSFER"}`)

		assertStatus(t, rec, http.StatusUnprocessableEntity)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PROPOSAL")
	})
}

func TestProposalHandler_Advice(t *testing.T) {
	t.Run("returns advice", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/ai/advice", `{"language":"LA"}`)

		assertStatus(t, rec, http.StatusOK)
		if parseJSON(t, rec)["advice"] != "Cook at home more often." {
			t.Error("unexpected advice")
		}
		if env.advisor.language != "LA" {
			t.Errorf("expected LA, got %q", env.advisor.language)
		}
	})

	t.Run("rejects unknown language", func(t *testing.T) {
		env := newTestEnv(t)

		rec := doRequest(env.router, "POST", "/api/v1/ai/advice", `{"language":"FR"}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})
}
