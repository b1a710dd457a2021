package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/testutil"
)

// stubParser returns a canned proposal and records what it was shown.
type stubParser struct {
	proposal models.Proposal
	err      error
	today    string
}

func (p *stubParser) ParseText(_ context.Context, _ string, _ models.AppData, today string) (models.Proposal, error) {
	p.today = today
	return p.proposal, p.err
}

func (p *stubParser) ParseReceipt(_ context.Context, _ []byte, _ string, _ models.AppData, today string) (models.Proposal, error) {
	p.today = today
	return p.proposal, p.err
}

type stubAdvisor struct {
	seen int
	err  error
}

func (a *stubAdvisor) Advice(_ context.Context, snapshot models.AppData, _ string) (string, error) {
	a.seen = len(snapshot.Transactions)
	return "Spend less on food.", a.err
}

func newProposalService(svc *testServices, parser ProposalParser, advisor AdviceGenerator) ProposalServicer {
	return NewProposalService(svc.store, parser, advisor, svc.transactions, svc.goals, svc.opts)
}

func TestValidateProposal(t *testing.T) {
	t.Run("clears_unknown_ids", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, nil)

		v := proposals.Validate(models.TransactionProposal{
			Amount: 100, Type: models.TransactionTypeExpense, CategoryID: "exp_nope", AccountID: "acc_nope", Date: "2024-03-01",
		})

		if v.Fields.AccountID != "" || v.Fields.CategoryID != "" {
			t.Errorf("expected unknown ids cleared, got %+v", v.Fields)
		}
		if v.Complete() || len(v.Missing) != 2 {
			t.Errorf("expected accountId and categoryId missing, got %v", v.Missing)
		}
	})

	t.Run("category_checked_against_type", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		account := testutil.AddTestCashAccount(t, svc.store, 0)
		proposals := newProposalService(svc, nil, nil)

		v := proposals.Validate(models.TransactionProposal{
			Amount: 100, Type: models.TransactionTypeIncome, CategoryID: "exp_1", AccountID: account.ID,
		})

		if v.Fields.CategoryID != "" {
			t.Error("expected an expense category to be rejected for income")
		}
		if v.Fields.Date != "2024-03-10" {
			t.Errorf("expected missing date to default to today, got %q", v.Fields.Date)
		}
	})

	t.Run("complete_transaction", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		account := testutil.AddTestCashAccount(t, svc.store, 0)
		proposals := newProposalService(svc, nil, nil)

		v := proposals.Validate(models.TransactionProposal{
			Amount: 100, Type: models.TransactionTypeExpense, CategoryID: "exp_2", AccountID: account.ID, Date: "2024-03-09",
		})

		if !v.Complete() {
			t.Errorf("expected complete proposal, missing %v", v.Missing)
		}
	})

	t.Run("create_goal_requires_target", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, nil)

		v := proposals.Validate(models.CreateGoalProposal{GoalName: "House"})

		if len(v.Missing) != 1 || v.Missing[0] != "targetAmount" {
			t.Errorf("expected targetAmount missing, got %v", v.Missing)
		}
	})

	t.Run("deposit_clears_unknown_goal", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		account := testutil.AddTestCashAccount(t, svc.store, 0)
		proposals := newProposalService(svc, nil, nil)

		v := proposals.Validate(models.DepositGoalProposal{GoalID: "goal_ghost", AccountID: account.ID, Amount: 10})

		if v.Fields.GoalID != "" || len(v.Missing) != 1 || v.Missing[0] != "goalId" {
			t.Errorf("unexpected validation %+v", v)
		}
	})
}

func TestApplyProposal(t *testing.T) {
	t.Run("records_transaction", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		account := testutil.AddTestCashAccount(t, svc.store, 1000)
		proposals := newProposalService(svc, nil, nil)

		applied, err := proposals.Apply(models.TransactionProposal{
			Amount: 250, Type: models.TransactionTypeExpense, CategoryID: "exp_1", AccountID: account.ID, Note: "Noodles",
		})
		testutil.AssertNoError(t, err)

		if applied.Transaction == nil || applied.Transaction.Date != "2024-03-10" {
			t.Fatalf("unexpected result %+v", applied)
		}
		testutil.AssertFloat(t, "balance", testutil.GetAccount(t, svc.store, account.ID).Balance, 750)
	})

	t.Run("creates_goal", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, nil)

		applied, err := proposals.Apply(models.CreateGoalProposal{GoalName: "Wedding", TargetAmount: 30000000})
		testutil.AssertNoError(t, err)

		if applied.Goal == nil || applied.Goal.Icon != "Target" || applied.Goal.Color != "bg-indigo-500" {
			t.Errorf("unexpected goal %+v", applied.Goal)
		}
	})

	t.Run("deposits_to_goal", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		account := testutil.AddTestCashAccount(t, svc.store, 1000)
		goal := testutil.AddTestGoal(t, svc.store, models.SavingsGoal{Name: "Bike", TargetAmount: 5000})
		proposals := newProposalService(svc, nil, nil)

		applied, err := proposals.Apply(models.DepositGoalProposal{GoalID: goal.ID, AccountID: account.ID, Amount: 300})
		testutil.AssertNoError(t, err)

		if applied.Deposit == nil {
			t.Fatal("expected a deposit result")
		}
		testutil.AssertFloat(t, "goal current", testutil.GetGoal(t, svc.store, goal.ID).CurrentAmount, 300)
	})

	t.Run("refuses_incomplete", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, nil)

		_, err := proposals.Apply(models.TransactionProposal{Amount: 10, AccountID: "acc_ghost", CategoryID: "exp_1"})
		testutil.AssertAppError(t, err, "PROPOSAL_INCOMPLETE")

		if n := len(svc.store.Snapshot().Transactions); n != 0 {
			t.Errorf("expected nothing recorded, got %d", n)
		}
	})

	t.Run("refuses_invalid_image", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, nil)

		_, err := proposals.Apply(models.InvalidImageProposal{})
		testutil.AssertAppError(t, err, "INVALID_PROPOSAL")
	})
}

func TestParseProposal(t *testing.T) {
	t.Run("text_validated", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		parser := &stubParser{proposal: models.TransactionProposal{Amount: 50000, Type: models.TransactionTypeExpense, CategoryID: "exp_1", AccountID: "acc_ghost"}}
		proposals := newProposalService(svc, parser, nil)

		v, err := proposals.ParseText(context.Background(), "lunch 50000")
		testutil.AssertNoError(t, err)

		if parser.today != "2024-03-10" {
			t.Errorf("expected parser to receive today, got %q", parser.today)
		}
		if v.Fields.AccountID != "" {
			t.Error("expected hallucinated account id to be cleared")
		}
	})

	t.Run("receipt_rejected", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, &stubParser{proposal: models.InvalidImageProposal{}}, nil)

		_, err := proposals.ParseReceipt(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
		testutil.AssertAppError(t, err, "INVALID_PROPOSAL")
	})

	t.Run("parser_failure", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, &stubParser{err: errors.New("quota exceeded")}, nil)

		_, err := proposals.ParseText(context.Background(), "coffee")
		testutil.AssertAppError(t, err, "AI_UNAVAILABLE")
	})

	t.Run("no_parser", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, nil)

		_, err := proposals.ParseText(context.Background(), "coffee")
		testutil.AssertAppError(t, err, "AI_UNAVAILABLE")
	})
}

func TestAdvice(t *testing.T) {
	t.Run("limits_window", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		account := testutil.AddTestCashAccount(t, svc.store, 0)
		for i := 0; i < 60; i++ {
			_, err := svc.transactions.RecordTransaction(expenseInput(account.ID, 1), nil)
			testutil.AssertNoError(t, err)
		}
		advisor := &stubAdvisor{}
		proposals := newProposalService(svc, nil, advisor)

		advice, err := proposals.Advice(context.Background(), "EN")
		testutil.AssertNoError(t, err)

		if advice == "" || advisor.seen != 50 {
			t.Errorf("expected advice over 50 transactions, saw %d", advisor.seen)
		}
	})

	t.Run("failure_is_ai_unavailable", func(t *testing.T) {
		svc := newTestServices(t, models.PolicyWarnAndSkip)
		proposals := newProposalService(svc, nil, &stubAdvisor{err: errors.New("timeout")})

		_, err := proposals.Advice(context.Background(), "LA")
		testutil.AssertAppError(t, err, "AI_UNAVAILABLE")
	})
}
