package services

import (
	"context"
	stderrors "errors"
	"strings"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// adviceWindow is how many of the newest transactions are shown to the model.
const adviceWindow = 50

// proposalService turns AI output into ledger operations. It never trusts an
// id from the model without resolving it against the live store.
type proposalService struct {
	store        *store.Store
	parser       ProposalParser
	advisor      AdviceGenerator
	transactions TransactionServicer
	goals        GoalServicer
	opts         Options
}

// NewProposalService creates a new ProposalServicer. parser and advisor may be
// nil when no AI backend is configured.
func NewProposalService(
	st *store.Store,
	parser ProposalParser,
	advisor AdviceGenerator,
	transactions TransactionServicer,
	goals GoalServicer,
	opts Options,
) ProposalServicer {
	return &proposalService{
		store:        st,
		parser:       parser,
		advisor:      advisor,
		transactions: transactions,
		goals:        goals,
		opts:         opts.withDefaults(),
	}
}

// ParseText asks the model to interpret free text and validates the result.
func (s *proposalService) ParseText(ctx context.Context, text string) (*ValidatedProposal, error) {
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "text is required")
	}
	if s.parser == nil {
		return nil, apperrors.ErrAIUnavailable
	}
	p, err := s.parser.ParseText(ctx, text, s.store.Snapshot(), s.opts.today())
	if err != nil {
		return nil, aiError("parse_text", err)
	}
	return s.Validate(p), nil
}

// ParseReceipt asks the model to read a receipt or transfer slip image.
func (s *proposalService) ParseReceipt(ctx context.Context, image []byte, mimeType string) (*ValidatedProposal, error) {
	if len(image) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "image is required")
	}
	if s.parser == nil {
		return nil, apperrors.ErrAIUnavailable
	}
	p, err := s.parser.ParseReceipt(ctx, image, mimeType, s.store.Snapshot(), s.opts.today())
	if err != nil {
		return nil, aiError("parse_receipt", err)
	}
	if _, ok := p.(models.InvalidImageProposal); ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidProposal, "Image is not a receipt or transfer slip")
	}
	return s.Validate(p), nil
}

// Validate re-resolves every id in the proposal against the live store.
// Ids that do not resolve are cleared and reported as missing, together with
// any required field the model left empty.
func (s *proposalService) Validate(p models.Proposal) *ValidatedProposal {
	var (
		out     models.Proposal
		missing []string
	)
	s.store.View(func(d *models.AppData) {
		switch v := p.(type) {
		case models.TransactionProposal:
			if v.Type == "" {
				v.Type = models.TransactionTypeExpense
			}
			if !v.Type.Valid() {
				v.Type = ""
				missing = append(missing, "type")
			}
			if v.Amount <= 0 {
				v.Amount = 0
				missing = append(missing, "amount")
			}
			if v.CategoryID != "" && (v.Type == "" || !hasCategory(d, v.Type, v.CategoryID)) {
				v.CategoryID = ""
			}
			if v.CategoryID == "" {
				missing = append(missing, "categoryId")
			}
			if v.AccountID != "" && !hasAccount(d, v.AccountID) {
				v.AccountID = ""
			}
			if v.AccountID == "" {
				missing = append(missing, "accountId")
			}
			if _, err := models.ParseDate(v.Date); err != nil {
				v.Date = s.opts.today()
			}
			out = v
		case models.CreateGoalProposal:
			if v.GoalName == "" {
				missing = append(missing, "goalName")
			}
			if v.TargetAmount <= 0 {
				v.TargetAmount = 0
				missing = append(missing, "targetAmount")
			}
			if v.Deadline != "" {
				if _, err := models.ParseDate(v.Deadline); err != nil {
					v.Deadline = ""
				}
			}
			out = v
		case models.DepositGoalProposal:
			if v.Amount <= 0 {
				v.Amount = 0
				missing = append(missing, "amount")
			}
			if v.GoalID != "" && !hasGoal(d, v.GoalID) {
				v.GoalID = ""
			}
			if v.GoalID == "" {
				missing = append(missing, "goalId")
			}
			if v.AccountID != "" && !hasAccount(d, v.AccountID) {
				v.AccountID = ""
			}
			if v.AccountID == "" {
				missing = append(missing, "accountId")
			}
			out = v
		case models.InvalidImageProposal:
			out = v
			missing = append(missing, "action")
		}
	})
	if out == nil {
		return &ValidatedProposal{Missing: []string{"action"}}
	}
	if missing == nil {
		missing = []string{}
	}
	return &ValidatedProposal{Proposal: out, Fields: models.ToFields(out), Missing: missing}
}

// Apply validates the proposal again and dispatches it to the ledger.
// Incomplete proposals are refused.
func (s *proposalService) Apply(p models.Proposal) (*AppliedProposal, error) {
	if p == nil {
		return nil, apperrors.ErrInvalidProposal
	}
	v := s.Validate(p)
	if _, ok := v.Proposal.(models.InvalidImageProposal); ok || v.Proposal == nil {
		return nil, apperrors.ErrInvalidProposal
	}
	if !v.Complete() {
		return nil, apperrors.WithMessage(apperrors.ErrProposalIncomplete, "missing fields: "+strings.Join(v.Missing, ", "))
	}

	applied := &AppliedProposal{Action: v.Proposal.Action()}
	switch prop := v.Proposal.(type) {
	case models.TransactionProposal:
		t, err := s.transactions.RecordTransaction(TransactionInput{
			AccountID:  prop.AccountID,
			Type:       prop.Type,
			Amount:     prop.Amount,
			CategoryID: prop.CategoryID,
			Date:       prop.Date,
			Note:       prop.Note,
		}, nil)
		if err != nil {
			return nil, err
		}
		applied.Transaction = t
	case models.CreateGoalProposal:
		var deadline *string
		if prop.Deadline != "" {
			deadline = models.StringPtr(prop.Deadline)
		}
		g, err := s.goals.CreateGoal(GoalInput{
			Name:         prop.GoalName,
			TargetAmount: prop.TargetAmount,
			Icon:         "Target",
			Color:        "bg-indigo-500",
			Deadline:     deadline,
		})
		if err != nil {
			return nil, err
		}
		applied.Goal = g
	case models.DepositGoalProposal:
		res, err := s.goals.DepositToGoal(prop.GoalID, prop.AccountID, prop.Amount)
		if err != nil {
			return nil, err
		}
		applied.Deposit = res
	}
	return applied, nil
}

// Advice asks the model for a short summary of the newest transactions.
func (s *proposalService) Advice(ctx context.Context, language string) (string, error) {
	if s.advisor == nil {
		return "", apperrors.ErrAIUnavailable
	}
	snapshot := s.store.Snapshot()
	if len(snapshot.Transactions) > adviceWindow {
		snapshot.Transactions = snapshot.Transactions[:adviceWindow]
	}
	advice, err := s.advisor.Advice(ctx, snapshot, language)
	if err != nil {
		return "", aiError("advice", err)
	}
	return advice, nil
}

func aiError(operation string, err error) error {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	logger.Get().Errorw("AI request failed", "operation", operation, "error", err)
	return apperrors.Wrap(apperrors.ErrAIUnavailable, err)
}

func hasAccount(d *models.AppData, id string) bool {
	for _, a := range d.Accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func hasGoal(d *models.AppData, id string) bool {
	for _, g := range d.Goals {
		if g.ID == id {
			return true
		}
	}
	return false
}

func hasCategory(d *models.AppData, t models.TransactionType, id string) bool {
	for _, c := range d.Categories(t) {
		if c.ID == id {
			return true
		}
	}
	return false
}
