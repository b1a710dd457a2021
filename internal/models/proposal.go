package models

import (
	"encoding/json"
	"fmt"
)

// ProposalAction tags the kind of action an AI proposal describes.
type ProposalAction string

const (
	ActionTransaction  ProposalAction = "TRANSACTION"
	ActionCreateGoal   ProposalAction = "CREATE_GOAL"
	ActionDepositGoal  ProposalAction = "DEPOSIT_GOAL"
	ActionInvalidImage ProposalAction = "INVALID_IMAGE"
)

// Proposal is a structured action suggested by the AI parser. The set of
// implementations is closed; switch on the concrete type.
type Proposal interface {
	Action() ProposalAction
	proposal()
}

// TransactionProposal suggests recording an income or expense.
type TransactionProposal struct {
	Amount     float64         `json:"amount"`
	Type       TransactionType `json:"type"`
	CategoryID string          `json:"categoryId"`
	AccountID  string          `json:"accountId"`
	Date       string          `json:"date"`
	Note       string          `json:"note"`
}

// CreateGoalProposal suggests starting a new savings goal.
type CreateGoalProposal struct {
	GoalName     string  `json:"goalName"`
	TargetAmount float64 `json:"targetAmount"`
	Deadline     string  `json:"deadline"`
}

// DepositGoalProposal suggests moving money from an account into a goal.
type DepositGoalProposal struct {
	GoalID    string  `json:"goalId"`
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
}

// InvalidImageProposal reports that the image was not a receipt or slip.
type InvalidImageProposal struct{}

func (TransactionProposal) Action() ProposalAction  { return ActionTransaction }
func (CreateGoalProposal) Action() ProposalAction   { return ActionCreateGoal }
func (DepositGoalProposal) Action() ProposalAction  { return ActionDepositGoal }
func (InvalidImageProposal) Action() ProposalAction { return ActionInvalidImage }

func (TransactionProposal) proposal()  {}
func (CreateGoalProposal) proposal()   {}
func (DepositGoalProposal) proposal()  {}
func (InvalidImageProposal) proposal() {}

// ProposalFields is the flat wire form produced by the model. Which fields are
// meaningful depends on Action.
type ProposalFields struct {
	Action       ProposalAction  `json:"action"`
	Amount       float64         `json:"amount,omitempty"`
	Type         TransactionType `json:"type,omitempty"`
	CategoryID   string          `json:"categoryId,omitempty"`
	AccountID    string          `json:"accountId,omitempty"`
	Date         string          `json:"date,omitempty"`
	Note         string          `json:"note,omitempty"`
	GoalName     string          `json:"goalName,omitempty"`
	TargetAmount float64         `json:"targetAmount,omitempty"`
	Deadline     string          `json:"deadline,omitempty"`
	GoalID       string          `json:"goalId,omitempty"`
}

// Proposal converts the flat fields into the variant named by Action.
func (f ProposalFields) Proposal() (Proposal, error) {
	switch f.Action {
	case ActionTransaction:
		return TransactionProposal{
			Amount:     f.Amount,
			Type:       f.Type,
			CategoryID: f.CategoryID,
			AccountID:  f.AccountID,
			Date:       f.Date,
			Note:       f.Note,
		}, nil
	case ActionCreateGoal:
		return CreateGoalProposal{GoalName: f.GoalName, TargetAmount: f.TargetAmount, Deadline: f.Deadline}, nil
	case ActionDepositGoal:
		return DepositGoalProposal{GoalID: f.GoalID, AccountID: f.AccountID, Amount: f.Amount}, nil
	case ActionInvalidImage:
		return InvalidImageProposal{}, nil
	}
	return nil, fmt.Errorf("unknown proposal action %q", f.Action)
}

// ToFields flattens a proposal back into its wire form.
func ToFields(p Proposal) ProposalFields {
	switch v := p.(type) {
	case TransactionProposal:
		return ProposalFields{
			Action:     ActionTransaction,
			Amount:     v.Amount,
			Type:       v.Type,
			CategoryID: v.CategoryID,
			AccountID:  v.AccountID,
			Date:       v.Date,
			Note:       v.Note,
		}
	case CreateGoalProposal:
		return ProposalFields{Action: ActionCreateGoal, GoalName: v.GoalName, TargetAmount: v.TargetAmount, Deadline: v.Deadline}
	case DepositGoalProposal:
		return ProposalFields{Action: ActionDepositGoal, GoalID: v.GoalID, AccountID: v.AccountID, Amount: v.Amount}
	case InvalidImageProposal:
		return ProposalFields{Action: ActionInvalidImage}
	}
	return ProposalFields{}
}

// DecodeProposal parses the model's JSON output into a Proposal.
func DecodeProposal(raw []byte) (Proposal, error) {
	var f ProposalFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	return f.Proposal()
}
