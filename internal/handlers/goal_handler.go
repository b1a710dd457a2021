package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
)

// GoalHandler handles savings and debt goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest is the payload for a new savings goal.
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	TargetAmount float64 `json:"targetAmount" binding:"required,gt=0"`
	Icon         string  `json:"icon" binding:"max=50"`
	Color        string  `json:"color" binding:"max=50"`
	Deadline     *string `json:"deadline" binding:"omitempty,calendar_date"`
}

// DepositRequest is the payload for moving money from an account into a goal.
type DepositRequest struct {
	AccountID string  `json:"accountId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// GoalResponse is a goal with how much is still needed to reach it.
type GoalResponse struct {
	models.SavingsGoal
	RemainingAmount float64 `json:"remainingAmount"`
}

func newGoalResponse(g *models.SavingsGoal) GoalResponse {
	return GoalResponse{SavingsGoal: *g, RemainingAmount: g.RemainingAmount()}
}

// CreateGoal handles the creation of a savings goal
// @Summary     Create a savings goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	goal, err := h.goalService.CreateGoal(services.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Icon:         req.Icon,
		Color:        req.Color,
		Deadline:     req.Deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": newGoalResponse(goal)})
}

// ListGoals handles listing goals
// @Summary     List goals
// @Tags        goals
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {array} GoalResponse
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals()
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, newGoalResponse(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"goals": resp})
}

// GetGoal handles fetching one goal
// @Summary     Get goal by ID
// @Tags        goals
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} GoalResponse
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goal, err := h.goalService.GetGoalByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": newGoalResponse(goal)})
}

// Deposit handles a deposit into a goal
// @Summary     Deposit into a goal
// @Description Records a savings expense on the source account and advances the goal in base currency. On a debt goal the payment is also credited to the debt account.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string         true "Goal ID"
// @Param       request body DepositRequest true "Deposit details"
// @Success     200 {object} services.DepositResult
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal or account not found"
// @Router      /goals/{id}/deposit [post]
func (h *GoalHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	result, err := h.goalService.DepositToGoal(c.Param("id"), req.AccountID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if result == nil {
		// The goal or account no longer resolves and WARN_AND_SKIP dropped the deposit.
		c.JSON(http.StatusOK, gin.H{"skipped": true})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteGoal handles removing a goal
// @Summary     Delete a goal
// @Tags        goals
// @Security    ApiKeyAuth
// @Param       id path string true "Goal ID"
// @Success     204
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id := c.Param("id")
	if err := h.goalService.DeleteGoal(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
