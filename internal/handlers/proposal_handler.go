package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
)

// maxReceiptBytes caps receipt uploads.
const maxReceiptBytes = 10 << 20

// ProposalHandler handles AI-assisted entry and advice.
type ProposalHandler struct {
	proposalService services.ProposalServicer
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService services.ProposalServicer) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// ParseTextRequest is free text describing a transaction or goal action.
type ParseTextRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// AdviceRequest selects the reply language.
type AdviceRequest struct {
	Language string `json:"language" binding:"required,language"`
}

// ParseText handles turning a sentence into a validated proposal
// @Summary     Parse text into a proposal
// @Description The proposal is checked against the live ledger. Unknown ids are cleared and listed in missing.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ParseTextRequest true "Free text"
// @Success     200 {object} services.ValidatedProposal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "AI unavailable"
// @Router      /ai/parse [post]
func (h *ProposalHandler) ParseText(c *gin.Context) {
	var req ParseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	result, err := h.proposalService.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ParseReceipt handles turning a receipt photo into a validated proposal
// @Summary     Parse a receipt image
// @Tags        ai
// @Accept      multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       image formData file true "Receipt or transfer slip"
// @Success     200 {object} services.ValidatedProposal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Not a receipt"
// @Failure     503 {object} ErrorResponse "AI unavailable"
// @Router      /ai/receipt [post]
func (h *ProposalHandler) ParseReceipt(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "image file is required"))
		return
	}
	if header.Size > maxReceiptBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "image is larger than 10MB"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}

	result, err := h.proposalService.ParseReceipt(c.Request.Context(), image, mimeType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Apply handles committing a confirmed proposal
// @Summary     Apply a proposal
// @Description Re-validates the proposal and dispatches it to record a transaction, create a goal or deposit into a goal.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body models.ProposalFields true "Confirmed proposal"
// @Success     201 {object} services.AppliedProposal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Proposal incomplete"
// @Router      /ai/apply [post]
func (h *ProposalHandler) Apply(c *gin.Context) {
	var fields models.ProposalFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	proposal, err := fields.Proposal()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidProposal, err.Error()))
		return
	}

	applied, err := h.proposalService.Apply(proposal)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, applied)
}

// Advice handles a request for financial advice
// @Summary     Financial advice
// @Description A short Markdown summary of recent activity with saving tips.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body AdviceRequest true "Language (TH, LA or EN)"
// @Success     200 {object} map[string]string
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "AI unavailable"
// @Router      /ai/advice [post]
func (h *ProposalHandler) Advice(c *gin.Context) {
	var req AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	advice, err := h.proposalService.Advice(c.Request.Context(), req.Language)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
