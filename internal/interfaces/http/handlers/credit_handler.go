package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/access"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/interfaces/http/response"
	"loan-origination.backend/internal/usecases"
)

type applicationCreditService interface {
	TriggerBureauCheck(ctx context.Context, appID uuid.UUID, actor entities.Actor) (*entities.BureauCheckResult, error)
	PerformCICCheck(ctx context.Context, appID uuid.UUID, actor entities.Actor) (*entities.CICCheckResult, error)
	GetCICReport(ctx context.Context, appID uuid.UUID, actor entities.Actor) (*entities.CreditReport, error)
}

type scoreService interface {
	CalculateScore(ctx context.Context, nationalID string) (*entities.ScoreResult, error)
}

// CreditHandler handles bureau and CIC endpoints
type CreditHandler struct {
	credit applicationCreditService
	scores scoreService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(credit *usecases.ApplicationCreditUsecase, scores *usecases.CreditCheckUsecase) *CreditHandler {
	return &CreditHandler{
		credit: credit,
		scores: scores,
	}
}

// TriggerBureauCheck runs the automated bureau decision
// POST /api/v1/applications/:id/credit-check
func (h *CreditHandler) TriggerBureauCheck(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.credit.TriggerBureauCheck(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// PerformCICCheck looks the applicant up in the CIC store
// POST /api/v1/applications/:id/cic-check
func (h *CreditHandler) PerformCICCheck(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.credit.PerformCICCheck(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetCICReport returns the applicant's full CIC report
// GET /api/v1/applications/:id/cic-report
func (h *CreditHandler) GetCICReport(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	report, err := h.credit.GetCICReport(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// GetScore scores a customer without recording an inquiry
// GET /api/v1/credit-profiles/:nationalId/score
func (h *CreditHandler) GetScore(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := access.RequireRole(actor, access.ActionViewScore); err != nil {
		response.Error(c, err)
		return
	}
	nationalID := strings.TrimSpace(c.Param("nationalId"))
	if nationalID == "" {
		response.Error(c, domainerrors.BadRequest("nationalId is required"))
		return
	}

	score, err := h.scores.CalculateScore(c.Request.Context(), nationalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"nationalId": nationalID, "score": score})
}
