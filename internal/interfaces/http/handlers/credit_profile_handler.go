package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
	"loan-origination.backend/internal/interfaces/http/response"
	"loan-origination.backend/internal/usecases"
)

type creditProfileService interface {
	CreateProfile(ctx context.Context, actor entities.Actor, input *entities.CreateProfileInput) (*entities.CreditProfile, error)
	AddAccount(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddAccountInput) (*entities.CreditAccount, error)
	AppendPayment(ctx context.Context, actor entities.Actor, nationalID string, accountID uuid.UUID, input *entities.AddPaymentInput) (*entities.CreditAccount, error)
	AddAsset(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddAssetInput) (*entities.Asset, error)
	AddInquiry(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddInquiryInput) (*entities.Inquiry, error)
	AddPublicRecord(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddPublicRecordInput) (*entities.PublicRecord, error)
}

// CreditProfileHandler handles CIC data ingestion for super admins
type CreditProfileHandler struct {
	profiles creditProfileService
}

// NewCreditProfileHandler creates a new credit profile handler
func NewCreditProfileHandler(profiles *usecases.CreditProfileUsecase) *CreditProfileHandler {
	return &CreditProfileHandler{profiles: profiles}
}

// CreateProfile registers a customer
// POST /api/v1/admin/credit-profiles
func (h *CreditProfileHandler) CreateProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input entities.CreateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"profile": profile})
}

// AddAccount POST /api/v1/admin/credit-profiles/:nationalId/accounts
func (h *CreditProfileHandler) AddAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input entities.AddAccountInput
	if !bindJSON(c, &input) {
		return
	}

	account, err := h.profiles.AddAccount(c.Request.Context(), actor, c.Param("nationalId"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"account": account})
}

// AppendPayment POST /api/v1/admin/credit-profiles/:nationalId/accounts/:accountId/payments
func (h *CreditProfileHandler) AppendPayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	accountID, ok := uuidParam(c, "accountId")
	if !ok {
		return
	}
	var input entities.AddPaymentInput
	if !bindJSON(c, &input) {
		return
	}

	account, err := h.profiles.AppendPayment(c.Request.Context(), actor, c.Param("nationalId"), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"account": account})
}

// AddAsset POST /api/v1/admin/credit-profiles/:nationalId/assets
func (h *CreditProfileHandler) AddAsset(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input entities.AddAssetInput
	if !bindJSON(c, &input) {
		return
	}

	asset, err := h.profiles.AddAsset(c.Request.Context(), actor, c.Param("nationalId"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"asset": asset})
}

// AddInquiry POST /api/v1/admin/credit-profiles/:nationalId/inquiries
func (h *CreditProfileHandler) AddInquiry(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input entities.AddInquiryInput
	if !bindJSON(c, &input) {
		return
	}

	inquiry, err := h.profiles.AddInquiry(c.Request.Context(), actor, c.Param("nationalId"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"inquiry": inquiry})
}

// AddPublicRecord POST /api/v1/admin/credit-profiles/:nationalId/public-records
func (h *CreditProfileHandler) AddPublicRecord(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input entities.AddPublicRecordInput
	if !bindJSON(c, &input) {
		return
	}

	record, err := h.profiles.AddPublicRecord(c.Request.Context(), actor, c.Param("nationalId"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"publicRecord": record})
}
