package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/interfaces/http/response"
	"loan-origination.backend/internal/usecases"
	"loan-origination.backend/pkg/utils"
)

type applicationService interface {
	Create(ctx context.Context, actor entities.Actor, input *entities.CreateApplicationInput) (*entities.LoanApplication, error)
	Get(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.LoanApplication, error)
	List(ctx context.Context, actor entities.Actor, input usecases.ListApplicationsInput) ([]*entities.LoanApplication, utils.PaginationMeta, error)
	Dashboard(ctx context.Context, actor entities.Actor) (*entities.DashboardStats, error)
}

type workflowService interface {
	Submit(ctx context.Context, appID uuid.UUID, actor entities.Actor, input entities.TransitionInput) (*entities.LoanApplication, error)
	History(ctx context.Context, appID uuid.UUID, actor entities.Actor) ([]*entities.ApplicationEvent, error)
}

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	applications applicationService
	workflow     workflowService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *usecases.ApplicationUsecase, workflow *usecases.WorkflowUsecase) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		workflow:     workflow,
	}
}

// CreateApplication opens a DRAFT application
// POST /api/v1/applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input entities.CreateApplicationInput
	if !bindJSON(c, &input) {
		return
	}

	app, err := h.applications.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"application": app})
}

// ListApplications returns the applications visible to the caller
// GET /api/v1/applications?q=&status=&page=&limit=
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input usecases.ListApplicationsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	apps, meta, err := h.applications.List(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items":      apps,
		"pagination": meta,
	})
}

// GetApplication returns one application
// GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	app, err := h.applications.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// Transition moves an application to the requested status
// POST /api/v1/applications/:id/transitions
func (h *ApplicationHandler) Transition(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.TransitionInput
	if !bindJSON(c, &input) {
		return
	}

	app, err := h.workflow.Submit(c.Request.Context(), id, actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// History returns the status audit trail of an application
// GET /api/v1/applications/:id/history
func (h *ApplicationHandler) History(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	events, err := h.workflow.History(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// Dashboard returns counts for the caller's scope
// GET /api/v1/dashboard
func (h *ApplicationHandler) Dashboard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	stats, err := h.applications.Dashboard(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
