package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"loan-origination.backend/internal/domain/entities"
	"loan-origination.backend/internal/interfaces/http/middleware"
	"loan-origination.backend/internal/usecases"
	"loan-origination.backend/pkg/jwt"
	"loan-origination.backend/pkg/utils"
)

type authServiceStub struct {
	login   func(*entities.LoginInput) (*entities.AuthResponse, error)
	refresh func(string) (*jwt.TokenPair, error)
	me      func(uuid.UUID) (*entities.User, error)
}

func (s authServiceStub) Login(_ context.Context, in *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.login(in)
}
func (s authServiceStub) RefreshToken(_ context.Context, token string) (*jwt.TokenPair, error) {
	return s.refresh(token)
}
func (s authServiceStub) GetMe(_ context.Context, id uuid.UUID) (*entities.User, error) {
	return s.me(id)
}

type applicationServiceStub struct {
	create    func(entities.Actor, *entities.CreateApplicationInput) (*entities.LoanApplication, error)
	get       func(entities.Actor, uuid.UUID) (*entities.LoanApplication, error)
	list      func(entities.Actor, usecases.ListApplicationsInput) ([]*entities.LoanApplication, utils.PaginationMeta, error)
	dashboard func(entities.Actor) (*entities.DashboardStats, error)
}

func (s applicationServiceStub) Create(_ context.Context, a entities.Actor, in *entities.CreateApplicationInput) (*entities.LoanApplication, error) {
	return s.create(a, in)
}
func (s applicationServiceStub) Get(_ context.Context, a entities.Actor, id uuid.UUID) (*entities.LoanApplication, error) {
	return s.get(a, id)
}
func (s applicationServiceStub) List(_ context.Context, a entities.Actor, in usecases.ListApplicationsInput) ([]*entities.LoanApplication, utils.PaginationMeta, error) {
	return s.list(a, in)
}
func (s applicationServiceStub) Dashboard(_ context.Context, a entities.Actor) (*entities.DashboardStats, error) {
	return s.dashboard(a)
}

type workflowServiceStub struct {
	submit  func(uuid.UUID, entities.Actor, entities.TransitionInput) (*entities.LoanApplication, error)
	history func(uuid.UUID, entities.Actor) ([]*entities.ApplicationEvent, error)
}

func (s workflowServiceStub) Submit(_ context.Context, id uuid.UUID, a entities.Actor, in entities.TransitionInput) (*entities.LoanApplication, error) {
	return s.submit(id, a, in)
}
func (s workflowServiceStub) History(_ context.Context, id uuid.UUID, a entities.Actor) ([]*entities.ApplicationEvent, error) {
	return s.history(id, a)
}

type creditServiceStub struct {
	bureau func(uuid.UUID, entities.Actor) (*entities.BureauCheckResult, error)
	cic    func(uuid.UUID, entities.Actor) (*entities.CICCheckResult, error)
	report func(uuid.UUID, entities.Actor) (*entities.CreditReport, error)
}

func (s creditServiceStub) TriggerBureauCheck(_ context.Context, id uuid.UUID, a entities.Actor) (*entities.BureauCheckResult, error) {
	return s.bureau(id, a)
}
func (s creditServiceStub) PerformCICCheck(_ context.Context, id uuid.UUID, a entities.Actor) (*entities.CICCheckResult, error) {
	return s.cic(id, a)
}
func (s creditServiceStub) GetCICReport(_ context.Context, id uuid.UUID, a entities.Actor) (*entities.CreditReport, error) {
	return s.report(id, a)
}

type scoreServiceStub func(string) (*entities.ScoreResult, error)

func (s scoreServiceStub) CalculateScore(_ context.Context, nationalID string) (*entities.ScoreResult, error) {
	return s(nationalID)
}

type profileServiceStub struct {
	creditProfileService
	create  func(entities.Actor, *entities.CreateProfileInput) (*entities.CreditProfile, error)
	payment func(entities.Actor, string, uuid.UUID, *entities.AddPaymentInput) (*entities.CreditAccount, error)
	asset   func(entities.Actor, string, *entities.AddAssetInput) (*entities.Asset, error)
}

func (s profileServiceStub) CreateProfile(_ context.Context, a entities.Actor, in *entities.CreateProfileInput) (*entities.CreditProfile, error) {
	return s.create(a, in)
}
func (s profileServiceStub) AppendPayment(_ context.Context, a entities.Actor, nid string, accountID uuid.UUID, in *entities.AddPaymentInput) (*entities.CreditAccount, error) {
	return s.payment(a, nid, accountID, in)
}
func (s profileServiceStub) AddAsset(_ context.Context, a entities.Actor, nid string, in *entities.AddAssetInput) (*entities.Asset, error) {
	return s.asset(a, nid, in)
}

// newRouter injects actor the way AuthMiddleware would; a zero actor means unauthenticated
func newRouter(actor entities.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor.ID != uuid.Nil {
			c.Set(middleware.UserIDKey, actor.ID)
			c.Set(middleware.UserRoleKey, actor.Role)
			c.Set(middleware.UserBranchKey, actor.Branch)
		}
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
