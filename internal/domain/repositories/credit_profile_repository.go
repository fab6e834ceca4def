package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
)

// CreditProfileRepository is the CIC store. Writers only ever append or update aggregates;
// nothing is deleted.
type CreditProfileRepository interface {
	Create(ctx context.Context, profile *entities.CreditProfile) error
	// GetByNationalID returns the profile row without its owned collections
	GetByNationalID(ctx context.Context, nationalID string) (*entities.CreditProfile, error)
	// GetSnapshot returns the profile with accounts (and their payments), assets, inquiries and public records
	GetSnapshot(ctx context.Context, nationalID string) (*entities.CreditProfile, error)

	ListAccounts(ctx context.Context, profileID uuid.UUID) ([]entities.CreditAccount, error)
	ListAssets(ctx context.Context, profileID uuid.UUID) ([]entities.Asset, error)
	ListRecentInquiries(ctx context.Context, profileID uuid.UUID, limit int) ([]entities.Inquiry, error)
	ListPublicRecords(ctx context.Context, profileID uuid.UUID) ([]entities.PublicRecord, error)
	ListScoreHistory(ctx context.Context, profileID uuid.UUID, limit int) ([]entities.ScoreHistoryEntry, error)

	AddAccount(ctx context.Context, account *entities.CreditAccount) error
	GetAccount(ctx context.Context, profileID, accountID uuid.UUID) (*entities.CreditAccount, error)
	AppendPayment(ctx context.Context, payment *entities.PaymentRecord) error
	UpdateAccountCounters(ctx context.Context, account *entities.CreditAccount) error
	AddAsset(ctx context.Context, asset *entities.Asset) error
	AddInquiry(ctx context.Context, inquiry *entities.Inquiry) error
	AddPublicRecord(ctx context.Context, record *entities.PublicRecord) error
	AppendScoreHistory(ctx context.Context, entry *entities.ScoreHistoryEntry) error

	// UpdateScore moves the current score to previous and stores the new one
	UpdateScore(ctx context.Context, profileID uuid.UUID, score int, band entities.RiskBand, at time.Time) error
	// RefreshSummary recomputes the aggregate financial summary from owned accounts and assets
	RefreshSummary(ctx context.Context, profileID uuid.UUID) (*entities.CreditProfile, error)
}
