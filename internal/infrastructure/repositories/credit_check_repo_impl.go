package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/infrastructure/models"
)

// CreditCheckRepositoryImpl implements CreditCheckRepository
type CreditCheckRepositoryImpl struct {
	db *gorm.DB
}

func NewCreditCheckRepository(db *gorm.DB) *CreditCheckRepositoryImpl {
	return &CreditCheckRepositoryImpl{db: db}
}

func (r *CreditCheckRepositoryImpl) Create(ctx context.Context, check *entities.CreditCheck) error {
	ensureID(&check.ID)
	if check.RequestedAt.IsZero() {
		check.RequestedAt = time.Now()
	}
	if check.Status == "" {
		check.Status = entities.CreditCheckPending
	}
	m := &models.CreditCheck{
		ID:                check.ID,
		ApplicationID:     check.ApplicationID,
		RequestedByUserID: check.RequestedByUserID,
		Status:            string(check.Status),
		BureauReference:   check.BureauReference.Ptr(),
		Score:             check.Score.Ptr(),
		RiskBand:          check.RiskBand.Ptr(),
		RawResponse:       check.RawResponse.Ptr(),
		FailureReason:     check.FailureReason.Ptr(),
		RequestedAt:       check.RequestedAt,
		CompletedAt:       check.CompletedAt.Ptr(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *CreditCheckRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.CreditCheck, error) {
	var m models.CreditCheck
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Finish writes the outcome of a PENDING check; a finished check returns ErrConcurrencyConflict
func (r *CreditCheckRepositoryImpl) Finish(ctx context.Context, check *entities.CreditCheck) error {
	if !check.CompletedAt.Valid {
		check.CompletedAt = null.TimeFrom(time.Now())
	}
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CreditCheck{}).
		Where("id = ? AND status = ?", check.ID, string(entities.CreditCheckPending)).
		Updates(map[string]interface{}{
			"status":           string(check.Status),
			"bureau_reference": check.BureauReference.Ptr(),
			"score":            check.Score.Ptr(),
			"risk_band":        check.RiskBand.Ptr(),
			"raw_response":     check.RawResponse.Ptr(),
			"failure_reason":   check.FailureReason.Ptr(),
			"completed_at":     check.CompletedAt.Time,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, check.ID); err != nil {
			return err
		}
		return domainerrors.ErrConcurrencyConflict
	}
	return nil
}

func (r *CreditCheckRepositoryImpl) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*entities.CreditCheck, error) {
	var ms []models.CreditCheck
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("requested_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	checks := make([]*entities.CreditCheck, 0, len(ms))
	for i := range ms {
		checks = append(checks, r.toEntity(&ms[i]))
	}
	return checks, nil
}

// CountByStatusSince counts checks on applications inside scope. A zero since counts all time.
func (r *CreditCheckRepositoryImpl) CountByStatusSince(ctx context.Context, scope entities.ApplicationScope, status entities.CreditCheckStatus, since time.Time) (int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CreditCheck{}).
		Joins("JOIN loan_applications ON loan_applications.id = credit_checks.application_id").
		Where("credit_checks.status = ?", string(status))
	db = applyScope(db, scope, "loan_applications.")
	if !since.IsZero() {
		db = db.Where("COALESCE(credit_checks.completed_at, credit_checks.requested_at) >= ?", since)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FailStale closes PENDING checks requested before the cutoff
func (r *CreditCheckRepositoryImpl) FailStale(ctx context.Context, requestedBefore time.Time, reason string) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CreditCheck{}).
		Where("status = ? AND requested_at < ?", string(entities.CreditCheckPending), requestedBefore).
		Updates(map[string]interface{}{
			"status":         string(entities.CreditCheckFailed),
			"failure_reason": reason,
			"completed_at":   time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *CreditCheckRepositoryImpl) toEntity(m *models.CreditCheck) *entities.CreditCheck {
	return &entities.CreditCheck{
		ID:                m.ID,
		ApplicationID:     m.ApplicationID,
		RequestedByUserID: m.RequestedByUserID,
		Status:            entities.CreditCheckStatus(m.Status),
		BureauReference:   null.StringFromPtr(m.BureauReference),
		Score:             null.IntFromPtr(m.Score),
		RiskBand:          null.StringFromPtr(m.RiskBand),
		RawResponse:       null.StringFromPtr(m.RawResponse),
		FailureReason:     null.StringFromPtr(m.FailureReason),
		RequestedAt:       m.RequestedAt,
		CompletedAt:       null.TimeFromPtr(m.CompletedAt),
	}
}
