package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/infrastructure/models"
)

// LoanApplicationRepositoryImpl implements LoanApplicationRepository
type LoanApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewLoanApplicationRepository(db *gorm.DB) *LoanApplicationRepositoryImpl {
	return &LoanApplicationRepositoryImpl{db: db}
}

func (r *LoanApplicationRepositoryImpl) Create(ctx context.Context, app *entities.LoanApplication) error {
	ensureID(&app.ID)
	now := time.Now()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(r.toModel(app)).Error
}

func (r *LoanApplicationRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.LoanApplication, error) {
	var m models.LoanApplication
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *LoanApplicationRepositoryImpl) filtered(ctx context.Context, query entities.ApplicationQuery) *gorm.DB {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LoanApplication{})
	db = applyScope(db, query.Scope, "")
	if query.Status != "" {
		db = db.Where("status = ?", string(query.Status))
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		db = db.Where("(LOWER(application_ref) LIKE ? OR LOWER(applicant_name) LIKE ? OR LOWER(national_id) LIKE ?)", term, term, term)
	}
	return db
}

func (r *LoanApplicationRepositoryImpl) List(ctx context.Context, query entities.ApplicationQuery, limit, offset int) ([]*entities.LoanApplication, int, error) {
	var total int64
	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.LoanApplication
	if err := r.filtered(ctx, query).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	apps := make([]*entities.LoanApplication, 0, len(ms))
	for i := range ms {
		apps = append(apps, r.toEntity(&ms[i]))
	}
	return apps, int(total), nil
}

func (r *LoanApplicationRepositoryImpl) CountByStatus(ctx context.Context, scope entities.ApplicationScope) (map[entities.ApplicationStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	db := applyScope(GetDB(ctx, r.db).WithContext(ctx).Model(&models.LoanApplication{}), scope, "")
	if err := db.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[entities.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[entities.ApplicationStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *LoanApplicationRepositoryImpl) UpdateTransition(ctx context.Context, app *entities.LoanApplication, expected entities.ApplicationStatus) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", app.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":             string(app.Status),
			"assigned_expert_id": uuidPtr(app.AssignedExpertID),
			"reviewed_by_ho_id":  uuidPtr(app.ReviewedByHOID),
			"application_grade":  app.ApplicationGrade.Ptr(),
			"expert_remarks":     app.ExpertRemarks.Ptr(),
			"ho_remarks":         app.HORemarks.Ptr(),
			"remarks":            app.Remarks.Ptr(),
			"updated_at":         app.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, app.ID)
	}
	return nil
}

func (r *LoanApplicationRepositoryImpl) UpdateCICResult(ctx context.Context, app *entities.LoanApplication) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LoanApplication{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{
			"cic_check_status":       string(app.CICCheckStatus),
			"cic_credit_score":       app.CICCreditScore.Ptr(),
			"cic_risk_category":      app.CICRiskCategory.Ptr(),
			"cic_bureau_reference":   app.CICBureauReference.Ptr(),
			"cic_recommendation":     app.CICRecommendation.Ptr(),
			"cic_key_factors":        app.CICKeyFactors.Ptr(),
			"cic_checked_at":         app.CICCheckedAt.Ptr(),
			"cic_checked_by_user_id": uuidPtr(app.CICCheckedByUserID),
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *LoanApplicationRepositoryImpl) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LoanApplication{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrConcurrencyConflict
}

func (r *LoanApplicationRepositoryImpl) toModel(app *entities.LoanApplication) *models.LoanApplication {
	return &models.LoanApplication{
		ID:                 app.ID,
		ApplicationRef:     app.ApplicationRef,
		ApplicantName:      app.ApplicantName,
		NationalID:         app.NationalID,
		DateOfBirth:        app.DateOfBirth,
		ContactPhone:       app.ContactPhone.Ptr(),
		ContactEmail:       app.ContactEmail.Ptr(),
		ProductCode:        app.ProductCode,
		RequestedAmount:    app.RequestedAmount,
		TenureMonths:       app.TenureMonths,
		BranchCode:         app.BranchCode,
		CreatedByUserID:    app.CreatedByUserID,
		Status:             string(app.Status),
		AssignedExpertID:   uuidPtr(app.AssignedExpertID),
		ReviewedByHOID:     uuidPtr(app.ReviewedByHOID),
		ApplicationGrade:   app.ApplicationGrade.Ptr(),
		ExpertRemarks:      app.ExpertRemarks.Ptr(),
		HORemarks:          app.HORemarks.Ptr(),
		Remarks:            app.Remarks.Ptr(),
		CICCheckStatus:     string(app.CICCheckStatus),
		CICCreditScore:     app.CICCreditScore.Ptr(),
		CICRiskCategory:    app.CICRiskCategory.Ptr(),
		CICBureauReference: app.CICBureauReference.Ptr(),
		CICRecommendation:  app.CICRecommendation.Ptr(),
		CICKeyFactors:      app.CICKeyFactors.Ptr(),
		CICCheckedAt:       app.CICCheckedAt.Ptr(),
		CICCheckedByUserID: uuidPtr(app.CICCheckedByUserID),
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
}

func (r *LoanApplicationRepositoryImpl) toEntity(m *models.LoanApplication) *entities.LoanApplication {
	return &entities.LoanApplication{
		ID:                 m.ID,
		ApplicationRef:     m.ApplicationRef,
		ApplicantName:      m.ApplicantName,
		NationalID:         m.NationalID,
		DateOfBirth:        m.DateOfBirth,
		ContactPhone:       null.StringFromPtr(m.ContactPhone),
		ContactEmail:       null.StringFromPtr(m.ContactEmail),
		ProductCode:        m.ProductCode,
		RequestedAmount:    m.RequestedAmount,
		TenureMonths:       m.TenureMonths,
		BranchCode:         m.BranchCode,
		CreatedByUserID:    m.CreatedByUserID,
		Status:             entities.ApplicationStatus(m.Status),
		AssignedExpertID:   nullUUID(m.AssignedExpertID),
		ReviewedByHOID:     nullUUID(m.ReviewedByHOID),
		ApplicationGrade:   null.StringFromPtr(m.ApplicationGrade),
		ExpertRemarks:      null.StringFromPtr(m.ExpertRemarks),
		HORemarks:          null.StringFromPtr(m.HORemarks),
		Remarks:            null.StringFromPtr(m.Remarks),
		CICCheckStatus:     entities.CICCheckStatus(m.CICCheckStatus),
		CICCreditScore:     null.IntFromPtr(m.CICCreditScore),
		CICRiskCategory:    null.StringFromPtr(m.CICRiskCategory),
		CICBureauReference: null.StringFromPtr(m.CICBureauReference),
		CICRecommendation:  null.StringFromPtr(m.CICRecommendation),
		CICKeyFactors:      null.StringFromPtr(m.CICKeyFactors),
		CICCheckedAt:       null.TimeFromPtr(m.CICCheckedAt),
		CICCheckedByUserID: nullUUID(m.CICCheckedByUserID),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ApplicationEventRepositoryImpl implements ApplicationEventRepository
type ApplicationEventRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationEventRepository(db *gorm.DB) *ApplicationEventRepositoryImpl {
	return &ApplicationEventRepositoryImpl{db: db}
}

func (r *ApplicationEventRepositoryImpl) Create(ctx context.Context, event *entities.ApplicationEvent) error {
	ensureID(&event.ID)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m := &models.ApplicationEvent{
		ID:            event.ID,
		ApplicationID: event.ApplicationID,
		FromStatus:    string(event.FromStatus),
		ToStatus:      string(event.ToStatus),
		ActorID:       event.ActorID,
		ActorRole:     string(event.ActorRole),
		Remarks:       event.Remarks.Ptr(),
		CreatedAt:     event.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *ApplicationEventRepositoryImpl) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*entities.ApplicationEvent, error) {
	var ms []models.ApplicationEvent
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	events := make([]*entities.ApplicationEvent, 0, len(ms))
	for _, m := range ms {
		events = append(events, &entities.ApplicationEvent{
			ID:            m.ID,
			ApplicationID: m.ApplicationID,
			FromStatus:    entities.ApplicationStatus(m.FromStatus),
			ToStatus:      entities.ApplicationStatus(m.ToStatus),
			ActorID:       m.ActorID,
			ActorRole:     entities.Role(m.ActorRole),
			Remarks:       null.StringFromPtr(m.Remarks),
			CreatedAt:     m.CreatedAt,
		})
	}
	return events, nil
}
