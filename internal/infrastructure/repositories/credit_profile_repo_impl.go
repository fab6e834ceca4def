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

// CreditProfileRepositoryImpl implements CreditProfileRepository over the cic_* tables
type CreditProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewCreditProfileRepository(db *gorm.DB) *CreditProfileRepositoryImpl {
	return &CreditProfileRepositoryImpl{db: db}
}

func (r *CreditProfileRepositoryImpl) Create(ctx context.Context, profile *entities.CreditProfile) error {
	ensureID(&profile.ID)
	m := r.toModel(profile)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CreditProfileRepositoryImpl) GetByNationalID(ctx context.Context, nationalID string) (*entities.CreditProfile, error) {
	var m models.CICCustomer
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("national_id = ?", nationalID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *CreditProfileRepositoryImpl) getByID(ctx context.Context, id uuid.UUID) (*entities.CreditProfile, error) {
	var m models.CICCustomer
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetSnapshot loads the profile and everything the scoring engine reads. Score history is left out.
func (r *CreditProfileRepositoryImpl) GetSnapshot(ctx context.Context, nationalID string) (*entities.CreditProfile, error) {
	profile, err := r.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	if profile.Accounts, err = r.listAccountsWithPayments(ctx, profile.ID); err != nil {
		return nil, err
	}
	if profile.Assets, err = r.ListAssets(ctx, profile.ID); err != nil {
		return nil, err
	}
	if profile.Inquiries, err = r.ListRecentInquiries(ctx, profile.ID, 0); err != nil {
		return nil, err
	}
	if profile.PublicRecords, err = r.ListPublicRecords(ctx, profile.ID); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *CreditProfileRepositoryImpl) listAccountsWithPayments(ctx context.Context, profileID uuid.UUID) ([]entities.CreditAccount, error) {
	accounts, err := r.ListAccounts(ctx, profileID)
	if err != nil || len(accounts) == 0 {
		return accounts, err
	}

	ids := make([]uuid.UUID, 0, len(accounts))
	for _, acc := range accounts {
		ids = append(ids, acc.ID)
	}

	var payments []models.CICPaymentHistory
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id IN ?", ids).
		Order("payment_year ASC, payment_month ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}

	byAccount := make(map[uuid.UUID][]entities.PaymentRecord, len(accounts))
	for i := range payments {
		p := r.paymentToEntity(&payments[i])
		byAccount[p.AccountID] = append(byAccount[p.AccountID], p)
	}
	for i := range accounts {
		accounts[i].Payments = byAccount[accounts[i].ID]
	}
	return accounts, nil
}

func (r *CreditProfileRepositoryImpl) ListAccounts(ctx context.Context, profileID uuid.UUID) ([]entities.CreditAccount, error) {
	var ms []models.CICCreditAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("customer_id = ?", profileID).
		Order("disbursement_date ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	accounts := make([]entities.CreditAccount, 0, len(ms))
	for i := range ms {
		accounts = append(accounts, *r.accountToEntity(&ms[i]))
	}
	return accounts, nil
}

func (r *CreditProfileRepositoryImpl) ListAssets(ctx context.Context, profileID uuid.UUID) ([]entities.Asset, error) {
	var ms []models.CICAsset
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("customer_id = ?", profileID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	assets := make([]entities.Asset, 0, len(ms))
	for _, m := range ms {
		assets = append(assets, entities.Asset{
			ID:               m.ID,
			ProfileID:        m.CustomerID,
			AssetType:        entities.AssetType(m.AssetType),
			AssetDescription: null.StringFromPtr(m.AssetDescription),
			EstimatedValue:   m.EstimatedValue,
			ValuationDate:    null.TimeFromPtr(m.ValuationDate),
			IsEncumbered:     m.IsEncumbered,
		})
	}
	return assets, nil
}

// ListRecentInquiries returns inquiries newest first. limit <= 0 returns all of them.
func (r *CreditProfileRepositoryImpl) ListRecentInquiries(ctx context.Context, profileID uuid.UUID, limit int) ([]entities.Inquiry, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).
		Where("customer_id = ?", profileID).
		Order("inquiry_date DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var ms []models.CICInquiry
	if err := db.Find(&ms).Error; err != nil {
		return nil, err
	}

	inquiries := make([]entities.Inquiry, 0, len(ms))
	for _, m := range ms {
		inquiries = append(inquiries, entities.Inquiry{
			ID:                   m.ID,
			ProfileID:            m.CustomerID,
			InquiryType:          entities.InquiryType(m.InquiryType),
			InquiringInstitution: m.InquiringInstitution,
			InquiryPurpose:       null.StringFromPtr(m.InquiryPurpose),
			InquiryDate:          m.InquiryDate,
			LoanAmountRequested:  m.LoanAmountRequested,
		})
	}
	return inquiries, nil
}

func (r *CreditProfileRepositoryImpl) ListPublicRecords(ctx context.Context, profileID uuid.UUID) ([]entities.PublicRecord, error) {
	var ms []models.CICPublicRecord
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("customer_id = ?", profileID).
		Order("filing_date DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	records := make([]entities.PublicRecord, 0, len(ms))
	for _, m := range ms {
		records = append(records, entities.PublicRecord{
			ID:         m.ID,
			ProfileID:  m.CustomerID,
			RecordType: m.RecordType,
			FilingDate: m.FilingDate,
			Status:     entities.PublicRecordStatus(m.Status),
			CourtName:  null.StringFromPtr(m.CourtName),
			Amount:     m.Amount,
		})
	}
	return records, nil
}

func (r *CreditProfileRepositoryImpl) ListScoreHistory(ctx context.Context, profileID uuid.UUID, limit int) ([]entities.ScoreHistoryEntry, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).
		Where("customer_id = ?", profileID).
		Order("score_date DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var ms []models.CICCreditScoreHistory
	if err := db.Find(&ms).Error; err != nil {
		return nil, err
	}

	history := make([]entities.ScoreHistoryEntry, 0, len(ms))
	for _, m := range ms {
		history = append(history, entities.ScoreHistoryEntry{
			ID:              m.ID,
			ProfileID:       m.CustomerID,
			Score:           m.Score,
			ScoreDate:       m.ScoreDate,
			RiskCategory:    entities.RiskBand(m.RiskCategory),
			PrimaryFactor:   null.StringFromPtr(m.PrimaryFactor),
			SecondaryFactor: null.StringFromPtr(m.SecondaryFactor),
		})
	}
	return history, nil
}

func (r *CreditProfileRepositoryImpl) AddAccount(ctx context.Context, account *entities.CreditAccount) error {
	ensureID(&account.ID)
	m := &models.CICCreditAccount{
		ID:                 account.ID,
		CustomerID:         account.ProfileID,
		AccountNumber:      account.AccountNumber,
		LenderName:         account.LenderName,
		AccountType:        string(account.AccountType),
		AccountStatus:      string(account.AccountStatus),
		DisbursementDate:   account.DisbursementDate,
		ClosureDate:        account.ClosureDate.Ptr(),
		OriginalLoanAmount: account.OriginalLoanAmount,
		CurrentBalance:     account.CurrentBalance,
		CreditLimit:        account.CreditLimit,
		MonthlyPayment:     account.MonthlyPayment,
		DaysPastDue:        account.DaysPastDue,
		TotalPaymentsMade:  account.TotalPaymentsMade,
		OnTimePayments:     account.OnTimePayments,
		LatePayments:       account.LatePayments,
		MissedPayments:     account.MissedPayments,
		CollateralType:     account.CollateralType.Ptr(),
		CollateralValue:    account.CollateralValue,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetAccount loads one account only if it belongs to the given profile
func (r *CreditProfileRepositoryImpl) GetAccount(ctx context.Context, profileID, accountID uuid.UUID) (*entities.CreditAccount, error) {
	var m models.CICCreditAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND customer_id = ?", accountID, profileID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.accountToEntity(&m), nil
}

func (r *CreditProfileRepositoryImpl) AppendPayment(ctx context.Context, payment *entities.PaymentRecord) error {
	ensureID(&payment.ID)
	m := &models.CICPaymentHistory{
		ID:               payment.ID,
		AccountID:        payment.AccountID,
		PaymentMonth:     payment.PaymentMonth,
		PaymentYear:      payment.PaymentYear,
		PaymentDueDate:   payment.PaymentDueDate,
		AmountDue:        payment.AmountDue,
		AmountPaid:       payment.AmountPaid,
		PaymentDate:      payment.PaymentDate.Ptr(),
		DaysLate:         payment.DaysLate,
		PaymentStatus:    string(payment.PaymentStatus),
		IsPartialPayment: payment.IsPartialPayment,
		IsSettlement:     payment.IsSettlement,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *CreditProfileRepositoryImpl) UpdateAccountCounters(ctx context.Context, account *entities.CreditAccount) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CICCreditAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"days_past_due":       account.DaysPastDue,
			"total_payments_made": account.TotalPaymentsMade,
			"on_time_payments":    account.OnTimePayments,
			"late_payments":       account.LatePayments,
			"missed_payments":     account.MissedPayments,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CreditProfileRepositoryImpl) AddAsset(ctx context.Context, asset *entities.Asset) error {
	ensureID(&asset.ID)
	m := &models.CICAsset{
		ID:               asset.ID,
		CustomerID:       asset.ProfileID,
		AssetType:        string(asset.AssetType),
		AssetDescription: asset.AssetDescription.Ptr(),
		EstimatedValue:   asset.EstimatedValue,
		ValuationDate:    asset.ValuationDate.Ptr(),
		IsEncumbered:     asset.IsEncumbered,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *CreditProfileRepositoryImpl) AddInquiry(ctx context.Context, inquiry *entities.Inquiry) error {
	ensureID(&inquiry.ID)
	m := &models.CICInquiry{
		ID:                   inquiry.ID,
		CustomerID:           inquiry.ProfileID,
		InquiryType:          string(inquiry.InquiryType),
		InquiringInstitution: inquiry.InquiringInstitution,
		InquiryPurpose:       inquiry.InquiryPurpose.Ptr(),
		InquiryDate:          inquiry.InquiryDate,
		LoanAmountRequested:  inquiry.LoanAmountRequested,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *CreditProfileRepositoryImpl) AddPublicRecord(ctx context.Context, record *entities.PublicRecord) error {
	ensureID(&record.ID)
	m := &models.CICPublicRecord{
		ID:         record.ID,
		CustomerID: record.ProfileID,
		RecordType: record.RecordType,
		FilingDate: record.FilingDate,
		Status:     string(record.Status),
		CourtName:  record.CourtName.Ptr(),
		Amount:     record.Amount,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *CreditProfileRepositoryImpl) AppendScoreHistory(ctx context.Context, entry *entities.ScoreHistoryEntry) error {
	ensureID(&entry.ID)
	m := &models.CICCreditScoreHistory{
		ID:              entry.ID,
		CustomerID:      entry.ProfileID,
		Score:           entry.Score,
		ScoreDate:       entry.ScoreDate,
		RiskCategory:    string(entry.RiskCategory),
		PrimaryFactor:   entry.PrimaryFactor.Ptr(),
		SecondaryFactor: entry.SecondaryFactor.Ptr(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *CreditProfileRepositoryImpl) UpdateScore(ctx context.Context, profileID uuid.UUID, score int, band entities.RiskBand, at time.Time) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CICCustomer{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"previous_credit_score": gorm.Expr("current_credit_score"),
			"current_credit_score":  score,
			"risk_category":         string(band),
			"score_last_updated":    at,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CreditProfileRepositoryImpl) RefreshSummary(ctx context.Context, profileID uuid.UUID) (*entities.CreditProfile, error) {
	profile, err := r.getByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Accounts, err = r.ListAccounts(ctx, profileID); err != nil {
		return nil, err
	}
	if profile.Assets, err = r.ListAssets(ctx, profileID); err != nil {
		return nil, err
	}

	profile.RecomputeSummary()

	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CICCustomer{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"total_credit_limit":            profile.TotalCreditLimit,
			"total_outstanding_debt":        profile.TotalOutstandingDebt,
			"total_assets_value":            profile.TotalAssetsValue,
			"number_of_active_accounts":     profile.ActiveAccounts,
			"number_of_closed_accounts":     profile.ClosedAccounts,
			"number_of_delinquent_accounts": profile.DelinquentAccounts,
			"first_credit_date":             profile.FirstCreditDate.Ptr(),
			"updated_at":                    time.Now(),
		}).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *CreditProfileRepositoryImpl) toModel(p *entities.CreditProfile) *models.CICCustomer {
	return &models.CICCustomer{
		ID:                         p.ID,
		NationalID:                 p.NationalID,
		FullName:                   p.FullName,
		DateOfBirth:                p.DateOfBirth.Ptr(),
		Gender:                     p.Gender.Ptr(),
		PhoneNumber:                p.PhoneNumber.Ptr(),
		Email:                      p.Email.Ptr(),
		Address:                    p.Address.Ptr(),
		City:                       p.City.Ptr(),
		Province:                   p.Province.Ptr(),
		EmploymentStatus:           string(p.EmploymentStatus),
		EmployerName:               p.EmployerName.Ptr(),
		MonthlyIncome:              p.MonthlyIncome,
		YearsEmployed:              p.YearsEmployed.Ptr(),
		CurrentCreditScore:         p.CurrentScore.Ptr(),
		PreviousCreditScore:        p.PreviousScore.Ptr(),
		RiskCategory:               p.RiskCategory.Ptr(),
		ScoreLastUpdated:           p.ScoreLastUpdated.Ptr(),
		TotalCreditLimit:           p.TotalCreditLimit,
		TotalOutstandingDebt:       p.TotalOutstandingDebt,
		TotalAssetsValue:           p.TotalAssetsValue,
		NumberOfActiveAccounts:     p.ActiveAccounts,
		NumberOfClosedAccounts:     p.ClosedAccounts,
		NumberOfDelinquentAccounts: p.DelinquentAccounts,
		FirstCreditDate:            p.FirstCreditDate.Ptr(),
		HasBankruptcy:              p.HasBankruptcy,
		HasCourtJudgment:           p.HasCourtJudgment,
		HasDebtRestructuring:       p.HasDebtRestructuring,
		IsBlacklisted:              p.IsBlacklisted,
	}
}

func (r *CreditProfileRepositoryImpl) toEntity(m *models.CICCustomer) *entities.CreditProfile {
	return &entities.CreditProfile{
		ID:                   m.ID,
		NationalID:           m.NationalID,
		FullName:             m.FullName,
		DateOfBirth:          null.TimeFromPtr(m.DateOfBirth),
		Gender:               null.StringFromPtr(m.Gender),
		PhoneNumber:          null.StringFromPtr(m.PhoneNumber),
		Email:                null.StringFromPtr(m.Email),
		Address:              null.StringFromPtr(m.Address),
		City:                 null.StringFromPtr(m.City),
		Province:             null.StringFromPtr(m.Province),
		EmploymentStatus:     entities.EmploymentStatus(m.EmploymentStatus),
		EmployerName:         null.StringFromPtr(m.EmployerName),
		MonthlyIncome:        m.MonthlyIncome,
		YearsEmployed:        null.IntFromPtr(m.YearsEmployed),
		CurrentScore:         null.IntFromPtr(m.CurrentCreditScore),
		PreviousScore:        null.IntFromPtr(m.PreviousCreditScore),
		RiskCategory:         null.StringFromPtr(m.RiskCategory),
		ScoreLastUpdated:     null.TimeFromPtr(m.ScoreLastUpdated),
		TotalCreditLimit:     m.TotalCreditLimit,
		TotalOutstandingDebt: m.TotalOutstandingDebt,
		TotalAssetsValue:     m.TotalAssetsValue,
		ActiveAccounts:       m.NumberOfActiveAccounts,
		ClosedAccounts:       m.NumberOfClosedAccounts,
		DelinquentAccounts:   m.NumberOfDelinquentAccounts,
		FirstCreditDate:      null.TimeFromPtr(m.FirstCreditDate),
		HasBankruptcy:        m.HasBankruptcy,
		HasCourtJudgment:     m.HasCourtJudgment,
		HasDebtRestructuring: m.HasDebtRestructuring,
		IsBlacklisted:        m.IsBlacklisted,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func (r *CreditProfileRepositoryImpl) accountToEntity(m *models.CICCreditAccount) *entities.CreditAccount {
	return &entities.CreditAccount{
		ID:                 m.ID,
		ProfileID:          m.CustomerID,
		AccountNumber:      m.AccountNumber,
		LenderName:         m.LenderName,
		AccountType:        entities.AccountType(m.AccountType),
		AccountStatus:      entities.AccountStatus(m.AccountStatus),
		DisbursementDate:   m.DisbursementDate,
		ClosureDate:        null.TimeFromPtr(m.ClosureDate),
		OriginalLoanAmount: m.OriginalLoanAmount,
		CurrentBalance:     m.CurrentBalance,
		CreditLimit:        m.CreditLimit,
		MonthlyPayment:     m.MonthlyPayment,
		DaysPastDue:        m.DaysPastDue,
		TotalPaymentsMade:  m.TotalPaymentsMade,
		OnTimePayments:     m.OnTimePayments,
		LatePayments:       m.LatePayments,
		MissedPayments:     m.MissedPayments,
		CollateralType:     null.StringFromPtr(m.CollateralType),
		CollateralValue:    m.CollateralValue,
	}
}

func (r *CreditProfileRepositoryImpl) paymentToEntity(m *models.CICPaymentHistory) entities.PaymentRecord {
	return entities.PaymentRecord{
		ID:               m.ID,
		AccountID:        m.AccountID,
		PaymentMonth:     m.PaymentMonth,
		PaymentYear:      m.PaymentYear,
		PaymentDueDate:   m.PaymentDueDate,
		AmountDue:        m.AmountDue,
		AmountPaid:       m.AmountPaid,
		PaymentDate:      null.TimeFromPtr(m.PaymentDate),
		DaysLate:         m.DaysLate,
		PaymentStatus:    entities.PaymentStatus(m.PaymentStatus),
		IsPartialPayment: m.IsPartialPayment,
		IsSettlement:     m.IsSettlement,
	}
}
