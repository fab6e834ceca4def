package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/domain/repositories"
	"loan-origination.backend/internal/domain/scoring"
	"loan-origination.backend/internal/infrastructure/metrics"
	"loan-origination.backend/pkg/logger"
)

const (
	reportInquiryLimit      = 10
	reportScoreHistoryLimit = 12
)

var amountPrinter = message.NewPrinter(language.English)

// CreditCheckUsecase scores customers against the CIC store
type CreditCheckUsecase struct {
	uow         repositories.UnitOfWork
	profileRepo repositories.CreditProfileRepository
	metrics     *metrics.Metrics
}

// NewCreditCheckUsecase creates a new credit check usecase
func NewCreditCheckUsecase(
	uow repositories.UnitOfWork,
	profileRepo repositories.CreditProfileRepository,
	m *metrics.Metrics,
) *CreditCheckUsecase {
	return &CreditCheckUsecase{
		uow:         uow,
		profileRepo: profileRepo,
		metrics:     m,
	}
}

// PerformCreditCheck records a hard inquiry, scores the customer and stores the new score.
// The inquiry, score update and history row commit together.
func (u *CreditCheckUsecase) PerformCreditCheck(ctx context.Context, req entities.CreditCheckRequest) (*entities.CheckResult, error) {
	if req.NationalID == "" {
		return nil, domainerrors.ValidationError("National ID is required.")
	}

	var result *entities.CheckResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		profile, err := u.profileRepo.GetSnapshot(u.uow.WithLock(txCtx), req.NationalID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("Customer not found in CIC database")
			}
			return err
		}

		now := time.Now()
		inquiry := entities.Inquiry{
			ProfileID:            profile.ID,
			InquiryType:          entities.InquiryHard,
			InquiringInstitution: req.Institution,
			InquiryPurpose:       null.StringFrom(inquiryPurpose(req.LoanAmount)),
			InquiryDate:          now,
			LoanAmountRequested:  decimal.NewNullDecimal(req.LoanAmount),
		}
		if err := u.profileRepo.AddInquiry(txCtx, &inquiry); err != nil {
			return err
		}
		profile.Inquiries = append(profile.Inquiries, inquiry)

		score := scoring.Calculate(profile, now)

		var previous *int
		if profile.CurrentScore.Valid {
			prev := profile.CurrentScore.Int
			previous = &prev
		}

		if err := u.profileRepo.UpdateScore(txCtx, profile.ID, score.Score, score.RiskBand, now); err != nil {
			return err
		}

		entry := &entities.ScoreHistoryEntry{
			ProfileID:     profile.ID,
			Score:         score.Score,
			ScoreDate:     now,
			RiskCategory:  score.RiskBand,
			PrimaryFactor: null.NewString(score.PrimaryFactor(), score.PrimaryFactor() != ""),
		}
		if len(score.Factors) > 1 {
			entry.SecondaryFactor = null.StringFrom(score.Factors[1])
		}
		if err := u.profileRepo.AppendScoreHistory(txCtx, entry); err != nil {
			return err
		}

		raw, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return err
		}

		result = &entities.CheckResult{
			BureauReference: bureauReference(req.NationalID, now),
			CheckedAt:       now,
			CustomerInfo: entities.CustomerInfo{
				NationalID:       profile.NationalID,
				FullName:         profile.FullName,
				EmploymentStatus: profile.EmploymentStatus,
				MonthlyIncome:    profile.MonthlyIncome,
			},
			Score:          score.Score,
			PreviousScore:  previous,
			RiskBand:       score.RiskBand,
			Recommendation: score.Recommendation,
			CreditSummary:  summaryOf(profile),
			Components:     score.Components,
			KeyFactors:     score.Factors,
			Flags: entities.ProfileFlags{
				HasBankruptcy:        profile.HasBankruptcy,
				HasCourtJudgment:     profile.HasCourtJudgment,
				HasDebtRestructuring: profile.HasDebtRestructuring,
				IsBlacklisted:        profile.IsBlacklisted,
			},
			RawResponse: string(raw),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveScore(string(result.RiskBand), result.Score)
	logger.Info(ctx, "CIC credit check completed",
		zap.String("bureau_reference", result.BureauReference),
		zap.Int("score", result.Score),
		zap.String("risk_band", string(result.RiskBand)),
	)
	return result, nil
}

// CalculateScore scores a customer without recording an inquiry or touching the stored score
func (u *CreditCheckUsecase) CalculateScore(ctx context.Context, nationalID string) (*entities.ScoreResult, error) {
	profile, err := u.profileRepo.GetSnapshot(ctx, nationalID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Customer not found in CIC database")
		}
		return nil, err
	}

	result := scoring.Calculate(profile, time.Now())
	u.metrics.ObserveScore(string(result.RiskBand), result.Score)
	return result, nil
}

// GetCreditReport returns the full credit file of a customer
func (u *CreditCheckUsecase) GetCreditReport(ctx context.Context, nationalID string) (*entities.CreditReport, error) {
	profile, err := u.profileRepo.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Customer not found in CIC database")
		}
		return nil, err
	}

	report := &entities.CreditReport{Profile: profile}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Accounts, err = u.profileRepo.ListAccounts(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		report.Assets, err = u.profileRepo.ListAssets(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		report.Inquiries, err = u.profileRepo.ListRecentInquiries(gctx, profile.ID, reportInquiryLimit)
		return err
	})
	g.Go(func() (err error) {
		report.PublicRecords, err = u.profileRepo.ListPublicRecords(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		report.ScoreHistory, err = u.profileRepo.ListScoreHistory(gctx, profile.ID, reportScoreHistoryLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func inquiryPurpose(amount decimal.Decimal) string {
	return fmt.Sprintf("Loan Application - Amount: %s VND", amountPrinter.Sprintf("%d", amount.Round(0).IntPart()))
}

func bureauReference(nationalID string, at time.Time) string {
	return fmt.Sprintf("CIC-VN-%s-%s-%d", at.Format("20060102"), nationalID, at.Unix())
}

func summaryOf(profile *entities.CreditProfile) entities.CreditSummary {
	return entities.CreditSummary{
		TotalAccounts:        len(profile.Accounts),
		ActiveAccounts:       profile.ActiveAccounts,
		ClosedAccounts:       profile.ClosedAccounts,
		DelinquentAccounts:   profile.DelinquentAccounts,
		TotalCreditLimit:     profile.TotalCreditLimit,
		TotalOutstandingDebt: profile.TotalOutstandingDebt,
		TotalAssetsValue:     profile.TotalAssetsValue,
	}
}
