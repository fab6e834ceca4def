// Package scoring turns a CIC credit profile snapshot into a bounded credit score.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"loan-origination.backend/internal/domain/entities"
)

const (
	MinScore   = 300
	MaxScore   = 900
	ScoreRange = MaxScore - MinScore

	neutral = 0.5

	blacklistFactor         = "Customer is blacklisted - severe credit history issues"
	blacklistRecommendation = "REJECT - Blacklisted customer"
)

// Weights of the five components. They sum to exactly 1.0.
var Weights = struct {
	PaymentHistory    float64
	CreditUtilization float64
	CreditHistory     float64
	CreditMix         float64
	RecentActivity    float64
}{
	PaymentHistory:    0.35,
	CreditUtilization: 0.30,
	CreditHistory:     0.15,
	CreditMix:         0.10,
	RecentActivity:    0.10,
}

// components holds the raw [0,1] sub-scores
type components struct {
	payment     float64
	utilization float64
	history     float64
	mix         float64
	activity    float64
}

// Calculate scores profile as of now. It never fails: missing data falls back to neutral values.
func Calculate(profile *entities.CreditProfile, now time.Time) *entities.ScoreResult {
	if profile.IsBlacklisted {
		return &entities.ScoreResult{
			Score:          MinScore,
			RiskBand:       entities.RiskSevere,
			Factors:        []string{blacklistFactor},
			Recommendation: blacklistRecommendation,
			Blacklisted:    true,
		}
	}

	c := components{
		payment:     PaymentHistoryScore(profile),
		utilization: UtilizationScore(profile),
		history:     HistoryLengthScore(profile, now),
		mix:         CreditMixScore(profile),
		activity:    RecentActivityScore(profile, now),
	}

	raw := float64(MinScore) +
		c.payment*Weights.PaymentHistory*ScoreRange +
		c.utilization*Weights.CreditUtilization*ScoreRange +
		c.history*Weights.CreditHistory*ScoreRange +
		c.mix*Weights.CreditMix*ScoreRange +
		c.activity*Weights.RecentActivity*ScoreRange

	score := int(math.Round(raw))
	score = applyPublicRecordPenalties(profile, score)
	score = applyAssetBonus(profile, score)
	score = clampScore(score)

	return &entities.ScoreResult{
		Score:    score,
		RiskBand: RiskBand(score),
		Components: &entities.ScoreComponents{
			PaymentHistory:    percent(c.payment),
			CreditUtilization: percent(c.utilization),
			CreditHistory:     percent(c.history),
			CreditMix:         percent(c.mix),
			RecentActivity:    percent(c.activity),
		},
		Factors:        factors(profile, c, now),
		Recommendation: Recommendation(score),
		Blacklisted:    false,
	}
}

// RiskBand maps a score to its band
func RiskBand(score int) entities.RiskBand {
	switch {
	case score >= 740:
		return entities.RiskLow
	case score >= 670:
		return entities.RiskMedium
	case score >= 580:
		return entities.RiskHigh
	default:
		return entities.RiskSevere
	}
}

// Recommendation is the lending advice shown next to a score
func Recommendation(score int) string {
	switch {
	case score >= 800:
		return "STRONGLY APPROVE - Excellent credit profile, minimal risk"
	case score >= 740:
		return "APPROVE - Very good credit, low risk"
	case score >= 670:
		return "APPROVE WITH CONDITIONS - Good credit, standard terms"
	case score >= 600:
		return "MANUAL REVIEW - Moderate risk, consider collateral or guarantor"
	case score >= 550:
		return "CAUTIOUS APPROVAL - Higher risk, require collateral and reduced limit"
	default:
		return "REJECT - High risk profile, recommend denial"
	}
}

// PaymentHistoryScore is the on-time ratio less graduated late penalties
func PaymentHistoryScore(profile *entities.CreditProfile) float64 {
	if len(profile.Accounts) == 0 {
		return neutral
	}

	var total, onTime, late30, late60, late90, missed int
	for _, acc := range profile.Accounts {
		total += acc.TotalPaymentsMade
		onTime += acc.OnTimePayments
		for _, p := range acc.Payments {
			switch p.PaymentStatus {
			case entities.PaymentLate1To30:
				late30++
			case entities.PaymentLate31To60:
				late60++
			case entities.PaymentLate61To90:
				late90++
			case entities.PaymentLate90Plus, entities.PaymentMissed:
				missed++
			}
		}
	}
	if total == 0 {
		return neutral
	}

	ratio := float64(onTime) / float64(total)
	score := ratio
	score -= float64(late30) * 0.02
	score -= float64(late60) * 0.05
	score -= float64(late90) * 0.10
	score -= float64(missed) * 0.15
	if ratio == 1.0 && total >= 12 {
		score += 0.10
	}
	return clamp01(score)
}

// UtilizationScore uses balance over limit, or debt-to-income when no revolving limit exists
func UtilizationScore(profile *entities.CreditProfile) float64 {
	if !profile.TotalCreditLimit.IsPositive() {
		if !profile.MonthlyIncome.IsPositive() {
			return neutral
		}
		dti := ratio(monthlyDebtPayment(profile), profile.MonthlyIncome)
		switch {
		case dti <= 0.20:
			return 1.0
		case dti <= 0.36:
			return 0.80
		case dti <= 0.50:
			return 0.60
		default:
			return 0.30
		}
	}

	util := ratio(profile.TotalOutstandingDebt, profile.TotalCreditLimit)
	switch {
	case util <= 0.10:
		return 1.0
	case util <= 0.30:
		return 0.90
	case util <= 0.50:
		return 0.70
	case util <= 0.75:
		return 0.50
	case util <= 0.90:
		return 0.30
	default:
		return 0.10
	}
}

// HistoryLengthScore steps on years since the first credit date
func HistoryLengthScore(profile *entities.CreditProfile, now time.Time) float64 {
	if !profile.FirstCreditDate.Valid {
		return 0
	}
	years := historyYears(profile, now)
	switch {
	case years >= 10:
		return 1.0
	case years >= 7:
		return 0.90
	case years >= 5:
		return 0.80
	case years >= 3:
		return 0.70
	case years >= 2:
		return 0.60
	case years >= 1:
		return 0.50
	default:
		return 0.30
	}
}

// CreditMixScore rewards diverse active account types
func CreditMixScore(profile *entities.CreditProfile) float64 {
	if len(profile.Accounts) == 0 {
		return 0
	}

	types := make(map[entities.AccountType]struct{})
	var installment, revolving bool
	for _, acc := range profile.Accounts {
		if acc.AccountStatus != entities.AccountActive {
			continue
		}
		types[acc.AccountType] = struct{}{}
		installment = installment || acc.AccountType.IsInstallment()
		revolving = revolving || acc.AccountType.IsRevolving()
	}

	var score float64
	switch n := len(types); {
	case n >= 4:
		score = 1.0
	case n == 3:
		score = 0.85
	case n == 2:
		score = 0.70
	case n == 1:
		score = 0.50
	}
	if installment && revolving {
		score += 0.10
	}
	return math.Min(1.0, score)
}

// RecentActivityScore penalises credit-seeking behaviour
func RecentActivityScore(profile *entities.CreditProfile, now time.Time) float64 {
	sixMonths := hardInquiriesSince(profile, now.AddDate(0, 0, -180))
	twelveMonths := hardInquiriesSince(profile, now.AddDate(0, 0, -365))

	var score float64
	switch {
	case sixMonths == 0:
		score = 1.0
	case sixMonths == 1:
		score = 0.90
	case sixMonths == 2:
		score = 0.75
	case sixMonths <= 4:
		score = 0.60
	default:
		score = 0.30
	}
	if twelveMonths > 6 {
		score -= 0.20
	}
	return math.Max(0, score)
}

func applyPublicRecordPenalties(profile *entities.CreditProfile, score int) int {
	for _, rec := range profile.PublicRecords {
		if rec.Status != entities.PublicRecordActive {
			continue
		}
		recordType := strings.ToUpper(rec.RecordType)
		switch {
		case strings.Contains(recordType, "BANKRUPTCY"):
			score -= 150
		case strings.Contains(recordType, "JUDGMENT"):
			score -= 100
		case strings.Contains(recordType, "LIEN"):
			score -= 75
		}
	}
	if profile.HasBankruptcy {
		score -= 100
	}
	if profile.HasCourtJudgment {
		score -= 75
	}
	if profile.HasDebtRestructuring {
		score -= 50
	}
	return score
}

func applyAssetBonus(profile *entities.CreditProfile, score int) int {
	if !profile.TotalOutstandingDebt.IsPositive() {
		return score
	}
	unencumbered := decimal.Zero
	for _, a := range profile.Assets {
		if !a.IsEncumbered {
			unencumbered = unencumbered.Add(a.EstimatedValue)
		}
	}
	r := ratio(unencumbered, profile.TotalOutstandingDebt)
	switch {
	case r >= 2.0:
		score += 30
	case r >= 1.0:
		score += 20
	case r >= 0.5:
		score += 10
	}
	return score
}

func monthlyDebtPayment(profile *entities.CreditProfile) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range profile.Accounts {
		if acc.AccountStatus == entities.AccountActive {
			total = total.Add(acc.MonthlyPayment)
		}
	}
	return total
}

func hardInquiriesSince(profile *entities.CreditProfile, since time.Time) int {
	n := 0
	for _, inq := range profile.Inquiries {
		if inq.InquiryType == entities.InquiryHard && !inq.InquiryDate.Before(since) {
			n++
		}
	}
	return n
}

func historyYears(profile *entities.CreditProfile, now time.Time) float64 {
	days := math.Floor(now.Sub(profile.FirstCreditDate.Time).Hours() / 24)
	return days / 365.25
}

func ratio(num, den decimal.Decimal) float64 {
	f, _ := num.Div(den).Float64()
	return f
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

func percent(v float64) float64 {
	return math.Round(v*1000) / 10
}
