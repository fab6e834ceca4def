package scoring

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"loan-origination.backend/internal/domain/entities"
)

var assetCoverage = decimal.NewFromFloat(1.5)

// factors explains the score in the order payment, utilization, history, inquiries, assets, negatives
func factors(profile *entities.CreditProfile, c components, now time.Time) []string {
	var out []string

	switch {
	case c.payment >= 0.90:
		out = append(out, "Excellent payment history - consistently on time")
	case c.payment >= 0.70:
		out = append(out, "Good payment history with some minor delays")
	case c.payment >= 0.50:
		out = append(out, "Fair payment history - several late payments")
	default:
		out = append(out, "Poor payment history - frequent late or missed payments")
	}

	if profile.TotalCreditLimit.IsPositive() {
		util := ratio(profile.TotalOutstandingDebt, profile.TotalCreditLimit)
		pct := util * 100
		switch {
		case util > 0.75:
			out = append(out, fmt.Sprintf("High credit utilization (%.0f%%) - maxing out credit", pct))
		case util > 0.50:
			out = append(out, fmt.Sprintf("Moderate credit utilization (%.0f%%)", pct))
		case util < 0.30:
			out = append(out, fmt.Sprintf("Low credit utilization (%.0f%%) - responsible usage", pct))
		}
	}

	if profile.FirstCreditDate.Valid {
		years := historyYears(profile, now)
		switch {
		case years >= 5:
			out = append(out, fmt.Sprintf("Established credit history (%.1f years)", years))
		case years < 2:
			out = append(out, fmt.Sprintf("Limited credit history (%.1f years)", years))
		}
	}

	recent := hardInquiriesSince(profile, now.AddDate(0, 0, -180))
	switch {
	case recent >= 4:
		out = append(out, fmt.Sprintf("Multiple recent credit applications (%d) - credit-seeking behavior", recent))
	case recent == 0:
		out = append(out, "No recent credit inquiries - stable credit usage")
	}

	if profile.TotalAssetsValue.GreaterThan(profile.TotalOutstandingDebt.Mul(assetCoverage)) {
		out = append(out, "Strong asset base - assets exceed debt significantly")
	}

	if profile.DelinquentAccounts > 0 {
		out = append(out, fmt.Sprintf("%d account(s) currently delinquent", profile.DelinquentAccounts))
	}
	if profile.HasBankruptcy {
		out = append(out, "Bankruptcy on record")
	}
	if profile.HasCourtJudgment {
		out = append(out, "Court judgment on record")
	}
	return out
}
