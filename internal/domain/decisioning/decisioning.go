// Package decisioning maps a credit score and requested amount to automated lending terms.
package decisioning

import (
	"github.com/shopspring/decimal"
	"loan-origination.backend/internal/domain/entities"
)

type tier struct {
	minScore   int
	outcome    entities.DecisionOutcome
	multiplier decimal.Decimal
	rateTier   entities.RateTier
	conditions []string
}

// tiers are ordered by descending minimum score
var tiers = []tier{
	{800, entities.DecisionAutoApprove, decimal.RequireFromString("1.2"), entities.RateTierPrime, nil},
	{700, entities.DecisionAutoApprove, decimal.NewFromInt(1), entities.RateTierStandard, []string{"Standard terms"}},
	{600, entities.DecisionManualReview, decimal.RequireFromString("0.8"), entities.RateTierSubprime, []string{
		"Require additional documentation",
		"Employment verification",
	}},
}

var reject = tier{
	outcome:    entities.DecisionAutoReject,
	multiplier: decimal.Zero,
	rateTier:   entities.RateTierNA,
	conditions: []string{"Credit score below minimum threshold"},
}

// Recommend is deterministic and has no side effects
func Recommend(score int, requested decimal.Decimal) entities.Decision {
	t := reject
	for _, candidate := range tiers {
		if score >= candidate.minScore {
			t = candidate
			break
		}
	}

	conditions := make([]string, len(t.conditions))
	copy(conditions, t.conditions)

	return entities.Decision{
		Outcome:       t.outcome,
		ApprovedLimit: requested.Mul(t.multiplier),
		RateTier:      t.rateTier,
		Conditions:    conditions,
	}
}

// TargetStatus is the workflow status a bureau decision moves an application to
func TargetStatus(outcome entities.DecisionOutcome) entities.ApplicationStatus {
	switch outcome {
	case entities.DecisionAutoApprove:
		return entities.StatusApproved
	case entities.DecisionAutoReject:
		return entities.StatusRejected
	default:
		return entities.StatusPendingHOApproval
	}
}
