// Package bureau adapts the internal CIC store to the credit bureau port.
package bureau

import (
	"context"
	"errors"
	"fmt"

	"loan-origination.backend/internal/domain/entities"
)

// CreditChecker runs a CIC credit check
type CreditChecker interface {
	PerformCreditCheck(ctx context.Context, req entities.CreditCheckRequest) (*entities.CheckResult, error)
}

// CICBureau answers bureau requests from the local CIC store
type CICBureau struct {
	checker     CreditChecker
	institution string
}

// NewCICBureau creates a bureau backed by checker. institution is used when a request names none.
func NewCICBureau(checker CreditChecker, institution string) *CICBureau {
	return &CICBureau{checker: checker, institution: institution}
}

// Check scores the applicant. A customer without a CIC record is a bureau failure.
func (b *CICBureau) Check(ctx context.Context, req entities.BureauRequest) (*entities.BureauResponse, error) {
	institution := req.Institution
	if institution == "" {
		institution = b.institution
	}

	type outcome struct {
		result *entities.CheckResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := b.checker.PerformCreditCheck(ctx, entities.CreditCheckRequest{
			NationalID:    req.NationalID,
			ApplicantName: req.ApplicantName,
			LoanAmount:    req.RequestedAmount,
			Institution:   institution,
		})
		done <- outcome{result, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("credit bureau: %w", ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("credit bureau: %w", out.err)
		}
		if out.result == nil {
			return nil, errors.New("credit bureau: empty result")
		}
		return &entities.BureauResponse{
			BureauReference: out.result.BureauReference,
			Score:           out.result.Score,
			RiskBand:        out.result.RiskBand,
			RawResponse:     out.result.RawResponse,
		}, nil
	}
}
