package bureau

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
)

type checkerFunc func(ctx context.Context, req entities.CreditCheckRequest) (*entities.CheckResult, error)

func (f checkerFunc) PerformCreditCheck(ctx context.Context, req entities.CreditCheckRequest) (*entities.CheckResult, error) {
	return f(ctx, req)
}

func TestCICBureau_Check_MapsResult(t *testing.T) {
	var got entities.CreditCheckRequest
	b := NewCICBureau(checkerFunc(func(_ context.Context, req entities.CreditCheckRequest) (*entities.CheckResult, error) {
		got = req
		return &entities.CheckResult{
			BureauReference: "CIC-VN-20260101-001-1",
			Score:           712,
			RiskBand:        entities.RiskMedium,
			RawResponse:     `{"score":712}`,
		}, nil
	}), "RMIT NeoBank")

	resp, err := b.Check(context.Background(), entities.BureauRequest{
		ApplicantName:   "Nguyen Van A",
		NationalID:      "001",
		RequestedAmount: decimal.NewFromInt(100_000_000),
	})
	require.NoError(t, err)
	assert.Equal(t, "CIC-VN-20260101-001-1", resp.BureauReference)
	assert.Equal(t, 712, resp.Score)
	assert.Equal(t, entities.RiskMedium, resp.RiskBand)
	assert.Equal(t, `{"score":712}`, resp.RawResponse)

	assert.Equal(t, "001", got.NationalID)
	assert.Equal(t, "RMIT NeoBank", got.Institution)
	assert.True(t, got.LoanAmount.Equal(decimal.NewFromInt(100_000_000)))
}

func TestCICBureau_Check_RequestInstitutionWins(t *testing.T) {
	var institution string
	b := NewCICBureau(checkerFunc(func(_ context.Context, req entities.CreditCheckRequest) (*entities.CheckResult, error) {
		institution = req.Institution
		return &entities.CheckResult{BureauReference: "ref", Score: 650, RiskBand: entities.RiskHigh, RawResponse: "{}"}, nil
	}), "default")

	_, err := b.Check(context.Background(), entities.BureauRequest{NationalID: "001", Institution: "Other Bank"})
	require.NoError(t, err)
	assert.Equal(t, "Other Bank", institution)
}

func TestCICBureau_Check_Errors(t *testing.T) {
	t.Run("missing profile", func(t *testing.T) {
		b := NewCICBureau(checkerFunc(func(context.Context, entities.CreditCheckRequest) (*entities.CheckResult, error) {
			return nil, domainerrors.NotFound("Customer not found in CIC database")
		}), "bank")
		_, err := b.Check(context.Background(), entities.BureauRequest{NationalID: "404"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("empty result", func(t *testing.T) {
		b := NewCICBureau(checkerFunc(func(context.Context, entities.CreditCheckRequest) (*entities.CheckResult, error) {
			return nil, nil
		}), "bank")
		_, err := b.Check(context.Background(), entities.BureauRequest{NationalID: "001"})
		require.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		b := NewCICBureau(checkerFunc(func(context.Context, entities.CreditCheckRequest) (*entities.CheckResult, error) {
			<-release
			return nil, errors.New("too late")
		}), "bank")

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := b.Check(ctx, entities.BureauRequest{NationalID: "001"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
