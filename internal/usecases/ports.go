package usecases

import (
	"context"
	"math/rand"

	"loan-origination.backend/internal/domain/entities"
)

// CreditBureau is the external bureau queried during the HO credit check.
// Implementations must return once ctx is done.
type CreditBureau interface {
	Check(ctx context.Context, req entities.BureauRequest) (*entities.BureauResponse, error)
}

// ExpertSelector picks the reviewer for a newly submitted application.
// candidates is never empty.
type ExpertSelector interface {
	SelectExpert(candidates []*entities.User) *entities.User
}

// RandomExpertSelector spreads submissions across the branch's experts
type RandomExpertSelector struct{}

func (RandomExpertSelector) SelectExpert(candidates []*entities.User) *entities.User {
	return candidates[rand.Intn(len(candidates))]
}

// FirstExpertSelector always picks the first candidate in repository order
type FirstExpertSelector struct{}

func (FirstExpertSelector) SelectExpert(candidates []*entities.User) *entities.User {
	return candidates[0]
}

// NewExpertSelector maps the configured policy name to a selector
func NewExpertSelector(policy string) ExpertSelector {
	if policy == "first" {
		return FirstExpertSelector{}
	}
	return RandomExpertSelector{}
}
