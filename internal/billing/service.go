package billing

import (
	"context"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/model"
)

// Store reads subscriptions.
type Store interface {
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
}

// Summary is the monthly spend across active subscriptions.
type Summary struct {
	MonthlyTotal float64 `json:"monthlyTotal"`
	ActiveCount  int     `json:"activeCount"`
}

// Service exposes the normalizer behind authorization.
type Service struct {
	store Store
	auth  access.Authorizer
}

// NewService returns a configured Service.
func NewService(store Store, auth access.Authorizer) *Service {
	return &Service{store: store, auth: auth}
}

// MonthlyTotal reads every subscription and normalizes the active ones.
func (s *Service) MonthlyTotal(ctx context.Context) (Summary, error) {
	if !s.auth.Authorized(ctx) {
		return Summary{}, apperr.ErrUnauthorized
	}

	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return Summary{}, apperr.Storage(err)
	}

	var active int
	for _, sub := range subs {
		if IsActive(sub) {
			active++
		}
	}
	return Summary{MonthlyTotal: ComputeMonthlyTotal(subs), ActiveCount: active}, nil
}
