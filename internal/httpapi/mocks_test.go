package httpapi_test

import (
	"context"

	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/model"
)

type mockDashboard struct {
	buildFn func(ctx context.Context) (*model.DashboardSnapshot, error)
}

func (m *mockDashboard) Build(ctx context.Context) (*model.DashboardSnapshot, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx)
	}
	return &model.DashboardSnapshot{}, nil
}

type mockLifecycle struct {
	listJobsFn  func(ctx context.Context) ([]model.RecruiterJob, error)
	openFn      func(ctx context.Context, jobID string) (*model.JobPosting, error)
	setStatusFn func(ctx context.Context, jobID, target string) error
	actionsFn   func(ctx context.Context, jobID string) ([]kanban.Transition, error)
	applyFn     func(ctx context.Context, jobID string, action kanban.Action) (kanban.Status, error)
}

func (m *mockLifecycle) ListJobs(ctx context.Context) ([]model.RecruiterJob, error) {
	if m.listJobsFn != nil {
		return m.listJobsFn(ctx)
	}
	return []model.RecruiterJob{}, nil
}

func (m *mockLifecycle) Open(ctx context.Context, jobID string) (*model.JobPosting, error) {
	if m.openFn != nil {
		return m.openFn(ctx, jobID)
	}
	return &model.JobPosting{ID: jobID}, nil
}

func (m *mockLifecycle) SetStatus(ctx context.Context, jobID, target string) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, jobID, target)
	}
	return nil
}

func (m *mockLifecycle) Actions(ctx context.Context, jobID string) ([]kanban.Transition, error) {
	if m.actionsFn != nil {
		return m.actionsFn(ctx, jobID)
	}
	return nil, nil
}

func (m *mockLifecycle) Apply(ctx context.Context, jobID string, action kanban.Action) (kanban.Status, error) {
	if m.applyFn != nil {
		return m.applyFn(ctx, jobID, action)
	}
	return "", nil
}

type mockCorrections struct {
	recordFn func(ctx context.Context, c ledger.Correction) error
	statsFn  func(ctx context.Context) (model.CorrectionStats, error)
}

func (m *mockCorrections) RecordCorrection(ctx context.Context, c ledger.Correction) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, c)
	}
	return nil
}

func (m *mockCorrections) Stats(ctx context.Context) (model.CorrectionStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return model.CorrectionStats{}, nil
}

type mockSpend struct {
	monthlyTotalFn func(ctx context.Context) (billing.Summary, error)
}

func (m *mockSpend) MonthlyTotal(ctx context.Context) (billing.Summary, error) {
	if m.monthlyTotalFn != nil {
		return m.monthlyTotalFn(ctx)
	}
	return billing.Summary{}, nil
}

type mockDismissals struct {
	dismissFn   func(ctx context.Context, userID, itemID string) error
	dismissedFn func(ctx context.Context, userID string) (map[string]struct{}, error)
}

func (m *mockDismissals) Dismiss(ctx context.Context, userID, itemID string) error {
	if m.dismissFn != nil {
		return m.dismissFn(ctx, userID, itemID)
	}
	return nil
}

func (m *mockDismissals) Dismissed(ctx context.Context, userID string) (map[string]struct{}, error) {
	if m.dismissedFn != nil {
		return m.dismissedFn(ctx, userID)
	}
	return nil, nil
}
