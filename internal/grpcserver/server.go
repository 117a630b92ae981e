// Package grpcserver implements the RecruiterOps gRPC service.
//
// It delegates all business logic to the dashboard, kanban, ledger and
// billing packages and handles only the gRPC transport concerns: metadata
// extraction and error mapping. A call without caller metadata reaches the
// services with no caller, and their authorizer refuses it. Messages are plain structs carried by the
// JSON codec registered in this package.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/model"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "recruiter.v1.RecruiterOps"

// DashboardBuilder builds operations snapshots.
type DashboardBuilder interface {
	Build(ctx context.Context) (*model.DashboardSnapshot, error)
}

// Lifecycle changes job statuses.
type Lifecycle interface {
	ListJobs(ctx context.Context) ([]model.RecruiterJob, error)
	Open(ctx context.Context, jobID string) (*model.JobPosting, error)
	SetStatus(ctx context.Context, jobID, target string) error
	Actions(ctx context.Context, jobID string) ([]kanban.Transition, error)
	Apply(ctx context.Context, jobID string, action kanban.Action) (kanban.Status, error)
}

// Corrections records and summarizes human corrections.
type Corrections interface {
	RecordCorrection(ctx context.Context, c ledger.Correction) error
	Stats(ctx context.Context) (model.CorrectionStats, error)
}

// Spend reports normalized subscription spend.
type Spend interface {
	MonthlyTotal(ctx context.Context) (billing.Summary, error)
}

// Server implements the RecruiterOps service.
type Server struct {
	dashboard   DashboardBuilder
	lifecycle   Lifecycle
	corrections Corrections
	spend       Spend
}

// NewServer constructs a Server backed by the given services.
func NewServer(dashboard DashboardBuilder, lifecycle Lifecycle, corrections Corrections, spend Spend) *Server {
	return &Server{dashboard: dashboard, lifecycle: lifecycle, corrections: corrections, spend: spend}
}

// Register adds the service to gs.
func (s *Server) Register(gs grpc.ServiceRegistrar) {
	gs.RegisterService(&serviceDesc, s)
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// BuildDashboard returns the current operations snapshot.
func (s *Server) BuildDashboard(ctx context.Context, _ *BuildDashboardRequest) (*model.DashboardSnapshot, error) {
	snap, err := s.dashboard.Build(callerCtx(ctx))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return snap, nil
}

// ListJobs returns the most recently scraped jobs.
func (s *Server) ListJobs(ctx context.Context, _ *ListJobsRequest) (*ListJobsResponse, error) {
	jobs, err := s.lifecycle.ListJobs(callerCtx(ctx))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &ListJobsResponse{Jobs: jobs}, nil
}

// OpenJob records a detail view and returns the job.
func (s *Server) OpenJob(ctx context.Context, req *OpenJobRequest) (*model.JobPosting, error) {
	job, err := s.lifecycle.Open(callerCtx(ctx), req.JobID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return job, nil
}

// SetStatus moves a job to a new status.
func (s *Server) SetStatus(ctx context.Context, req *SetStatusRequest) (*SetStatusResponse, error) {
	if err := s.lifecycle.SetStatus(callerCtx(ctx), req.JobID, req.Status); err != nil {
		return nil, toGRPCError(err)
	}
	return &SetStatusResponse{JobID: req.JobID, Status: req.Status}, nil
}

// RecordCorrection stores a human correction.
func (s *Server) RecordCorrection(ctx context.Context, req *RecordCorrectionRequest) (*RecordCorrectionResponse, error) {
	if err := s.corrections.RecordCorrection(callerCtx(ctx), *req); err != nil {
		return nil, toGRPCError(err)
	}
	return &RecordCorrectionResponse{}, nil
}

// CorrectionStats returns correction statistics.
func (s *Server) CorrectionStats(ctx context.Context, _ *CorrectionStatsRequest) (*model.CorrectionStats, error) {
	stats, err := s.corrections.Stats(callerCtx(ctx))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &stats, nil
}

// JobActions lists the UI actions offered for a job's current status.
func (s *Server) JobActions(ctx context.Context, req *JobActionsRequest) (*JobActionsResponse, error) {
	actions, err := s.lifecycle.Actions(callerCtx(ctx), req.JobID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &JobActionsResponse{JobID: req.JobID, Actions: actions}, nil
}

// ApplyAction performs a UI action and returns the job's new status.
func (s *Server) ApplyAction(ctx context.Context, req *ApplyActionRequest) (*ApplyActionResponse, error) {
	to, err := s.lifecycle.Apply(callerCtx(ctx), req.JobID, kanban.Action(req.Action))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &ApplyActionResponse{JobID: req.JobID, Status: string(to)}, nil
}

// MonthlyTotal returns the normalized monthly subscription spend.
func (s *Server) MonthlyTotal(ctx context.Context, _ *MonthlyTotalRequest) (*billing.Summary, error) {
	sum, err := s.spend.MonthlyTotal(callerCtx(ctx))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &sum, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// callerCtx reads the x-user-id and x-user-capabilities values forwarded by
// the Gateway and stores them as the request's caller. Without x-user-id the
// context is returned unchanged.
func callerCtx(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	ids := md.Get("x-user-id")
	if len(ids) == 0 || ids[0] == "" {
		return ctx
	}

	var caps []string
	for _, raw := range md.Get("x-user-capabilities") {
		caps = append(caps, access.ParseCapabilities(raw)...)
	}
	return access.WithCaller(ctx, access.Caller{UserID: ids[0], Capabilities: caps})
}

// toGRPCError maps domain errors to gRPC status errors. Messages are passed
// through unchanged.
func toGRPCError(err error) error {
	var (
		ve *apperr.ValidationError
		ie *apperr.IllegalTransitionError
	)
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Msg)
	case errors.As(err, &ie):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
