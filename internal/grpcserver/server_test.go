package grpcserver_test

import (
	"context"
	"errors"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/grpcserver"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/model"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

type fakeDashboard struct {
	buildFn func(ctx context.Context) (*model.DashboardSnapshot, error)
}

func (f *fakeDashboard) Build(ctx context.Context) (*model.DashboardSnapshot, error) {
	return f.buildFn(ctx)
}

type fakeLifecycle struct {
	auth        access.Authorizer
	setStatusFn func(ctx context.Context, jobID, target string) error
	applied     []kanban.Action
}

func (f *fakeLifecycle) ListJobs(ctx context.Context) ([]model.RecruiterJob, error) {
	if !f.auth.Authorized(ctx) {
		return nil, apperr.ErrUnauthorized
	}
	return []model.RecruiterJob{{ID: "j1", Title: "Platform Engineer"}}, nil
}

func (f *fakeLifecycle) Open(_ context.Context, jobID string) (*model.JobPosting, error) {
	return &model.JobPosting{ID: jobID, Status: "viewed"}, nil
}

func (f *fakeLifecycle) SetStatus(ctx context.Context, jobID, target string) error {
	return f.setStatusFn(ctx, jobID, target)
}

func (f *fakeLifecycle) Actions(_ context.Context, jobID string) ([]kanban.Transition, error) {
	if jobID == "missing" {
		return nil, apperr.ErrNotFound
	}
	return kanban.ActionsFor(kanban.StatusSaved), nil
}

func (f *fakeLifecycle) Apply(_ context.Context, _ string, action kanban.Action) (kanban.Status, error) {
	f.applied = append(f.applied, action)
	if action == kanban.ActionRestore {
		return "", &apperr.IllegalTransitionError{From: "saved", To: "new"}
	}
	return kanban.StatusApplied, nil
}

type fakeCorrections struct {
	recorded []ledger.Correction
}

func (f *fakeCorrections) RecordCorrection(_ context.Context, c ledger.Correction) error {
	f.recorded = append(f.recorded, c)
	return nil
}

func (f *fakeCorrections) Stats(context.Context) (model.CorrectionStats, error) {
	return model.CorrectionStats{EmailsTotal: 3}, nil
}

type fakeSpend struct {
	auth access.Authorizer
}

func (f *fakeSpend) MonthlyTotal(ctx context.Context) (billing.Summary, error) {
	if !f.auth.Authorized(ctx) {
		return billing.Summary{}, apperr.ErrUnauthorized
	}
	return billing.Summary{MonthlyTotal: 42.5, ActiveCount: 2}, nil
}

// ── Specs ───────────────────────────────────────────────────────────────────

var _ = Describe("Server", func() {
	var (
		conn        *grpc.ClientConn
		gs          *grpc.Server
		dash        *fakeDashboard
		lifecycle   *fakeLifecycle
		corrections *fakeCorrections
		spend       *fakeSpend
	)

	invoke := func(ctx context.Context, method string, req, resp any) error {
		return conn.Invoke(ctx, "/"+grpcserver.ServiceName+"/"+method, req, resp)
	}

	withCaller := func(caps string) context.Context {
		return metadata.AppendToOutgoingContext(context.Background(),
			"x-user-id", "recruiter-1", "x-user-capabilities", caps)
	}

	BeforeEach(func() {
		dash = &fakeDashboard{}
		lifecycle = &fakeLifecycle{
			auth:        access.NewCapabilityAuthorizer(),
			setStatusFn: func(context.Context, string, string) error { return nil },
		}
		corrections = &fakeCorrections{}
		spend = &fakeSpend{auth: access.NewCapabilityAuthorizer()}

		lis := bufconn.Listen(1 << 20)
		gs = grpc.NewServer()
		grpcserver.NewServer(dash, lifecycle, corrections, spend).Register(gs)
		go func() { _ = gs.Serve(lis) }()

		var err error
		conn, err = grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(grpc.CallContentSubtype(grpcserver.CodecName)),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = conn.Close()
		gs.Stop()
	})

	It("places the metadata caller in the service context", func() {
		var caller access.Caller
		dash.buildFn = func(ctx context.Context) (*model.DashboardSnapshot, error) {
			caller, _ = access.CallerFrom(ctx)
			return &model.DashboardSnapshot{TotalJobs: 5}, nil
		}

		var snap model.DashboardSnapshot
		Expect(invoke(withCaller("ops_dashboard, billing"), "BuildDashboard",
			&grpcserver.BuildDashboardRequest{}, &snap)).To(Succeed())

		Expect(snap.TotalJobs).To(Equal(5))
		Expect(caller.UserID).To(Equal("recruiter-1"))
		Expect(caller.Has(access.CapabilityOpsDashboard)).To(BeTrue())
	})

	It("leaves calls without x-user-id to the authorizer", func() {
		var resp grpcserver.ListJobsResponse
		err := invoke(context.Background(), "ListJobs", &grpcserver.ListJobsRequest{}, &resp)

		st, ok := status.FromError(err)
		Expect(ok).To(BeTrue())
		Expect(st.Code()).To(Equal(codes.PermissionDenied))
		Expect(st.Message()).To(Equal("unauthorized"))
	})

	It("passes an empty caller to the service when x-user-id is blank", func() {
		var present bool
		dash.buildFn = func(ctx context.Context) (*model.DashboardSnapshot, error) {
			_, present = access.CallerFrom(ctx)
			return nil, apperr.ErrUnauthorized
		}
		ctx := metadata.AppendToOutgoingContext(context.Background(),
			"x-user-id", "", "x-user-capabilities", "ops_dashboard")

		err := invoke(ctx, "BuildDashboard", &grpcserver.BuildDashboardRequest{}, &model.DashboardSnapshot{})

		Expect(status.Code(err)).To(Equal(codes.PermissionDenied))
		Expect(present).To(BeFalse())
	})

	It("lists jobs and opens one", func() {
		var list grpcserver.ListJobsResponse
		Expect(invoke(withCaller("ops_dashboard"), "ListJobs", &grpcserver.ListJobsRequest{}, &list)).To(Succeed())
		Expect(list.Jobs).To(HaveLen(1))

		var job model.JobPosting
		Expect(invoke(withCaller("ops_dashboard"), "OpenJob", &grpcserver.OpenJobRequest{JobID: "j1"}, &job)).To(Succeed())
		Expect(job.Status).To(Equal("viewed"))
	})

	It("records a correction and reads stats", func() {
		req := &grpcserver.RecordCorrectionRequest{Kind: model.EntityEmail, EntityID: "e1", Field: model.FieldCategory, Value: "offer"}
		Expect(invoke(withCaller("ops_dashboard"), "RecordCorrection", req, &grpcserver.RecordCorrectionResponse{})).To(Succeed())
		Expect(corrections.recorded).To(HaveLen(1))
		Expect(corrections.recorded[0].Value).To(Equal("offer"))

		var stats model.CorrectionStats
		Expect(invoke(withCaller("ops_dashboard"), "CorrectionStats", &grpcserver.CorrectionStatsRequest{}, &stats)).To(Succeed())
		Expect(stats.EmailsTotal).To(Equal(3))
	})

	It("lists the actions offered for a job", func() {
		var resp grpcserver.JobActionsResponse
		Expect(invoke(withCaller("ops_dashboard"), "JobActions", &grpcserver.JobActionsRequest{JobID: "j1"}, &resp)).To(Succeed())

		Expect(resp.JobID).To(Equal("j1"))
		Expect(resp.Actions).To(Equal(kanban.ActionsFor(kanban.StatusSaved)))

		err := invoke(withCaller("ops_dashboard"), "JobActions", &grpcserver.JobActionsRequest{JobID: "missing"}, &resp)
		Expect(status.Code(err)).To(Equal(codes.NotFound))
	})

	It("applies a UI action and reports the new status", func() {
		var resp grpcserver.ApplyActionResponse
		Expect(invoke(withCaller("ops_dashboard"), "ApplyAction",
			&grpcserver.ApplyActionRequest{JobID: "j1", Action: "Applied"}, &resp)).To(Succeed())

		Expect(resp).To(Equal(grpcserver.ApplyActionResponse{JobID: "j1", Status: "applied"}))
		Expect(lifecycle.applied).To(Equal([]kanban.Action{kanban.ActionApplied}))

		err := invoke(withCaller("ops_dashboard"), "ApplyAction",
			&grpcserver.ApplyActionRequest{JobID: "j1", Action: "Restore"}, &resp)
		Expect(status.Code(err)).To(Equal(codes.FailedPrecondition))
	})

	It("returns the monthly spend to authorized callers only", func() {
		var sum billing.Summary
		Expect(invoke(withCaller("ops_dashboard"), "MonthlyTotal", &grpcserver.MonthlyTotalRequest{}, &sum)).To(Succeed())
		Expect(sum).To(Equal(billing.Summary{MonthlyTotal: 42.5, ActiveCount: 2}))

		err := invoke(withCaller("billing"), "MonthlyTotal", &grpcserver.MonthlyTotalRequest{}, &sum)
		Expect(status.Code(err)).To(Equal(codes.PermissionDenied))
	})

	DescribeTable("maps service errors to status codes with the message intact",
		func(serviceErr error, code codes.Code, msg string) {
			lifecycle.setStatusFn = func(context.Context, string, string) error { return serviceErr }

			err := invoke(withCaller("ops_dashboard"), "SetStatus",
				&grpcserver.SetStatusRequest{JobID: "j1", Status: "saved"}, &grpcserver.SetStatusResponse{})

			st, ok := status.FromError(err)
			Expect(ok).To(BeTrue())
			Expect(st.Code()).To(Equal(code))
			Expect(st.Message()).To(Equal(msg))
		},
		Entry("unauthorized", apperr.ErrUnauthorized, codes.PermissionDenied, "unauthorized"),
		Entry("validation", apperr.Validation("unknown status \"hired\""), codes.InvalidArgument, "unknown status \"hired\""),
		Entry("illegal transition", &apperr.IllegalTransitionError{From: "applied", To: "saved"},
			codes.FailedPrecondition, "transition applied → saved is not allowed"),
		Entry("not found", apperr.ErrNotFound, codes.NotFound, "not found"),
		Entry("combined storage", apperr.Combine(errors.New("a"), errors.New("b")), codes.Internal, "a; b"),
	)
})
