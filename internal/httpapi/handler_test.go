package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/httpapi"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/model"
)

const jobID = "3f2b8c1e-9a7d-4e6f-b1c2-0d9e8f7a6b5c"

var _ = Describe("Handler", func() {
	var (
		router      *gin.Engine
		dash        *mockDashboard
		lifecycle   *mockLifecycle
		corrections *mockCorrections
		spend       *mockSpend
		dismissals  *mockDismissals
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-user-id", "recruiter-1")
		req.Header.Set("x-user-capabilities", access.CapabilityOpsDashboard)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		dash = &mockDashboard{}
		lifecycle = &mockLifecycle{}
		corrections = &mockCorrections{}
		spend = &mockSpend{}
		dismissals = &mockDismissals{}
		h := httpapi.NewHandler(httpapi.Deps{
			Dashboard:   dash,
			Lifecycle:   lifecycle,
			Corrections: corrections,
			Spend:       spend,
			Dismissals:  dismissals,
			Auth:        access.NewCapabilityAuthorizer(),
		})
		router = httpapi.NewRouter(h, "test")
	})

	It("reports health without caller headers", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"ok"`))
	})

	Describe("GET /dashboard", func() {
		It("drops action items dismissed today", func() {
			dash.buildFn = func(context.Context) (*model.DashboardSnapshot, error) {
				return &model.DashboardSnapshot{ActionItems: []model.ActionItem{
					{ID: "stale-applications"}, {ID: "hot-jobs"},
				}}, nil
			}
			dismissals.dismissedFn = func(_ context.Context, userID string) (map[string]struct{}, error) {
				Expect(userID).To(Equal("recruiter-1"))
				return map[string]struct{}{"hot-jobs": {}}, nil
			}

			w := do(http.MethodGet, "/dashboard", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var snap model.DashboardSnapshot
			Expect(json.Unmarshal(w.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.ActionItems).To(HaveLen(1))
			Expect(snap.ActionItems[0].ID).To(Equal("stale-applications"))
		})

		It("returns every item when dismissals cannot be read", func() {
			dash.buildFn = func(context.Context) (*model.DashboardSnapshot, error) {
				return &model.DashboardSnapshot{ActionItems: []model.ActionItem{{ID: "hot-jobs"}}}, nil
			}
			dismissals.dismissedFn = func(context.Context, string) (map[string]struct{}, error) {
				return nil, errors.New("redis down")
			}

			w := do(http.MethodGet, "/dashboard", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("hot-jobs"))
		})

		It("renders a combined storage error verbatim with 500", func() {
			dash.buildFn = func(context.Context) (*model.DashboardSnapshot, error) {
				return nil, apperr.Combine(errors.New("a"), errors.New("b"))
			}

			w := do(http.MethodGet, "/dashboard", nil)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"a; b"}`))
		})

		It("maps unauthorized to 403", func() {
			dash.buildFn = func(context.Context) (*model.DashboardSnapshot, error) {
				return nil, apperr.ErrUnauthorized
			}

			Expect(do(http.MethodGet, "/dashboard", nil).Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("POST /jobs/:id/status", func() {
		It("passes the target status to the controller", func() {
			var gotID, gotTarget string
			lifecycle.setStatusFn = func(_ context.Context, id, target string) error {
				gotID, gotTarget = id, target
				return nil
			}

			w := do(http.MethodPost, "/jobs/"+jobID+"/status", map[string]string{"status": "saved"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotID).To(Equal(jobID))
			Expect(gotTarget).To(Equal("saved"))
		})

		It("maps an illegal transition to 409", func() {
			lifecycle.setStatusFn = func(context.Context, string, string) error {
				return &apperr.IllegalTransitionError{From: "applied", To: "saved"}
			}

			w := do(http.MethodPost, "/jobs/"+jobID+"/status", map[string]string{"status": "saved"})

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(w.Body.String()).To(ContainSubstring("applied → saved"))
		})

		It("rejects a non-UUID job id without calling the controller", func() {
			lifecycle.setStatusFn = func(context.Context, string, string) error {
				Fail("controller must not be called")
				return nil
			}

			Expect(do(http.MethodPost, "/jobs/not-a-uuid/status", map[string]string{"status": "saved"}).Code).
				To(Equal(http.StatusBadRequest))
		})

		It("rejects a body without status", func() {
			Expect(do(http.MethodPost, "/jobs/"+jobID+"/status", map[string]string{}).Code).
				To(Equal(http.StatusBadRequest))
		})
	})

	Describe("job actions", func() {
		It("lists the actions for the job", func() {
			lifecycle.actionsFn = func(context.Context, string) ([]kanban.Transition, error) {
				return kanban.ActionsFor(kanban.StatusSaved), nil
			}

			w := do(http.MethodGet, "/jobs/"+jobID+"/actions", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"action":"Applied"`))
		})

		It("applies an action and returns the new status", func() {
			lifecycle.applyFn = func(_ context.Context, _ string, action kanban.Action) (kanban.Status, error) {
				Expect(action).To(Equal(kanban.ActionNotAFit))
				return kanban.StatusArchived, nil
			}

			w := do(http.MethodPost, "/jobs/"+jobID+"/actions", map[string]string{"action": "Not a fit"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"status":"archived"`))
		})

		It("maps a missing job to 404", func() {
			lifecycle.openFn = func(context.Context, string) (*model.JobPosting, error) {
				return nil, apperr.ErrNotFound
			}

			Expect(do(http.MethodPost, "/jobs/"+jobID+"/open", nil).Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("corrections", func() {
		It("records a correction", func() {
			var got ledger.Correction
			corrections.recordFn = func(_ context.Context, c ledger.Correction) error {
				got = c
				return nil
			}

			w := do(http.MethodPost, "/corrections", map[string]string{
				"kind": "job", "entityId": jobID, "field": "score", "value": "7",
			})

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(got.Kind).To(Equal(model.EntityJob))
			Expect(got.Value).To(Equal("7"))
		})

		It("maps a validation error to 400 with its message", func() {
			corrections.recordFn = func(context.Context, ledger.Correction) error {
				return &apperr.ValidationError{Msg: "Score must be 1-10"}
			}

			w := do(http.MethodPost, "/corrections", map[string]string{"kind": "job"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Score must be 1-10"}`))
		})

		It("returns stats", func() {
			corrections.statsFn = func(context.Context) (model.CorrectionStats, error) {
				return model.CorrectionStats{JobsTotal: 4, RelevanceUp: 1}, nil
			}

			w := do(http.MethodGet, "/corrections/stats", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"jobsTotal":4`))
		})
	})

	It("returns the monthly subscription total", func() {
		spend.monthlyTotalFn = func(context.Context) (billing.Summary, error) {
			return billing.Summary{MonthlyTotal: 22, ActiveCount: 2}, nil
		}

		w := do(http.MethodGet, "/subscriptions/monthly-total", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"monthlyTotal":22,"activeCount":2}`))
	})

	Describe("POST /action-items/:id/dismiss", func() {
		It("dismisses the item for the caller", func() {
			var gotUser, gotItem string
			dismissals.dismissFn = func(_ context.Context, userID, itemID string) error {
				gotUser, gotItem = userID, itemID
				return nil
			}

			w := do(http.MethodPost, "/action-items/hot-jobs/dismiss", nil)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(gotUser).To(Equal("recruiter-1"))
			Expect(gotItem).To(Equal("hot-jobs"))
		})

		It("refuses callers without the capability", func() {
			req := httptest.NewRequest(http.MethodPost, "/action-items/hot-jobs/dismiss", nil)
			req.Header.Set("x-user-id", "someone")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("answers 503 when no dismissal store is configured", func() {
			router = httpapi.NewRouter(httpapi.NewHandler(httpapi.Deps{
				Dashboard:   dash,
				Lifecycle:   lifecycle,
				Corrections: corrections,
				Spend:       spend,
				Auth:        access.NewCapabilityAuthorizer(),
			}), "test")

			var w *httptest.ResponseRecorder
			Expect(func() { w = do(http.MethodPost, "/action-items/hot-jobs/dismiss", nil) }).NotTo(Panic())

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Body.String()).To(ContainSubstring("dismissals are not configured"))
		})
	})
})
