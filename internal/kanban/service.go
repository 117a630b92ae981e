package kanban

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/model"
)

// ListingLimit caps ListJobs.
const ListingLimit = 500

// EventStatusChanged is published after every persisted status change.
const EventStatusChanged = "EVENT_JOB_STATUS_CHANGED"

// Store is the job side of the record store.
type Store interface {
	GetJob(ctx context.Context, id string) (*model.JobPosting, error)
	UpdateJobStatus(ctx context.Context, id string, status Status) error
	ListRecentJobs(ctx context.Context, limit int) ([]model.RecruiterJob, error)
}

// Publisher fans status changes out to other services.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Policy decides whether SetStatus checks the transition table.
type Policy string

const (
	// PolicyPermissive persists any known status; the UI only offers legal
	// actions.
	PolicyPermissive Policy = "permissive"
	// PolicyStrict reads the current status and rejects transitions missing
	// from the table with an IllegalTransitionError.
	PolicyStrict Policy = "strict"
)

// ParsePolicy converts a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown transition policy %q", s)
	}
}

// Controller owns job status changes.
// It has no dependency on a transport; HTTP and gRPC both call into it.
type Controller struct {
	store  Store
	auth   access.Authorizer
	policy Policy
	pub    Publisher
	log    *zap.Logger
}

// NewController returns a configured Controller. pub may be nil.
func NewController(store Store, auth access.Authorizer, policy Policy, pub Publisher, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: store, auth: auth, policy: policy, pub: pub, log: log}
}

// Policy returns the configured transition policy.
func (c *Controller) Policy() Policy { return c.policy }

// SetStatus persists target as the status of jobID.
//
// Under PolicyStrict the current status is read first: setting the same
// status again is a no-op, and anything not in the transition table returns
// an IllegalTransitionError without writing.
func (c *Controller) SetStatus(ctx context.Context, jobID, target string) error {
	if !c.auth.Authorized(ctx) {
		return apperr.ErrUnauthorized
	}
	if strings.TrimSpace(jobID) == "" {
		return apperr.Validation("job id is required")
	}
	to, err := ParseStatus(target)
	if err != nil {
		return &apperr.ValidationError{Msg: err.Error()}
	}

	var from Status
	if c.policy == PolicyStrict {
		job, err := c.store.GetJob(ctx, jobID)
		if err != nil {
			return apperr.Storage(err)
		}
		from = Status(job.Status)
		if from == to {
			return nil
		}
		if !IsTransitionAllowed(from, to) {
			return &apperr.IllegalTransitionError{From: string(from), To: string(to)}
		}
	}

	if err := c.store.UpdateJobStatus(ctx, jobID, to); err != nil {
		return apperr.Storage(err)
	}
	c.publish(ctx, jobID, from, to, "")
	return nil
}

// Open records that the job detail view was opened. A NEW job moves to
// VIEWED once, before any user action; any other status is left alone.
func (c *Controller) Open(ctx context.Context, jobID string) (*model.JobPosting, error) {
	if !c.auth.Authorized(ctx) {
		return nil, apperr.ErrUnauthorized
	}
	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	from := Status(job.Status)
	if !IsOpenTransition(from) {
		return job, nil
	}
	if err := c.store.UpdateJobStatus(ctx, jobID, StatusViewed); err != nil {
		return nil, apperr.Storage(err)
	}
	job.Status = string(StatusViewed)
	c.publish(ctx, jobID, from, StatusViewed, "open")
	return job, nil
}

// Actions returns the UI actions available for jobID in its current status.
func (c *Controller) Actions(ctx context.Context, jobID string) ([]Transition, error) {
	if !c.auth.Authorized(ctx) {
		return nil, apperr.ErrUnauthorized
	}
	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return ActionsFor(Status(job.Status)), nil
}

// Apply performs a UI action on jobID and returns the resulting status. The
// action must be offered for the job's current status.
func (c *Controller) Apply(ctx context.Context, jobID string, action Action) (Status, error) {
	if !c.auth.Authorized(ctx) {
		return "", apperr.ErrUnauthorized
	}
	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return "", apperr.Storage(err)
	}

	from := Status(job.Status)
	to, ok := TargetFor(from, action)
	if !ok {
		return "", apperr.Validation("action %q is not available for a %s job", action, from)
	}
	if err := c.store.UpdateJobStatus(ctx, jobID, to); err != nil {
		return "", apperr.Storage(err)
	}
	c.publish(ctx, jobID, from, to, string(action))
	return to, nil
}

// ListJobs returns the most recently scraped jobs, newest first.
func (c *Controller) ListJobs(ctx context.Context) ([]model.RecruiterJob, error) {
	if !c.auth.Authorized(ctx) {
		return nil, apperr.ErrUnauthorized
	}
	jobs, err := c.store.ListRecentJobs(ctx, ListingLimit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return jobs, nil
}

// publish is best effort; the status change is already persisted.
func (c *Controller) publish(ctx context.Context, jobID string, from, to Status, trigger string) {
	if c.pub == nil {
		return
	}
	event := map[string]string{
		"type":  EventStatusChanged,
		"jobId": jobID,
		"from":  string(from),
		"to":    string(to),
	}
	if trigger != "" {
		event["trigger"] = trigger
	}
	if caller, ok := access.CallerFrom(ctx); ok {
		event["userId"] = caller.UserID
	}
	if err := c.pub.Publish(ctx, EventStatusChanged, event); err != nil {
		c.log.Warn("publish status change failed", zap.String("job_id", jobID), zap.Error(err))
	}
}
