// Package dashboard builds the recruiter operations snapshot.
//
// One Build call issues four independent reads concurrently, waits for all of
// them, and only then derives the histogram, hot jobs, stale count, contact
// matches and action items. Every failed read is reported, not just the first.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/matcher"
	"jobmate/recruiter-service/internal/model"
)

const (
	// HotScoreThreshold is the minimum effective score of a hot job.
	HotScoreThreshold = 8
	// HotJobsLimit caps the hot job list.
	HotJobsLimit = 10
	// StaleAfter is how long an application may wait before it is stale.
	StaleAfter = 72 * time.Hour

	unknownStatus = "unknown"
)

// Source is the read side of the record store used by the aggregator.
type Source interface {
	// JobStatuses returns the status of every job posting; "" for NULL.
	JobStatuses(ctx context.Context) ([]string, error)
	// HotJobCandidates returns new jobs that may qualify as hot.
	HotJobCandidates(ctx context.Context) ([]model.JobPosting, error)
	// InFlightJobs returns jobs with status applied, saved or new.
	InFlightJobs(ctx context.Context) ([]model.JobPosting, error)
	// Contacts returns every contact in import order.
	Contacts(ctx context.Context) ([]model.Contact, error)
}

// Aggregator builds dashboard snapshots.
type Aggregator struct {
	src      Source
	auth     access.Authorizer
	log      *zap.Logger
	now      func() time.Time
	matchCap int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

// WithMatchCap bounds the contact match list.
func WithMatchCap(n int) Option {
	return func(a *Aggregator) { a.matchCap = n }
}

// New returns an Aggregator reading from src.
func New(src Source, auth access.Authorizer, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:      src,
		auth:     auth,
		log:      zap.NewNop(),
		now:      time.Now,
		matchCap: matcher.DefaultCap,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithAuthorizer returns a copy of a that checks auth instead.
func (a *Aggregator) WithAuthorizer(auth access.Authorizer) *Aggregator {
	cp := *a
	cp.auth = auth
	return &cp
}

// Build authorizes the caller, fans out the four reads and assembles the
// snapshot. An unauthorized caller causes no reads.
func (a *Aggregator) Build(ctx context.Context) (*model.DashboardSnapshot, error) {
	if !a.auth.Authorized(ctx) {
		return nil, apperr.ErrUnauthorized
	}

	started := a.now()

	var (
		wg         sync.WaitGroup
		errs       [4]error
		statuses   []string
		candidates []model.JobPosting
		inFlight   []model.JobPosting
		contacts   []model.Contact
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		statuses, errs[0] = a.src.JobStatuses(ctx)
	}()
	go func() {
		defer wg.Done()
		candidates, errs[1] = a.src.HotJobCandidates(ctx)
	}()
	go func() {
		defer wg.Done()
		inFlight, errs[2] = a.src.InFlightJobs(ctx)
	}()
	go func() {
		defer wg.Done()
		contacts, errs[3] = a.src.Contacts(ctx)
	}()
	wg.Wait()

	if err := apperr.Combine(errs[:]...); err != nil {
		a.log.Warn("dashboard reads failed", zap.Error(err))
		return nil, err
	}

	now := a.now()
	hot, hotCount := HotJobs(candidates)
	stale := StaleApplications(inFlight, now)
	matches := matcher.Match(matcher.Dedupe(contacts), inFlight, a.matchCap)

	snap := &model.DashboardSnapshot{
		StatusHistogram:   Histogram(statuses),
		TotalJobs:         len(statuses),
		NewHighScoreCount: hotCount,
		HotJobs:           hot,
		StaleCount:        len(stale),
		ContactMatches:    matches,
		ActionItems:       ActionItems(stale, hot, hotCount, matches),
		GeneratedAt:       now,
	}

	a.log.Debug("dashboard built",
		zap.Int("total_jobs", snap.TotalJobs),
		zap.Int("hot_jobs", snap.NewHighScoreCount),
		zap.Int("stale", snap.StaleCount),
		zap.Int("contact_matches", len(matches)),
		zap.Duration("took", now.Sub(started)),
	)
	return snap, nil
}

// Histogram counts statuses in descending order. Empty statuses count as
// "unknown"; ties keep first-seen order.
func Histogram(statuses []string) []model.StatusCount {
	index := make(map[string]int)
	hist := make([]model.StatusCount, 0)
	for _, s := range statuses {
		if s == "" {
			s = unknownStatus
		}
		i, ok := index[s]
		if !ok {
			i = len(hist)
			index[s] = i
			hist = append(hist, model.StatusCount{Status: s})
		}
		hist[i].Count++
	}
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Count > hist[j].Count })
	return hist
}

// HotJobs keeps new jobs whose effective score is at least HotScoreThreshold,
// highest first, capped at HotJobsLimit. It also returns the uncapped count.
func HotJobs(jobs []model.JobPosting) ([]model.JobPosting, int) {
	hot := make([]model.JobPosting, 0)
	for _, j := range jobs {
		if kanban.Status(j.Status) != kanban.StatusNew {
			continue
		}
		if score := j.EffectiveScore(); score != nil && *score >= HotScoreThreshold {
			hot = append(hot, j)
		}
	}
	sort.SliceStable(hot, func(i, k int) bool {
		return *hot[i].EffectiveScore() > *hot[k].EffectiveScore()
	})

	count := len(hot)
	if len(hot) > HotJobsLimit {
		hot = hot[:HotJobsLimit]
	}
	return hot, count
}

// StaleApplications returns applied jobs whose AppliedAt is strictly older
// than now minus StaleAfter. Jobs without AppliedAt are never stale.
func StaleApplications(jobs []model.JobPosting, now time.Time) []model.JobPosting {
	cutoff := now.Add(-StaleAfter)
	var stale []model.JobPosting
	for _, j := range jobs {
		if kanban.Status(j.Status) != kanban.StatusApplied || j.AppliedAt == nil {
			continue
		}
		if j.AppliedAt.Before(cutoff) {
			stale = append(stale, j)
		}
	}
	return stale
}

// ActionItems lists what the dashboard currently suggests. IDs are derived
// from content so they survive refreshes.
func ActionItems(stale, hot []model.JobPosting, hotCount int, matches []model.ContactJobMatch) []model.ActionItem {
	items := make([]model.ActionItem, 0, len(matches)+2)

	if len(stale) > 0 {
		items = append(items, model.ActionItem{
			ID:     "stale-applications",
			Kind:   model.ActionStaleApplications,
			Title:  fmt.Sprintf("Follow up on %d application(s) waiting more than 3 days", len(stale)),
			Count:  len(stale),
			JobIDs: jobIDs(stale),
		})
	}
	if hotCount > 0 {
		items = append(items, model.ActionItem{
			ID:     "hot-jobs",
			Kind:   model.ActionHotJobs,
			Title:  fmt.Sprintf("Review %d new high-score job(s)", hotCount),
			Count:  hotCount,
			JobIDs: jobIDs(hot),
		})
	}
	for _, m := range matches {
		name := strings.TrimSpace(m.Contact.FullName)
		employer := matcher.ContactKey(m.Contact)
		if m.Contact.Employer != nil {
			employer = strings.TrimSpace(*m.Contact.Employer)
		}
		items = append(items, model.ActionItem{
			ID:     "contact:" + strings.ToLower(name),
			Kind:   model.ActionContactMatch,
			Title:  fmt.Sprintf("Ask %s (%s) about %d open role(s)", name, employer, len(m.Jobs)),
			Count:  len(m.Jobs),
			JobIDs: jobIDs(m.Jobs),
		})
	}
	return items
}

func jobIDs(jobs []model.JobPosting) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}
