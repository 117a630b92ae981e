// Package ledger records human corrections of AI-produced scores and
// categories. A correction never overwrites the AI value; the store keeps
// both so disagreement can be measured.
package ledger

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/model"
)

// EventCorrectionRecorded is published after a correction is persisted.
const EventCorrectionRecorded = "EVENT_CORRECTION_RECORDED"

const (
	minScore = 1
	maxScore = 10
)

// Relevance values accepted for FieldRelevance.
const (
	RelevanceUp   = "up"
	RelevanceDown = "down"
)

// correctable lists the fields a human may override per entity kind.
var correctable = map[model.EntityKind][]model.CorrectionField{
	model.EntityEmail: {model.FieldScore, model.FieldCategory, model.FieldRelevance},
	model.EntityJob:   {model.FieldScore},
}

// Store persists corrections and aggregates their statistics.
type Store interface {
	// SaveCorrection writes the human value and corrected_at against the
	// entity and appends an audit row carrying the AI value. It returns rec
	// with ID and AIValue filled in from that row.
	SaveCorrection(ctx context.Context, rec model.CorrectionRecord) (model.CorrectionRecord, error)
	CorrectionStats(ctx context.Context) (model.CorrectionStats, error)
}

// Publisher announces recorded corrections.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Correction is a request to override one field of one entity.
type Correction struct {
	Kind     model.EntityKind      `json:"kind"`
	EntityID string                `json:"entityId"`
	Field    model.CorrectionField `json:"field"`
	Value    string                `json:"value"`
}

// Ledger is the correction entry point.
type Ledger struct {
	store Store
	auth  access.Authorizer
	pub   Publisher
	log   *zap.Logger
	now   func() time.Time
}

// New returns a Ledger. pub and log may be nil.
func New(store Store, auth access.Authorizer, pub Publisher, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, auth: auth, pub: pub, log: log, now: time.Now}
}

// WithClock returns a copy of l using now instead of time.Now.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	cp := *l
	cp.now = now
	return &cp
}

// RecordCorrection validates c and persists it. Authorization is checked
// first, then input; the store is only reached with a valid correction.
func (l *Ledger) RecordCorrection(ctx context.Context, c Correction) error {
	if !l.auth.Authorized(ctx) {
		return apperr.ErrUnauthorized
	}

	value, err := Validate(c)
	if err != nil {
		return err
	}

	rec := model.CorrectionRecord{
		Kind:        c.Kind,
		EntityID:    strings.TrimSpace(c.EntityID),
		Field:       c.Field,
		HumanValue:  value,
		CorrectedAt: l.now().UTC(),
	}
	rec, err = l.store.SaveCorrection(ctx, rec)
	if err != nil {
		return apperr.Storage(err)
	}

	if l.pub != nil {
		if err := l.pub.Publish(ctx, EventCorrectionRecorded, rec); err != nil {
			l.log.Warn("publish correction failed",
				zap.String("entity_id", rec.EntityID),
				zap.String("field", string(rec.Field)),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Validate checks c and returns the normalized human value.
func Validate(c Correction) (string, error) {
	if strings.TrimSpace(c.EntityID) == "" {
		return "", apperr.Validation("Entity id is required")
	}
	fields, ok := correctable[c.Kind]
	if !ok {
		return "", apperr.Validation("Unknown entity kind %q", c.Kind)
	}
	if !containsField(fields, c.Field) {
		return "", apperr.Validation("Field %q is not correctable for %s", c.Field, c.Kind)
	}

	switch c.Field {
	case model.FieldScore:
		score, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || score < minScore || score > maxScore {
			return "", apperr.Validation("Score must be 1-10")
		}
		return strconv.Itoa(score), nil
	case model.FieldCategory:
		category := strings.TrimSpace(c.Value)
		if category == "" {
			return "", apperr.Validation("Category must not be empty")
		}
		return category, nil
	default:
		relevance := strings.ToLower(strings.TrimSpace(c.Value))
		if relevance != RelevanceUp && relevance != RelevanceDown {
			return "", apperr.Validation("Relevance must be up or down")
		}
		return relevance, nil
	}
}

func containsField(fields []model.CorrectionField, f model.CorrectionField) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

// Stats returns the store's pre-aggregated correction statistics.
func (l *Ledger) Stats(ctx context.Context) (model.CorrectionStats, error) {
	if !l.auth.Authorized(ctx) {
		return model.CorrectionStats{}, apperr.ErrUnauthorized
	}
	stats, err := l.store.CorrectionStats(ctx)
	if err != nil {
		return model.CorrectionStats{}, apperr.Storage(err)
	}
	return stats, nil
}
