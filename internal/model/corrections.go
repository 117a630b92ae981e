package model

import "time"

// EntityKind names the kind of record a correction applies to.
type EntityKind string

const (
	EntityEmail EntityKind = "email"
	EntityJob   EntityKind = "job"
)

// CorrectionField names the AI-produced attribute a human overrode.
type CorrectionField string

const (
	FieldScore     CorrectionField = "score"
	FieldCategory  CorrectionField = "category"
	FieldRelevance CorrectionField = "relevance"
)

// CorrectionRecord is one human override. The AI value is always kept next to
// the human value so divergence stays queryable.
type CorrectionRecord struct {
	ID          int64           `json:"id"`
	Kind        EntityKind      `json:"kind"`
	EntityID    string          `json:"entityId"`
	Field       CorrectionField `json:"field"`
	AIValue     string          `json:"aiValue"`
	HumanValue  string          `json:"humanValue"`
	CorrectedAt time.Time       `json:"correctedAt"`
}

// CorrectionStats is pre-aggregated by the store.
type CorrectionStats struct {
	EmailsTotal           int `json:"emailsTotal"`
	EmailsCorrected       int `json:"emailsCorrected"`
	EmailScoreDisagree    int `json:"emailScoreDisagree"`
	EmailCategoryDisagree int `json:"emailCategoryDisagree"`
	JobsTotal             int `json:"jobsTotal"`
	JobsCorrected         int `json:"jobsCorrected"`
	JobScoreDisagree      int `json:"jobScoreDisagree"`
	RelevanceUp           int `json:"relevanceUp"`
	RelevanceDown         int `json:"relevanceDown"`
}
