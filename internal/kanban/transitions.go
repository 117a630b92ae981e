// Package kanban defines the lifecycle state machine for job postings.
//
// Valid status graph:
//
//	NEW ──(open)──► VIEWED
//
//	NEW, VIEWED ──► SAVED ──► APPLIED ──► ARCHIVED
//	     │            │                      ▲  │
//	     └────────────┴──────────────────────┘  │
//	NEW ◄──────────────── Restore ──────────────┘
//
// NEW and VIEWED may also go straight to APPLIED. APPLIED never returns to
// an active state. ARCHIVED is left only by Restore.
package kanban

import "fmt"

// Status values mirror the job_postings.status column.
type Status string

const (
	StatusNew      Status = "new"
	StatusViewed   Status = "viewed"
	StatusSaved    Status = "saved"
	StatusApplied  Status = "applied"
	StatusArchived Status = "archived"
)

// Action is a UI action label that moves a job to a new status.
type Action string

const (
	ActionSave    Action = "Save"
	ActionApplied Action = "Applied"
	ActionNotAFit Action = "Not a fit"
	ActionArchive Action = "Archive"
	ActionRestore Action = "Restore"
)

// Transition is one allowed edge of the graph with the action that fires it.
type Transition struct {
	Action Action `json:"action"`
	To     Status `json:"to"`
}

// validTransitions lists every allowed (from → to) pair, in UI order.
var validTransitions = map[Status][]Transition{
	StatusNew: {
		{ActionSave, StatusSaved},
		{ActionApplied, StatusApplied},
		{ActionNotAFit, StatusArchived},
	},
	StatusViewed: {
		{ActionSave, StatusSaved},
		{ActionApplied, StatusApplied},
		{ActionNotAFit, StatusArchived},
	},
	StatusSaved: {
		{ActionApplied, StatusApplied},
		{ActionNotAFit, StatusArchived},
	},
	StatusApplied: {
		{ActionArchive, StatusArchived},
	},
	StatusArchived: {
		{ActionRestore, StatusNew},
	},
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNew, StatusViewed, StatusSaved, StatusApplied, StatusArchived:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine. Opening a NEW job (NEW → VIEWED) is not a user action and is
// reported separately by IsOpenTransition.
func IsTransitionAllowed(from, to Status) bool {
	for _, t := range validTransitions[from] {
		if t.To == to {
			return true
		}
	}
	return false
}

// IsOpenTransition reports whether opening a job in status from moves it.
func IsOpenTransition(from Status) bool { return from == StatusNew }

// ActionsFor returns the UI actions valid for a job in status s.
func ActionsFor(s Status) []Transition {
	ts := validTransitions[s]
	out := make([]Transition, len(ts))
	copy(out, ts)
	return out
}

// TargetFor resolves an action label for a job in status from.
func TargetFor(from Status, action Action) (Status, bool) {
	for _, t := range validTransitions[from] {
		if t.Action == action {
			return t.To, true
		}
	}
	return "", false
}

// IsInFlight returns true for the statuses that count as an active pursuit:
// new, saved and applied.
func IsInFlight(s Status) bool {
	return s == StatusNew || s == StatusSaved || s == StatusApplied
}
