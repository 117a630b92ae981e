package model

import "time"

// StatusCount is one bucket of the job status histogram.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ActionItemKind groups action items for the presentation layer.
type ActionItemKind string

const (
	ActionStaleApplications ActionItemKind = "stale_applications"
	ActionHotJobs           ActionItemKind = "hot_jobs"
	ActionContactMatch      ActionItemKind = "contact_match"
)

// ActionItem is something the dashboard suggests doing today. ID is stable
// across refreshes so a dismissal can refer to it.
type ActionItem struct {
	ID     string         `json:"id"`
	Kind   ActionItemKind `json:"kind"`
	Title  string         `json:"title"`
	Count  int            `json:"count"`
	JobIDs []string       `json:"jobIds,omitempty"`
}

// DashboardSnapshot is the read model returned by one aggregation. It is
// built once and owned by the caller.
type DashboardSnapshot struct {
	StatusHistogram   []StatusCount     `json:"statusHistogram"`
	TotalJobs         int               `json:"totalJobs"`
	NewHighScoreCount int               `json:"newHighScoreCount"`
	HotJobs           []JobPosting      `json:"hotJobs"`
	StaleCount        int               `json:"staleCount"`
	ContactMatches    []ContactJobMatch `json:"contactMatches"`
	ActionItems       []ActionItem      `json:"actionItems"`
	GeneratedAt       time.Time         `json:"generatedAt"`
}
