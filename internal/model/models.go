// Package model defines the records the recruiter service reads and derives.
package model

import "time"

// JobPosting mirrors a job_postings row.
type JobPosting struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Employer    string     `json:"employer"`
	EmployerKey string     `json:"employerKey"` // normalized, lowercased employer name
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	AIScore     *int       `json:"aiScore"`
	AIReasons   []string   `json:"aiReasons"`
	HumanScore  *int       `json:"humanScore"`
	Status      string     `json:"status"` // "" when the column is NULL
	CreatedAt   time.Time  `json:"createdAt"`
	ScrapedAt   time.Time  `json:"scrapedAt"`
	AppliedAt   *time.Time `json:"appliedAt"`
}

// EffectiveScore returns the human override when present, else the AI score.
func (j JobPosting) EffectiveScore() *int {
	if j.HumanScore != nil {
		return j.HumanScore
	}
	return j.AIScore
}

// Contact is a professional contact imported from a network export.
type Contact struct {
	FullName    string  `json:"fullName"`
	Position    *string `json:"position"`
	Employer    *string `json:"employer"`
	EmployerKey *string `json:"employerKey"`
}

// ContactJobMatch pairs a contact with the active jobs at a matching employer.
// Computed per aggregation; never stored.
type ContactJobMatch struct {
	Contact Contact      `json:"contact"`
	Jobs    []JobPosting `json:"jobs"`
}

// Subscription is a recurring expense tracked next to the job search.
type Subscription struct {
	Service       string     `json:"service"`
	Amount        *float64   `json:"amount"`
	Currency      string     `json:"currency"`
	Frequency     string     `json:"frequency"`
	Status        string     `json:"status"`
	LastPaymentAt *time.Time `json:"lastPaymentAt"`
}

// RecruiterJob is the flat listing row exposed to the presentation layer.
type RecruiterJob struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Employer    string    `json:"employer"`
	Description string    `json:"description"`
	AIReasons   []string  `json:"aiReasons"`
	AIScore     *int      `json:"aiScore"`
	HumanScore  *int      `json:"humanScore"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	ScrapedAt   time.Time `json:"scrapedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
