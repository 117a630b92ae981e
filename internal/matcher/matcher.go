// Package matcher pairs professional contacts with in-flight job postings
// whose employer name overlaps the contact's employer.
package matcher

import (
	"strings"

	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/model"
)

// DefaultCap bounds the number of contacts returned by Match.
const DefaultCap = 20

// Dedupe drops contacts whose trimmed, lowercased full name was already seen,
// keeping the first occurrence. Blank names are dropped.
func Dedupe(contacts []model.Contact) []model.Contact {
	seen := make(map[string]struct{}, len(contacts))
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		name := strings.ToLower(strings.TrimSpace(c.FullName))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ContactKey returns the normalized employer key of a contact, preferring the
// explicit key over the raw employer name.
func ContactKey(c model.Contact) string {
	if c.EmployerKey != nil {
		if k := normalize(*c.EmployerKey); k != "" {
			return k
		}
	}
	if c.Employer != nil {
		return normalize(*c.Employer)
	}
	return ""
}

// JobKey returns the normalized employer key of a job posting.
func JobKey(j model.JobPosting) string {
	if k := normalize(j.EmployerKey); k != "" {
		return k
	}
	return normalize(j.Employer)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Overlaps reports whether either key contains the other. Empty keys never
// overlap.
func Overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Match scans the deduplicated contacts in order and returns the first limit
// of them that share an employer with at least one in-flight job. A limit of
// zero or less means DefaultCap.
//
// Cost is contacts × jobs; both sides are per-user sets.
func Match(contacts []model.Contact, jobs []model.JobPosting, limit int) []model.ContactJobMatch {
	if limit <= 0 {
		limit = DefaultCap
	}

	type keyedJob struct {
		key string
		job model.JobPosting
	}
	active := make([]keyedJob, 0, len(jobs))
	for _, j := range jobs {
		if !kanban.IsInFlight(kanban.Status(j.Status)) {
			continue
		}
		if k := JobKey(j); k != "" {
			active = append(active, keyedJob{key: k, job: j})
		}
	}

	matches := make([]model.ContactJobMatch, 0)
	if len(active) == 0 {
		return matches
	}

	for _, c := range Dedupe(contacts) {
		ck := ContactKey(c)
		if ck == "" {
			continue
		}

		var matched []model.JobPosting
		for _, aj := range active {
			if Overlaps(ck, aj.key) {
				matched = append(matched, aj.job)
			}
		}
		if len(matched) == 0 {
			continue
		}

		matches = append(matches, model.ContactJobMatch{Contact: c, Jobs: matched})
		if len(matches) == limit {
			break
		}
	}
	return matches
}
