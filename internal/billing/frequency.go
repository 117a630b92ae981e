// Package billing normalizes recurring subscription costs to a monthly basis.
package billing

import (
	"strings"

	"jobmate/recruiter-service/internal/model"
)

// Frequency is a billing period recognized from free text.
type Frequency int

const (
	FrequencyUnrecognized Frequency = iota
	FrequencyYearly
	FrequencyQuarterly
	FrequencyWeekly
	FrequencyDaily
	FrequencyMonthly
)

// keywords are tested in order; the first hit wins.
var keywords = []struct {
	words []string
	freq  Frequency
}{
	{[]string{"year", "annual"}, FrequencyYearly},
	{[]string{"quarter"}, FrequencyQuarterly},
	{[]string{"week"}, FrequencyWeekly},
	{[]string{"day", "daily"}, FrequencyDaily},
	{[]string{"month"}, FrequencyMonthly},
}

// ParseFrequency classifies raw by case-insensitive keyword containment.
// Empty or unknown text yields FrequencyUnrecognized.
func ParseFrequency(raw string) Frequency {
	s := strings.ToLower(raw)
	if s == "" {
		return FrequencyUnrecognized
	}
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(s, w) {
				return k.freq
			}
		}
	}
	return FrequencyUnrecognized
}

// MonthlyMultiplier converts one billing period to months. Unrecognized
// frequencies are treated as already monthly.
func (f Frequency) MonthlyMultiplier() float64 {
	switch f {
	case FrequencyYearly:
		return 1.0 / 12
	case FrequencyQuarterly:
		return 1.0 / 3
	case FrequencyWeekly:
		return 52.0 / 12
	case FrequencyDaily:
		return 30
	default:
		return 1
	}
}

func (f Frequency) String() string {
	switch f {
	case FrequencyYearly:
		return "yearly"
	case FrequencyQuarterly:
		return "quarterly"
	case FrequencyWeekly:
		return "weekly"
	case FrequencyDaily:
		return "daily"
	case FrequencyMonthly:
		return "monthly"
	default:
		return "unrecognized"
	}
}

// MonthlyMultiplier is ParseFrequency(raw).MonthlyMultiplier().
func MonthlyMultiplier(raw string) float64 {
	return ParseFrequency(raw).MonthlyMultiplier()
}

// IsActive reports whether the subscription status is exactly "active",
// ignoring case.
func IsActive(s model.Subscription) bool {
	return strings.ToLower(s.Status) == "active"
}

// ComputeMonthlyTotal sums amount × multiplier over active subscriptions in
// input order. A nil amount contributes nothing.
func ComputeMonthlyTotal(subs []model.Subscription) float64 {
	var total float64
	for _, s := range subs {
		if !IsActive(s) || s.Amount == nil {
			continue
		}
		total += *s.Amount * MonthlyMultiplier(s.Frequency)
	}
	return total
}
