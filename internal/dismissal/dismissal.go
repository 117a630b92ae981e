// Package dismissal remembers which dashboard action items a user dismissed
// today. Dismissals live in a Redis set keyed by calendar day, so they reset
// on their own when the date changes.
package dismissal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/recruiter-service/internal/model"
)

const keyPrefix = "recruiter:dismissed"

// Store keeps dismissals in Redis.
type Store struct {
	rdb redis.UniversalClient
	loc *time.Location
	now func() time.Time
}

// NewStore returns a Store whose day boundary is midnight in loc.
func NewStore(rdb redis.UniversalClient, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{rdb: rdb, loc: loc, now: time.Now}
}

// Key returns the set holding userID's dismissals for the day containing t.
func Key(userID string, t time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, t.Format(time.DateOnly))
}

// EndOfDay returns the next midnight after t in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// Dismiss hides itemID for userID until the end of today.
func (s *Store) Dismiss(ctx context.Context, userID, itemID string) error {
	now := s.now().In(s.loc)
	key := Key(userID, now)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, itemID)
		pipe.ExpireAt(ctx, key, EndOfDay(now))
		return nil
	})
	if err != nil {
		return fmt.Errorf("dismiss %s: %w", itemID, err)
	}
	return nil
}

// Dismissed returns the item ids userID dismissed today.
func (s *Store) Dismissed(ctx context.Context, userID string) (map[string]struct{}, error) {
	members, err := s.rdb.SMembers(ctx, Key(userID, s.now().In(s.loc))).Result()
	if err != nil {
		return nil, fmt.Errorf("load dismissals: %w", err)
	}
	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out, nil
}

// Filter drops dismissed items, keeping order.
func Filter(items []model.ActionItem, dismissed map[string]struct{}) []model.ActionItem {
	out := make([]model.ActionItem, 0, len(items))
	for _, it := range items {
		if _, ok := dismissed[it.ID]; !ok {
			out = append(out, it)
		}
	}
	return out
}
