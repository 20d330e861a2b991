// Package artists provides artist scheduling profiles: the mandatory
// break buffer and the locations an artist can be booked at.
package artists

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inkbookhq/inkbook-platform/internal/calendar"
)

// Location is a studio or guest-spot venue an artist works from.
type Location struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	City string    `json:"city,omitempty"`
	// EndAt marks a temporary location's expiry date (inclusive).
	// Nil means permanent.
	EndAt *calendar.Date `json:"end_at,omitempty"`
}

// Expired reports whether the location is past its end date as of the
// given day.
func (l *Location) Expired(asOf calendar.Date) bool {
	return l.EndAt != nil && l.EndAt.Before(asOf)
}

// Flow holds the artist's scheduling knobs.
type Flow struct {
	// BreakTimeMinutes is the mandatory idle buffer after every
	// committed session or block before the next may start.
	BreakTimeMinutes int `json:"break_time"`
}

// Profile is the artist-side input to availability decisions. It is
// loaded by the auth collaborator at sign-in and read, never written,
// by the scheduling engine.
type Profile struct {
	ArtistID  uuid.UUID  `json:"artist_id"`
	Name      string     `json:"name,omitempty"`
	Flow      Flow       `json:"flow"`
	Locations []Location `json:"locations,omitempty"`
}

// DefaultProfile returns the profile used when nothing is stored yet:
// no break buffer, no locations.
func DefaultProfile(artistID uuid.UUID) *Profile {
	return &Profile{ArtistID: artistID}
}

// ActiveLocation returns the location with the given id when it exists
// and has not expired as of asOf.
func (p *Profile) ActiveLocation(locationID uuid.UUID, asOf calendar.Date) (*Location, bool) {
	for i := range p.Locations {
		loc := &p.Locations[i]
		if loc.ID == locationID {
			if loc.Expired(asOf) {
				return nil, false
			}
			return loc, true
		}
	}
	return nil, false
}

// Store persists artist profiles in Redis.
type Store struct {
	redis *redis.Client
}

// NewStore creates a profile store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) key(artistID uuid.UUID) string {
	return fmt.Sprintf("artist:profile:%s", artistID)
}

// Get retrieves an artist profile, returning the default when absent.
func (s *Store) Get(ctx context.Context, artistID uuid.UUID) (*Profile, error) {
	data, err := s.redis.Get(ctx, s.key(artistID)).Bytes()
	if err == redis.Nil {
		return DefaultProfile(artistID), nil
	}
	if err != nil {
		return nil, &calendar.DependencyError{Op: "artists: get profile", Err: err}
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &calendar.DependencyError{Op: "artists: unmarshal profile", Err: err}
	}
	return &p, nil
}

// Set saves an artist profile.
func (s *Store) Set(ctx context.Context, p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("artists: marshal profile: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(p.ArtistID), data, 0).Err(); err != nil {
		return &calendar.DependencyError{Op: "artists: set profile", Err: err}
	}
	return nil
}
