package core

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"careloop-backend-go/internal/models"
)

// ErrNoProfile is returned when capability resolution is attempted with no
// current profile (empty switcher).
var ErrNoProfile = errors.New("no current profile")

// ProfileSwitcher holds the fixed list of workspaces available to the session
// and tracks which one is current. Capability resolution delegates to
// CapabilitiesFor on the current profile's role.
type ProfileSwitcher struct {
	mu        sync.RWMutex
	profiles  []models.Profile
	currentID string
	logger    *zap.Logger
}

// NewProfileSwitcher creates a ProfileSwitcher over a fixed profile list.
// The first profile is current; an empty list leaves no current profile.
func NewProfileSwitcher(profiles []models.Profile, logger *zap.Logger) *ProfileSwitcher {
	s := &ProfileSwitcher{
		profiles: append([]models.Profile(nil), profiles...),
		logger:   logger,
	}
	if len(s.profiles) > 0 {
		s.currentID = s.profiles[0].ID
	}
	return s
}

// List returns the available profiles in their fixed order.
func (s *ProfileSwitcher) List() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Profile(nil), s.profiles...)
}

// Switch makes the profile with the given id current. An unknown id is a
// no-op: the UI layer is expected to only offer valid ids, and the previous
// selection stays in effect. Switching to the already-current id is
// idempotent. Returns whether the id was known.
func (s *ProfileSwitcher) Switch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ID == id {
			s.currentID = id
			return true
		}
	}
	if s.logger != nil {
		s.logger.Warn("Ignoring switch to unknown profile", zap.String("profileId", id))
	}
	return false
}

// Current returns the current profile. ok is false when the list is empty.
func (s *ProfileSwitcher) Current() (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.ID == s.currentID {
			return p, true
		}
	}
	return models.Profile{}, false
}

// Capabilities resolves the capability set of the current profile's role.
// The result reflects a Switch immediately.
func (s *ProfileSwitcher) Capabilities() (models.CapabilitySet, error) {
	current, ok := s.Current()
	if !ok {
		return models.CapabilitySet{}, ErrNoProfile
	}
	return CapabilitiesFor(current.Role)
}
