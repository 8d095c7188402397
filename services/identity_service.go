package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"club-ticketing/models"
	"club-ticketing/monitoring"
)

type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeUser  UserType = "user"
	UserTypeNone  UserType = ""
)

// Session is the authenticated principal as seen by the auth layer: an id
// and an email, nothing more.
type Session struct {
	ID    string
	Email string
}

// Identity is the result of resolving a session against the admin and
// profile tables. Exactly one of Admin/Profile is set, or neither.
type Identity struct {
	Session Session
	Type    UserType
	Admin   *models.AdminProfile
	Profile *models.Profile
}

func (i *Identity) IsAdmin() bool { return i.Type == UserTypeAdmin }
func (i *Identity) IsUser() bool  { return i.Type == UserTypeUser }

func (i *Identity) DisplayName() string {
	if i.Type == UserTypeAdmin && i.Admin != nil {
		switch {
		case i.Admin.FirstName != "" && i.Admin.LastName != "":
			return i.Admin.FirstName + " " + i.Admin.LastName
		case i.Admin.FirstName != "":
			return i.Admin.FirstName
		case i.Admin.LastName != "":
			return i.Admin.LastName
		}
		return "Administrateur"
	}

	if i.Type == UserTypeUser && i.Profile != nil {
		switch {
		case i.Profile.Firstname != "" && i.Profile.Lastname != "":
			return i.Profile.Firstname + " " + i.Profile.Lastname
		case i.Profile.Firstname != "":
			return i.Profile.Firstname
		case i.Profile.Lastname != "":
			return i.Profile.Lastname
		}
		return "Utilisateur"
	}

	return "Anonyme"
}

type adminDirectory interface {
	GetActiveByEmail(email string) (*models.AdminProfile, error)
	Update(id string, updates map[string]any) (*models.AdminProfile, error)
}

type profileDirectory interface {
	GetByID(id string) (*models.Profile, error)
	Update(id string, updates map[string]any) (*models.Profile, error)
}

// IdentityService resolves sessions to identities and keeps resolved
// identities in sync with the store through the record watcher.
type IdentityService struct {
	admins    adminDirectory
	profiles  profileDirectory
	watcher   *RecordWatcher
	publisher Publisher

	mu       sync.RWMutex
	resolved map[string]*Identity
}

func NewIdentityService(admins adminDirectory, profiles profileDirectory, watcher *RecordWatcher, publisher Publisher) *IdentityService {
	return &IdentityService{
		admins:    admins,
		profiles:  profiles,
		watcher:   watcher,
		publisher: publisher,
		resolved:  make(map[string]*Identity),
	}
}

// Resolve determines exactly one of admin / user / none for a session.
// The admin table is checked first, by email with the active filter; only
// when no admin row exists is the profile table checked by session id.
//
// A lookup failure that is not "no row" is logged and collapsed into the
// not-found path, so the caller proceeds with the weaker identity instead
// of failing the request.
func (s *IdentityService) Resolve(session Session) *Identity {
	identity := &Identity{Session: session, Type: UserTypeNone}

	admin, err := s.admins.GetActiveByEmail(session.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("Error fetching admin profile for %s: %v", session.Email, err)
	}

	if admin != nil {
		identity.Type = UserTypeAdmin
		identity.Admin = admin
	} else {
		profile, err := s.profiles.GetByID(session.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			log.Printf("Error fetching user profile for %s: %v", session.ID, err)
		}
		if profile != nil {
			identity.Type = UserTypeUser
			identity.Profile = profile
		}
	}

	monitoring.TrackIdentityResolution(string(identity.Type))

	s.mu.Lock()
	s.resolved[session.ID] = identity
	s.mu.Unlock()

	return identity
}

// Refresh re-resolves a previously resolved session from the store.
func (s *IdentityService) Refresh(session Session) *Identity {
	return s.Resolve(session)
}

// Release drops the cached identity for a session, e.g. on sign-out.
func (s *IdentityService) Release(sessionID string) {
	s.mu.Lock()
	delete(s.resolved, sessionID)
	s.mu.Unlock()
}

func (s *IdentityService) UpdateProfile(session Session, updates map[string]any) (*models.Profile, error) {
	s.mu.RLock()
	identity := s.resolved[session.ID]
	s.mu.RUnlock()

	if identity == nil || !identity.IsUser() {
		return nil, fmt.Errorf("identity: session %s is not a user", session.ID)
	}

	profile, err := s.profiles.Update(identity.Profile.ID, updates)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	identity.Profile = profile
	s.mu.Unlock()

	return profile, nil
}

func (s *IdentityService) UpdateAdminProfile(session Session, updates map[string]any) (*models.AdminProfile, error) {
	s.mu.RLock()
	identity := s.resolved[session.ID]
	s.mu.RUnlock()

	if identity == nil || !identity.IsAdmin() {
		return nil, fmt.Errorf("identity: session %s is not an admin", session.ID)
	}

	admin, err := s.admins.Update(identity.Admin.ID, updates)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	identity.Admin = admin
	s.mu.Unlock()

	return admin, nil
}

// Watch keeps resolved identities current with external profile/admin row
// changes and republishes them to the owner's channel. Applying the same
// change twice converges to the same state, which covers the race between
// a local mutation's response and its own change notification.
func (s *IdentityService) Watch(ctx context.Context) {
	if s.watcher == nil {
		return
	}

	profileChanges, unsubProfiles := s.watcher.Subscribe("profile", "")
	adminChanges, unsubAdmins := s.watcher.Subscribe("admin", "")

	go func() {
		defer unsubProfiles()
		defer unsubAdmins()

		for {
			select {
			case change := <-profileChanges:
				s.applyProfileChange(change)
			case change := <-adminChanges:
				s.applyAdminChange(change)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *IdentityService) applyProfileChange(change RecordChange) {
	if change.Action != "updated" || change.Record == nil {
		return
	}

	s.mu.Lock()
	identity, ok := s.resolved[change.RecordID]
	if !ok || !identity.IsUser() {
		s.mu.Unlock()
		return
	}
	identity.Profile = models.ProfileFromRecord(change.Record)
	sessionID := identity.Session.ID
	s.mu.Unlock()

	// Publish is a network call; it must not run under the lock or a
	// slow broker stalls every concurrent Resolve.
	s.publishChange(sessionID, "profile_updated")
}

func (s *IdentityService) applyAdminChange(change RecordChange) {
	if change.Action != "updated" || change.Record == nil {
		return
	}

	var sessionID string

	s.mu.Lock()
	for _, identity := range s.resolved {
		if identity.IsAdmin() && identity.Admin.ID == change.RecordID {
			identity.Admin = models.AdminProfileFromRecord(change.Record)
			sessionID = identity.Session.ID
			break
		}
	}
	s.mu.Unlock()

	if sessionID != "" {
		s.publishChange(sessionID, "admin_profile_updated")
	}
}

func (s *IdentityService) publishChange(sessionID, changeType string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(fmt.Sprintf("user-%s", sessionID), map[string]any{
		"type": changeType,
	})
}
