package services

import (
	"errors"
	"testing"
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-ticketing/models"
)

type stubAdminDirectory struct {
	admins map[string]*models.AdminProfile
	err    error
}

func (s *stubAdminDirectory) GetActiveByEmail(email string) (*models.AdminProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	admin, ok := s.admins[email]
	if !ok {
		return nil, ErrNotFound
	}
	return admin, nil
}

func (s *stubAdminDirectory) Update(id string, updates map[string]any) (*models.AdminProfile, error) {
	for _, admin := range s.admins {
		if admin.ID == id {
			if v, ok := updates["first_name"].(string); ok {
				admin.FirstName = v
			}
			if v, ok := updates["last_name"].(string); ok {
				admin.LastName = v
			}
			return admin, nil
		}
	}
	return nil, ErrNotFound
}

type stubProfileDirectory struct {
	profiles map[string]*models.Profile
	err      error
}

func (s *stubProfileDirectory) GetByID(id string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *stubProfileDirectory) Update(id string, updates map[string]any) (*models.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v, ok := updates["firstname"].(string); ok {
		profile.Firstname = v
	}
	if v, ok := updates["lastname"].(string); ok {
		profile.Lastname = v
	}
	return profile, nil
}

type recordingPublisher struct {
	channels []string
	messages []map[string]any
}

func (p *recordingPublisher) Publish(channel string, message map[string]any) {
	p.channels = append(p.channels, channel)
	p.messages = append(p.messages, message)
}

func newIdentityFixture(admins *stubAdminDirectory, profiles *stubProfileDirectory) *IdentityService {
	if admins == nil {
		admins = &stubAdminDirectory{}
	}
	if profiles == nil {
		profiles = &stubProfileDirectory{}
	}
	return NewIdentityService(admins, profiles, nil, &recordingPublisher{})
}

func TestIdentity_Resolve_AdminWins(t *testing.T) {
	admins := &stubAdminDirectory{admins: map[string]*models.AdminProfile{
		"boss@club.fr": {ID: "adm1", Email: "boss@club.fr", FirstName: "Marie", LastName: "Durand", ClubID: "club1"},
	}}
	// Same principal also has a user profile; the admin row must win.
	profiles := &stubProfileDirectory{profiles: map[string]*models.Profile{
		"sess1": {ID: "sess1", Firstname: "Marie"},
	}}
	svc := newIdentityFixture(admins, profiles)

	identity := svc.Resolve(Session{ID: "sess1", Email: "boss@club.fr"})

	assert.True(t, identity.IsAdmin())
	assert.False(t, identity.IsUser())
	require.NotNil(t, identity.Admin)
	assert.Nil(t, identity.Profile)
	assert.Equal(t, "Marie Durand", identity.DisplayName())
}

func TestIdentity_Resolve_UserFallback(t *testing.T) {
	profiles := &stubProfileDirectory{profiles: map[string]*models.Profile{
		"sess1": {ID: "sess1", Firstname: "Jean", Lastname: "Petit"},
	}}
	svc := newIdentityFixture(nil, profiles)

	identity := svc.Resolve(Session{ID: "sess1", Email: "jean@mail.fr"})

	assert.True(t, identity.IsUser())
	assert.Equal(t, "Jean Petit", identity.DisplayName())
}

func TestIdentity_Resolve_NeitherFound(t *testing.T) {
	svc := newIdentityFixture(nil, nil)

	identity := svc.Resolve(Session{ID: "sess1", Email: "ghost@mail.fr"})

	assert.Equal(t, UserTypeNone, identity.Type)
	assert.Equal(t, "Anonyme", identity.DisplayName())
}

// A lookup failure other than not-found is collapsed into the weaker
// identity instead of failing resolution.
func TestIdentity_Resolve_AdminLookupErrorFallsThrough(t *testing.T) {
	admins := &stubAdminDirectory{err: errors.New("connection refused")}
	profiles := &stubProfileDirectory{profiles: map[string]*models.Profile{
		"sess1": {ID: "sess1", Firstname: "Jean"},
	}}
	svc := newIdentityFixture(admins, profiles)

	identity := svc.Resolve(Session{ID: "sess1", Email: "jean@mail.fr"})

	assert.True(t, identity.IsUser())
}

func TestIdentity_Resolve_BothLookupsFail(t *testing.T) {
	admins := &stubAdminDirectory{err: errors.New("connection refused")}
	profiles := &stubProfileDirectory{err: errors.New("connection refused")}
	svc := newIdentityFixture(admins, profiles)

	identity := svc.Resolve(Session{ID: "sess1", Email: "jean@mail.fr"})

	assert.Equal(t, UserTypeNone, identity.Type)
}

func TestIdentity_DisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		want     string
	}{
		{
			name: "admin first name only",
			identity: Identity{
				Type:  UserTypeAdmin,
				Admin: &models.AdminProfile{FirstName: "Marie"},
			},
			want: "Marie",
		},
		{
			name: "admin last name only",
			identity: Identity{
				Type:  UserTypeAdmin,
				Admin: &models.AdminProfile{LastName: "Durand"},
			},
			want: "Durand",
		},
		{
			name: "admin with no names",
			identity: Identity{
				Type:  UserTypeAdmin,
				Admin: &models.AdminProfile{},
			},
			want: "Administrateur",
		},
		{
			name: "user with no names",
			identity: Identity{
				Type:    UserTypeUser,
				Profile: &models.Profile{},
			},
			want: "Utilisateur",
		},
		{
			name:     "no identity",
			identity: Identity{Type: UserTypeNone},
			want:     "Anonyme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.DisplayName())
		})
	}
}

func TestIdentity_UpdateProfile(t *testing.T) {
	profiles := &stubProfileDirectory{profiles: map[string]*models.Profile{
		"sess1": {ID: "sess1", Firstname: "Jean"},
	}}
	svc := newIdentityFixture(nil, profiles)
	session := Session{ID: "sess1", Email: "jean@mail.fr"}

	svc.Resolve(session)

	profile, err := svc.UpdateProfile(session, map[string]any{"firstname": "Jeanne"})

	require.NoError(t, err)
	assert.Equal(t, "Jeanne", profile.Firstname)

	// Cached identity reflects the update.
	identity := svc.Resolve(session)
	assert.Equal(t, "Jeanne", identity.Profile.Firstname)
}

func TestIdentity_UpdateProfile_RejectsNonUser(t *testing.T) {
	admins := &stubAdminDirectory{admins: map[string]*models.AdminProfile{
		"boss@club.fr": {ID: "adm1", Email: "boss@club.fr"},
	}}
	svc := newIdentityFixture(admins, nil)
	session := Session{ID: "sess1", Email: "boss@club.fr"}

	svc.Resolve(session)

	_, err := svc.UpdateProfile(session, map[string]any{"firstname": "X"})

	assert.Error(t, err)
}

func TestIdentity_UpdateAdminProfile(t *testing.T) {
	admins := &stubAdminDirectory{admins: map[string]*models.AdminProfile{
		"boss@club.fr": {ID: "adm1", Email: "boss@club.fr", FirstName: "Marie"},
	}}
	svc := newIdentityFixture(admins, nil)
	session := Session{ID: "sess1", Email: "boss@club.fr"}

	svc.Resolve(session)

	admin, err := svc.UpdateAdminProfile(session, map[string]any{"last_name": "Durand"})

	require.NoError(t, err)
	assert.Equal(t, "Durand", admin.LastName)
}

type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) Publish(channel string, message map[string]any) {
	close(p.entered)
	<-p.release
}

// A change notification publish in flight must not hold the identity
// lock; Resolve serves every authenticated request and cannot wait on
// the broker.
func TestIdentity_ResolveNotBlockedByChangePublish(t *testing.T) {
	profiles := &stubProfileDirectory{profiles: map[string]*models.Profile{
		"sess1": {ID: "sess1", Firstname: "Jean"},
		"sess2": {ID: "sess2", Firstname: "Anna"},
	}}
	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewIdentityService(&stubAdminDirectory{}, profiles, nil, pub)
	defer close(pub.release)

	svc.Resolve(Session{ID: "sess1", Email: "jean@mail.fr"})

	record := pbmodels.NewRecord(&pbmodels.Collection{Name: "profile"})
	record.Id = "sess1"
	go svc.applyProfileChange(RecordChange{
		Collection: "profile",
		RecordID:   "sess1",
		Action:     "updated",
		Record:     record,
	})

	<-pub.entered

	done := make(chan struct{})
	go func() {
		svc.Resolve(Session{ID: "sess2", Email: "anna@mail.fr"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Resolve blocked while a change notification was publishing")
	}
}

func TestIdentity_Release(t *testing.T) {
	profiles := &stubProfileDirectory{profiles: map[string]*models.Profile{
		"sess1": {ID: "sess1", Firstname: "Jean"},
	}}
	svc := newIdentityFixture(nil, profiles)
	session := Session{ID: "sess1", Email: "jean@mail.fr"}

	svc.Resolve(session)
	svc.Release(session.ID)

	_, err := svc.UpdateProfile(session, map[string]any{"firstname": "X"})
	assert.Error(t, err)
}
