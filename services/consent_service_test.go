package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnderage(t *testing.T) {
	asOf := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dob      time.Time
		underage bool
	}{
		{"ten years old", time.Date(2016, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{"seventeen", time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"eighteenth birthday today", time.Date(2008, time.August, 29, 0, 0, 0, 0, time.UTC), false},
		{"eighteenth birthday tomorrow", time.Date(2008, time.August, 30, 0, 0, 0, 0, time.UTC), true},
		{"eighteenth birthday yesterday", time.Date(2008, time.August, 28, 0, 0, 0, 0, time.UTC), false},
		{"turned eighteen earlier this year", time.Date(2008, time.February, 10, 0, 0, 0, 0, time.UTC), false},
		{"adult", time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.underage, IsUnderage(tc.dob, asOf))
		})
	}
}

func newTestConsentService() (ConsentService, *fakeConsentRepo, *fakeProfileRepo, *fakeNotifier, *recordingPublisher) {
	consentRepo := newFakeConsentRepo()
	profileRepo := newFakeProfileRepo()
	notifier := &fakeNotifier{}
	publisher := &recordingPublisher{}
	svc := NewConsentService(consentRepo, profileRepo, notifier, publisher, discardLogger())
	return svc, consentRepo, profileRepo, notifier, publisher
}

func seedPlayerProfile(t *testing.T, repo *fakeProfileRepo, userID int) {
	t.Helper()
	profile, err := models.NewProfileForRole(models.RolePlayer, userID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), profile))
}

func TestCreateRequestFlagsProfilePending(t *testing.T) {
	svc, consentRepo, profileRepo, notifier, publisher := newTestConsentService()
	ctx := context.Background()
	player := &models.User{ID: 42, Username: "young_talent", Email: "young@example.com"}
	seedPlayerProfile(t, profileRepo, player.ID)

	contact := GuardianContact{Name: "Pat Jordan", Email: "pat@example.com", Phone: "+1555123"}
	request, err := svc.CreateRequest(ctx, player, contact)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentRequestPending, request.Status)
	assert.NotEmpty(t, request.Token)
	assert.Equal(t, player.ID, request.PlayerID)
	assert.Nil(t, request.RespondedAt)

	require.Len(t, consentRepo.forPlayer(player.ID), 1)

	profile, err := profileRepo.GetPlayerByUserID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentPending, profile.ParentalConsentStatus)

	emails := notifier.byKind("consent")
	require.Len(t, emails, 1)
	assert.Equal(t, contact.Email, emails[0].to)
	assert.Equal(t, player.Username, emails[0].playerName)
	assert.Equal(t, request.Token, emails[0].token)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "consent_request_created", publisher.events[0].eventType)
}

func TestCreateRequestRequiresGuardianEmail(t *testing.T) {
	svc, consentRepo, profileRepo, notifier, _ := newTestConsentService()
	player := &models.User{ID: 7, Username: "young_talent"}
	seedPlayerProfile(t, profileRepo, player.ID)

	_, err := svc.CreateRequest(context.Background(), player, GuardianContact{Name: "Pat"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "guardian_email")
	assert.Empty(t, consentRepo.forPlayer(player.ID))
	assert.Zero(t, notifier.sentCount())
}

func TestResolveGrant(t *testing.T) {
	svc, _, profileRepo, _, publisher := newTestConsentService()
	ctx := context.Background()
	player := &models.User{ID: 5, Username: "young_talent"}
	seedPlayerProfile(t, profileRepo, player.ID)

	request, err := svc.CreateRequest(ctx, player, GuardianContact{Name: "Pat", Email: "pat@example.com"})
	require.NoError(t, err)

	notes := "happy to approve"
	ip := "203.0.113.9"
	resolved, err := svc.Resolve(ctx, request.Token, ConsentActionGrant, &notes, &ip)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentRequestGranted, resolved.Status)
	require.NotNil(t, resolved.RespondedAt)
	require.NotNil(t, resolved.Notes)
	assert.Equal(t, notes, *resolved.Notes)
	require.NotNil(t, resolved.ResponseIP)
	assert.Equal(t, ip, *resolved.ResponseIP)

	profile, err := profileRepo.GetPlayerByUserID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentGranted, profile.ParentalConsentStatus)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, "consent_request_resolved", publisher.events[1].eventType)
}

func TestResolveRejectSyncsProfile(t *testing.T) {
	svc, _, profileRepo, _, _ := newTestConsentService()
	ctx := context.Background()
	player := &models.User{ID: 9, Username: "young_talent"}
	seedPlayerProfile(t, profileRepo, player.ID)

	request, err := svc.CreateRequest(ctx, player, GuardianContact{Name: "Pat", Email: "pat@example.com"})
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, request.Token, ConsentActionReject, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentRequestRejected, resolved.Status)

	profile, err := profileRepo.GetPlayerByUserID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentRejected, profile.ParentalConsentStatus)
}

func TestResolveSecondAttemptIsNoOp(t *testing.T) {
	svc, _, profileRepo, _, _ := newTestConsentService()
	ctx := context.Background()
	player := &models.User{ID: 11, Username: "young_talent"}
	seedPlayerProfile(t, profileRepo, player.ID)

	request, err := svc.CreateRequest(ctx, player, GuardianContact{Name: "Pat", Email: "pat@example.com"})
	require.NoError(t, err)

	firstNotes := "ok"
	first, err := svc.Resolve(ctx, request.Token, ConsentActionGrant, &firstNotes, nil)
	require.NoError(t, err)

	laterNotes := "changed my mind"
	second, err := svc.Resolve(ctx, request.Token, ConsentActionReject, &laterNotes, nil)
	assert.ErrorIs(t, err, ErrConsentAlreadyResolved)
	require.NotNil(t, second)
	assert.Equal(t, models.ConsentRequestGranted, second.Status)
	require.NotNil(t, second.Notes)
	assert.Equal(t, firstNotes, *second.Notes)
	assert.Equal(t, first.RespondedAt.Unix(), second.RespondedAt.Unix())

	profile, err := profileRepo.GetPlayerByUserID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentGranted, profile.ParentalConsentStatus)
}

func TestResolveInvalidAction(t *testing.T) {
	svc, _, _, _, _ := newTestConsentService()
	_, err := svc.Resolve(context.Background(), "some-token", "maybe", nil, nil)
	assert.ErrorIs(t, err, ErrConsentInvalidAction)
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _, _, _, _ := newTestConsentService()
	_, err := svc.Resolve(context.Background(), "missing", ConsentActionGrant, nil, nil)
	assert.ErrorIs(t, err, ErrConsentNotFound)
}

func TestGetByTokenUnknown(t *testing.T) {
	svc, _, _, _, _ := newTestConsentService()
	_, err := svc.GetByToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConsentNotFound)
}
