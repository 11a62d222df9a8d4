package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the function directly; the in-memory repositories have
// no transactions to join.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// The fakes are mutex-guarded: registration fans its side effects out across
// goroutines, so they get hit concurrently.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrUserEmailConflict
		}
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Activate(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.IsActive = true
	user.EmailVerified = true
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter models.UserFilter) (*models.UserList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		matched = append(matched, *user)
	}
	return &models.UserList{Users: matched, TotalCount: len(matched), Page: filter.Page, Limit: filter.Limit}, nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.EmailVerificationToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.EmailVerificationToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *models.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.ID] = &stored
	return nil
}

func (r *fakeTokenRepo) GetByID(_ context.Context, id string) (*models.EmailVerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	copied := *token
	return &copied, nil
}

func (r *fakeTokenRepo) DeleteUnusedByUserID(_ context.Context, userID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, token := range r.tokens {
		if token.UserID == userID && !token.IsUsed {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok || token.IsUsed {
		return false, nil
	}
	token.IsUsed = true
	return true, nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var deleted int64
	for id, token := range r.tokens {
		if !token.IsUsed && token.Expired(now) {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepo) unusedForUser(userID int) []*models.EmailVerificationToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.EmailVerificationToken
	for _, token := range r.tokens {
		if token.UserID == userID && !token.IsUsed {
			copied := *token
			out = append(out, &copied)
		}
	}
	return out
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type fakeConsentRepo struct {
	mu       sync.Mutex
	nextID   int
	requests map[string]*models.ParentalConsentRequest
}

func newFakeConsentRepo() *fakeConsentRepo {
	return &fakeConsentRepo{requests: make(map[string]*models.ParentalConsentRequest)}
}

func (r *fakeConsentRepo) Create(_ context.Context, request *models.ParentalConsentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.Token]; ok {
		return repositories.ErrConsentTokenConflict
	}
	r.nextID++
	request.ID = r.nextID
	request.RequestedAt = time.Now()
	stored := *request
	r.requests[request.Token] = &stored
	return nil
}

func (r *fakeConsentRepo) GetByToken(_ context.Context, token string) (*models.ParentalConsentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[token]
	if !ok {
		return nil, repositories.ErrConsentNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeConsentRepo) Resolve(_ context.Context, token string, status models.ConsentRequestStatus, respondedAt time.Time, responseIP, notes *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[token]
	if !ok || request.Status != models.ConsentRequestPending {
		return false, nil
	}
	request.Status = status
	request.RespondedAt = &respondedAt
	request.ResponseIP = responseIP
	request.Notes = notes
	return true, nil
}

func (r *fakeConsentRepo) List(_ context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.ParentalConsentRequest
	for _, request := range r.requests {
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		copied := *request
		matched = append(matched, &copied)
	}
	return matched, nil
}

func (r *fakeConsentRepo) forPlayer(playerID int) []*models.ParentalConsentRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ParentalConsentRequest
	for _, request := range r.requests {
		if request.PlayerID == playerID {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out
}

func (r *fakeConsentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

type fakeProfileRepo struct {
	mu      sync.Mutex
	nextID  int
	players map[int]*models.PlayerProfile
	// others holds the created non-player variants keyed by user ID.
	others map[int]*models.RoleProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		players: make(map[int]*models.PlayerProfile),
		others:  make(map[int]*models.RoleProfile),
	}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *models.RoleProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.Role == models.RolePlayer {
		if _, ok := r.players[profile.Player.UserID]; ok {
			return repositories.ErrProfileExists
		}
		r.nextID++
		profile.Player.ID = r.nextID
		stored := *profile.Player
		r.players[profile.Player.UserID] = &stored
		return nil
	}

	userID := profileUserID(profile)
	if _, ok := r.others[userID]; ok {
		return repositories.ErrProfileExists
	}
	stored := *profile
	r.others[userID] = &stored
	return nil
}

func profileUserID(profile *models.RoleProfile) int {
	switch profile.Role {
	case models.RoleCoach:
		return profile.Coach.UserID
	case models.RoleScout:
		return profile.Scout.UserID
	case models.RoleManager:
		return profile.Manager.UserID
	case models.RoleTrainer:
		return profile.Trainer.UserID
	case models.RoleClub:
		return profile.Club.UserID
	case models.RoleFan:
		return profile.Fan.UserID
	}
	return 0
}

func (r *fakeProfileRepo) GetPlayerByUserID(_ context.Context, userID int) (*models.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.players[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) UpdatePlayer(_ context.Context, profile *models.PlayerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[profile.UserID]; !ok {
		return repositories.ErrProfileNotFound
	}
	stored := *profile
	r.players[profile.UserID] = &stored
	return nil
}

func (r *fakeProfileRepo) SetPlayerConsentStatus(_ context.Context, userID int, status models.ConsentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.players[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	profile.ParentalConsentStatus = status
	return nil
}

func (r *fakeProfileRepo) SetPlayerPhotoURL(_ context.Context, userID int, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.players[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	profile.PhotoURL = &url
	return nil
}

func (r *fakeProfileRepo) otherForUser(userID int) *models.RoleProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.others[userID]
}

// sentEmail records one outbound notification for assertions.
type sentEmail struct {
	kind       string
	to         string
	recipient  string
	playerName string
	token      string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) SendVerificationEmail(to, username, tokenID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "verification", to: to, recipient: username, token: tokenID})
	return n.err
}

func (n *fakeNotifier) SendConsentRequestEmail(to, parentName, playerName, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "consent", to: to, recipient: parentName, playerName: playerName, token: token})
	return n.err
}

func (n *fakeNotifier) SendGuardianWelcomeEmail(to, parentName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "guardian_welcome", to: to, recipient: parentName})
	return n.err
}

func (n *fakeNotifier) byKind(kind string) []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEmail
	for _, email := range n.sent {
		if email.kind == kind {
			out = append(out, email)
		}
	}
	return out
}

func (n *fakeNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type publishedEvent struct {
	eventType string
	request   *models.ParentalConsentRequest
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishConsentEvent(eventType string, request *models.ParentalConsentRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{eventType: eventType, request: request})
}
