package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/auth"
	"github.com/eridehero/eridehero/internal/infrastructure/ratelimit"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*user.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*user.User), nextID: 1}
}

func (r *fakeUserRepo) add(u *user.User) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*user.User, error) {
	if u, _ := r.GetByLogin(ctx, loginOrEmail); u != nil {
		return u, nil
	}
	return r.GetByEmail(ctx, loginOrEmail)
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user %d not found", u.ID)
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	u, _ := r.GetByLogin(ctx, login)
	return u != nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := r.GetByEmail(ctx, email)
	return u != nil, nil
}

func (r *fakeUserRepo) GetPreferences(ctx context.Context, userID uint) (*user.Preferences, error) {
	return user.DefaultPreferences(userID), nil
}

func (r *fakeUserRepo) UpdatePreferences(ctx context.Context, userID uint, update user.PreferencesUpdate) (*user.Preferences, error) {
	prefs := user.DefaultPreferences(userID)
	if err := prefs.Apply(update); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (r *fakeUserRepo) ListRoundupSubscribers(ctx context.Context, frequency *user.RoundupFrequency) ([]*user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListNewsletterSubscribers(ctx context.Context) ([]*user.User, error) {
	return nil, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*user.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*user.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *user.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*user.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// fakeHasher produces reversible fake hashes so tests can assert against
// them without bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Generate(userID uint, sessionID string, role string) (*auth.TokenPair, error) {
	return &auth.TokenPair{
		AccessToken:  fmt.Sprintf("access-%d-%s", userID, sessionID),
		RefreshToken: fmt.Sprintf("refresh-%d-%s", userID, sessionID),
		ExpiresIn:    900,
	}, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (d *fakeDispatcher) Publish(event events.DomainEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(eventType string, handler events.EventHandler) error {
	return nil
}

func (d *fakeDispatcher) published() []events.DomainEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.DomainEvent(nil), d.events...)
}

type fakeLimiter struct {
	mu     sync.Mutex
	resets []string
}

func (l *fakeLimiter) IsAllowed(ctx context.Context, action, identifier string) (bool, error) {
	return true, nil
}

func (l *fakeLimiter) RecordAttempt(ctx context.Context, action, identifier string) (int64, error) {
	return 1, nil
}

func (l *fakeLimiter) CheckAndRecord(ctx context.Context, action, identifier string) (*ratelimit.Result, error) {
	return &ratelimit.Result{Allowed: true, Attempts: 1}, nil
}

func (l *fakeLimiter) Reset(ctx context.Context, action, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resets = append(l.resets, action+":"+identifier)
	return nil
}

type fakeEmailService struct {
	mu          sync.Mutex
	resetEmails []string
	resetKeys   []string
	failSend    bool
}

func (s *fakeEmailService) SendWelcomeEmail(to, displayName string) error {
	return nil
}

func (s *fakeEmailService) SendPasswordResetEmail(to, login, resetKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	s.resetEmails = append(s.resetEmails, to)
	s.resetKeys = append(s.resetKeys, resetKey)
	return nil
}

func (s *fakeEmailService) SendPriceAlertEmail(to, productName, productURL string, price float64, currency, unsubscribeURL string) error {
	return nil
}

func (s *fakeEmailService) SendRoundupEmail(to, body string) error {
	return nil
}

type fakeEmailValidator struct {
	rejectAll bool
}

func (v fakeEmailValidator) Validate(ctx context.Context, email string) error {
	if v.rejectAll || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email")
	}
	return nil
}
