package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/auth"
	"github.com/eridehero/eridehero/internal/infrastructure/oauth"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
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

type fakeSocialLinkRepo struct {
	mu     sync.Mutex
	links  map[uint]*user.SocialLink
	nextID uint
}

func newFakeSocialLinkRepo() *fakeSocialLinkRepo {
	return &fakeSocialLinkRepo{links: make(map[uint]*user.SocialLink), nextID: 1}
}

func (r *fakeSocialLinkRepo) Create(ctx context.Context, link *user.SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.Provider == link.Provider && l.ProviderUserID == link.ProviderUserID {
			return user.ErrProviderLinked
		}
	}
	link.ID = r.nextID
	r.nextID++
	r.links[link.ID] = link
	return nil
}

func (r *fakeSocialLinkRepo) GetByProviderID(ctx context.Context, provider, providerUserID string) (*user.SocialLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.Provider == provider && l.ProviderUserID == providerUserID {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeSocialLinkRepo) GetByUserAndProvider(ctx context.Context, userID uint, provider string) (*user.SocialLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.UserID == userID && l.Provider == provider {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeSocialLinkRepo) ListByUser(ctx context.Context, userID uint) ([]*user.SocialLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*user.SocialLink
	for _, l := range r.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeSocialLinkRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	links, _ := r.ListByUser(ctx, userID)
	return int64(len(links)), nil
}

func (r *fakeSocialLinkRepo) Update(ctx context.Context, link *user.SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.ID] = link
	return nil
}

func (r *fakeSocialLinkRepo) Delete(ctx context.Context, userID uint, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.links {
		if l.UserID == userID && l.Provider == provider {
			delete(r.links, id)
			return nil
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*user.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*user.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *user.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
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

type fakeEmailValidator struct {
	rejectAll bool
}

func (v fakeEmailValidator) Validate(ctx context.Context, email string) error {
	if v.rejectAll || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// fakeProvider returns canned exchange and profile results so callback
// tests never leave the process.
type fakeProvider struct {
	name       string
	profile    *oauth.Profile
	exchange   error
	profileErr error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthorizationURL(state string) string {
	return fmt.Sprintf("https://%s.example.com/authorize?state=%s", p.name, state)
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (*oauth.Token, error) {
	if p.exchange != nil {
		return nil, p.exchange
	}
	return &oauth.Token{AccessToken: "provider-token", TokenType: "Bearer"}, nil
}

func (p *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*oauth.Profile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	return p.profile, nil
}

func (p *fakeProvider) Configured() bool { return true }

func testAuthHelper(sessions *fakeSessionRepo) *helpers.AuthHelper {
	return helpers.NewAuthHelper(sessions, fakeTokenIssuer{}, config.SessionConfig{
		DefaultExpDays:  1,
		RememberExpDays: 30,
	}, logger.NewLogger())
}

func testResolver(userRepo *fakeUserRepo, socialRepo *fakeSocialLinkRepo, dispatcher *fakeDispatcher) *AccountResolver {
	return NewAccountResolver(
		userRepo,
		socialRepo,
		fakeHasher{},
		NewUsernameDeriver(userRepo),
		dispatcher,
		logger.NewLogger(),
	)
}

func seedSocialUser(t *testing.T, userRepo *fakeUserRepo, socialRepo *fakeSocialLinkRepo, login, email, provider, providerUserID string) *user.User {
	t.Helper()
	u, err := user.NewUser(login, email, "")
	require.NoError(t, err)
	u = userRepo.add(u)
	link, err := user.NewSocialLink(u.ID, provider, providerUserID, email)
	require.NoError(t, err)
	require.NoError(t, socialRepo.Create(context.Background(), link))
	return u
}
