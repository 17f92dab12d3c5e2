package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/cache"
	"github.com/eridehero/eridehero/internal/infrastructure/oauth"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

type callbackFixture struct {
	uc           *HandleCallbackUseCase
	provider     *fakeProvider
	stateStore   *cache.RedisStateStore
	pendingStore *cache.RedisPendingProfileStore
	userRepo     *fakeUserRepo
	socialRepo   *fakeSocialLinkRepo
	sessions     *fakeSessionRepo
	dispatcher   *fakeDispatcher
}

func newCallbackFixture(t *testing.T, providerName string, profile *oauth.Profile) *callbackFixture {
	t.Helper()
	client := setupTestRedis(t)

	f := &callbackFixture{
		provider:     &fakeProvider{name: providerName, profile: profile},
		stateStore:   cache.NewRedisStateStore(client, "test_cb_state:", 10*time.Minute),
		pendingStore: cache.NewRedisPendingProfileStore(client, "test_cb_pending:", 10*time.Minute),
		userRepo:     newFakeUserRepo(),
		socialRepo:   newFakeSocialLinkRepo(),
		sessions:     newFakeSessionRepo(),
		dispatcher:   &fakeDispatcher{},
	}
	f.uc = NewHandleCallbackUseCase(
		oauth.NewRegistry(f.provider),
		f.stateStore,
		f.pendingStore,
		f.socialRepo,
		f.userRepo,
		testResolver(f.userRepo, f.socialRepo, f.dispatcher),
		testAuthHelper(f.sessions),
		logger.NewLogger(),
	)
	return f
}

func (f *callbackFixture) issueState(t *testing.T, redirectURL string) string {
	t.Helper()
	state, err := f.stateStore.Issue(context.Background(), "google", redirectURL)
	require.NoError(t, err)
	return state
}

func assertInvalidState(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
}

func TestHandleCallbackUseCase_NewAccount(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{
		ID:    "g-1",
		Email: "Fresh@Example.com",
		Name:  "Fresh Rider",
	})
	state := f.issueState(t, "/dashboard")

	result, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google",
		Code:     "auth-code",
		State:    state,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNew, result.Outcome)
	assert.Equal(t, "/dashboard", result.RedirectURL)
	assert.NotEmpty(t, result.AccessToken)
	require.NotNil(t, result.User)
	assert.Equal(t, "fresh@example.com", result.User.Email)
	assert.True(t, result.User.HasPassword(), "social accounts get a random local password")
	assert.Len(t, f.sessions.sessions, 1)

	link, err := f.socialRepo.GetByProviderID(context.Background(), "google", "g-1")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, result.User.ID, link.UserID)

	published := f.dispatcher.published()
	require.Len(t, published, 1)
	registered, ok := published[0].(events.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, "google", registered.Source)
}

func TestHandleCallbackUseCase_ExistingLink(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})
	u := seedSocialUser(t, f.userRepo, f.socialRepo, "rider", "rider@example.com", "google", "g-1")
	state := f.issueState(t, "")

	result, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google",
		Code:     "auth-code",
		State:    state,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, result.Outcome)
	assert.Equal(t, u.ID, result.User.ID)
	assert.Empty(t, f.dispatcher.published(), "no registration event on plain sign-in")

	link, _ := f.socialRepo.GetByProviderID(context.Background(), "google", "g-1")
	assert.EqualValues(t, 1, link.LoginCount)
	assert.NotNil(t, link.LastLoginAt)
}

func TestHandleCallbackUseCase_LinkedIdentityBeatsEmailMatch(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "other@example.com"})
	linked := seedSocialUser(t, f.userRepo, f.socialRepo, "rider", "rider@example.com", "google", "g-1")
	other, err := user.NewUser("other", "other@example.com", "")
	require.NoError(t, err)
	f.userRepo.add(other)
	state := f.issueState(t, "")

	result, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google",
		Code:     "auth-code",
		State:    state,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, result.Outcome)
	assert.Equal(t, linked.ID, result.User.ID)

	links, err := f.socialRepo.ListByUser(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, links, "email-matching account must not gain a link")
}

func TestHandleCallbackUseCase_EmailMatchAutoLinks(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-9", Email: "rider@example.com"})
	existing, err := user.NewUser("rider", "rider@example.com", "")
	require.NoError(t, err)
	f.userRepo.add(existing)
	state := f.issueState(t, "")

	result, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google",
		Code:     "auth-code",
		State:    state,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeLinked, result.Outcome)
	assert.Equal(t, "rider", result.User.Login)

	link, _ := f.socialRepo.GetByProviderID(context.Background(), "google", "g-9")
	require.NotNil(t, link)
	assert.Equal(t, result.User.ID, link.UserID)
}

func TestHandleCallbackUseCase_NoEmailParksProfile(t *testing.T) {
	f := newCallbackFixture(t, "reddit", &oauth.Profile{ID: "r-1", Name: "Throwaway", Username: "throwaway"})
	state, err := f.stateStore.Issue(context.Background(), "reddit", "")
	require.NoError(t, err)

	result, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "reddit",
		Code:     "auth-code",
		State:    state,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeEmailRequired, result.Outcome)
	assert.NotEmpty(t, result.PendingToken)
	assert.Nil(t, result.User)
	assert.Empty(t, result.AccessToken, "no session before an email is supplied")

	pending, err := f.pendingStore.Consume(context.Background(), result.PendingToken)
	require.NoError(t, err)
	assert.Equal(t, "reddit", pending.Provider)
	assert.Equal(t, "r-1", pending.ProviderUserID)
}

func TestHandleCallbackUseCase_StateIsSingleUse(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})
	state := f.issueState(t, "")

	_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google", Code: "auth-code", State: state,
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google", Code: "auth-code", State: state,
	})
	assertInvalidState(t, err)
}

func TestHandleCallbackUseCase_AbandonStateDiscardsToken(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})
	state := f.issueState(t, "")

	f.uc.AbandonState(context.Background(), state)

	_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google",
		Code:     "auth-code",
		State:    state,
	})
	assertInvalidState(t, err)

	// Empty state is a no-op, not a panic.
	f.uc.AbandonState(context.Background(), "")
}

func TestHandleCallbackUseCase_UnknownState(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})

	_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google", Code: "auth-code", State: "never-issued",
	})
	assertInvalidState(t, err)
}

func TestHandleCallbackUseCase_ProviderMismatchedState(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})
	state, err := f.stateStore.Issue(context.Background(), "facebook", "")
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google", Code: "auth-code", State: state,
	})
	assertInvalidState(t, err)
}

func TestHandleCallbackUseCase_UnknownProvider(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})

	_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "myspace", Code: "auth-code", State: "whatever",
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestHandleCallbackUseCase_ExchangeFailureIsUpstream(t *testing.T) {
	f := newCallbackFixture(t, "google", &oauth.Profile{ID: "g-1", Email: "rider@example.com"})
	f.provider.exchange = context.DeadlineExceeded
	state := f.issueState(t, "")

	_, err := f.uc.Execute(context.Background(), HandleCallbackCommand{
		Provider: "google", Code: "auth-code", State: state,
	})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUpstream, appErr.Type)
}
