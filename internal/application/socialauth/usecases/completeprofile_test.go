package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/infrastructure/cache"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type completeProfileFixture struct {
	uc           *CompleteProfileUseCase
	pendingStore *cache.RedisPendingProfileStore
	userRepo     *fakeUserRepo
	socialRepo   *fakeSocialLinkRepo
	sessions     *fakeSessionRepo
}

func newCompleteProfileFixture(t *testing.T) *completeProfileFixture {
	t.Helper()
	client := setupTestRedis(t)

	f := &completeProfileFixture{
		pendingStore: cache.NewRedisPendingProfileStore(client, "test_cp_pending:", 10*time.Minute),
		userRepo:     newFakeUserRepo(),
		socialRepo:   newFakeSocialLinkRepo(),
		sessions:     newFakeSessionRepo(),
	}
	f.uc = NewCompleteProfileUseCase(
		f.pendingStore,
		fakeEmailValidator{},
		testResolver(f.userRepo, f.socialRepo, &fakeDispatcher{}),
		testAuthHelper(f.sessions),
		logger.NewLogger(),
	)
	return f
}

func (f *completeProfileFixture) stash(t *testing.T) string {
	t.Helper()
	token, err := f.pendingStore.Stash(context.Background(), cache.PendingProfile{
		Provider:       "reddit",
		ProviderUserID: "r-1",
		Username:       "throwaway",
	})
	require.NoError(t, err)
	return token
}

func TestCompleteProfileUseCase_CreatesAccount(t *testing.T) {
	f := newCompleteProfileFixture(t)
	token := f.stash(t)

	result, err := f.uc.Execute(context.Background(), CompleteProfileCommand{
		PendingToken: token,
		Email:        "  Throwaway@Example.com ",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNew, result.Outcome)
	assert.Equal(t, "throwaway@example.com", result.User.Email)
	assert.Equal(t, "throwaway", result.User.Login)
	assert.NotEmpty(t, result.AccessToken)
	assert.Len(t, f.sessions.sessions, 1)

	link, err := f.socialRepo.GetByProviderID(context.Background(), "reddit", "r-1")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, result.User.ID, link.UserID)
}

func TestCompleteProfileUseCase_LinksByEmail(t *testing.T) {
	f := newCompleteProfileFixture(t)
	seedSocialUser(t, f.userRepo, f.socialRepo, "rider", "rider@example.com", "google", "g-1")
	token := f.stash(t)

	result, err := f.uc.Execute(context.Background(), CompleteProfileCommand{
		PendingToken: token,
		Email:        "rider@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeLinked, result.Outcome)
	assert.Equal(t, "rider", result.User.Login)
}

func TestCompleteProfileUseCase_TokenIsSingleUse(t *testing.T) {
	f := newCompleteProfileFixture(t)
	token := f.stash(t)

	_, err := f.uc.Execute(context.Background(), CompleteProfileCommand{
		PendingToken: token,
		Email:        "throwaway@example.com",
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), CompleteProfileCommand{
		PendingToken: token,
		Email:        "throwaway@example.com",
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
}

func TestCompleteProfileUseCase_RejectsBadEmailBeforeConsuming(t *testing.T) {
	f := newCompleteProfileFixture(t)
	token := f.stash(t)

	_, err := f.uc.Execute(context.Background(), CompleteProfileCommand{
		PendingToken: token,
		Email:        "not-an-email",
	})
	assert.True(t, errors.IsValidationError(err))

	// The token survives a validation failure so the user can retry.
	_, err = f.uc.Execute(context.Background(), CompleteProfileCommand{
		PendingToken: token,
		Email:        "throwaway@example.com",
	})
	assert.NoError(t, err)
}
