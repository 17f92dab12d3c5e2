package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

func newRegisterUseCase(userRepo *fakeUserRepo, dispatcher *fakeDispatcher) *RegisterUseCase {
	return NewRegisterUseCase(
		userRepo,
		fakeHasher{},
		fakeEmailValidator{},
		testAuthHelper(newFakeSessionRepo()),
		dispatcher,
		config.PasswordConfig{MinLength: 8},
		logger.NewLogger(),
	)
}

func TestRegisterUseCase_Success(t *testing.T) {
	userRepo := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	uc := newRegisterUseCase(userRepo, dispatcher)

	result, err := uc.Execute(context.Background(), RegisterCommand{
		Login:     "newrider",
		Email:     "NewRider@Example.com",
		Password:  "longenough",
		IPAddress: "198.51.100.1",
	})

	require.NoError(t, err)
	assert.Equal(t, "newrider", result.User.Login)
	assert.Equal(t, "newrider@example.com", result.User.Email)
	assert.Equal(t, "198.51.100.1", result.User.RegistrationIP)
	// Registration logs the user in immediately.
	assert.NotEmpty(t, result.AccessToken)

	published := dispatcher.published()
	require.Len(t, published, 1)
	registered, ok := published[0].(events.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, "local", registered.Source)
	assert.Equal(t, "newrider", registered.Login)
}

func TestRegisterUseCase_HoneypotRejectsSilently(t *testing.T) {
	userRepo := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	uc := newRegisterUseCase(userRepo, dispatcher)

	_, err := uc.Execute(context.Background(), RegisterCommand{
		Login:    "bot",
		Email:    "bot@example.com",
		Password: "longenough",
		Website:  "http://spam.example.com",
	})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	// Generic message, no hint the honeypot tripped.
	assert.Equal(t, "Registration failed. Please try again.", appErr.Message)
	assert.Empty(t, userRepo.users)
	assert.Empty(t, dispatcher.published())
}

func TestRegisterUseCase_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  RegisterCommand
	}{
		{name: "login too short", cmd: RegisterCommand{Login: "ab", Email: "a@b.com", Password: "longenough"}},
		{name: "login bad charset", cmd: RegisterCommand{Login: "bad name!", Email: "a@b.com", Password: "longenough"}},
		{name: "password too short", cmd: RegisterCommand{Login: "rider", Email: "a@b.com", Password: "short"}},
		{name: "bad email", cmd: RegisterCommand{Login: "rider", Email: "not-an-email", Password: "longenough"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newRegisterUseCase(newFakeUserRepo(), &fakeDispatcher{})
			_, err := uc.Execute(context.Background(), tt.cmd)
			assert.True(t, errors.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestRegisterUseCase_Uniqueness(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedLocalUser(t, userRepo, "taken", "taken@example.com", "whatever1")
	uc := newRegisterUseCase(userRepo, &fakeDispatcher{})

	_, err := uc.Execute(context.Background(), RegisterCommand{
		Login: "taken", Email: "fresh@example.com", Password: "longenough",
	})
	assert.True(t, errors.IsConflictError(err))

	_, err = uc.Execute(context.Background(), RegisterCommand{
		Login: "fresh", Email: "taken@example.com", Password: "longenough",
	})
	assert.True(t, errors.IsConflictError(err))
}
