package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

func TestForgotPasswordUseCase_UnknownAccountStaysSilent(t *testing.T) {
	userRepo := newFakeUserRepo()
	emails := &fakeEmailService{}
	uc := NewForgotPasswordUseCase(userRepo, emails, logger.NewLogger())

	err := uc.Execute(context.Background(), ForgotPasswordCommand{LoginOrEmail: "nobody@example.com"})

	// Same outcome as the success path: no error, no observable difference.
	require.NoError(t, err)
	assert.Empty(t, emails.resetEmails)
}

func TestForgotPasswordUseCase_SendsKeyedEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	u := seedLocalUser(t, userRepo, "rider", "rider@example.com", "longenough")
	emails := &fakeEmailService{}
	uc := NewForgotPasswordUseCase(userRepo, emails, logger.NewLogger())

	err := uc.Execute(context.Background(), ForgotPasswordCommand{LoginOrEmail: "rider"})
	require.NoError(t, err)

	require.Len(t, emails.resetEmails, 1)
	assert.Equal(t, "rider@example.com", emails.resetEmails[0])

	// The stored hash must match the raw key that went out in the email.
	stored, err := userRepo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetKeyHash)
	require.NotNil(t, stored.ResetKeyIssuedAt)
	require.Len(t, emails.resetKeys, 1)
	assert.Equal(t, HashResetKey(emails.resetKeys[0]), *stored.ResetKeyHash)
	assert.NotEqual(t, emails.resetKeys[0], *stored.ResetKeyHash)
}

func TestForgotPasswordUseCase_LookupByEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedLocalUser(t, userRepo, "rider", "rider@example.com", "longenough")
	emails := &fakeEmailService{}
	uc := NewForgotPasswordUseCase(userRepo, emails, logger.NewLogger())

	err := uc.Execute(context.Background(), ForgotPasswordCommand{LoginOrEmail: "rider@example.com"})
	require.NoError(t, err)
	assert.Len(t, emails.resetEmails, 1)
}

func TestForgotPasswordUseCase_SendFailureSurfaces(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedLocalUser(t, userRepo, "rider", "rider@example.com", "longenough")
	emails := &fakeEmailService{failSend: true}
	uc := NewForgotPasswordUseCase(userRepo, emails, logger.NewLogger())

	err := uc.Execute(context.Background(), ForgotPasswordCommand{LoginOrEmail: "rider"})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeInternal, appErr.Type)
}
