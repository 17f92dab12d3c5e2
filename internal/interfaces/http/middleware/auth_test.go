package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	return c, rec
}

func TestGuestOnly_RejectsAuthenticated(t *testing.T) {
	c, rec := newTestContext(t)
	c.Set(ContextKeyUserID, uint(42))

	GuestOnly()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already signed in")
}

func TestGuestOnly_PassesAnonymous(t *testing.T) {
	c, rec := newTestContext(t)

	GuestOnly()(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCurrentUserID(t *testing.T) {
	c, _ := newTestContext(t)
	assert.EqualValues(t, 0, CurrentUserID(c))

	c.Set(ContextKeyUserID, uint(7))
	assert.EqualValues(t, 7, CurrentUserID(c))
}
