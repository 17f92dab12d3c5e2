package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/mssola/useragent"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/auth"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// TokenIssuer mints the JWT pair bound to a session.
type TokenIssuer interface {
	Generate(userID uint, sessionID string, role string) (*auth.TokenPair, error)
}

// DeviceInfo carries parsed client device details for session records.
type DeviceInfo struct {
	DeviceName string
	DeviceType string
	IPAddress  string
	UserAgent  string
}

// ParseDevice derives a device name and type from a raw User-Agent header.
func ParseDevice(rawUA, ipAddress string) DeviceInfo {
	info := DeviceInfo{
		DeviceName: "Unknown",
		DeviceType: "desktop",
		IPAddress:  ipAddress,
		UserAgent:  rawUA,
	}
	if rawUA == "" {
		return info
	}

	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	if name != "" {
		if os := ua.OS(); os != "" {
			info.DeviceName = fmt.Sprintf("%s on %s", name, os)
		} else {
			info.DeviceName = name
		}
	}
	if ua.Mobile() {
		info.DeviceType = "mobile"
	} else if ua.Bot() {
		info.DeviceType = "bot"
	}

	return info
}

// SessionWithTokens bundles a persisted session with its freshly minted
// token pair.
type SessionWithTokens struct {
	Session      *user.Session
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthHelper centralizes session creation and token issuance used by every
// login path, local and social.
type AuthHelper struct {
	sessionRepo   user.SessionRepository
	tokens        TokenIssuer
	sessionConfig config.SessionConfig
	logger        logger.Interface
}

func NewAuthHelper(
	sessionRepo user.SessionRepository,
	tokens TokenIssuer,
	sessionConfig config.SessionConfig,
	logger logger.Interface,
) *AuthHelper {
	return &AuthHelper{
		sessionRepo:   sessionRepo,
		tokens:        tokens,
		sessionConfig: sessionConfig,
		logger:        logger,
	}
}

// EstablishSession persists a session for the user and mints its tokens.
// The remember flag extends the session to the configured long expiry.
func (h *AuthHelper) EstablishSession(ctx context.Context, u *user.User, device DeviceInfo, remember bool) (*SessionWithTokens, error) {
	days := h.sessionConfig.DefaultExpDays
	if remember {
		days = h.sessionConfig.RememberExpDays
	}
	expiresAt := time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour)

	session, err := user.NewSession(u.ID, device.DeviceName, device.DeviceType, device.IPAddress, device.UserAgent, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := h.sessionRepo.Create(ctx, session); err != nil {
		h.logger.Errorw("failed to persist session", "user_id", u.ID, "error", err)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	pair, err := h.tokens.Generate(u.ID, session.ID, u.Role)
	if err != nil {
		h.logger.Errorw("failed to generate tokens", "user_id", u.ID, "error", err)
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &SessionWithTokens{
		Session:      session,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
