package notification

import (
	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/infrastructure/email"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// WelcomeEmailHandler sends the welcome email when a user registers,
// whether locally or through a social provider.
type WelcomeEmailHandler struct {
	email  email.Service
	logger logger.Interface
}

func NewWelcomeEmailHandler(emailService email.Service, logger logger.Interface) *WelcomeEmailHandler {
	return &WelcomeEmailHandler{
		email:  emailService,
		logger: logger,
	}
}

func (h *WelcomeEmailHandler) Handle(event events.DomainEvent) error {
	registered, ok := event.(events.UserRegistered)
	if !ok {
		return nil
	}

	if err := h.email.SendWelcomeEmail(registered.Email, registered.DisplayName); err != nil {
		h.logger.Warnw("failed to send welcome email", "user_id", registered.UserID, "error", err)
		// Registration already succeeded; the welcome email is best effort.
		return nil
	}

	return nil
}

// Register subscribes the handler on the dispatcher.
func (h *WelcomeEmailHandler) Register(dispatcher events.Dispatcher) error {
	return dispatcher.Subscribe(events.EventUserRegistered, h)
}
