package email

import (
	"fmt"
	"net/url"

	"gopkg.in/gomail.v2"

	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/services/markdown"
)

// Service is the outbound mail contract consumed by auth use cases and
// the notification jobs.
type Service interface {
	SendWelcomeEmail(to, displayName string) error
	SendPasswordResetEmail(to, login, resetKey string) error
	SendPriceAlertEmail(to, productName, productURL string, price float64, currency, unsubscribeURL string) error
	SendRoundupEmail(to, body string) error
}

type SMTPEmailService struct {
	config   config.EmailConfig
	dialer   *gomail.Dialer
	markdown markdown.MarkdownService
}

func NewSMTPEmailService(cfg config.EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config:   cfg,
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		markdown: markdown.NewMarkdownService(),
	}
}

func (s *SMTPEmailService) SendWelcomeEmail(to, displayName string) error {
	subject := "Welcome to ERideHero"
	body := fmt.Sprintf(`## Welcome, %s!

Your ERideHero account is ready. You can now track prices on scooters,
e-bikes and more, and we'll email you when a deal hits your target.

Happy riding,
The ERideHero team
`, displayName)

	return s.sendMarkdown(to, subject, body)
}

func (s *SMTPEmailService) SendPasswordResetEmail(to, login, resetKey string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?key=%s&login=%s",
		s.config.BaseURL, url.QueryEscape(resetKey), url.QueryEscape(login))

	subject := "Reset Your Password"
	body := fmt.Sprintf(`## Password Reset Request

We received a request to reset the password for your account. Visit the
link below to choose a new one:

%s

This link expires in 30 minutes. If you didn't request a reset, you can
ignore this email and your password will remain unchanged.
`, resetURL)

	return s.sendMarkdown(to, subject, body)
}

func (s *SMTPEmailService) SendPriceAlertEmail(to, productName, productURL string, price float64, currency, unsubscribeURL string) error {
	subject := fmt.Sprintf("Price alert: %s", productName)
	body := fmt.Sprintf(`## Your price target was hit

[%s](%s) is now **%.2f %s**.

Prices can move fast, so it may be worth checking soon.

[Stop tracking this product](%s)
`, productName, productURL, price, currency, unsubscribeURL)

	return s.sendMarkdown(to, subject, body)
}

func (s *SMTPEmailService) SendRoundupEmail(to, body string) error {
	return s.sendMarkdown(to, "Your E-Mobility Deals Roundup", body)
}

func (s *SMTPEmailService) sendMarkdown(to, subject, mdBody string) error {
	htmlBody, err := s.markdown.ToHTMLSanitized(mdBody)
	if err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", mdBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
