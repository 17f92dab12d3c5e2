package usecases

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"
	"time"
)

// EmailValidator checks an address for syntactic validity and a deliverable
// domain. Deliverability uses an MX lookup with a short timeout; transient
// resolver failures do not block registration, only a definitive
// no-such-domain answer does.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

type mxEmailValidator struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewEmailValidator builds the default MX-checking validator.
func NewEmailValidator() EmailValidator {
	return &mxEmailValidator{
		resolver: net.DefaultResolver,
		timeout:  5 * time.Second,
	}
}

type emailValidationError struct{ msg string }

func (e *emailValidationError) Error() string { return e.msg }

func (v *mxEmailValidator) Validate(ctx context.Context, email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &emailValidationError{msg: "invalid email address"}
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	records, err := v.resolver.LookupMX(lookupCtx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return &emailValidationError{msg: "email domain cannot receive mail"}
		}
		// Resolver trouble is not the registrant's fault.
		return nil
	}
	if len(records) == 0 {
		return &emailValidationError{msg: "email domain cannot receive mail"}
	}

	return nil
}
