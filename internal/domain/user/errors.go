package user

import "errors"

var (
	ErrInvalidFrequency   = errors.New("invalid roundup frequency")
	ErrInvalidProductType = errors.New("invalid product type")
	ErrProviderLinked     = errors.New("provider already linked to another account")
	ErrLastAuthMethod     = errors.New("cannot remove the account's only authentication method")
)
