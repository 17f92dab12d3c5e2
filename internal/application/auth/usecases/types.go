package usecases

// PasswordHasher hashes and verifies local credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
