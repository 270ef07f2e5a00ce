package services

import (
	"storefront/internal/apperrors"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the most bcrypt will look at.
const maxPasswordBytes = 72

// CredentialStore hashes and verifies passwords with bcrypt at a fixed cost.
// Plaintext never leaves it.
type CredentialStore struct {
	cost int
}

// NewCredentialStore creates a CredentialStore using the given bcrypt cost.
func NewCredentialStore(cost int) *CredentialStore {
	return &CredentialStore{cost: cost}
}

// Hash returns a salted hash of password. Each call yields a different hash.
func (s *CredentialStore) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperrors.Invalid("Validation failed", map[string]string{
			"password": "Field 'password' must be at most 72 bytes",
		})
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Internal, err, "failed to hash password")
	}
	return string(hashed), nil
}

// Verify reports whether password matches credential. Malformed credentials
// simply do not match. Passwords longer than Hash accepts never match, since
// bcrypt would compare only their first 72 bytes.
func (s *CredentialStore) Verify(password, credential string) bool {
	if len(password) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(password)) == nil
}
