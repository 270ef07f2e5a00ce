package services

import (
	"context"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Identity is the caller resolved from a token.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthService handles login, identity resolution and authorization checks.
type AuthService struct {
	users       repositories.UserRepository
	credentials *CredentialStore
	tokens      *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, credentials *CredentialStore, tokens *TokenService) *AuthService {
	return &AuthService{
		users:       users,
		credentials: credentials,
		tokens:      tokens,
	}
}

// Login checks the credentials and returns a signed token. Unknown users and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return "", apperrors.New(apperrors.Unauthorized, "invalid credentials")
		}
		return "", err
	}

	if !s.credentials.Verify(password, user.Password) {
		return "", apperrors.New(apperrors.Unauthorized, "invalid credentials")
	}

	return s.tokens.Issue(user.ID)
}

// Authenticate resolves a token to the identity of an existing user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return nil, apperrors.New(apperrors.Unauthorized, "invalid token")
		}
		return nil, err
	}

	return &Identity{UserID: user.ID, Username: user.Username}, nil
}

// RequireRole loads the caller's role from the store on every call, so role
// changes apply without issuing a new token.
func (s *AuthService) RequireRole(ctx context.Context, identity *Identity, role models.Role) error {
	if identity == nil {
		return apperrors.New(apperrors.Unauthorized, "authentication required")
	}

	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return apperrors.New(apperrors.Unauthorized, "invalid token")
		}
		return err
	}

	if !user.HasRole(role) {
		return apperrors.New(apperrors.Forbidden, "%s role required", role)
	}
	return nil
}

// RequireOwnership fails unless the caller owns the resource.
func RequireOwnership(identity *Identity, ownerID string) error {
	if identity == nil {
		return apperrors.New(apperrors.Unauthorized, "authentication required")
	}
	if identity.UserID != ownerID {
		return apperrors.New(apperrors.Unauthorized, "not authorized")
	}
	return nil
}
