package services

import (
	"fmt"

	"storefront/internal/apperrors"

	"github.com/dgrijalva/jwt-go"
)

// claimUserID is the only claim a token carries.
const claimUserID = "user_id"

// TokenService issues and verifies HS256 identity tokens signed with a
// process-wide secret. Tokens carry no expiry; they stay valid for as long as
// the secret does.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token for userID.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", apperrors.New(apperrors.Internal, "cannot issue a token without a user id")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimUserID: userID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Internal, err, "failed to generate token")
	}
	return signed, nil
}

// Verify checks the signature and returns the user id claim. Any failure is
// Unauthorized.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.Unauthorized, err, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", apperrors.New(apperrors.Unauthorized, "invalid token")
	}
	userID, ok := claims[claimUserID].(string)
	if !ok || userID == "" {
		return "", apperrors.New(apperrors.Unauthorized, "invalid token")
	}
	return userID, nil
}
