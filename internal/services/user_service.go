package services

import (
	"context"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/patch"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// UserService handles business logic related to users.
type UserService struct {
	repo        repositories.UserRepository
	credentials *CredentialStore
	events      *EventEmitter
	validate    *validation.Validator
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo repositories.UserRepository, credentials *CredentialStore, events *EventEmitter) *UserService {
	return &UserService{
		repo:        repo,
		credentials: credentials,
		events:      events,
		validate:    validation.New(),
	}
}

// Signup hashes user.Password in place and stores the user.
func (s *UserService) Signup(ctx context.Context, user *models.User) error {
	if err := s.ensureAvailable(ctx, user.Username, user.Email); err != nil {
		return err
	}

	hashed, err := s.credentials.Hash(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	s.events.Emit(EventUserCreated, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

// ensureAvailable gives a precise conflict message. The unique indexes still
// decide races between concurrent signups.
func (s *UserService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return apperrors.New(apperrors.Conflict, "username '%s' already taken", username)
	} else if apperrors.KindOf(err) != apperrors.NotFound {
		return err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return apperrors.New(apperrors.Conflict, "email '%s' already registered", email)
	} else if apperrors.KindOf(err) != apperrors.NotFound {
		return err
	}
	return nil
}

// ListUsers returns every user without credentials.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies a partial update. A new password is hashed before it is
// stored; every other field is written as given.
func (s *UserService) UpdateUser(ctx context.Context, id string, p models.UserPatch) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.New(apperrors.Validation, "an identifier is required for an update")
	}
	if err := s.validatePatch(p); err != nil {
		return nil, err
	}

	if password, ok := p.Password.Get(); ok {
		hashed, err := s.credentials.Hash(password)
		if err != nil {
			return nil, err
		}
		p.Password = patch.Some(hashed)
	}

	user, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.events.Emit(EventUserUpdated, map[string]interface{}{"user_id": user.ID})
	return user, nil
}

func (s *UserService) validatePatch(p models.UserPatch) error {
	var errs []error
	check := func(field string, opt patch.Optional[string], tag string) {
		if v, ok := opt.Get(); ok {
			errs = append(errs, s.validate.Var(field, v, tag))
		}
	}
	check("username", p.Username, "required,min=3,max=100")
	check("password", p.Password, "required,min=6,max=72")
	check("email", p.Email, "required,email,max=255")
	check("address", p.Address, "max=255")
	check("phone_number", p.PhoneNumber, "max=50")
	check("billing_info", p.BillingInfo, "max=1000")
	return validation.Merge(errs...)
}

// DeleteUser removes a user and returns the deleted row.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Emit(EventUserDeleted, map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// EnsureAdmin creates the configured administrator. An existing user with that
// username is promoted only when the configured password matches its stored
// credential; otherwise the account belongs to someone else and the bootstrap
// fails with Conflict.
func (s *UserService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) (*models.User, error) {
	existing, err := s.repo.GetByUsername(ctx, admin.Username)
	switch {
	case err == nil && !s.credentials.Verify(admin.Password, existing.Password):
		return nil, apperrors.New(apperrors.Conflict,
			"user '%s' already exists with a different password; refusing to grant admin", admin.Username)
	case err == nil && existing.IsAdmin:
		return existing, nil
	case err == nil:
		return s.repo.Update(ctx, existing.ID, models.UserPatch{IsAdmin: patch.Some(true)})
	case apperrors.KindOf(err) != apperrors.NotFound:
		return nil, err
	}

	user := &models.User{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		IsAdmin:  true,
	}
	if err := s.Signup(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
