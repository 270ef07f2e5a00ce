package repositories

import (
	"context"
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/patch"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// publicUserColumns is every user column except the credential.
var publicUserColumns = []string{"id", "username", "email", "address", "phone_number", "billing_info", "is_admin", "created_at"}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a user, generating its ID. Duplicate usernames or emails
// surface as Conflict.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.Conflict, err, "username or email already registered")
		}
		return translate(err, "create user")
	}
	return nil
}

func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GORMUserRepository) first(ctx context.Context, cond string, value string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, cond, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "user not found")
		}
		return nil, translate(err, "get user")
	}
	return &user, nil
}

// List returns all users ordered by creation time, without credentials.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Select(publicUserColumns).Order("created_at").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

// Update builds one UPDATE over the present fields and returns the row as
// stored afterwards.
func (r *GORMUserRepository) Update(ctx context.Context, id string, p models.UserPatch) (*models.User, error) {
	b := patch.Update("users")
	patch.SetOptional(b, "username", p.Username)
	patch.SetOptional(b, "password", p.Password)
	patch.SetOptional(b, "email", p.Email)
	patch.SetOptional(b, "address", p.Address)
	patch.SetOptional(b, "phone_number", p.PhoneNumber)
	patch.SetOptional(b, "billing_info", p.BillingInfo)
	patch.SetOptional(b, "is_admin", p.IsAdmin)
	stmt, err := b.Where("id", id).Build()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(stmt.SQL, stmt.Args...)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.NotFound, "user with ID %s not found", id)
		}
		return tx.First(&user, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Wrap(apperrors.Conflict, err, "username or email already registered")
		}
		return nil, translate(err, "update user")
	}
	return &user, nil
}

// Delete removes a user and returns the row as it was.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.NotFound, "user with ID %s not found", id)
			}
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "delete user")
	}
	return &user, nil
}
