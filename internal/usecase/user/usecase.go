package user

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	domain "user-record-service/internal/domain/user"
	pkgerrors "user-record-service/pkg/errors"
	"user-record-service/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// MsgAllFieldsRequired is reported when name, email or password is missing.
const MsgAllFieldsRequired = "all fields required"

// Repository defines the interface for user data access operations.
// Implementations report outcomes with the error types from pkg/errors.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)                  // List every user
	Create(ctx context.Context, u *domain.User) (*domain.User, error) // Insert a user, id assigned by the store
	GetByID(ctx context.Context, id int64) (*domain.User, error)      // Retrieve user by ID
	Update(ctx context.Context, u *domain.User) (*domain.User, error) // Overwrite all fields of an existing user
	Delete(ctx context.Context, id int64) error                       // Delete user by ID
}

// Usecase implements the user record operations on top of a Repository.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

var _ UserUsecase = (*Usecase)(nil)

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// naming every missing field.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fields = append(fields, strings.ToLower(e.Field()))
		}
		return pkgerrors.NewValidationError(fields, MsgAllFieldsRequired)
	}
	return pkgerrors.NewInternalError("failed to validate request", err)
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}
}

// CreateUser validates the request and inserts a new user.
// Email uniqueness is left to the repository.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.Create(ctx, &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		log.Warn("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// UpdateUser validates the request and overwrites name, email and password.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.Update(ctx, &domain.User{
		ID:       in.ID,
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		log.Warn("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// DeleteUser removes a user by id.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		log.Warn("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return &DeleteUserResponse{ID: in.ID}, nil
}

// GetUser retrieves a user by id.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		logger.WithContext(ctx, uc.log).Debug("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// ListUsers returns every stored user.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *toDTO(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}
