package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-record-service/internal/domain/user"
	pkgerrors "user-record-service/pkg/errors"
)

// UserStore is the gateway between the usecase layer and the users table.
// Every method performs a single storage operation and reports its outcome as
// nil, *errors.NotFoundError, *errors.AlreadyExistsError or *errors.InternalError.
type UserStore struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserStore creates a new instance of UserStore.
func NewUserStore(db *gorm.DB, log *zap.Logger) *UserStore {
	return &UserStore{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"not null;uniqueIndex"`
	Password string `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

func toDomain(m UserSchema) *user.User {
	return &user.User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Password: m.Password,
	}
}

// List returns every user ordered by id.
func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		s.log.Error("failed to list users from db", zap.Error(err))
		return nil, translateError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = *toDomain(m)
	}
	return users, nil
}

// Create inserts a new user and returns it with the id assigned by the database.
func (s *UserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, pkgerrors.NewInternalError("failed to create user", errors.New("user cannot be nil"))
	}

	model := UserSchema{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		s.log.Warn("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, translateError("failed to create user", err)
	}

	s.log.Info("user created in db", zap.Int64("id", model.ID))
	return toDomain(model), nil
}

// GetByID retrieves a user by id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := s.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug("user not found", zap.Int64("id", id))
		} else {
			s.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		}
		return nil, translateError("failed to get user", err)
	}

	return toDomain(model), nil
}

// Update overwrites name, email and password of an existing user and returns
// the stored row. The write and the read-back share one transaction.
func (s *UserStore) Update(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, pkgerrors.NewInternalError("failed to update user", errors.New("user cannot be nil"))
	}

	var model UserSchema
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&UserSchema{}).Where("id = ?", u.ID).Updates(map[string]any{
			"name":     u.Name,
			"email":    u.Email,
			"password": u.Password,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&model, u.ID).Error
	})
	if err != nil {
		s.log.Warn("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return nil, translateError("failed to update user", err)
	}

	s.log.Info("user updated in db", zap.Int64("id", model.ID))
	return toDomain(model), nil
}

// Delete removes a user by id.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		s.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return translateError("failed to delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Debug("no user to delete", zap.Int64("id", id))
		return translateError("failed to delete user", gorm.ErrRecordNotFound)
	}

	s.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// Ping verifies the database connection is alive.
func (s *UserStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// translateError maps driver errors onto the domain outcomes.
func translateError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.NewNotFoundError("user", "record not found")
	case isUniqueViolation(err):
		return pkgerrors.NewAlreadyExistsError("user", "email already registered")
	default:
		return pkgerrors.NewInternalError(op, err)
	}
}

// isUniqueViolation covers gorm.ErrDuplicatedKey from dialects with error
// translation plus the raw Postgres and SQLite messages.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
