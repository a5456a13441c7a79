package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mind-maze/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// sqlxUserRepository implements UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) UserRepository {
	return &sqlxUserRepository{db: db}
}

const userColumns = `
		id "id",
		google_id "google_id",
		email "email",
		name "name",
		profile_picture_url "profile_picture_url",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"`

// CreateUser inserts a new user into the database.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (
		id, google_id, email, name, profile_picture_url, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.GoogleID,
		user.Email,
		user.Name,
		user.ProfilePictureURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// Duplicate google_id surfaces as ORA-00001 from the driver.
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByGoogleID retrieves a user by their Google ID.
func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + `
	FROM users
	WHERE google_id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, googleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their internal ID.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + `
	FROM users
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// UpdateUser updates mutable profile fields of an existing user.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET
		email = :1,
		name = :2,
		profile_picture_url = :3,
		updated_at = :4
	WHERE id = :5
	AND deleted_at IS NULL`

	user.UpdatedAt = time.Now()

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.ProfilePictureURL,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found for update: %s", user.ID)
	}
	return nil
}
