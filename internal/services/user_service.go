package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/isdelr/bulletin-board/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength bounds the username column.
const MaxUsernameLength = 20

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	CreateSuperuser(ctx context.Context, username, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserService provides business logic for user management.
type UserService struct {
	db           *sql.DB
	eventService EventServiceProvider
	hashCost     int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, eventService EventServiceProvider) *UserService {
	return &UserService{
		db:           db,
		eventService: eventService,
		hashCost:     bcrypt.DefaultCost,
	}
}

// SetHashCost overrides the bcrypt cost; tests lower it to bcrypt.MinCost.
func (s *UserService) SetHashCost(cost int) {
	s.hashCost = cost
}

const userColumns = "id, username, password_hash, name, email, is_active, is_admin, date_joined, date_modified"

func scanUser(scanner interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	var name, email sql.NullString
	err := scanner.Scan(&user.ID, &user.Username, &user.PasswordHash, &name, &email,
		&user.IsActive, &user.IsAdmin, &user.DateJoined, &user.DateModified)
	if err != nil {
		return models.User{}, err
	}
	user.Name = name.String
	user.Email = email.String
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by username, including the password hash.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new active member, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	return s.createUser(ctx, username, password, false)
}

// CreateSuperuser creates a new user with the admin flag set.
func (s *UserService) CreateSuperuser(ctx context.Context, username, password string) (models.User, error) {
	return s.createUser(ctx, username, password, true)
}

func (s *UserService) createUser(ctx context.Context, username, password string, admin bool) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, &ValidationError{Field: "username", Message: "Users must have a username."}
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return models.User{}, &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("Ensure this value has at most %d characters.", MaxUsernameLength),
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsAdmin:      admin,
		DateJoined:   now,
		DateModified: now,
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(username, password_hash, is_active, is_admin, date_joined, date_modified) VALUES(?, ?, ?, ?, ?, ?)",
		user.Username, user.PasswordHash, user.IsActive, user.IsAdmin, user.DateJoined, user.DateModified)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, &ValidationError{
				Field:   "username",
				Message: "A user with that username already exists.",
				Err:     ErrUsernameTaken,
			}
		}
		return models.User{}, err
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return models.User{}, err
	}

	kind := "member"
	if admin {
		kind = "admin"
	}
	RecordEvent(ctx, s.eventService, EventUserCreate, "info", fmt.Sprintf("User '%s' created as %s.", user.Username, kind), &user.ID)
	return user, nil
}

// Authenticate verifies a user's credentials. It returns nil, nil when the
// username is unknown or the password does not match.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return &user, nil
}

// SetActive enables or restricts an account.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_active = ?, date_modified = ? WHERE id = ?", active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	if !active {
		RecordEvent(ctx, s.eventService, EventUserDeactivate, "warn", fmt.Sprintf("User %d was restricted.", id), &id)
	}
	return nil
}

// DeleteUser removes a user; their posts stay with a null author.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
