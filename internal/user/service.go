package user

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrUsernameAlreadyInUse = errors.New("username already in use")
)

// Store is the persistence contract the service depends on. Lookups return a
// nil user without error when nothing matches.
type Store interface {
	Create(ctx context.Context, req *CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error)
	SetBanned(ctx context.Context, id int64, banned bool) (*User, error)
	SetIconTime(ctx context.Context, id int64, at *time.Time) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles user business logic
type Service struct {
	repo Store
}

// NewService creates a new user service with repository dependency injected
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create creates a new user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	existing, err = s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyInUse
	}

	return s.repo.Create(ctx, req)
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// LookupByUsername returns the user with exactly this username, or nil when
// there is none. Case is not normalized.
func (s *Service) LookupByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, nil
	}
	return s.repo.GetByUsername(ctx, username)
}

// HasElevatedPrivilege reports whether the caller may see banned profiles
func (s *Service) HasElevatedPrivilege(caller *User) bool {
	return caller != nil && caller.IsAdmin
}

// List retrieves all users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies an existing user
func (s *Service) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Ban hides the user's profile from everyone without elevated privilege
func (s *Service) Ban(ctx context.Context, id int64) (*User, error) {
	return s.setBanned(ctx, id, true)
}

// Unban restores the user's profile
func (s *Service) Unban(ctx context.Context, id int64) (*User, error) {
	return s.setBanned(ctx, id, false)
}

func (s *Service) setBanned(ctx context.Context, id int64, banned bool) (*User, error) {
	user, err := s.repo.SetBanned(ctx, id, banned)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// MarkIconUploaded records a new profile icon upload. The upload time drives
// the lastcache parameter of icon URLs.
func (s *Service) MarkIconUploaded(ctx context.Context, id int64, at time.Time) (*User, error) {
	at = at.UTC().Truncate(time.Second)
	return s.setIconTime(ctx, id, &at)
}

// ClearIcon forgets the uploaded icon so the default icon is shown again
func (s *Service) ClearIcon(ctx context.Context, id int64) (*User, error) {
	return s.setIconTime(ctx, id, nil)
}

func (s *Service) setIconTime(ctx context.Context, id int64, at *time.Time) (*User, error) {
	user, err := s.repo.SetIconTime(ctx, id, at)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Delete removes a user
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
