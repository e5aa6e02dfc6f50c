package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cvstudio-backend/internal/shared/telemetry"
)

// MinPasswordLength is the shortest password accepted on signup or change.
const MinPasswordLength = 6

type Service struct {
	Repo     Repo
	Now      func() time.Time
	NewID    func() string
	HashCost int
}

func NewService(repo Repo) *Service {
	return &Service{
		Repo:     repo,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
		HashCost: bcrypt.DefaultCost,
	}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates a password account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	email, err := validEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	if err := validPassword(in.Password); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Now()
	user := User{
		ID:           s.NewID(),
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Preferences:  DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.FullName = strings.TrimSpace(user.FirstName + " " + user.LastName)
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("users.signup", map[string]any{"user_id": user.ID})
	return user, nil
}

// Login checks a password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if user.PasswordHash == "" {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// OAuthProfile is the identity returned by an external sign-in provider.
type OAuthProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// UpsertFromOAuth links a provider identity to the account with the same
// email, creating one when none exists.
func (s *Service) UpsertFromOAuth(ctx context.Context, p OAuthProfile) (User, error) {
	email, err := validEmail(p.Email)
	if err != nil {
		return User{}, err
	}
	now := s.Now()

	user, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if p.Name != "" {
			user.FullName = p.Name
		}
		if p.Picture != "" {
			user.PictureURL = p.Picture
		}
		user.UpdatedAt = now
		if err := s.Repo.Update(ctx, user); err != nil {
			return User{}, err
		}
		return user, nil
	case errors.Is(err, ErrNotFound):
		id := p.Subject
		if id == "" {
			id = s.NewID()
		}
		first, last, _ := strings.Cut(strings.TrimSpace(p.Name), " ")
		user = User{
			ID:          id,
			Email:       email,
			FirstName:   first,
			LastName:    strings.TrimSpace(last),
			FullName:    p.Name,
			PictureURL:  p.Picture,
			Preferences: DefaultPreferences(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.Create(ctx, user); err != nil {
			return User{}, err
		}
		telemetry.Info("users.oauth_signup", map[string]any{"user_id": user.ID})
		return user, nil
	default:
		return User{}, err
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// ProfileUpdate holds the editable profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Phone       *string      `json:"phone"`
	Email       *string      `json:"email"`
	Preferences *Preferences `json:"preferences"`
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.Email != nil {
		email, err := validEmail(*in.Email)
		if err != nil {
			return User{}, err
		}
		user.Email = email
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Preferences != nil {
		user.Preferences = *in.Preferences
	}
	if in.FirstName != nil || in.LastName != nil {
		user.FullName = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	user.UpdatedAt = s.Now()
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
// Accounts without a password may set one without a current password.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}
	}
	if err := validPassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost())
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.Now()
	return s.Repo.Update(ctx, user)
}

func (s *Service) cost() int {
	if s.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.HashCost
}

func validEmail(raw string) (string, error) {
	email := normalizeEmail(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	return email, nil
}

func validPassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	return nil
}
