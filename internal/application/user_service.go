package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tikkit/tikkit-api/internal/domain/entity"
	"github.com/tikkit/tikkit-api/internal/domain/errcode"
	repo "github.com/tikkit/tikkit-api/internal/domain/repository"
)

// PasswordHasher turns a raw password into the form that gets stored.
type PasswordHasher interface {
	Hash(raw string) (string, error)
}

// RegistrationListener is notified after a user has been persisted.
// Errors are logged by the service and never fail the registration.
type RegistrationListener interface {
	UserRegistered(ctx context.Context, u *entity.User) error
}

type Service struct {
	Repo      repo.UserRepository
	Hasher    PasswordHasher
	Logger    *logrus.Logger
	Listeners []RegistrationListener

	now func() time.Time
}

func NewService(repo repo.UserRepository, hasher PasswordHasher, logger *logrus.Logger, listeners ...RegistrationListener) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Repo:      repo,
		Hasher:    hasher,
		Logger:    logger,
		Listeners: listeners,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail is applied after validation; uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// Register validates the candidate, rejects a taken email, hashes the password
// and persists the new account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := ValidateUser(in); err != nil {
		return nil, err
	}

	email := NormalizeEmail(in.Email)
	exists, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, errcode.ErrDuplicateEmail
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := entity.NewRegisteredUser(email, hash, in.Name, in.Phone, s.now())
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, errcode.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	s.notify(ctx, u)
	return u, nil
}

// IsEmailDuplicated reports whether email is already registered. The value is
// looked up as given (after case folding), without format validation.
func (s *Service) IsEmailDuplicated(ctx context.Context, email string) (bool, error) {
	exists, err := s.Repo.ExistsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (s *Service) notify(ctx context.Context, u *entity.User) {
	for _, l := range s.Listeners {
		if err := l.UserRegistered(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("registration listener failed")
		}
	}
}
