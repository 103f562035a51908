package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

type RegisterInput struct {
	Name            string
	Email           string `validate:"required,email"`
	Password        string `validate:"min=6"`
	ConfirmPassword string
}

type Service struct {
	db       *gorm.DB
	sessions SessionStore
	ttl      time.Duration
	validate *validator.Validate
	logger   *log.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, sessions SessionStore, ttl time.Duration) *Service {
	return &Service{
		db:       db,
		sessions: sessions,
		ttl:      ttl,
		validate: validator.New(),
		logger:   log.With("component", "auth"),
		now:      time.Now,
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and its profile, then signs the user in.
// Checks run in the order the form reports them: mismatch, length, email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if in.Password != in.ConfirmPassword {
		return Session{}, ErrPasswordMismatch
	}
	if len(in.Password) < MinPasswordLength {
		return Session{}, ErrWeakPassword
	}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Email":
					return Session{}, ErrInvalidEmail
				case "Password":
					return Session{}, ErrWeakPassword
				}
			}
		}
		return Session{}, fmt.Errorf("validate registration: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Bio:          "",
		CreatedAt:    s.now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrEmailTaken
	}
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "uid", user.ID)
	return s.issue(ctx, user.Identity())
}

// SignIn never reveals whether the email or the password was wrong.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("sign in lookup failed", "err", err)
		}
		return Session{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issue(ctx, user.Identity())
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// Resolve maps a token to its identity; any failure is ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	identity, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.logger.Error("session lookup failed", "err", err)
		}
		return Identity{}, ErrUnauthorized
	}
	return identity, nil
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) issue(ctx context.Context, identity Identity) (Session, error) {
	token, err := s.sessions.Create(ctx, identity, s.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return Session{
		Token:     token,
		Identity:  identity,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}
