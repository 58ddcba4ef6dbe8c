package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/pkg/security/auth"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// AuthResult is a successful login or registration.
type AuthResult struct {
	User  *User
	Token string
}

// Service defines the business logic for account management and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

type service struct {
	repo   Repository
	logger *logrus.Logger

	jwtSecret      string
	jwtIssuer      string
	jwtExpiryHours int
}

// ServiceConfig holds the configuration for the user service
type ServiceConfig struct {
	Repository     Repository
	Logger         *logrus.Logger
	JWTSecret      string
	JWTIssuer      string
	JWTExpiryHours int
}

func NewService(cfg ServiceConfig) Service {
	return &service{
		repo:           cfg.Repository,
		logger:         cfg.Logger,
		jwtSecret:      cfg.JWTSecret,
		jwtIssuer:      cfg.JWTIssuer,
		jwtExpiryHours: cfg.JWTExpiryHours,
	}
}

const minPasswordLength = 8

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if strings.TrimSpace(input.Name) == "" || email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = RoleUser
	}
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	u := &User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": u.ID,
		"role":    u.Role,
	}).Info("User registered")

	return s.issueToken(u)
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": u.ID,
		}).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.WithError(err).Warn("Failed to record login time")
	}

	return s.issueToken(u)
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) issueToken(u *User) (*AuthResult, error) {
	token, err := auth.GenerateToken(u.ID, u.Email, string(u.Role), s.jwtSecret, s.jwtIssuer, s.jwtExpiryHours)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}
