package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainuser "roomies/internal/domain/user"
)

var (
	ErrEmailNotFound      = errors.New("auth: email not found")
	ErrWrongPassword      = errors.New("auth: wrong password")
	ErrEmailAlreadyExists = errors.New("auth: email already exists")
	ErrPasswordRequired   = errors.New("auth: password is required")
	ErrNotLoggedIn        = errors.New("auth: not logged in")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints and verifies session tokens bound to a user id.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

type Service struct {
	Users     domainuser.Repository
	Passwords PasswordHasher
	Tokens    TokenIssuer
	Logger    *slog.Logger
}

type SignupParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Province  string
}

type LoginParams struct {
	Email    string
	Password string
}

type Session struct {
	User      *domainuser.User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Signup(ctx context.Context, params SignupParams) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if params.Password == "" {
		return nil, ErrPasswordRequired
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, domainuser.ErrEmailRequired
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	user, err := domainuser.NewUser(domainuser.CreateParams{
		Email:        email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Province:     params.Province,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", user.ID, "province", user.Province)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*Session, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailNotFound
	}
	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}
	if err := s.Passwords.Compare(user.PasswordHash, params.Password); err != nil {
		return nil, ErrWrongPassword
	}
	token, expires, err := s.Tokens.Issue(string(user.ID))
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", user.ID)
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}

// Resolve returns the account behind a session token.
func (s *Service) Resolve(ctx context.Context, token string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	userID, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, errors.Join(ErrNotLoggedIn, err)
	}
	user, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return user, nil
}

// IsLoggedIn reports whether token belongs to an existing account.
func (s *Service) IsLoggedIn(ctx context.Context, token string) bool {
	_, err := s.Resolve(ctx, token)
	return err == nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token issuer required")
	default:
		return nil
	}
}
