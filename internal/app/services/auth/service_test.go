package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainuser "roomies/internal/domain/user"
	"roomies/internal/infra/security"
	"roomies/internal/infra/storage/memory"
)

func newService() *Service {
	return &Service{
		Users:     memory.NewUserRepository(),
		Passwords: security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:    security.JWTIssuer{Secret: []byte("test-secret"), TTL: time.Hour},
	}
}

func signup(t *testing.T, svc *Service) *domainuser.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), SignupParams{
		Email:     "Budi@Example.com",
		Password:  "rahasia",
		FirstName: "Budi",
		LastName:  "Santoso",
		Province:  "DKI Jakarta",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return u
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	svc := newService()
	u := signup(t, svc)
	if u.ID == "" || u.Email != "budi@example.com" {
		t.Fatalf("user=%+v", u)
	}
	if u.PasswordHash == "rahasia" {
		t.Fatal("password stored in clear")
	}

	session, err := svc.Login(context.Background(), LoginParams{Email: "budi@example.com", Password: "rahasia"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resolved, err := svc.Resolve(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != u.ID || resolved.DisplayName() != "Budi Santoso" {
		t.Fatalf("resolved=%+v", resolved)
	}
	if !svc.IsLoggedIn(context.Background(), session.Token) {
		t.Fatal("expected logged in")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newService()
	signup(t, svc)
	_, err := svc.Signup(context.Background(), SignupParams{Email: "budi@example.com", Password: "x", FirstName: "Other"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("err=%v want ErrEmailAlreadyExists", err)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	svc := newService()
	signup(t, svc)

	if _, err := svc.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "rahasia"}); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("unknown email: err=%v", err)
	}
	if _, err := svc.Login(context.Background(), LoginParams{Email: "budi@example.com", Password: "salah"}); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong password: err=%v", err)
	}
}

func TestResolveRejectsBadTokens(t *testing.T) {
	t.Parallel()

	svc := newService()
	for _, token := range []string{"", "   ", "not-a-jwt"} {
		if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, ErrNotLoggedIn) {
			t.Fatalf("token %q: err=%v", token, err)
		}
		if svc.IsLoggedIn(context.Background(), token) {
			t.Fatalf("token %q: unexpectedly logged in", token)
		}
	}

	orphan, _, err := security.JWTIssuer{Secret: []byte("test-secret")}.Issue("ghost")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), orphan); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("orphan token: err=%v", err)
	}
}
