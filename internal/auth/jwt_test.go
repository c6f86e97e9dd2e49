package auth

import (
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)
	user := core.User{ID: 7, Email: "user@example.com", Role: core.RoleAdmin}

	token, err := issuer.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 7 || claims.Email != "user@example.com" || claims.Role != core.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)
	other := NewTokenIssuer("another-secret-987654321", time.Hour)

	token, err := issuer.Generate(core.User{ID: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Verify() error = %v, want ErrForbidden", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", -time.Minute)

	token, err := issuer.Generate(core.User{ID: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Verify() error = %v, want ErrForbidden", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)

	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Verify() error = %v, want ErrForbidden", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() error = %v, want nil", err)
	}
	if err := CheckPassword(hash, "wrong password"); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("CheckPassword() error = %v, want ErrForbidden", err)
	}
}
