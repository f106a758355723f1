package service

import (
	"errors"
	"testing"
	"time"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/model"
)

func testTokenService(expiry time.Duration) *TokenService {
	return NewTokenService(&config.Config{
		JWTSecret: "unit-test-secret",
		JWTExpiry: expiry,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testTokenService(time.Hour)

	for _, role := range []model.Role{model.RoleStudent, model.RoleStaff, model.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			token, err := svc.MintToken(42, role)
			if err != nil {
				t.Fatalf("mint: %v", err)
			}

			claims, err := svc.ValidateToken(token)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if claims.PrincipalID != 42 {
				t.Errorf("principal = %d, want 42", claims.PrincipalID)
			}
			if claims.Role != role {
				t.Errorf("role = %q, want %q", claims.Role, role)
			}
		})
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := testTokenService(time.Hour)

	if _, err := svc.ValidateToken("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage token error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	minter := testTokenService(time.Hour)
	token, err := minter.MintToken(1, model.RoleStudent)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	verifier := NewTokenService(&config.Config{JWTSecret: "a-different-secret"})
	if _, err := verifier.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("cross-secret validation error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := testTokenService(-time.Minute)
	token, err := svc.MintToken(1, model.RoleStaff)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token error = %v, want ErrTokenExpired", err)
	}
}
