package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/PankiTrejd/naracki/internal/config"
	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	pkgAuth "github.com/PankiTrejd/naracki/internal/pkg/auth"
	testhelpers "github.com/PankiTrejd/naracki/internal/test"
)

func newAuthUseCase(hash string) *AuthUseCase {
	cfg := &config.Config{Auth: config.AuthConfig{PasswordHash: hash}}
	return NewAuthUseCase(cfg, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, testhelpers.NopLogger())
}

func TestAuthUseCaseLogin(t *testing.T) {
	uc := newAuthUseCase("hash:open sesame")
	if !uc.Enabled() {
		t.Fatal("expected auth to be enabled")
	}

	token, err := uc.Login(context.Background(), "open sesame")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	subject, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if subject != pkgAuth.OperatorSubject {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestAuthUseCaseLoginRejectsWrongPassword(t *testing.T) {
	uc := newAuthUseCase("hash:open sesame")
	for _, password := range []string{"", "close sesame"} {
		if _, err := uc.Login(context.Background(), password); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %q, got %v", password, err)
		}
	}
}

func TestAuthUseCaseDisabled(t *testing.T) {
	uc := newAuthUseCase("")
	if uc.Enabled() {
		t.Fatal("expected auth to be disabled")
	}
	if _, err := uc.Login(context.Background(), "anything"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthUseCaseParseEmptyToken(t *testing.T) {
	uc := newAuthUseCase("hash:x")
	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, err := uc.ParseToken("garbage"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
