package usecase

import (
	"context"
	"log/slog"

	"github.com/PankiTrejd/naracki/internal/config"
	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	pkgAuth "github.com/PankiTrejd/naracki/internal/pkg/auth"
)

// AuthUseCase checks the operator password and manages tokens.
type AuthUseCase struct {
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
	logger       *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{passwordHash: cfg.Auth.PasswordHash, hasher: hasher, tokens: strategy, logger: logger}
}

// Enabled reports whether an operator password is configured.
func (u *AuthUseCase) Enabled() bool {
	return u.passwordHash != ""
}

// Login validates the operator password and returns an auth token.
func (u *AuthUseCase) Login(ctx context.Context, password string) (string, error) {
	if !u.Enabled() {
		return "", domainErrors.Validationf("operator login is disabled")
	}
	if password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		u.logger.WarnContext(ctx, "operator login failed")
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(pkgAuth.OperatorSubject)
}

// ParseToken extracts the subject from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
