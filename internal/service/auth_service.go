package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"photodrop/internal/account"
	"photodrop/internal/model"
	appErr "photodrop/internal/pkg/errors"
	"photodrop/internal/session"
)

type AuthService struct {
	accounts *account.Store
	sessions *session.Store
}

func NewAuthService(accounts *account.Store, sessions *session.Store) *AuthService {
	return &AuthService{accounts: accounts, sessions: sessions}
}

// Login checks the configured credential list and, on a match, creates a
// logged-in session. A failed login has no side effects.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.Session, error) {
	acc, ok := s.accounts.Authenticate(username, password)
	if !ok {
		logutil.GetLogger(ctx).Info("login rejected", zap.String("username", username))
		return model.Session{}, appErr.ErrUnauthorized
	}
	sess := s.sessions.Create(acc)
	logutil.GetLogger(ctx).Info("login ok",
		zap.String("username", acc.Username),
		zap.String("email", acc.Email),
	)
	return sess, nil
}
