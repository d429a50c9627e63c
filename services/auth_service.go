package services

import (
	"context"
	"errors"
	"time"

	"nimbusdrive/models"
	"nimbusdrive/store"
	"nimbusdrive/utils"
)

// AuthService mints bearer tokens for known accounts. Full identity
// provider integration lives outside this service; callers arrive here
// already verified.
type AuthService struct {
	store      store.Store
	jwtSecret  string
	issuer     string
	expiration time.Duration
}

func NewAuthService(st store.Store, jwtSecret, issuer string, expiration time.Duration) *AuthService {
	return &AuthService{
		store:      st,
		jwtSecret:  jwtSecret,
		issuer:     issuer,
		expiration: expiration,
	}
}

// IssueToken returns a signed token for the account with the given email,
// creating the account on first sight.
func (s *AuthService) IssueToken(ctx context.Context, email, name string, subscription models.Subscription) (string, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		user = &models.User{
			Email:        email,
			Name:         name,
			Subscription: subscription,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return "", nil, err
		}
		utils.LogInfo("created account for " + email)
	} else if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateJWTToken(user, s.jwtSecret, s.issuer, s.expiration)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
