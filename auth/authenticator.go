package auth

import (
	"context"
	"errors"
	"fmt"

	"cafe-directory/models"
	"cafe-directory/store"

	"github.com/sirupsen/logrus"
)

var (
	ErrAuthFailure = errors.New("authentication failed")
	// ErrUnknownUser and ErrBadPassword both wrap ErrAuthFailure.
	ErrUnknownUser = fmt.Errorf("%w: unknown user", ErrAuthFailure)
	ErrBadPassword = fmt.Errorf("%w: incorrect password", ErrAuthFailure)
)

// UserDirectory is the part of the user store the authenticator needs.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, email, name, passwordHash string) (*models.User, error)
}

// Authenticator turns credentials into session tokens and tokens back into users.
type Authenticator struct {
	users  UserDirectory
	hasher *Hasher
	tokens *Tokens
	log    *logrus.Logger
}

func NewAuthenticator(users UserDirectory, hasher *Hasher, tokens *Tokens, log *logrus.Logger) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Tokens exposes the session token issuer.
func (a *Authenticator) Tokens() *Tokens {
	return a.tokens
}

// Register hashes password and creates the user. It returns
// store.ErrDuplicateEmail when the email is taken.
func (a *Authenticator) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user, err := a.users.Create(ctx, email, name, hash)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")
	return user, nil
}

// Login verifies credentials and returns the user with a fresh session token.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrUnknownUser
	}
	if err != nil {
		return nil, "", err
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrBadPassword
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser resolves a session token to its user on every call. Any
// failure, including a user that no longer exists, yields nil (anonymous).
func (a *Authenticator) CurrentUser(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}
	id, err := a.tokens.Parse(token)
	if err != nil {
		return nil
	}

	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.log.WithError(err).WithField("user_id", id).Error("resolve session user")
		}
		return nil
	}
	return user
}
