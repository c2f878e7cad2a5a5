package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"hackathon-backend/errs"
	"hackathon-backend/jwt"
	"hackathon-backend/log"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticator checks the single admin account and issues session tokens.
// A bcrypt hash takes precedence over a plain password when both are set.
type Authenticator struct {
	username     string
	password     string
	passwordHash []byte
	key          []byte
	now          func() time.Time
}

func NewAuthenticator(username, password, passwordHash, key string) *Authenticator {
	return &Authenticator{
		username:     username,
		password:     password,
		passwordHash: []byte(passwordHash),
		key:          []byte(key),
		now:          time.Now,
	}
}

func (a *Authenticator) Login(req *LoginRequest) (*Session, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	logger := log.Logger.With(zap.String("username", req.Username))

	ok, err := a.check(req.Username, req.Password)
	if err != nil {
		logger.Error("admin password hash unusable", zap.Error(err))
		return nil, err
	}
	if !ok {
		logger.Warn("admin login rejected")
		return nil, errs.ErrInvalidCredentials
	}

	exp := a.now().Add(jwt.SessionTTL).UTC().Truncate(time.Second)
	token, err := jwt.NewAdminToken(req.Username, exp, a.key)
	if err != nil {
		return nil, errs.ErrJWT
	}
	logger.Info("admin logged in")

	return &Session{Token: token, ExpiresAt: exp}, nil
}

// check fails with ErrCryptographic only when the configured hash itself is
// malformed; a wrong password is a plain false.
func (a *Authenticator) check(username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1

	var passOK bool
	if len(a.passwordHash) > 0 {
		err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
		switch {
		case err == nil:
			passOK = true
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		default:
			return false, fmt.Errorf("%w: %v", errs.ErrCryptographic, err)
		}
	} else {
		passOK = a.password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}

	return userOK && passOK, nil
}

// Verify resolves a session token to the admin username.
func (a *Authenticator) Verify(token string) (string, error) {
	if token == "" {
		return "", errs.ErrUnauthorized
	}

	claims, err := jwt.ValidateAdminToken(token, a.key)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return "", errs.ErrTokenExpired
		}
		return "", errs.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(claims.Username), []byte(a.username)) != 1 {
		return "", errs.ErrUnauthorized
	}

	return claims.Username, nil
}
