package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"hackathon-backend/log"
)

const (
	Issuer     = "hackathon-backend"
	SessionTTL = 24 * time.Hour
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	*jwt.StandardClaims
}

func NewAdminToken(username string, exp time.Time, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &AdminClaims{
		Username: username,
		Role:     "admin",
		StandardClaims: &jwt.StandardClaims{
			ExpiresAt: exp.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    Issuer,
		},
	})

	ss, err := token.SignedString(key)
	if err != nil {
		log.Logger.Error("signing failure", zap.Error(err))
		return "", err
	}

	return ss, nil
}

func ValidateAdminToken(token string, key []byte) (*AdminClaims, error) {
	t, err := jwt.ParseWithClaims(token, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return key, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpired
		}
		log.Logger.Debug("parse failure", zap.Error(err))
		return nil, ErrInvalid
	}

	c, ok := t.Claims.(*AdminClaims)
	if !ok || c.Role != "admin" || c.Issuer != Issuer {
		return nil, ErrInvalid
	}

	return c, nil
}
