package keygen

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"hackathon-backend/errs"
	"hackathon-backend/jwt"
)

const bcryptCost = 10

func GenerateToken(username string, exp time.Time, key string) (string, error) {
	if !exp.After(time.Now()) {
		return "", fmt.Errorf("expiration %s is in the past", exp.Format(time.RFC3339))
	}

	return jwt.NewAdminToken(username, exp, []byte(key))
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrCryptographic, err)
	}

	return string(hash), nil
}
