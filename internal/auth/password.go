package auth

import (
	"golang.org/x/crypto/bcrypt"

	"fleetfin/internal/domain"
)

// MinPasswordLen is enforced on create and password change.
const MinPasswordLen = 6

// HashPassword validates the length and returns a bcrypt hash.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLen {
		return "", domain.ValidationError{Field: "password", Msg: "must have at least 6 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.InternalError{Msg: "hash password", Err: err}
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
