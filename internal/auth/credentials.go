package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials означает неверную пару email и пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordCost задает стоимость bcrypt для новых хэшей.
var PasswordCost = bcrypt.DefaultCost

// HashPassword хэширует пароль через bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword сверяет пароль с хэшем. Несовпадение дает ErrInvalidCredentials.
func ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return err
}

// HashToken возвращает SHA-256 хэш refresh-токена в hex. В базе хранится только хэш.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareTokenHash сравнивает хэш с токеном в константное время.
func CompareTokenHash(hash, token string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashToken(token))) == 1
}
