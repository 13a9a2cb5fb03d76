package utils

import (
	"errors"
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

var ErrMalformedHash = errors.New("malformed password hash")

var passwordHasher = argon2.DefaultConfig()

// HashPassword returns the PHC-encoded argon2id hash stored in users.password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	encoded, err := passwordHasher.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches encodedHash. Accounts
// without a stored hash never match.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	return ok, nil
}
