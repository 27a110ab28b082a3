package accounts

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	saltBytes   = 16
	apiKeyBytes = 32
)

// HashPassword will generate a hash for a password or raw key material
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext secret
// matches the hashed secret. Never panics; a malformed hash is a
// comparison failure.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// GenerateSalt returns a fixed-width random salt suitable for
// concatenation with a raw API key before hashing.
func GenerateSalt() string {
	return randomToken(saltBytes)
}

// NewAPIKey mints a raw bearer key. Callers hand it to the account owner;
// only the bcrypt hash of salt+key is ever persisted.
func NewAPIKey() string {
	return randomToken(apiKeyBytes)
}

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the platform entropy source is broken
		panic(fmt.Sprintf("accounts: unable to read random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
