package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// CheckPassword compares the supplied password with the configured one. The
// configured value may be plain text or a bcrypt hash.
func CheckPassword(configured, supplied string) bool {
	if configured == "" || supplied == "" {
		return false
	}
	if isBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) == 1
}

// Login exchanges the admin password for a session token. A mismatch returns
// ErrInvalidCredentials.
func (t *Tokens) Login(configured, supplied string) (string, error) {
	if !CheckPassword(configured, supplied) {
		return "", ErrInvalidCredentials
	}
	return t.Issue()
}
