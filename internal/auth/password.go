// internal/auth/password.go
//
// bcrypt helpers used by signup and signin.

package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of pw (cost 10).
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
