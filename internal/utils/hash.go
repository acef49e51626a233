package utils

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword derives the stored credential for an account password.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

// CheckPassword reports whether pw matches a stored credential. Constant-time
// under the hood, safe for login paths.
func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
