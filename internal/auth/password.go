package auth

import "golang.org/x/crypto/bcrypt"

// hashCost is the bcrypt work factor. Raising it slows both signup and
// login; change it only together with a capacity review.
const hashCost = 12

// HashPassword creates a salted bcrypt hash of the password. Output
// differs between calls for the same input because the salt is embedded
// in the hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A mismatch is a normal outcome, not an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
