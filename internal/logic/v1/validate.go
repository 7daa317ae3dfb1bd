package v1

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// passwordChars is the accepted password alphabet: letters, digits and a
// small set of symbols.
var passwordChars = regexp.MustCompile(`^[A-Za-z0-9@$!%*#?&]+$`)

// isValidEmail checks the email shape. Uniqueness is the store's job.
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// isValidPassword requires at least 8 characters with at least one
// letter and one digit, drawn from the accepted alphabet.
func isValidPassword(password string) bool {
	if len(password) < 8 || !passwordChars.MatchString(password) {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
