// Package v1 provides the business logic for API version 1:
// authentication, lead generation, simulated email delivery, and the
// voice-call bridge.
//
// Error Handling:
// This package defines sentinel errors that represent common failures.
// These errors should be wrapped with context using fmt.Errorf("%w") when
// returned from business logic methods. Client-facing validation messages
// travel in ValidationError; everything else maps to a stable status code
// in the web layer via errors.Is.
//
// Error Checking (in handlers):
//
//	var ve *logicv1.ValidationError
//	switch {
//	case errors.As(err, &ve):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for the business logic layer.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases are deliberately indistinguishable to the
	// client to prevent account enumeration.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrEmailExists = errors.New("email already registered")

	// ErrTokenInvalid indicates the session token is missing, malformed,
	// tampered with, or expired. The reason is not exposed.
	// HTTP Status: 401 Unauthorized
	ErrTokenInvalid = errors.New("invalid authentication token")

	// ErrUserNotFound indicates the user record vanished after token
	// issuance.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrVoiceConfig indicates the Twilio/Ultravox credentials are absent
	// or malformed. Reported per call because the voice bridge is an
	// optional feature.
	// HTTP Status: 500 Internal Server Error
	ErrVoiceConfig = errors.New("voice call configuration invalid")
)

// ValidationError is a malformed-input failure whose message is safe to
// return to the client verbatim.
// HTTP Status: 400 Bad Request
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErr(msg string) error {
	return &ValidationError{Msg: msg}
}
