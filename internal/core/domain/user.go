package domain

import "time"

// UserRow is a user record as stored, including the password hash so the
// Logic layer can verify credentials. Never serialize it to a client.
type UserRow struct {
	ID           int
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is the sanitized client-facing shape of a user record. It never
// carries the password hash.
type User struct {
	ID        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Summary strips the creation timestamp. Signup and login responses
// carry this shape; the timestamp is exposed on the user endpoint only.
func (u User) Summary() User {
	u.CreatedAt = time.Time{}
	return u
}

// Sanitize converts a stored row to its client-facing shape.
func (r *UserRow) Sanitize() User {
	return User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login. The session token never
// appears in the body; it travels only in the http-only cookie.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}
