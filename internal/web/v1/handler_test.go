package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadforge/leadgen-service/internal/auth"
	"github.com/leadforge/leadgen-service/internal/core/domain"
	logicv1 "github.com/leadforge/leadgen-service/internal/logic/v1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUserRepo is an in-memory domain.UserRepository for handler tests,
// unique on email like the real table.
type stubUserRepo struct {
	nextID int
	rows   map[int]*domain.UserRow
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{nextID: 1, rows: map[int]*domain.UserRow{}}
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	for _, row := range r.rows {
		if row.Email == email {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int) (*domain.UserRow, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *stubUserRepo) Create(_ context.Context, firstName, lastName, email, passwordHash string) (*domain.UserRow, error) {
	for _, row := range r.rows {
		if row.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	now := time.Now()
	row := &domain.UserRow{
		ID: r.nextID, FirstName: firstName, LastName: lastName,
		Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now,
	}
	r.rows[row.ID] = row
	r.nextID++
	copied := *row
	return &copied, nil
}

type testEnv struct {
	router *gin.Engine
	repo   *stubUserRepo
	tokens *auth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewManager("handler-test-secret")
	require.NoError(t, err)

	repo := newStubUserRepo()
	handler := NewHandler(logicv1.NewAuthService(repo, tokens), &auth.CookiePolicy{})

	router := gin.New()
	handler.RegisterRoutes(router.Group("/auth"))

	return &testEnv{router: router, repo: repo, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, ck := range res.Cookies() {
		if ck.Name == auth.CookieName {
			return ck
		}
	}
	return nil
}

func signupBody(email string) map[string]string {
	return map[string]string{
		"firstName": "A", "lastName": "B",
		"email": email, "password": "abc12345",
	}
}

func TestSignupEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", signupBody("X@Y.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Message string      `json:"message"`
		User    domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Account created successfully", resp.Message)
	assert.Equal(t, "x@y.com", resp.User.Email)
	assert.NotZero(t, resp.User.ID)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "createdAt", "timestamp is served by the user endpoint only")

	ck := sessionCookie(t, w)
	require.NotNil(t, ck, "signup must set the session cookie")
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	// The cookie carries a token the full verifier accepts.
	claims, err := env.tokens.Verify(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestSignupValidationAndConflict(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", map[string]string{"email": "x@y.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"firstName": "A", "lastName": "B", "email": "x@y.com", "password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 8 characters")

	w = env.do(t, http.MethodPost, "/auth/signup", signupBody("x@y.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Case/whitespace variants of a taken address conflict and create no
	// second row.
	w = env.do(t, http.MethodPost, "/auth/signup", signupBody(" X@Y.COM "))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
	assert.Len(t, env.repo.rows, 1)
	assert.Nil(t, sessionCookie(t, w), "conflict must not set a cookie")
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", signupBody("X@Y.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Different case variant of the registered email.
	w = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "X@y.COM", "password": "abc12345",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.User.ID)
	assert.NotContains(t, w.Body.String(), "createdAt")
	require.NotNil(t, sessionCookie(t, w))
}

func TestLoginFailureBodiesAreIdentical(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", signupBody("known@y.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	unknown := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "unknown@y.com", "password": "abc12345",
	})
	wrongPass := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "known@y.com", "password": "wrong1234",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	// Byte-identical responses: no account enumeration.
	assert.Equal(t, unknown.Body.Bytes(), wrongPass.Body.Bytes())
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "not-an-email", "password": "abc12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", signupBody("x@y.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	ck := sessionCookie(t, w)
	require.NotNil(t, ck)

	// No cookie.
	w = env.do(t, http.MethodGet, "/auth/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = env.do(t, http.MethodGet, "/auth/user", nil, &http.Cookie{Name: auth.CookieName, Value: "junk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid cookie.
	w = env.do(t, http.MethodGet, "/auth/user", nil, ck)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		User domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "x@y.com", resp.User.Email)
	assert.False(t, resp.User.CreatedAt.IsZero())

	// Row vanished after issuance.
	delete(env.repo.rows, resp.User.ID)
	w = env.do(t, http.MethodGet, "/auth/user", nil, ck)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ck := sessionCookie(t, w)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}
