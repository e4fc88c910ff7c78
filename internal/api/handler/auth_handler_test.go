package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notes-system/internal/api/middleware"
	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn          func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	verifyFn         func(ctx context.Context, token string) (*ports.SessionInfo, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
	logoutFn         func(ctx context.Context, userID string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Verify(ctx context.Context, token string) (*ports.SessionInfo, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrTokenInvalid
}

// newContext builds an echo context for a JSON request. When user is not
// nil it is attached as the authenticated caller.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetIdentity(c, &domain.Identity{
			User:   user,
			Claims: domain.TokenClaims{UserID: user.ID, Role: user.Role},
		})
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "u1", Username: username, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/register", `{"username":"alice","password":"secret"}`, nil)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["success"] != true || resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["data"]; leaked {
		t.Fatalf("register must not return a token or user")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/register", `{"username":"bob","password":"x"}`, nil)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/register", "not-json", nil)
	if code := httpCode(handler.Register(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}

	c, _ = newContext(http.MethodPost, "/auth/register", `{"username":"bob"}`, nil)
	err := handler.Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{Token: "token123", Username: "alice", Role: domain.RoleUser, ID: "u1"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`, nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data in response")
	}
	if data["token"] != "token123" || data["username"] != "alice" || data["role"] != "USER" || data["id"] != "u1" {
		t.Fatalf("unexpected data payload: %+v", data)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`, nil)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, token string) (*ports.SessionInfo, error) {
			if token != "tok" {
				return nil, domain.ErrUnauthorized
			}
			return &ports.SessionInfo{Username: "alice", Role: domain.RoleUser, ID: "u1"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodGet, "/auth/verify", "", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer tok")
	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decode(t, rec)["data"].(map[string]any)
	if data["username"] != "alice" || data["id"] != "u1" {
		t.Fatalf("unexpected data: %+v", data)
	}

	c, _ = newContext(http.MethodGet, "/auth/verify", "", nil)
	if code := httpCode(handler.Verify(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", code)
	}

	c, _ = newContext(http.MethodGet, "/auth/verify", "", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer other")
	if err := handler.Verify(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	caller := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}
	var gotUser string
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, userID, current, next string) error {
			gotUser = userID
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/change-password", `{"currentPassword":"a","newPassword":"b"}`, caller)
	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotUser != "u1" {
		t.Fatalf("expected 200 for u1, got %d for %q", rec.Code, gotUser)
	}

	c, _ = newContext(http.MethodPost, "/auth/change-password", `{"userId":"u1","currentPassword":"a","newPassword":"b"}`, caller)
	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("matching userId should pass, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/auth/change-password", `{"userId":"u2","currentPassword":"a","newPassword":"b"}`, caller)
	if err := handler.ChangePassword(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another user's id, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/auth/change-password", `{"currentPassword":"a","newPassword":"b"}`, nil)
	if code := httpCode(handler.ChangePassword(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var loggedOut string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/logout", "", &domain.User{ID: "u1", Role: domain.RoleUser})
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || loggedOut != "u1" {
		t.Fatalf("expected logout of u1, got %d %q", rec.Code, loggedOut)
	}
}
