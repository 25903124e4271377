package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/bulletin-board/internal/models"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

// =============================================================================
// Mock UserLookup
// =============================================================================

type mockUsers struct {
	getUserByIDFunc func(ctx context.Context, id int64) (models.User, error)
}

func (m *mockUsers) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, id)
	}
	return models.User{}, errors.New("not implemented")
}

func usersWith(users ...models.User) *mockUsers {
	return &mockUsers{getUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return models.User{}, errors.New("not found")
	}}
}

// =============================================================================
// Tokens
// =============================================================================

func TestGenerateAndValidateJWT(t *testing.T) {
	s := NewSessions([]byte(testSecret), time.Hour, false)

	token, err := s.GenerateJWT(models.User{ID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := s.ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Subject != "7" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateJWT_Rejects(t *testing.T) {
	s := NewSessions([]byte(testSecret), time.Hour, false)
	other := NewSessions([]byte("another-secret-another-secret-xx"), time.Hour, false)
	expired := NewSessions([]byte(testSecret), -time.Minute, false)

	foreign, _ := other.GenerateJWT(models.User{ID: 1})
	old, _ := expired.GenerateJWT(models.User{ID: 1})
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"wrong key": foreign,
		"expired":   old,
		"alg none":  none,
		"garbage":   "not-a-token",
	} {
		if _, err := s.ValidateJWT(token); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

// =============================================================================
// Middleware
// =============================================================================

func sessionCookie(t *testing.T, s *Sessions, user models.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := s.Login(rec, user); err != nil {
		t.Fatalf("Login: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestMiddleware_LoadsUser(t *testing.T) {
	s := NewSessions([]byte(testSecret), time.Hour, false)
	alice := models.User{ID: 1, Username: "alice", IsActive: true}
	bob := models.User{ID: 2, Username: "bob", IsActive: false}
	users := usersWith(alice, bob)

	var seen *models.User
	h := s.Middleware(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{"no cookie", nil, ""},
		{"active user", sessionCookie(t, s, alice), "alice"},
		{"inactive user", sessionCookie(t, s, bob), ""},
		{"unknown user", sessionCookie(t, s, models.User{ID: 99}), ""},
		{"tampered", &http.Cookie{Name: CookieName, Value: "abc.def.ghi"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			got := ""
			if seen != nil {
				got = seen.Username
			}
			if got != tt.want {
				t.Errorf("user = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLogoutCookies(t *testing.T) {
	s := NewSessions([]byte(testSecret), time.Hour, true)

	c := sessionCookie(t, s, models.User{ID: 1})
	if !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Errorf("cookie flags: %+v", c)
	}

	rec := httptest.NewRecorder()
	s.Logout(rec)
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 || cleared[0].Value != "" {
		t.Errorf("logout cookie = %+v", cleared)
	}
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/new?board=3", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/signin?next=%2Fposts%2Fnew%3Fboard%3D3" {
		t.Errorf("Location = %q", loc)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: 1, IsActive: true}))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("signed-in status = %d, want 418", rec.Code)
	}
}

// =============================================================================
// Permissions
// =============================================================================

func TestHasPermission(t *testing.T) {
	member := &models.User{ID: 1, IsActive: true}
	admin := &models.User{ID: 2, IsActive: true, IsAdmin: true}
	inactiveAdmin := &models.User{ID: 3, IsAdmin: true}

	tests := []struct {
		name string
		user *models.User
		perm string
		want bool
	}{
		{"member adds post", member, PermAddPost, true},
		{"member cannot pin", member, PermPinPost, false},
		{"admin pins", admin, PermPinPost, true},
		{"admin any perm", admin, "anything.else", true},
		{"inactive admin", inactiveAdmin, PermAddPost, false},
		{"anonymous", nil, PermAddPost, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.user, tt.perm); got != tt.want {
				t.Errorf("HasPermission = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestHasModuleAccess(t *testing.T) {
	member := &models.User{IsActive: true}
	admin := &models.User{IsActive: true, IsAdmin: true}

	if HasModuleAccess(member, ModuleAdmin) {
		t.Error("member should not reach the admin module")
	}
	if !HasModuleAccess(admin, ModuleAdmin) {
		t.Error("admin should reach the admin module")
	}
	if HasModuleAccess(nil, ModuleAdmin) {
		t.Error("anonymous should reach nothing")
	}
}

// =============================================================================
// CSRF
// =============================================================================

func TestCSRF(t *testing.T) {
	h := CSRF([]string{"https://board.example.com/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		method  string
		origin  string
		referer string
		want    int
	}{
		{"GET passes", http.MethodGet, "", "", http.StatusOK},
		{"same host origin", http.MethodPost, "http://example.com", "", http.StatusOK},
		{"allowed origin", http.MethodPost, "https://BOARD.example.com", "", http.StatusOK},
		{"foreign origin", http.MethodPost, "https://evil.example", "", http.StatusForbidden},
		{"same host referer", http.MethodPost, "", "http://example.com/signin?next=/", http.StatusOK},
		{"foreign referer", http.MethodPost, "", "https://evil.example/form", http.StatusForbidden},
		{"no headers", http.MethodPost, "", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/signin", strings.NewReader(""))
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSigninURL(t *testing.T) {
	if got := SigninURL(""); got != "/signin" {
		t.Errorf("SigninURL(\"\") = %q", got)
	}
	if got := SigninURL("/posts/new"); got != "/signin?next=%2Fposts%2Fnew" {
		t.Errorf("SigninURL = %q", got)
	}
}
