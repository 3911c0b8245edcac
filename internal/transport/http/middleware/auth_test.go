package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/campwire/community-core/internal/token"
	"github.com/campwire/community-core/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine builds a minimal gin engine with the Auth middleware protecting
// GET /protected. The handler writes the accountID from context so we can
// assert it was set.
func newEngine() *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	tokens := token.NewService([]byte(testKey), time.Hour)

	r := gin.New()
	r.GET("/protected", middleware.Auth(tokens, logger), func(c *gin.Context) {
		c.String(http.StatusOK, "%s", c.GetString("accountID"))
	})
	return r
}

func signJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return s
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	newEngine().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	newEngine().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// All three internal token failure categories must collapse into the same
// 401 body at this boundary.
func TestAuth_TokenFailures_AllCollapseTo401(t *testing.T) {
	cases := map[string]string{
		"malformed": "not.a.jwt",
		"expired": signJWT(t, []byte(testKey), jwt.MapClaims{
			"sub": "acct-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}),
		"foreign signer": signJWT(t, []byte("a-very-different-key-of-32-chars!"), jwt.MapClaims{
			"sub": "acct-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		}),
	}

	var bodies []string
	for name, tok := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		newEngine().ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}

	for _, b := range bodies[1:] {
		if b != bodies[0] {
			t.Errorf("401 bodies differ between failure categories: %q vs %q", bodies[0], b)
		}
	}
}

func TestAuth_ValidToken_PassesAndSetsAccountID(t *testing.T) {
	tokens := token.NewService([]byte(testKey), time.Hour)
	tok, err := tokens.Issue("acct-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	newEngine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "acct-abc" {
		t.Errorf("body = %q, want %q", got, "acct-abc")
	}
}
