package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, userID int, username string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"exp":      exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, 42, "alice", time.Now().Add(time.Hour))

	var gotID int
	var gotName string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotName, _ = Username(r.Context())
	})

	req := httptest.NewRequest("POST", "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	JWTMiddleware(secret)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if gotID != 42 || gotName != "alice" {
		t.Errorf("claims: got id=%d name=%q", gotID, gotName)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest("POST", "/api/recipes", nil)
	rr := httptest.NewRecorder()
	JWTMiddleware([]byte("test-secret"))(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, 42, "alice", time.Now().Add(-time.Minute))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	})

	req := httptest.NewRequest("POST", "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	JWTMiddleware(secret)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	token := signToken(t, []byte("other-secret"), 42, "alice", time.Now().Add(time.Hour))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a badly signed token")
	})

	req := httptest.NewRequest("POST", "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	JWTMiddleware([]byte("test-secret"))(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}

func TestJWTMiddleware_MissingBearerScheme(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, 42, "alice", time.Now().Add(time.Hour))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without the Bearer scheme")
	})

	// A valid token without the scheme prefix is still not a bearer credential.
	for _, header := range []string{token, "Basic " + token, "bearer " + token} {
		req := httptest.NewRequest("POST", "/api/recipes", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		JWTMiddleware(secret)(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("header %q: status: got %d, want 403", header, rr.Code)
		}
	}
}

func TestJWTMiddleware_MalformedToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a malformed token")
	})

	req := httptest.NewRequest("POST", "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	JWTMiddleware([]byte("test-secret"))(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}
