package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/recipeshare/internal/config"
	"github.com/crucial707/recipeshare/internal/media"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:      "test-secret-for-integration",
		JWTExpireHours: 1,
		MediaBackend:   "disk",
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 5 << 20,
	}
}

func newTestServer(t *testing.T, db *sql.DB, cfg config.Config) *httptest.Server {
	t.Helper()
	store, err := media.NewDiskStore(cfg.UploadDir, "")
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	srv := httptest.NewServer(newRouter(db, cfg, store))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, b
}

// TestAPI_RegisterLoginCreateList walks the main user journey end to end
// against the real router: register, login, create a recipe, then find it in
// the category listing with the owner's username resolved.
func TestAPI_RegisterLoginCreateList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)

	// Register
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "alice", "a@x.com"))
	// Login
	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(1, "alice", "a@x.com", string(hash)))
	// Create recipe
	mock.ExpectQuery(`INSERT INTO recipes`).
		WithArgs("Soup", "Vegetarian", pq.Array([]string{"leek", "water"}), "boil", "", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))
	// List by category
	mock.ExpectQuery(`SELECT r.id, r.title, r.category, r.ingredients`).
		WithArgs("Vegetarian").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "ingredients", "instructions", "image", "created_by", "username", "created_at"}).
			AddRow(1, "Soup", "Vegetarian", "{leek,water}", "boil", nil, 1, "alice", time.Now()))

	srv := newTestServer(t, db, testConfig(t))

	// 1) Register
	resp, body := doJSON(t, "POST", srv.URL+"/api/auth/register", "",
		map[string]string{"username": "alice", "email": "a@x.com", "password": "password"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d (body: %s)", resp.StatusCode, body)
	}

	// 2) Login
	resp, body = doJSON(t, "POST", srv.URL+"/api/auth/login", "",
		map[string]string{"email": "a@x.com", "password": "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d (body: %s)", resp.StatusCode, body)
	}
	var login struct {
		Token  string `json:"token"`
		UserID int    `json:"userId"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" || login.UserID != 1 {
		t.Fatalf("unexpected login response: %s", body)
	}

	// 3) Create recipe (multipart, ingredients as one comma-delimited string)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "Soup")
	mw.WriteField("category", "Vegetarian")
	mw.WriteField("ingredients", "leek,water")
	mw.WriteField("instructions", "boil")
	mw.Close()

	req, _ := http.NewRequest("POST", srv.URL+"/api/recipes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+login.Token)
	createResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	createBody, _ := io.ReadAll(createResp.Body)
	createResp.Body.Close()
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d (body: %s)", createResp.StatusCode, createBody)
	}

	// 4) List filtered by category
	resp, body = doJSON(t, "GET", srv.URL+"/api/recipes?category=Vegetarian", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: got %d (body: %s)", resp.StatusCode, body)
	}
	var list []struct {
		Title     string `json:"title"`
		CreatedBy struct {
			Username string `json:"username"`
		} `json:"createdBy"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Soup" || list[0].CreatedBy.Username != "alice" {
		t.Fatalf("unexpected list: %s", body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_DeleteByNonOwner verifies that another user's delete is rejected
// with 403 and the recipe is still readable afterwards.
func TestAPI_DeleteByNonOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)

	recipeRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "title", "category", "ingredients", "instructions", "image", "created_by", "username", "created_at"}).
			AddRow(1, "Soup", "Vegetarian", "{leek}", "boil", nil, 1, "alice", time.Now())
	}

	// Login as bob (user 2)
	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(2, "bob", "b@x.com", string(hash)))
	// Delete attempt loads the recipe (owned by alice, user 1); no DELETE follows
	mock.ExpectQuery(`SELECT r.id, r.title, r.category, r.ingredients`).
		WithArgs(1).
		WillReturnRows(recipeRows())
	// Subsequent get still finds it
	mock.ExpectQuery(`SELECT r.id, r.title, r.category, r.ingredients`).
		WithArgs(1).
		WillReturnRows(recipeRows())

	srv := newTestServer(t, db, testConfig(t))

	resp, body := doJSON(t, "POST", srv.URL+"/api/auth/login", "",
		map[string]string{"email": "b@x.com", "password": "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d (body: %s)", resp.StatusCode, body)
	}
	var login struct {
		Token string `json:"token"`
	}
	json.Unmarshal(body, &login)

	resp, body = doJSON(t, "DELETE", srv.URL+"/api/recipes/1", login.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete status: got %d, want 403 (body: %s)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, "GET", srv.URL+"/api/recipes/1", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get after failed delete: got %d (body: %s)", resp.StatusCode, body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_GetUnknownRecipe(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT r.id, r.title, r.category, r.ingredients`).
		WithArgs(12345).
		WillReturnError(sql.ErrNoRows)

	srv := newTestServer(t, db, testConfig(t))

	resp, body := doJSON(t, "GET", srv.URL+"/api/recipes/12345", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get status: got %d, want 404 (body: %s)", resp.StatusCode, body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_CreateWithoutToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := newTestServer(t, db, testConfig(t))

	resp, body := doJSON(t, "POST", srv.URL+"/api/recipes", "", map[string]string{"title": "Soup"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("create status: got %d, want 401 (body: %s)", resp.StatusCode, body)
	}
}
