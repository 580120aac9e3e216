package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/recipeshare/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed at 10 rounds.
const bcryptCost = 10

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Secret []byte

	// TokenTTL is the session token lifetime (1 hour in production config).
	TokenTTL time.Duration
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "All fields are required!", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, "All fields are required!", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		slog.Error("register: hash password", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	_, err = h.Users.Create(input.Username, input.Email, string(hash))
	if err != nil {
		// Unique violation on username or email
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONError(w, "User already exists!", http.StatusBadRequest)
			return
		}
		slog.Error("register: create user", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully!"})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "All fields are required!", http.StatusBadRequest)
		return
	}

	// Unknown email and wrong password produce the same message so the
	// response never reveals which accounts exist.
	user, err := h.Users.GetByEmail(input.Email)
	if err != nil {
		JSONError(w, "Invalid email or password", http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "Invalid email or password", http.StatusBadRequest)
		return
	}

	claims := jwt.MapClaims{
		"userId":   user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(h.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		slog.Error("login: sign token", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Login successful",
		"token":    signed,
		"username": user.Username,
		"userId":   user.ID,
	})
}
