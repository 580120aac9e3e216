package repo

import (
	"database/sql"

	"github.com/crucial707/recipeshare/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email
	`

	user := &models.User{}

	err := r.DB.QueryRow(query, username, email, passwordHash).
		Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(id int) (*models.User, error) {
	query := `
		SELECT id, username, email
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Email (includes password hash, for login)
// ==========================
func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash
		FROM users
		WHERE email = $1
	`

	user := &models.User{}

	err := r.DB.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)

	if err != nil {
		return nil, err
	}

	return user, nil
}
