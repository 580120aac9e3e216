package repo

import (
	"database/sql"
	"strconv"

	"github.com/crucial707/recipeshare/internal/models"
	"github.com/lib/pq"
)

// ==========================
// RecipeRepo
// ==========================
type RecipeRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{DB: db}
}

// ==========================
// Create Recipe
// ==========================
func (r *RecipeRepo) Create(title, category string, ingredients []string, instructions, image string, createdBy int) (models.Recipe, error) {
	recipe := models.Recipe{
		Title:        title,
		Category:     category,
		Ingredients:  ingredients,
		Instructions: instructions,
		Image:        image,
		CreatedBy:    models.Owner{ID: createdBy},
	}

	err := r.DB.QueryRow(
		`INSERT INTO recipes (title, category, ingredients, instructions, image, created_by)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		 RETURNING id, created_at`,
		title, category, pq.Array(ingredients), instructions, image, createdBy,
	).Scan(&recipe.ID, &recipe.CreatedAt)

	if err != nil {
		return models.Recipe{}, err
	}

	return recipe, nil
}

// ==========================
// Get Recipe By ID (owner username joined in)
// ==========================
func (r *RecipeRepo) GetByID(id int) (models.Recipe, error) {
	var recipe models.Recipe
	var image sql.NullString

	err := r.DB.QueryRow(
		`SELECT r.id, r.title, r.category, r.ingredients, r.instructions, r.image,
		        r.created_by, u.username, r.created_at
		 FROM recipes r
		 JOIN users u ON u.id = r.created_by
		 WHERE r.id = $1`,
		id,
	).Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.Category,
		pq.Array(&recipe.Ingredients),
		&recipe.Instructions,
		&image,
		&recipe.CreatedBy.ID,
		&recipe.CreatedBy.Username,
		&recipe.CreatedAt,
	)
	if err != nil {
		return models.Recipe{}, err
	}

	recipe.Image = image.String
	return recipe, nil
}

// ==========================
// List Recipes (optional category filter; limit <= 0 returns all)
// ==========================
func (r *RecipeRepo) List(category string, limit, offset int) ([]models.Recipe, error) {
	query := `
		SELECT r.id, r.title, r.category, r.ingredients, r.instructions, r.image,
		       r.created_by, u.username, r.created_at
		FROM recipes r
		JOIN users u ON u.id = r.created_by
	`

	args := []interface{}{}
	if category != "" {
		query += ` WHERE r.category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY r.id DESC`
	if limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		var recipe models.Recipe
		var image sql.NullString
		if err := rows.Scan(
			&recipe.ID,
			&recipe.Title,
			&recipe.Category,
			pq.Array(&recipe.Ingredients),
			&recipe.Instructions,
			&image,
			&recipe.CreatedBy.ID,
			&recipe.CreatedBy.Username,
			&recipe.CreatedAt,
		); err != nil {
			return nil, err
		}
		recipe.Image = image.String
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

// ==========================
// Update Recipe (writes the full merged row once)
// ==========================
func (r *RecipeRepo) Update(id int, title, category string, ingredients []string, instructions, image string) (models.Recipe, error) {
	recipe := models.Recipe{
		ID:           id,
		Title:        title,
		Category:     category,
		Ingredients:  ingredients,
		Instructions: instructions,
		Image:        image,
	}

	err := r.DB.QueryRow(
		`UPDATE recipes
		 SET title = $1, category = $2, ingredients = $3, instructions = $4, image = NULLIF($5, '')
		 WHERE id = $6
		 RETURNING created_by, created_at`,
		title, category, pq.Array(ingredients), instructions, image, id,
	).Scan(&recipe.CreatedBy.ID, &recipe.CreatedAt)

	if err != nil {
		return models.Recipe{}, err
	}

	return recipe, nil
}

// ==========================
// Delete Recipe
// ==========================
func (r *RecipeRepo) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
