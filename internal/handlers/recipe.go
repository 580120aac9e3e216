package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/recipeshare/internal/media"
	"github.com/crucial707/recipeshare/internal/metrics"
	"github.com/crucial707/recipeshare/internal/middleware"
	"github.com/crucial707/recipeshare/internal/models"
	"github.com/crucial707/recipeshare/internal/repo"
	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	Recipes *repo.RecipeRepo
	Media   media.Store

	// MaxUploadBytes bounds the in-memory portion of multipart parsing.
	MaxUploadBytes int64
}

//
// ==========================
// Create Recipe
// ==========================
//

func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	username, okName := middleware.Username(r.Context())
	if !ok || !okName {
		JSONError(w, "Access denied!", http.StatusUnauthorized)
		return
	}

	if err := h.parseForm(r); err != nil {
		JSONError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	category := strings.TrimSpace(r.PostFormValue("category"))
	instructions := strings.TrimSpace(r.PostFormValue("instructions"))
	ingredients := NormalizeIngredients(r.PostForm["ingredients"])

	if title == "" || category == "" || instructions == "" || len(ingredients) == 0 {
		JSONError(w, "All fields are required!", http.StatusBadRequest)
		return
	}
	if !models.ValidCategory(category) {
		JSONError(w, "Invalid category!", http.StatusBadRequest)
		return
	}

	// Upload first; the recipe row is written exactly once, after the image
	// URL is known. A failed upload never leaves a half-written record.
	imageURL, _, err := h.saveImage(r)
	if err != nil {
		JSONError(w, "Image upload failed. Try again!", http.StatusInternalServerError)
		return
	}

	recipe, err := h.Recipes.Create(title, category, ingredients, instructions, imageURL, userID)
	if err != nil {
		slog.Error("create recipe", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	recipe.CreatedBy.Username = username
	metrics.IncRecipe("created")

	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

//
// ==========================
// List Recipes
// ==========================
//

func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	// Optional pagination; absent means all.
	limit := 0
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	recipes, err := h.Recipes.List(category, limit, offset)
	if err != nil {
		slog.Error("list recipes", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, recipes)
}

//
// ==========================
// Get Recipe By ID
// ==========================
//

func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid recipe id", http.StatusBadRequest)
		return
	}

	recipe, err := h.Recipes.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Recipe not found", http.StatusNotFound)
			return
		}
		slog.Error("get recipe", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, recipe)
}

//
// ==========================
// Update Recipe (owner only; only supplied fields change)
// ==========================
//

func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		JSONError(w, "Access denied!", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid recipe id", http.StatusBadRequest)
		return
	}

	existing, err := h.Recipes.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Recipe not found", http.StatusNotFound)
			return
		}
		slog.Error("update recipe: load", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	// Ownership is a strict equality check, performed before any mutation
	// (including the image upload).
	if existing.CreatedBy.ID != userID {
		JSONError(w, "Unauthorized action", http.StatusForbidden)
		return
	}

	if err := h.parseForm(r); err != nil {
		JSONError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	title := existing.Title
	category := existing.Category
	ingredients := existing.Ingredients
	instructions := existing.Instructions
	imageURL := existing.Image

	if _, supplied := r.PostForm["title"]; supplied {
		title = strings.TrimSpace(r.PostFormValue("title"))
	}
	if _, supplied := r.PostForm["category"]; supplied {
		category = strings.TrimSpace(r.PostFormValue("category"))
	}
	if _, supplied := r.PostForm["ingredients"]; supplied {
		ingredients = NormalizeIngredients(r.PostForm["ingredients"])
	}
	if _, supplied := r.PostForm["instructions"]; supplied {
		instructions = strings.TrimSpace(r.PostFormValue("instructions"))
	}

	if title == "" || category == "" || instructions == "" || len(ingredients) == 0 {
		JSONError(w, "All fields are required!", http.StatusBadRequest)
		return
	}
	if !models.ValidCategory(category) {
		JSONError(w, "Invalid category!", http.StatusBadRequest)
		return
	}

	// A new file replaces the prior image URL. The old remote object is
	// not deleted; lifecycle of replaced objects is out of scope.
	newURL, present, err := h.saveImage(r)
	if err != nil {
		JSONError(w, "Image upload failed. Try again!", http.StatusInternalServerError)
		return
	}
	if present {
		imageURL = newURL
	}

	recipe, err := h.Recipes.Update(id, title, category, ingredients, instructions, imageURL)
	if err != nil {
		slog.Error("update recipe: write", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	recipe.CreatedBy.Username = existing.CreatedBy.Username
	metrics.IncRecipe("updated")

	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Recipe updated successfully",
		"recipe":  recipe,
	})
}

//
// ==========================
// Delete Recipe (owner only)
// ==========================
//

func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		JSONError(w, "Access denied!", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid recipe id", http.StatusBadRequest)
		return
	}

	existing, err := h.Recipes.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Recipe not found", http.StatusNotFound)
			return
		}
		slog.Error("delete recipe: load", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if existing.CreatedBy.ID != userID {
		JSONError(w, "Unauthorized action", http.StatusForbidden)
		return
	}

	if err := h.Recipes.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Recipe not found", http.StatusNotFound)
			return
		}
		slog.Error("delete recipe", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncRecipe("deleted")

	JSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

//
// ==========================
// Helpers
// ==========================
//

// parseForm accepts multipart (the normal case, files allowed) and falls back
// to urlencoded bodies so field-only clients work too.
func (h *RecipeHandler) parseForm(r *http.Request) error {
	maxMemory := h.MaxUploadBytes
	if maxMemory <= 0 {
		maxMemory = 5 << 20
	}
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// saveImage uploads the "image" form file, if any. Returns the stored URL and
// whether a file was present.
func (h *RecipeHandler) saveImage(r *http.Request) (string, bool, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	url, err := h.Media.Save(r.Context(), header.Filename, file)
	if err != nil {
		slog.Error("image upload", "filename", header.Filename, "err", err)
		metrics.IncImageUpload("error")
		return "", true, err
	}
	metrics.IncImageUpload("ok")
	return url, true, nil
}
