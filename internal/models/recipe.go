package models

import "time"

// Recipe categories. The set is fixed; input outside it is rejected.
const (
	CategoryVegetarian    = "Vegetarian"
	CategoryNonVegetarian = "Non-Vegetarian"
	CategoryDesserts      = "Desserts"
	CategoryDrinks        = "Drinks"
	CategorySnacks        = "Snacks"
)

// Categories lists all valid recipe categories.
var Categories = []string{
	CategoryVegetarian,
	CategoryNonVegetarian,
	CategoryDesserts,
	CategoryDrinks,
	CategorySnacks,
}

// ValidCategory reports whether c is one of the fixed category set.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Owner is the denormalized owning-user reference carried on each recipe.
type Owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type Recipe struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Image        string    `json:"image,omitempty"`
	CreatedBy    Owner     `json:"createdBy"`
	CreatedAt    time.Time `json:"created_at"`
}
