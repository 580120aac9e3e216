package recipes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/crucial707/recipeshare/cmd/cli/config"
	"github.com/crucial707/recipeshare/cmd/cli/output"
	"github.com/crucial707/recipeshare/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Recipes
// ==========================
func InitRecipes(rootCmd *cobra.Command) {

	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse and manage recipes",
	}

	recipesCmd.AddCommand(
		listRecipesCmd(),
		getRecipeCmd(),
		deleteRecipeCmd(),
	)

	rootCmd.AddCommand(recipesCmd)
}

// ==========================
// LIST
// ==========================
func listRecipesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Run: func(cmd *cobra.Command, args []string) {

			url := config.APIURL() + "/api/recipes"
			if category != "" {
				url += "?category=" + category
			}

			resp, err := http.Get(url)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var recipes []models.Recipe
			if err := json.NewDecoder(resp.Body).Decode(&recipes); err != nil {
				fmt.Println("failed to decode response:", err)
				return
			}

			rows := make([][]interface{}, 0, len(recipes))
			for _, r := range recipes {
				rows = append(rows, []interface{}{
					r.ID, r.Title, r.Category, strings.Join(r.Ingredients, ", "), r.CreatedBy.Username,
				})
			}

			output.RenderTable([]string{"ID", "Title", "Category", "Ingredients", "Owner"}, rows)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")

	return cmd
}

// ==========================
// GET
// ==========================
func getRecipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := http.Get(config.APIURL() + "/api/recipes/" + args[0])
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var out any
			json.NewDecoder(resp.Body).Decode(&out)
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
		},
	}
}

// ==========================
// DELETE
// ==========================
func deleteRecipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a recipe you own",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/api/recipes/"+args[0], nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			b, _ := io.ReadAll(resp.Body)
			fmt.Println(string(b))
		},
	}
}
