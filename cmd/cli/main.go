package main

import (
	"fmt"
	"os"

	"github.com/crucial707/recipeshare/cmd/cli/recipes"
	"github.com/crucial707/recipeshare/cmd/cli/root"
	"github.com/crucial707/recipeshare/cmd/cli/users"
)

func main() {
	users.InitUsers(root.GetRoot())
	recipes.InitRecipes(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
