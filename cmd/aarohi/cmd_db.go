package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/priyamehta/aarohi/app/repositories"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/config"
	"github.com/priyamehta/aarohi/database/seeders"
	"github.com/priyamehta/aarohi/internal/server"
	"github.com/priyamehta/aarohi/pkg/database"
)

// aarohi seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shutdown, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer shutdown()

		products := repositories.NewProductRepository(database.Collection("products"))
		categories := repositories.NewCategoryRepository(database.Collection("categories"))
		users := repositories.NewUserRepository(database.Collection("users"))

		deps := &seeders.Deps{
			Catalog:    services.NewCatalogService(products, categories, users),
			Categories: services.NewCategoryService(categories, products),
			Auth:       services.NewAuthService(users),
		}

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, deps)
	},
}

// aarohi index:ensure — create the unique and query indexes.
var indexEnsureCmd = &cobra.Command{
	Use:   "index:ensure",
	Short: "Create MongoDB indexes (unique slug/sku, query indexes)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(ctx); err != nil {
			return err
		}
		defer database.Disconnect(ctx) //nolint:errcheck

		fmt.Println("Ensuring indexes…")
		if err := database.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}
