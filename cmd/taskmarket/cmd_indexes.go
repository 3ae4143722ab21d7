package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mashangjie/taskmarket/internal/infrastructure/config"
	mongodb "github.com/mashangjie/taskmarket/internal/infrastructure/db/mongo"
)

// taskmarket indexes: create the MongoDB indexes and exit.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}

		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		if err := mongodb.NewRepositories(db).EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexes ready on %s\n", cfg.Mongo.Database)
		return nil
	},
}
