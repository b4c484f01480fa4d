package cli

import (
	"fmt"

	"github.com/emlak-portal/config"
	"github.com/emlak-portal/database"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			a.log.Info("database schema migrated")
			return nil
		},
	}
}

func seedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert roles, locations, taxonomy and listing lookups",
		Long:  "Insert the reference rows the application expects. Rows are matched by slug, so seeding twice changes nothing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			if err := database.Seed(cmd.Context(), db); err != nil {
				return err
			}
			a.log.Info("reference data seeded")
			return nil
		},
	}
}

func copyReferenceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy-reference",
		Short: "Copy reference data from one database to another",
		Long:  "Copy locations, taxonomy, listing lookups and roles from --source into --target after migrating the target schema. Rows already in the target are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			sourceURL, _ := flags.GetString("source")
			targetURL, _ := flags.GetString("target")
			sourceDriver, _ := flags.GetString("source-driver")
			targetDriver, _ := flags.GetString("target-driver")
			if sourceURL == "" {
				sourceURL = config.GetEnv("SOURCE_DATABASE_URL", "")
			}
			if targetURL == "" {
				targetURL = config.GetEnv("TARGET_DATABASE_URL", "")
			}
			if sourceURL == "" || targetURL == "" {
				return fmt.Errorf("--source and --target are required")
			}
			if sourceDriver == "" {
				sourceDriver = a.cfg.Database.Driver
			}
			if targetDriver == "" {
				targetDriver = a.cfg.Database.Driver
			}

			source, err := database.NewDBConnection("source", a.dbOptions(sourceDriver, sourceURL))
			if err != nil {
				return err
			}
			defer source.Close()

			target, err := database.NewDBConnection("target", a.dbOptions(targetDriver, targetURL))
			if err != nil {
				return err
			}
			defer target.Close()

			if err := target.Migrate(); err != nil {
				return err
			}
			return database.CopyReferenceData(cmd.Context(), source, target)
		},
	}
	cmd.Flags().String("source", "", "source database URL (defaults to SOURCE_DATABASE_URL)")
	cmd.Flags().String("target", "", "target database URL (defaults to TARGET_DATABASE_URL)")
	cmd.Flags().String("source-driver", "", "source driver, postgres or sqlite (defaults to DB_DRIVER)")
	cmd.Flags().String("target-driver", "", "target driver, postgres or sqlite (defaults to DB_DRIVER)")
	return cmd
}
