// Package cli wires configuration, logging and the database into the
// emlak-portal commands.
package cli

import (
	"fmt"
	"os"

	"github.com/emlak-portal/config"
	"github.com/emlak-portal/database"
	"github.com/emlak-portal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is loaded once before any sub-command runs
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func (a *app) openDB() (*gorm.DB, error) {
	return database.Open(a.dbOptions(a.cfg.Database.Driver, a.cfg.Database.URL))
}

func (a *app) dbOptions(driver, url string) database.Options {
	return database.Options{
		Driver:       driver,
		URL:          url,
		MaxIdleConns: a.cfg.Database.MaxIdleConns,
		MaxOpenConns: a.cfg.Database.MaxOpenConns,
		Logger:       a.log,
		LogLevel:     a.cfg.Log.Level,
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "emlak-portal",
		Short:         "Real-estate listing and office management service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(); err != nil {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.AddCommand(
		serveCmd(a),
		migrateCmd(a),
		seedCmd(a),
		copyReferenceCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
