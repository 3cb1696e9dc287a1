package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clubtools/gearshed/internal/db"
	"github.com/clubtools/gearshed/internal/engine"
	"github.com/clubtools/gearshed/internal/store"
	"github.com/clubtools/gearshed/internal/tag"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:           "gearshed",
	Short:         "Gearshed tracks club gear, holders and the audit ledger",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "gearshed.sqlite3", "path to SQLite database file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("due-days", 7, "days until checked-out gear is due back")
	rootCmd.PersistentFlags().Int("grace-days", 3, "days past due before the sweep marks gear missing")
	rootCmd.PersistentFlags().Bool("enforce-holds", false, "refuse checkout to members holding overdue gear")
	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.SetEnvPrefix("GEARSHED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sweepCmd)
}

// openDatabase opens the configured database and applies migrations.
func openDatabase() (*sql.DB, error) {
	database, err := db.Open(viper.GetString("db"))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// buildEngine wires the transition engine: flag-level policy defaults
// overlaid with any durable settings, and a random tag generator checking
// collisions against live gear.
func buildEngine(ctx context.Context, database *sql.DB) (*engine.Engine, error) {
	defaults := engine.Policy{
		DuePeriod:           time.Duration(viper.GetInt("due-days")) * 24 * time.Hour,
		Grace:               time.Duration(viper.GetInt("grace-days")) * 24 * time.Hour,
		EnforceOverdueHolds: viper.GetBool("enforce-holds"),
	}
	policy, err := engine.LoadPolicy(ctx, database, defaults)
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}

	tags := tag.NewRandom(func(ctx context.Context, t string) (bool, error) {
		return store.GearTagExists(ctx, database, t)
	})

	return engine.New(database, tags, policy), nil
}
