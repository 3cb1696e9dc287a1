package main

import (
	"context"
	"net/http"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clubtools/gearshed/internal/api"
	"github.com/clubtools/gearshed/internal/seed"
	"github.com/clubtools/gearshed/internal/sweep"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gearshed API server with the periodic overdue sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if _, err := seed.EnsureSystemActor(ctx, database); err != nil {
			return err
		}

		eng, err := buildEngine(ctx, database)
		if err != nil {
			return err
		}

		// Periodic auto-updates: expirations and missing marks.
		schedule := viper.GetString("sweep-schedule")
		if schedule != "" {
			sweeper := sweep.New(eng, seed.SystemActorTag, log)
			c := cron.New()
			if _, err := c.AddFunc(schedule, func() {
				res, err := sweeper.Run(context.Background())
				if err != nil {
					log.WithError(err).Error("sweep failed")
					return
				}
				log.WithFields(map[string]any{
					"expired": res.Expired, "missing": res.Missing, "skipped": res.Skipped,
				}).Debug("sweep complete")
			}); err != nil {
				return err
			}
			c.Start()
			defer c.Stop()
		}

		handler := api.LoggingMiddleware(log)(api.NewRouter(database, eng))
		addr := viper.GetString("addr")
		log.WithField("addr", addr).Info("server listening")
		return http.ListenAndServe(addr, handler)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("sweep-schedule", "@every 15m", "cron schedule for the overdue sweep (empty to disable)")
	viper.BindPFlags(serveCmd.Flags())
}
