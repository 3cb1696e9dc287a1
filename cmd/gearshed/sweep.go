package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clubtools/gearshed/internal/seed"
	"github.com/clubtools/gearshed/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the overdue sweep once and exit",
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

		res, err := sweep.New(eng, seed.SystemActorTag, log).Run(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("expired %d, missing %d, skipped %d\n", res.Expired, res.Missing, res.Skipped)
		return nil
	},
}
