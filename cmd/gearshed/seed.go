package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clubtools/gearshed/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample members, types and gear",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		eng, err := buildEngine(ctx, database)
		if err != nil {
			return err
		}

		return seed.Run(ctx, database, eng, seed.Options{
			Members: viper.GetInt("members"),
			Gear:    viper.GetInt("gear"),
		}, log)
	},
}

func init() {
	seedCmd.Flags().Int("members", 100, "number of members to create")
	seedCmd.Flags().Int("gear", 120, "number of gear items to create")
	viper.BindPFlags(seedCmd.Flags())
}
