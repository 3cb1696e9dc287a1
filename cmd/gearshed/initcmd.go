package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clubtools/gearshed/internal/seed"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database, schema, and the system actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("db")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("database file %s already exists", path)
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		actor, err := seed.EnsureSystemActor(cmd.Context(), database)
		if err != nil {
			os.Remove(path)
			return err
		}

		fmt.Printf("Database created: %s\n", path)
		fmt.Printf("System actor tag: %s\n", actor.Tag)
		return nil
	},
}
