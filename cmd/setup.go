package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"studysync/internal/shared"
)

// Setup writes a starter config file and prepares the local database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)
	} else {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		r.config = config
		r.writePlain("✓ Loaded %s\n", configPath)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		return r.writePlain("✓ Rolled back last migration\n")
	}

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to the config file",
			},
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the last database migration",
			},
		},
		Action: r.Setup,
	}
}
