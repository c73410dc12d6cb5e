package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Classes lists the user's enrolled classes.
func (r *Runner) Classes(ctx context.Context, cmd *cli.Command) error {
	service, err := r.session()
	if err != nil {
		return err
	}

	classes, err := service.Classes(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(classes, true)
	}

	if len(classes) == 0 {
		return r.writePlain("No classes found.\n")
	}

	for _, class := range classes {
		r.writePlain("%s  %s\n", class.ID, class.Name)
		if class.Description != "" {
			r.writePlain("    %s\n", class.Description)
		}
	}

	return nil
}

func classesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "classes",
		Usage: "List enrolled classes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Classes,
	}
}
