package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/seed"
)

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "inspect seed datasets",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check a seed file without starting the server",
				ArgsUsage: "[file]",
				Action: func(ctx context.Context, c *cli.Command) error {
					path := c.Args().First()
					ds, err := seed.Load(path)
					if err != nil {
						return err
					}
					if path == "" {
						path = "built-in dataset"
					}
					participants := 0
					for _, a := range ds.Activities {
						participants += len(a.Participants)
					}
					_, err = fmt.Fprintf(c.Root().Writer, "%s: %d activities, %d participants\n",
						path, len(ds.Activities), participants)
					return err
				},
			},
		},
	}
}
