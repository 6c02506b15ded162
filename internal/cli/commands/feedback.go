package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func NewFeedbackCommand() *cli.Command {
	return &cli.Command{
		Name:      "feedback",
		Usage:     "Rate an assistant answer",
		ArgsUsage: "[message-id]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "rating",
				Usage:    "rating from 1 to 5",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "comment",
				Usage: "optional free-form comment",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("message id is required")
			}
			return handleFeedback(c.Args().First(), c.Int("rating"), c.String("comment"))
		},
	}
}

func handleFeedback(arg string, rating int, comment string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if err := app.Client.SendFeedback(id, rating, comment); err != nil {
		return fmt.Errorf("could not send feedback: %w", err)
	}
	fmt.Println("✅ Feedback recorded")
	return nil
}
