package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/anil29717/DeepDoc/internal/models"
	"github.com/anil29717/DeepDoc/internal/session"
)

func NewHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Print the transcript for the active context",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "print raw text without markdown rendering",
			},
		},
		Action: func(c *cli.Context) error {
			return handleHistory(c.Bool("plain"))
		},
	}
}

func handleHistory(plain bool) error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	mgr, err := app.newManager()
	if err != nil {
		return err
	}

	if mgr.Active() == session.None() {
		return fmt.Errorf("no document or folder selected. Use 'deepdoc use doc ID' first")
	}

	msgs := mgr.Messages()
	if len(msgs) == 0 {
		fmt.Println("No messages yet. Ask something with 'deepdoc ask \"...\"'")
		return nil
	}

	for _, msg := range msgs {
		if msg.Role == models.RoleUser {
			fmt.Printf("🧑 %s\n", msg.Content)
			continue
		}
		if plain {
			fmt.Printf("🤖 %s\n", msg.Content)
		} else {
			fmt.Printf("🤖\n%s", renderMarkdown(msg.Content))
		}
	}
	return nil
}
