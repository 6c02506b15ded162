package commands

import (
	"github.com/anil29717/DeepDoc/internal/session"
	"github.com/anil29717/DeepDoc/internal/tui"
	"github.com/urfave/cli/v2"
)

func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Open the interactive chat dashboard",
		Action: func(c *cli.Context) error {
			return handleChat()
		},
	}
}

func handleChat() error {
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

	return tui.Run(mgr, func(ctx session.Context) {
		_ = app.saveActiveContext(ctx)
	})
}
