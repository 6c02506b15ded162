package main

import (
	"log"
	"os"

	"github.com/anil29717/DeepDoc/internal/cli/commands"
	"github.com/urfave/cli/v2"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "deepdoc",
		Usage:   "Chat with your PDF documents from the terminal",
		Version: Version,
		Commands: []*cli.Command{
			// Account
			commands.NewSetupCommand(),

			// Documents & folders
			commands.NewDocsCommand(),
			commands.NewFolderCommand(),
			commands.NewUploadCommand(),
			commands.NewUseCommand(),

			// Asking
			commands.NewAskCommand(),
			commands.NewHistoryCommand(),
			commands.NewChatCommand(),
			commands.NewFeedbackCommand(),

			// Admin
			commands.NewAdminCommand(),

			// Meta
			commands.NewMCPCommand(),
			commands.NewConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
