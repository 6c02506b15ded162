package commands

import (
	"github.com/anil29717/DeepDoc/internal/mcp"
	"github.com/urfave/cli/v2"
)

func NewMCPCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio (for AI agent integration)",
		Action: func(c *cli.Context) error {
			return handleMCP()
		},
	}
}

func handleMCP() error {
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
	return mcp.ServeStdio(mgr)
}
