package commands

import (
	"fmt"

	"github.com/anil29717/DeepDoc/internal/config"
	"github.com/urfave/cli/v2"
)

func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and change CLI settings",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current configuration",
				Action: func(c *cli.Context) error { return handleConfigShow() },
			},
			{
				Name:      "set-url",
				Usage:     "Set the backend base URL",
				ArgsUsage: "[url]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("url is required")
					}
					return handleConfigSetURL(c.Args().First())
				},
			},
		},
	}
}

func handleConfigShow() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	path, _ := config.GetConfigPath()

	fmt.Printf("Config file:  %s\n", path)
	url := cfg.APIBaseURL
	if url == "" {
		url = "(default)"
	}
	fmt.Printf("API URL:      %s\n", url)
	switch cfg.ActiveContext.Kind {
	case "document":
		fmt.Printf("Context:      document %d\n", cfg.ActiveContext.ID)
	case "folder":
		fmt.Printf("Context:      folder %d\n", cfg.ActiveContext.ID)
	default:
		fmt.Println("Context:      none")
	}
	if cfg.User != nil {
		fmt.Printf("Logged in as: %s (%s)\n", cfg.User.Name, cfg.User.Email)
	} else {
		fmt.Println("Logged in as: (not logged in)")
	}
	return nil
}

func handleConfigSetURL(url string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	cfg.APIBaseURL = url
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}
	fmt.Printf("✅ API URL set to %s\n", url)
	return nil
}
