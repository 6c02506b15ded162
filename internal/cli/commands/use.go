package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/anil29717/DeepDoc/internal/session"
)

func NewUseCommand() *cli.Command {
	return &cli.Command{
		Name:  "use",
		Usage: "Pick the active document or folder for questions",
		Subcommands: []*cli.Command{
			{
				Name:      "doc",
				Usage:     "Chat against a single document",
				ArgsUsage: "[document-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("document id is required")
					}
					return handleUse(c.Args().First(), false)
				},
			},
			{
				Name:      "folder",
				Usage:     "Chat against all documents in a folder",
				ArgsUsage: "[folder-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("folder id is required")
					}
					return handleUse(c.Args().First(), true)
				},
			},
			{
				Name:  "none",
				Usage: "Clear the active context",
				Action: func(c *cli.Context) error {
					return handleUseNone()
				},
			},
			{
				Name:  "show",
				Usage: "Show the active context",
				Action: func(c *cli.Context) error {
					return handleUseShow()
				},
			},
		},
	}
}

func handleUse(arg string, isFolder bool) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

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

	if isFolder {
		if err := mgr.SelectFolder(id); err != nil {
			return err
		}
	} else {
		if err := mgr.SelectDocument(id); err != nil {
			return err
		}
	}

	if err := app.saveActiveContext(mgr.Active()); err != nil {
		return err
	}

	if isFolder {
		if f, ok := mgr.FindFolder(id); ok {
			fmt.Printf("✅ Now chatting with folder 📁 %s\n", f.Name)
		}
	} else {
		if d, ok := mgr.FindDocument(id); ok {
			fmt.Printf("✅ Now chatting with 📄 %s\n", d.Filename)
		}
	}
	return nil
}

func handleUseNone() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.saveActiveContext(session.None()); err != nil {
		return err
	}
	fmt.Println("✅ Context cleared")
	return nil
}

func handleUseShow() error {
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

	active := mgr.Active()
	switch active.Kind {
	case session.KindDocument:
		if d, ok := mgr.FindDocument(active.ID); ok {
			fmt.Printf("📄 %s (document %d)\n", d.Filename, d.ID)
			return nil
		}
		fmt.Printf("📄 document %d\n", active.ID)
	case session.KindFolder:
		if f, ok := mgr.FindFolder(active.ID); ok {
			fmt.Printf("📁 %s (folder %d)\n", f.Name, f.ID)
			return nil
		}
		fmt.Printf("📁 folder %d\n", active.ID)
	default:
		fmt.Println("No active context. Use 'deepdoc use doc ID' or 'deepdoc use folder ID'")
	}
	return nil
}
