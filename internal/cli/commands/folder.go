package commands

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"
)

func NewFolderCommand() *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Group documents into folders for multi-file conversations",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new folder",
				ArgsUsage: "[name]",
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), " ")
					return handleFolderCreate(name)
				},
			},
			{
				Name:  "list",
				Usage: "List folders",
				Action: func(c *cli.Context) error {
					return handleFolderList()
				},
			},
			{
				Name:      "docs",
				Usage:     "List documents inside a folder",
				ArgsUsage: "[folder-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("folder id is required")
					}
					return handleFolderDocs(c.Args().First())
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a folder (documents inside become uncategorized)",
				ArgsUsage: "[folder-id]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("folder id is required")
					}
					return handleFolderDelete(c.Args().First(), c.Bool("yes"))
				},
			},
		},
	}
}

func handleFolderCreate(name string) error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if strings.TrimSpace(name) == "" {
		prompt := &survey.Input{Message: "Folder name:"}
		if err := survey.AskOne(prompt, &name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	folder, err := app.Client.CreateFolder(strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("could not create folder: %w", err)
	}
	fmt.Printf("✅ Folder %q created (id %d)\n", folder.Name, folder.ID)
	return nil
}

func handleFolderList() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	folders, err := app.Client.ListFolders()
	if err != nil {
		return fmt.Errorf("could not list folders: %w", err)
	}
	if len(folders) == 0 {
		fmt.Println("No folders yet. Create one with 'deepdoc folder create NAME'")
		return nil
	}

	fmt.Printf("%-6s %s\n", "ID", "NAME")
	for _, f := range folders {
		fmt.Printf("%-6d 📁 %s\n", f.ID, f.Name)
	}
	return nil
}

func handleFolderDocs(arg string) error {
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

	docs, err := app.Client.ListFolderDocuments(id)
	if err != nil {
		return fmt.Errorf("could not list folder documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No files in this folder")
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%-6d 📄 %s (%s)\n", d.ID, d.Filename, d.Status)
	}
	return nil
}

func handleFolderDelete(arg string, skipConfirm bool) error {
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

	if !skipConfirm {
		confirm := false
		prompt := &survey.Confirm{
			Message: "Delete this folder? Files inside will NOT be deleted, but they become uncategorized.",
		}
		if err := survey.AskOne(prompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Cancelled")
			return nil
		}
	}

	mgr, err := app.newManager()
	if err != nil {
		return err
	}
	if err := mgr.DeleteFolder(id); err != nil {
		return fmt.Errorf("%s: %w", mgr.CurrentError(), err)
	}
	if err := app.saveActiveContext(mgr.Active()); err != nil {
		return err
	}
	fmt.Println("✅ Folder deleted")
	return nil
}
