package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/anil29717/DeepDoc/internal/models"
)

func NewDocsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Manage your uploaded documents",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all documents",
				Action: func(c *cli.Context) error {
					return handleDocsList()
				},
			},
			{
				Name:      "info",
				Usage:     "Show one document",
				ArgsUsage: "[document-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("document id is required")
					}
					return handleDocsInfo(c.Args().First())
				},
			},
			{
				Name:      "status",
				Usage:     "Show processing status of a document",
				ArgsUsage: "[document-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("document id is required")
					}
					return handleDocsStatus(c.Args().First())
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a document",
				ArgsUsage: "[document-id]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("document id is required")
					}
					return handleDocsDelete(c.Args().First(), c.Bool("yes"))
				},
			},
		},
	}
}

func statusBadge(status models.DocumentStatus) string {
	switch status {
	case models.StatusReady:
		return "✅ READY"
	case models.StatusFailed:
		return "❌ FAILED"
	default:
		return "⏳ PROCESSING"
	}
}

func handleDocsList() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	docs, err := app.Client.ListDocuments()
	if err != nil {
		return fmt.Errorf("could not list documents: %w", err)
	}
	folders, err := app.Client.ListFolders()
	if err != nil {
		return fmt.Errorf("could not list folders: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No documents yet. Upload one with 'deepdoc upload FILE'")
		return nil
	}

	folderNames := make(map[int]string, len(folders))
	for _, f := range folders {
		folderNames[f.ID] = f.Name
	}

	fmt.Printf("%-6s %-40s %-14s %-6s %s\n", "ID", "FILENAME", "STATUS", "PAGES", "FOLDER")
	for _, d := range docs {
		folder := "-"
		if d.FolderID != nil {
			if name, ok := folderNames[*d.FolderID]; ok {
				folder = name
			} else {
				folder = fmt.Sprintf("#%d", *d.FolderID)
			}
		}
		fmt.Printf("%-6d %-40s %-14s %-6d %s\n",
			d.ID, truncateString(d.Filename, 40), statusBadge(d.Status), d.PageCount, folder)
	}
	return nil
}

func handleDocsInfo(arg string) error {
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

	doc, err := app.Client.GetDocument(id)
	if err != nil {
		return fmt.Errorf("could not fetch document: %w", err)
	}

	fmt.Printf("ID:       %d\n", doc.ID)
	fmt.Printf("Filename: %s\n", doc.Filename)
	fmt.Printf("Status:   %s\n", statusBadge(doc.Status))
	fmt.Printf("Pages:    %d\n", doc.PageCount)
	if doc.FolderID != nil {
		fmt.Printf("Folder:   #%d\n", *doc.FolderID)
	}
	return nil
}

func handleDocsStatus(arg string) error {
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

	status, err := app.Client.GetDocumentStatus(id)
	if err != nil {
		return fmt.Errorf("could not fetch status: %w", err)
	}
	fmt.Println(statusBadge(status))
	return nil
}

func handleDocsDelete(arg string, skipConfirm bool) error {
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
		prompt := &survey.Confirm{Message: "Delete this document?"}
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
	if err := mgr.DeleteDocument(id); err != nil {
		return fmt.Errorf("%s: %w", mgr.CurrentError(), err)
	}

	// Deleting the active document clears the selection; keep the saved
	// one in sync.
	if err := app.saveActiveContext(mgr.Active()); err != nil {
		return err
	}
	fmt.Println("✅ Document deleted")
	return nil
}
