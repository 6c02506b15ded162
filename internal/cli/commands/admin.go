package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func NewAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrative operations (admin accounts only)",
		Subcommands: []*cli.Command{
			{
				Name:   "users",
				Usage:  "List all accounts",
				Action: func(c *cli.Context) error { return handleAdminUsers() },
			},
			{
				Name:   "documents",
				Usage:  "List documents across all accounts",
				Action: func(c *cli.Context) error { return handleAdminDocuments() },
			},
			{
				Name:      "toggle-user",
				Usage:     "Activate or deactivate an account",
				ArgsUsage: "[user-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("user id is required")
					}
					return handleAdminToggleUser(c.Args().First())
				},
			},
			{
				Name:      "upload-for",
				Usage:     "Upload a document on behalf of another account",
				ArgsUsage: "[user-id] [file]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("usage: deepdoc admin upload-for USER_ID FILE")
					}
					return handleAdminUploadFor(c.Args().Get(0), c.Args().Get(1))
				},
			},
		},
	}
}

func loadAdminContext() (*appContext, error) {
	app, err := loadAppContext()
	if err != nil {
		return nil, err
	}
	if err := app.requireAuth(); err != nil {
		return nil, err
	}
	if !app.Session.IsAdmin() {
		return nil, fmt.Errorf("this command requires an admin account")
	}
	return app, nil
}

func handleAdminUsers() error {
	app, err := loadAdminContext()
	if err != nil {
		return err
	}

	users, err := app.Client.AdminListUsers()
	if err != nil {
		return fmt.Errorf("could not list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	fmt.Printf("%-5s %-30s %-25s %-8s %-6s\n", "ID", "EMAIL", "NAME", "ACTIVE", "ADMIN")
	for _, u := range users {
		fmt.Printf("%-5d %-30s %-25s %-8t %-6t\n",
			u.ID, truncateString(u.Email, 30), truncateString(u.Name, 25), u.IsActive, u.IsAdmin)
	}
	return nil
}

func handleAdminDocuments() error {
	app, err := loadAdminContext()
	if err != nil {
		return err
	}

	docs, err := app.Client.AdminListDocuments()
	if err != nil {
		return fmt.Errorf("could not list documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	fmt.Printf("%-5s %-6s %-40s %-12s\n", "ID", "OWNER", "FILENAME", "STATUS")
	for _, d := range docs {
		fmt.Printf("%-5d %-6d %-40s %-12s\n",
			d.ID, d.UserID, truncateString(d.Filename, 40), statusBadge(d.Status))
	}
	return nil
}

func handleAdminToggleUser(arg string) error {
	userID, err := parseID(arg)
	if err != nil {
		return err
	}

	app, err := loadAdminContext()
	if err != nil {
		return err
	}

	users, err := app.Client.AdminListUsers()
	if err != nil {
		return fmt.Errorf("could not look up user: %w", err)
	}
	var active, found bool
	for _, u := range users {
		if u.ID == userID {
			active = u.IsActive
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("user %d not found", userID)
	}

	if err := app.Client.AdminSetUserStatus(userID, !active); err != nil {
		return fmt.Errorf("could not update user: %w", err)
	}
	if active {
		fmt.Printf("✅ User %d deactivated\n", userID)
	} else {
		fmt.Printf("✅ User %d activated\n", userID)
	}
	return nil
}

func handleAdminUploadFor(userArg, path string) error {
	userID, err := parseID(userArg)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	app, err := loadAdminContext()
	if err != nil {
		return err
	}

	doc, err := app.Client.AdminUploadForUser(path, userID)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	fmt.Printf("✅ Uploaded %s for user %d (document %d, %s)\n",
		doc.Filename, userID, doc.ID, statusBadge(doc.Status))
	return nil
}
