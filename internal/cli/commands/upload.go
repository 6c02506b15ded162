package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anil29717/DeepDoc/internal/session"
)

func NewUploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload one or more PDF documents",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "folder",
				Usage: "upload into folder `ID` instead of the active context",
			},
		},
		Action: func(c *cli.Context) error {
			var folderID *int
			if c.IsSet("folder") {
				id := c.Int("folder")
				folderID = &id
			}
			return handleUpload(c.Args().Slice(), folderID)
		},
	}
}

func handleUpload(paths []string, folderID *int) error {
	// An empty selection never reaches the pipeline.
	if len(paths) == 0 {
		fmt.Println("Nothing to upload")
		return nil
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("cannot read %s: %w", p, err)
		}
	}

	app, err := loadAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	mgr, err := app.newManagerWithProgress(func(completed, total int) {
		if total > 0 {
			fmt.Printf("⏳ Uploading %d/%d\n", completed, total)
		}
	})
	if err != nil {
		return err
	}

	if err := mgr.UploadBatch(paths, folderID); err != nil {
		if msg := mgr.CurrentError(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	if err := app.saveActiveContext(mgr.Active()); err != nil {
		return err
	}

	fmt.Printf("✅ Uploaded %d file(s)\n", len(paths))
	if active := mgr.Active(); active.Kind == session.KindDocument {
		if doc, ok := mgr.FindDocument(active.ID); ok {
			fmt.Printf("💬 Now chatting with %s. Try 'deepdoc ask \"...\"'\n", doc.Filename)
		}
	}
	return nil
}
