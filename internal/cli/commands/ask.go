package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v2"

	"github.com/anil29717/DeepDoc/internal/session"
)

func NewAskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask a question about the active document or folder",
		ArgsUsage: "[question]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "copy the answer to the clipboard",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "print the raw answer without markdown rendering",
			},
		},
		Action: func(c *cli.Context) error {
			question := strings.Join(c.Args().Slice(), " ")
			return handleAsk(question, c.Bool("copy"), c.Bool("plain"))
		},
	}
}

func handleAsk(question string, copyAnswer, plain bool) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question is required")
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

	answer, err := mgr.Ask(question)
	if err != nil {
		if errors.Is(err, session.ErrNoContext) {
			return fmt.Errorf("no document or folder selected. Use 'deepdoc use doc ID' first")
		}
		if msg := mgr.CurrentError(); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}

	if plain {
		fmt.Println(answer)
	} else {
		fmt.Print(renderMarkdown(answer))
	}

	if copyAnswer {
		if err := clipboard.WriteAll(answer); err != nil {
			fmt.Printf("⚠️  Could not copy to clipboard: %v\n", err)
		} else {
			fmt.Println("📋 Copied to clipboard")
		}
	}
	return nil
}
