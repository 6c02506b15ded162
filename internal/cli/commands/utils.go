package commands

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"

	"github.com/anil29717/DeepDoc/internal/api"
	"github.com/anil29717/DeepDoc/internal/auth"
	"github.com/anil29717/DeepDoc/internal/config"
	"github.com/anil29717/DeepDoc/internal/session"
)

// appContext bundles what nearly every command needs: the loaded config,
// the auth session and an API client wired to it.
type appContext struct {
	Config  *config.Config
	Session *auth.Session
	Client  *api.Client
}

func loadAppContext() (*appContext, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	sess, err := auth.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not load credentials: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, sess.Token())
	client.OnUnauthorized = func() {
		// The token is dead; drop the auth context so the next command
		// prompts for a fresh login.
		_ = sess.Clear(cfg)
	}

	return &appContext{Config: cfg, Session: sess, Client: client}, nil
}

func (a *appContext) requireAuth() error {
	if !a.Session.Authenticated() {
		return fmt.Errorf("not logged in. Run 'deepdoc setup login' first")
	}
	return nil
}

// newManager builds a session manager, bootstraps it and restores the
// persisted context selection.
func (a *appContext) newManager() (*session.Manager, error) {
	return a.newManagerWithProgress(nil)
}

func (a *appContext) newManagerWithProgress(onProgress func(completed, total int)) (*session.Manager, error) {
	opts := []session.Option{session.WithLogger(debugLogger())}
	if onProgress != nil {
		opts = append(opts, session.WithProgressFunc(onProgress))
	}
	m := session.NewManager(a.Client, opts...)
	if err := m.Bootstrap(); err != nil {
		return nil, fmt.Errorf("could not reach backend: %w", err)
	}

	switch a.Config.ActiveContext.Kind {
	case "document":
		if err := m.SelectDocument(a.Config.ActiveContext.ID); err != nil {
			// The saved document is gone; fall back to the default.
			a.Config.ActiveContext = config.ActiveContext{}
		}
	case "folder":
		if err := m.SelectFolder(a.Config.ActiveContext.ID); err != nil {
			a.Config.ActiveContext = config.ActiveContext{}
		}
	case "none":
		m.ClearSelection()
	}
	return m, nil
}

// saveActiveContext persists the manager's selection for the next
// invocation.
func (a *appContext) saveActiveContext(ctx session.Context) error {
	switch ctx.Kind {
	case session.KindDocument:
		a.Config.ActiveContext = config.ActiveContext{Kind: "document", ID: ctx.ID}
	case session.KindFolder:
		a.Config.ActiveContext = config.ActiveContext{Kind: "folder", ID: ctx.ID}
	default:
		a.Config.ActiveContext = config.ActiveContext{Kind: "none"}
	}
	return config.SaveConfig(a.Config)
}

// debugLogger returns a stderr logger when DEEPDOC_DEBUG is set, otherwise
// a silent one. History fetch failures and discarded stale responses go
// here rather than to the user.
func debugLogger() *log.Logger {
	if os.Getenv("DEEPDOC_DEBUG") != "" {
		return log.New(os.Stderr, "deepdoc: ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// renderMarkdown pretty-prints an assistant answer to the terminal,
// falling back to plain text when rendering fails.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
