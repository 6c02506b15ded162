package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func NewSetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure the CLI with user authentication",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Register a new user account",
				Action: func(c *cli.Context) error {
					return handleUserRegistration()
				},
			},
			{
				Name:  "login",
				Usage: "Login with existing user credentials",
				Action: func(c *cli.Context) error {
					return handleUserLogin()
				},
			},
			{
				Name:  "logout",
				Usage: "Log out and forget the stored token",
				Action: func(c *cli.Context) error {
					return handleLogout()
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the logged-in account",
				Action: func(c *cli.Context) error {
					return handleWhoami()
				},
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowCommandHelp(c, "setup")
		},
	}
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}

func handleUserRegistration() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	name, err := readLine(reader, "Enter your name: ")
	if err != nil {
		return fmt.Errorf("could not read name: %w", err)
	}
	email, err := readLine(reader, "Enter your email: ")
	if err != nil {
		return fmt.Errorf("could not read email: %w", err)
	}
	password, err := readPassword("Enter your password: ")
	if err != nil {
		return err
	}

	if err := app.Client.Signup(email, password, name); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("✅ Account registered!")
	fmt.Println("💡 Run 'deepdoc setup login' to sign in")
	return nil
}

func handleUserLogin() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	email, err := readLine(reader, "Enter your email: ")
	if err != nil {
		return fmt.Errorf("could not read email: %w", err)
	}
	password, err := readPassword("Enter your password: ")
	if err != nil {
		return err
	}

	resp, err := app.Client.Login(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := app.Session.Establish(resp.AccessToken, resp.User, app.Config); err != nil {
		return fmt.Errorf("could not save credentials: %w", err)
	}

	fmt.Printf("✅ Logged in as %s (%s)\n", resp.User.Name, resp.User.Email)
	return nil
}

func handleLogout() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}

	if err := app.Session.Clear(app.Config); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	fmt.Println("✅ Logged out")
	return nil
}

func handleWhoami() error {
	app, err := loadAppContext()
	if err != nil {
		return err
	}

	if !app.Session.Authenticated() {
		fmt.Println("Not logged in")
		return nil
	}
	user := app.Session.User()
	if user == nil {
		fmt.Println("Logged in (account details unavailable)")
		return nil
	}
	role := "user"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Printf("%s <%s> [%s]\n", user.Name, user.Email, role)
	return nil
}
