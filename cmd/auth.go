package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"studysync/internal/shared"
)

// Login exchanges credentials for a session and stores the token pair.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.readLine("Password: "); err != nil {
			return err
		}
	}

	if _, err := r.session(); err != nil {
		return err
	}

	token, err := r.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := r.tokens.Login(token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	r.logger.Info("login successful", "email", email)
	return r.writePlain("✓ Logged in as %s\n", email)
}

// Signup registers a new account, then directs the user to log in.
func (r *Runner) Signup(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.readLine("Password: "); err != nil {
			return err
		}
	}

	if err := r.api.Signup(ctx, email, password); err != nil {
		return err
	}

	r.writePlain("✓ Account created\n")
	return r.writePlain("Run 'studysync login %s' to sign in\n", email)
}

// Logout clears the stored session.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(); err != nil {
		return err
	}

	if err := r.tokens.Logout(); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}

// Whoami reports whether a session is stored, without validating it against
// the server.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.session(); err != nil {
		return err
	}

	if _, err := r.tokens.AccessToken(); err != nil {
		return r.writePlain("✗ Not logged in\n")
	}

	return r.writePlain("✓ Session active\n")
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the session tokens",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "email"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (prompted when omitted)",
			},
		},
		Action: r.Login,
	}
}

func signupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create a new account",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "email"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (prompted when omitted)",
			},
		},
		Action: r.Signup,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Clear the stored session",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show session status",
		Action: r.Whoami,
	}
}
