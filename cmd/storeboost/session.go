package main

import (
	"errors"
	"fmt"

	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/platform/filestore"
	"github.com/phrazzld/storeboost-api/internal/service"
	"github.com/phrazzld/storeboost-api/internal/store"
	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in: run 'storeboost signup' or 'storeboost login' first")

func (c *cli) signupCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Start a Free session with 10 credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.startSession(cmd, "signup", email)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email for the session (default "+service.DefaultSignupEmail+")")
	return cmd
}

func (c *cli) loginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a Growth session with 84 of 100 credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.startSession(cmd, "login", email)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email for the session (default "+service.DefaultLoginEmail+")")
	return cmd
}

func (c *cli) startSession(cmd *cobra.Command, kind, email string) error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	sessions, err := service.NewSessionService(st, nil, nil, c.logger)
	if err != nil {
		return err
	}

	create := sessions.Signup
	if kind == "login" {
		create = sessions.Login
	}
	session, err := create(cmd.Context(), email)
	if err != nil {
		return err
	}

	if c.jsonOut {
		return printJSON(cmd.OutOrStdout(), session.User)
	}
	u := session.User
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s plan, %d/%d credits)\n",
		u.Email, u.Plan, u.CreditsRemaining, u.TotalCredits)
	return nil
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and keep the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			if err := st.ClearSession(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) balanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the session's remaining credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			user, err := currentUser(cmd, st)
			if err != nil {
				return err
			}
			balance := user.Balance()
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), balance)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d credits remaining (%s plan)\n",
				user.Email, balance.CreditsRemaining, balance.TotalCredits, user.Plan)
			return nil
		},
	}
}

func currentUser(cmd *cobra.Command, st *filestore.Store) (*domain.User, error) {
	user, err := st.Current(cmd.Context())
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, errNotSignedIn
	}
	return user, err
}
