package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"csvdesk/internal/api"
	"csvdesk/internal/flow"
)

func newLoginCmd(st *rootState) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			l := flow.NewLogin(a.client, a.auth, nil)
			l.SetEmail(email)
			l.SetPassword(password)
			if err := l.Submit(cmd.Context()); err != nil {
				return flowError(err, l.ErrorText())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", displayUser(a.auth.User(), email))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&email, "email", "", "account email")
	f.StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := flow.NewLogin(a.client, a.auth, nil).Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the stored session and show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !a.auth.SignedIn() {
				fmt.Fprintln(out, "Not signed in")
				return nil
			}
			err = flow.NewLogin(a.client, a.auth, nil).VerifySession(cmd.Context())
			switch {
			case err == nil:
				fmt.Fprintf(out, "Signed in as %s\n", displayUser(a.auth.User(), ""))
			case api.IsUnauthorized(err):
				fmt.Fprintln(out, "Session expired; signed out")
			default:
				return fmt.Errorf("verify session: %s", api.Message(err))
			}
			return nil
		},
	}
}

func displayUser(u *api.User, fallback string) string {
	switch {
	case u == nil:
		if fallback == "" {
			return "unknown user"
		}
		return fallback
	case u.Name != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	case u.Email != "":
		return u.Email
	case u.Name != "":
		return u.Name
	default:
		return fmt.Sprintf("user #%d", u.ID)
	}
}

// flowError reports the message the flow recorded for err, which is what a
// user would have seen on screen.
func flowError(err error, shown string) error {
	if errors.Is(err, flow.ErrBusy) || shown == "" {
		if msg := api.Message(err); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return errors.New(shown)
}
