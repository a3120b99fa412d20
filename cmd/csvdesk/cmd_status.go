package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"csvdesk/internal/api"
)

func newHealthCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %s", a.client.BaseURL(), api.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n", h.Status)
			if h.Message != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Message: %s\n", h.Message)
			}
			return nil
		},
	}
}

func newStatusCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend health, session and stored files at once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				health    *api.HealthStatus
				healthErr error
				verify    *api.VerifyResult
				verifyErr error
				files     *api.FileList
				filesErr  error
			)
			token := a.auth.Token()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				health, healthErr = a.client.Health(ctx)
				return nil
			})
			if token != "" {
				g.Go(func() error {
					verify, verifyErr = a.client.VerifyToken(ctx, token)
					return nil
				})
			}
			g.Go(func() error {
				files, filesErr = a.client.ListFiles(ctx)
				return nil
			})
			_ = g.Wait()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API:      %s\n", a.client.BaseURL())
			if healthErr != nil {
				fmt.Fprintf(out, "Backend:  unreachable (%s)\n", api.Message(healthErr))
			} else {
				fmt.Fprintf(out, "Backend:  %s\n", health.Status)
			}

			switch {
			case token == "":
				fmt.Fprintln(out, "Session:  not signed in")
			case verifyErr != nil && api.IsUnauthorized(verifyErr):
				fmt.Fprintln(out, "Session:  expired (run 'csvdesk login')")
			case verifyErr != nil:
				fmt.Fprintf(out, "Session:  unverified (%s)\n", api.Message(verifyErr))
			default:
				fmt.Fprintf(out, "Session:  %s\n", displayUser(verify.User, "signed in"))
			}

			if filesErr != nil {
				fmt.Fprintf(out, "Files:    unavailable (%s)\n", api.Message(filesErr))
			} else {
				fmt.Fprintf(out, "Files:    %d stored\n", len(files.Files))
			}
			return nil
		},
	}
}
