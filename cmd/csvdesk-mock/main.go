// Command csvdesk-mock serves an in-memory stand-in for the CSV analysis
// backend, for demos and local development.
//
// Usage:
//
//	csvdesk-mock [--addr :5000] [--email demo@example.com] [--password demo]
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"csvdesk/internal/config"
	"csvdesk/internal/logging"
	"csvdesk/internal/mockapi"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		email      string
		password   string
		name       string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:          "csvdesk-mock",
		Short:        "Run a mock CSV analysis backend",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Mock.Addr = addr
			}
			if f.Changed("email") {
				cfg.Mock.Email = email
			}
			if f.Changed("password") {
				cfg.Mock.Password = password
			}
			if f.Changed("name") {
				cfg.Mock.Name = name
			}
			if f.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			log, err := logging.Setup(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			mock := mockapi.New(mockapi.Account{
				Email:    cfg.Mock.Email,
				Password: cfg.Mock.Password,
				Name:     cfg.Mock.Name,
			}, mockapi.WithLogger(log.With("component", "mockapi")))

			srv := &http.Server{
				Addr:              cfg.Mock.Addr,
				Handler:           mock.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info("mock backend listening", "addr", cfg.Mock.Addr, "account", cfg.Mock.Email)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (default "+config.DefaultFile+" when present)")
	f.StringVar(&addr, "addr", "", "listen address (default :5000)")
	f.StringVar(&email, "email", "", "accepted login email")
	f.StringVar(&password, "password", "", "accepted login password")
	f.StringVar(&name, "name", "", "display name returned on login")
	f.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}
