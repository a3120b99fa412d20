package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"csvdesk/internal/api"
	"csvdesk/internal/config"
	"csvdesk/internal/logging"
	"csvdesk/internal/session"
	"csvdesk/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

type globalFlags struct {
	configPath string
	apiURL     string
	dbPath     string
	logLevel   string
	logFormat  string
}

// rootState carries the resolved configuration from the root's pre-run to
// the subcommands.
type rootState struct {
	flags globalFlags
	cfg   config.Config
}

func newRootCmd() *cobra.Command {
	st := &rootState{}
	cmd := &cobra.Command{
		Use:   "csvdesk",
		Short: "Upload, preview and annotate CSV files",
		Long: "csvdesk uploads CSV files to the analysis backend, previews them with\n" +
			"column descriptions, downloads the processed result and collects feedback.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&st.flags.configPath, "config", "", "config file (default "+config.DefaultFile+" when present)")
	pf.StringVar(&st.flags.apiURL, "api-url", "", "backend base URL (default "+api.DefaultBaseURL+", env "+config.EnvAPIURL+")")
	pf.StringVar(&st.flags.dbPath, "db", "", "session store path (default "+store.DefaultDBPath+")")
	pf.StringVar(&st.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&st.flags.logFormat, "log-format", "", "log format: text, json")

	cmd.AddCommand(
		newLoginCmd(st),
		newLogoutCmd(st),
		newWhoamiCmd(st),
		newHealthCmd(st),
		newStatusCmd(st),
		newFilesCmd(st),
		newUploadCmd(st),
		newFeedbackCmd(st),
		newServeCmd(st),
	)
	return cmd
}

func (st *rootState) load(cmd *cobra.Command) error {
	cfg, err := config.Load(st.flags.configPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("api-url") {
		cfg.APIURL = st.flags.apiURL
	}
	if f.Changed("db") {
		cfg.DBPath = st.flags.dbPath
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = st.flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = st.flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}

// app is one command's view of the durable session and the backend.
type app struct {
	storage store.Store
	auth    *session.Auth
	client  *api.Client
	csv     *session.WorkingSet
}

func (st *rootState) open() (*app, error) {
	storage, err := store.Open(st.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	auth, err := session.NewAuth(storage)
	if err != nil {
		storage.Close()
		return nil, err
	}
	opts := []api.Option{
		api.WithTokenSource(auth.Token),
		api.WithLogger(logging.New("api")),
	}
	if st.cfg.Timeout > 0 {
		opts = append(opts, api.WithTimeout(st.cfg.Timeout))
	}
	client, err := api.New(st.cfg.APIURL, opts...)
	if err != nil {
		storage.Close()
		return nil, err
	}
	return &app{
		storage: storage,
		auth:    auth,
		client:  client,
		csv:     session.NewWorkingSet(),
	}, nil
}

func (a *app) Close() error { return a.storage.Close() }

// fmtEpoch renders the backend's upload timestamps.
func fmtEpoch(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
