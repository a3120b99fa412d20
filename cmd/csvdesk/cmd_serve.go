package main

import (
	"context"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"csvdesk/internal/api"
	"csvdesk/internal/flow"
	"csvdesk/internal/logging"
	mcpserver "csvdesk/internal/mcp"
)

func newServeCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout. The server keeps one session
alive for its whole lifetime, so an agent can log in, upload a file, inspect
its columns and download the result across several tool calls.

The server exits when its parent process goes away.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			srv := mcpserver.NewServer(mcpserver.Deps{
				Backend: a.client,
				Auth:    a.auth,
				CSV:     a.csv,
				Saver:   flow.DirSaver{Dir: st.cfg.DownloadDir},
				Version: version,
			})
			defer srv.Shutdown()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			logger := logging.New("mcp")
			if err := srv.VerifySession(ctx); err != nil {
				logger.Warn("stored session not verified", "error", api.Message(err))
			}
			mcpserver.WatchParent(ctx, cancel)

			logger.Info("starting csvdesk MCP server over stdio", "api", a.client.BaseURL())
			return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
		},
	}
}
