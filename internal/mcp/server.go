// Package mcp exposes one long-lived csvdesk session as MCP tools. The server
// holds the auth and working-set state for its lifetime, so an agent can
// log in, upload, inspect and download across several tool calls.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"csvdesk/internal/api"
	"csvdesk/internal/flow"
	"csvdesk/internal/logging"
	"csvdesk/internal/session"
)

// Backend is the subset of the HTTP client the tools call directly, on top
// of what the flows need.
type Backend interface {
	flow.Uploader
	flow.Downloader
	flow.Checker
	flow.FeedbackSubmitter
	flow.Authenticator
	Health(ctx context.Context) (*api.HealthStatus, error)
	ListFiles(ctx context.Context) (*api.FileList, error)
	GetFileInfo(ctx context.Context, filename string) (*api.FileInfoResult, error)
}

// Deps wires a Server to its backend and session state.
type Deps struct {
	Backend Backend
	Auth    *session.Auth
	CSV     *session.WorkingSet
	Saver   flow.Saver
	Version string
}

// Server wraps the MCP SDK server around one set of flows.
type Server struct {
	MCPServer *sdkmcp.Server

	backend Backend
	auth    *session.Auth
	csv     *session.WorkingSet
	nav     *flow.History
	log     *slog.Logger

	upload   *flow.Upload
	preview  *flow.Preview
	analysis *flow.Analysis
	feedback *flow.Feedback
	login    *flow.Login
}

// NewServer builds the server and registers every tool.
func NewServer(d Deps) *Server {
	version := d.Version
	if version == "" {
		version = "dev"
	}
	nav := &flow.History{}
	s := &Server{
		backend:  d.Backend,
		auth:     d.Auth,
		csv:      d.CSV,
		nav:      nav,
		log:      logging.New("mcp"),
		upload:   flow.NewUpload(d.Backend, d.CSV, nav),
		preview:  flow.NewPreview(d.CSV, d.Backend, d.Saver, nav),
		analysis: flow.NewAnalysis(d.Backend, d.CSV),
		feedback: flow.NewFeedback(d.Backend),
		login:    flow.NewLogin(d.Backend, d.Auth, nav),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "csvdesk", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// VerifySession checks a rehydrated token before serving.
func (s *Server) VerifySession(ctx context.Context) error {
	return s.login.VerifySession(ctx)
}

// Shutdown unmounts every flow so late results are dropped.
func (s *Server) Shutdown() {
	s.upload.Unmount()
	s.preview.Unmount()
	s.analysis.Unmount()
	s.feedback.Unmount()
	s.login.Unmount()
}

// Route reports where the last flow sent the user.
func (s *Server) Route() flow.Route { return s.nav.Current() }

// userError turns err into a tool error whose text is what a user should
// see. shown is the message the flow recorded, if any.
func userError(err error, shown string) error {
	if errors.Is(err, flow.ErrBusy) {
		return err
	}
	if shown != "" {
		return errors.New(shown)
	}
	if msg := api.Message(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
