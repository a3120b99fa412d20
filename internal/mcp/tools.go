package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"csvdesk/internal/api"
	"csvdesk/internal/flow"
	"csvdesk/internal/render"
)

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "login",
		Description: "Sign in with email and password. The token is persisted for later sessions.",
	}, s.handleLogin)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "logout",
		Description: "Sign out and erase the persisted token.",
	}, s.handleLogout)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "whoami",
		Description: "Report whether a session is signed in and for which user.",
	}, s.handleWhoami)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "health",
		Description: "Check that the backend is reachable.",
	}, s.handleHealth)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "upload_csv",
		Description: "Upload a local CSV file. On success it becomes the working set shown by preview.",
	}, s.handleUploadCSV)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "preview",
		Description: "Render the working set as a table, with the open column description if any.",
	}, s.handlePreview)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "toggle_description",
		Description: "Open a column's description panel, or close it if it is already open. At most one panel is open.",
	}, s.handleToggleDescription)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "describe_column",
		Description: "Look up a column's description without changing the open panel.",
	}, s.handleDescribeColumn)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "download_csv",
		Description: "Download the processed working set as CSV and save it locally.",
	}, s.handleDownloadCSV)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze",
		Description: "Ask the backend to analyze the working set.",
	}, s.handleAnalyze)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate",
		Description: "Ask the backend to validate the working set.",
	}, s.handleValidate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "submit_feedback",
		Description: "Submit the five-field feedback form. Empty fields are allowed.",
	}, s.handleSubmitFeedback)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_files",
		Description: "List files stored by the backend.",
	}, s.handleListFiles)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "file_info",
		Description: "Show details about one stored file.",
	}, s.handleFileInfo)
}

// --- Tool input/output types ---

type emptyInput struct{}

type loginInput struct {
	Email    string `json:"email" jsonschema:"account email"`
	Password string `json:"password" jsonschema:"account password"`
}

type authOutput struct {
	SignedIn bool      `json:"signed_in"`
	User     *api.User `json:"user,omitempty"`
	Route    string    `json:"route,omitempty"`
}

type healthOutput struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type uploadInput struct {
	Path string `json:"path" jsonschema:"path to a local .csv file"`
}

type uploadOutput struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Headers  []string `json:"headers"`
	State    string   `json:"state"`
	Route    string   `json:"route"`
}

type previewInput struct {
	Markdown bool `json:"markdown,omitempty" jsonschema:"render as a Markdown table instead of ASCII"`
}

type previewOutput struct {
	HasData    bool     `json:"has_data"`
	Filename   string   `json:"filename,omitempty"`
	Headers    []string `json:"headers,omitempty"`
	OpenHeader string   `json:"open_header,omitempty"`
	Text       string   `json:"text"`
}

type headerInput struct {
	Header string `json:"header" jsonschema:"column header, case-sensitive"`
}

type descriptionOutput struct {
	Header      string `json:"header"`
	Open        bool   `json:"open"`
	Description string `json:"description,omitempty"`
}

type downloadOutput struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
}

type analyzeOutput struct {
	TotalRows    int    `json:"total_rows"`
	TotalColumns int    `json:"total_columns"`
	Message      string `json:"message,omitempty"`
}

type validateOutput struct {
	HasData      bool   `json:"has_data"`
	TotalRows    int    `json:"total_rows"`
	TotalColumns int    `json:"total_columns"`
	Message      string `json:"message,omitempty"`
}

type feedbackInput struct {
	Purpose           string `json:"purpose,omitempty" jsonschema:"what the data is used for"`
	Stakeholders      string `json:"stakeholders,omitempty" jsonschema:"who relies on the data"`
	IncorrectFields   string `json:"incorrectFields,omitempty" jsonschema:"fields that look wrong"`
	Terminology       string `json:"terminology,omitempty" jsonschema:"domain terms worth knowing"`
	AdditionalContext string `json:"additionalContext,omitempty" jsonschema:"anything else"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type fileEntry struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadedAt string `json:"uploaded_at"`
}

type listFilesOutput struct {
	Files []fileEntry `json:"files"`
}

type fileInfoInput struct {
	Filename string `json:"filename" jsonschema:"stored file name"`
}

type fileInfoOutput struct {
	Filename     string   `json:"filename"`
	Size         int64    `json:"size"`
	UploadedAt   string   `json:"uploaded_at"`
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
	Columns      []string `json:"columns,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleLogin(ctx context.Context, _ *sdkmcp.CallToolRequest, in loginInput) (*sdkmcp.CallToolResult, authOutput, error) {
	s.login.SetEmail(in.Email)
	s.login.SetPassword(in.Password)
	if err := s.login.Submit(ctx); err != nil {
		return nil, authOutput{}, userError(err, s.login.ErrorText())
	}
	snap := s.auth.Snapshot()
	return nil, authOutput{SignedIn: snap.SignedIn, User: snap.User, Route: string(s.Route())}, nil
}

func (s *Server) handleLogout(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, authOutput, error) {
	if err := s.login.Logout(); err != nil {
		return nil, authOutput{}, err
	}
	return nil, authOutput{SignedIn: false, Route: string(s.Route())}, nil
}

func (s *Server) handleWhoami(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, authOutput, error) {
	snap := s.auth.Snapshot()
	return nil, authOutput{SignedIn: snap.SignedIn, User: snap.User}, nil
}

func (s *Server) handleHealth(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, healthOutput, error) {
	h, err := s.backend.Health(ctx)
	if err != nil {
		return nil, healthOutput{}, userError(err, "")
	}
	return nil, healthOutput{Status: h.Status, Message: h.Message}, nil
}

func (s *Server) handleUploadCSV(ctx context.Context, _ *sdkmcp.CallToolRequest, in uploadInput) (*sdkmcp.CallToolResult, uploadOutput, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, uploadOutput{}, fmt.Errorf("path is required")
	}
	f, err := api.ReadFile(in.Path)
	if err != nil {
		return nil, uploadOutput{}, err
	}
	if err := s.upload.HandleFile(ctx, &f); err != nil {
		return nil, uploadOutput{}, userError(err, s.upload.ErrorText())
	}
	state, _ := s.upload.State()
	return nil, uploadOutput{
		Filename: s.csv.FileName(),
		Rows:     s.csv.Len(),
		Headers:  s.preview.Headers(),
		State:    state.String(),
		Route:    string(s.Route()),
	}, nil
}

func (s *Server) handlePreview(_ context.Context, _ *sdkmcp.CallToolRequest, in previewInput) (*sdkmcp.CallToolResult, previewOutput, error) {
	mode := render.ASCII
	if in.Markdown {
		mode = render.Markdown
	}
	var b strings.Builder
	if err := s.preview.Render(&b, mode); err != nil {
		return nil, previewOutput{}, err
	}
	open, _ := s.preview.Visible()
	return nil, previewOutput{
		HasData:    s.preview.HasData(),
		Filename:   s.csv.FileName(),
		Headers:    s.preview.Headers(),
		OpenHeader: open,
		Text:       b.String(),
	}, nil
}

func (s *Server) handleToggleDescription(_ context.Context, _ *sdkmcp.CallToolRequest, in headerInput) (*sdkmcp.CallToolResult, descriptionOutput, error) {
	if in.Header == "" {
		return nil, descriptionOutput{}, fmt.Errorf("header is required")
	}
	s.preview.Toggle(in.Header)
	open, ok := s.preview.Visible()
	out := descriptionOutput{Header: in.Header, Open: ok && open == in.Header}
	if out.Open {
		out.Description = s.preview.Describe(in.Header)
	}
	return nil, out, nil
}

func (s *Server) handleDescribeColumn(_ context.Context, _ *sdkmcp.CallToolRequest, in headerInput) (*sdkmcp.CallToolResult, descriptionOutput, error) {
	open, _ := s.preview.Visible()
	return nil, descriptionOutput{
		Header:      in.Header,
		Open:        open == in.Header && in.Header != "",
		Description: s.preview.Describe(in.Header),
	}, nil
}

func (s *Server) handleDownloadCSV(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, downloadOutput, error) {
	if err := s.preview.Download(ctx); err != nil {
		shown := s.preview.Alert()
		s.preview.DismissAlert()
		return nil, downloadOutput{}, userError(err, shown)
	}
	return nil, downloadOutput{Filename: s.preview.FileName(), Rows: s.csv.Len()}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, analyzeOutput, error) {
	r, err := s.analysis.Analyze(ctx)
	if err != nil {
		return nil, analyzeOutput{}, userError(err, s.analysis.ErrorText())
	}
	return nil, analyzeOutput{TotalRows: r.TotalRows, TotalColumns: r.TotalColumns, Message: r.Message}, nil
}

func (s *Server) handleValidate(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, validateOutput, error) {
	r, err := s.analysis.Validate(ctx)
	if err != nil {
		return nil, validateOutput{}, userError(err, s.analysis.ErrorText())
	}
	return nil, validateOutput{HasData: r.HasData, TotalRows: r.TotalRows, TotalColumns: r.TotalColumns, Message: r.Message}, nil
}

func (s *Server) handleSubmitFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in feedbackInput) (*sdkmcp.CallToolResult, messageOutput, error) {
	s.feedback.SetForm(api.Feedback(in))
	err := s.feedback.Submit(ctx)
	msg, _ := s.feedback.Message()
	if err != nil {
		if errors.Is(err, flow.ErrBusy) {
			return nil, messageOutput{}, err
		}
		return nil, messageOutput{}, errors.New(msg)
	}
	return nil, messageOutput{Message: msg}, nil
}

func (s *Server) handleListFiles(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, listFilesOutput, error) {
	list, err := s.backend.ListFiles(ctx)
	if err != nil {
		return nil, listFilesOutput{}, userError(err, "")
	}
	out := listFilesOutput{Files: make([]fileEntry, 0, len(list.Files))}
	for _, f := range list.Files {
		out.Files = append(out.Files, toFileEntry(f))
	}
	return nil, out, nil
}

func (s *Server) handleFileInfo(ctx context.Context, _ *sdkmcp.CallToolRequest, in fileInfoInput) (*sdkmcp.CallToolResult, fileInfoOutput, error) {
	if in.Filename == "" {
		return nil, fileInfoOutput{}, fmt.Errorf("filename is required")
	}
	res, err := s.backend.GetFileInfo(ctx, in.Filename)
	if err != nil {
		return nil, fileInfoOutput{}, userError(err, "")
	}
	if res.FileInfo == nil {
		return nil, fileInfoOutput{}, fmt.Errorf("no info returned for %s", in.Filename)
	}
	entry := toFileEntry(res.FileInfo.FileEntry)
	return nil, fileInfoOutput{
		Filename:     entry.Filename,
		Size:         entry.Size,
		UploadedAt:   entry.UploadedAt,
		TotalRows:    res.FileInfo.TotalRows,
		TotalColumns: res.FileInfo.TotalColumns,
		Columns:      res.FileInfo.Columns,
	}, nil
}

func toFileEntry(f api.FileEntry) fileEntry {
	return fileEntry{
		Filename:   f.Filename,
		Size:       f.Size,
		UploadedAt: f.UploadedTime().Format(time.RFC3339),
	}
}
