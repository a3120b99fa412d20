package flow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"csvdesk/internal/api"
	"csvdesk/internal/logging"
	"csvdesk/internal/session"
	"csvdesk/internal/table"
)

const (
	MsgInvalidCSV   = "Please upload a valid CSV file."
	MsgUploadFailed = "Upload failed. Please try again."
)

// UploadState is the upload view's state.
type UploadState int

const (
	UploadIdle UploadState = iota
	UploadInProgress
	UploadDone
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadInProgress:
		return "uploading"
	case UploadDone:
		return "idle-with-data"
	case UploadFailed:
		return "idle-with-error"
	default:
		return "unknown"
	}
}

// Uploader sends a file to the backend.
type Uploader interface {
	UploadFile(ctx context.Context, f api.File) (*api.UploadResult, error)
}

// Upload accepts one CSV file, sends it and, on success, replaces the
// working set and moves on to the preview.
type Upload struct {
	lifecycle

	client Uploader
	csv    *session.WorkingSet
	nav    Navigator
	log    *slog.Logger
	guard  *inflight

	mu     sync.Mutex
	state  UploadState
	errMsg string
}

func NewUpload(client Uploader, csv *session.WorkingSet, nav Navigator) *Upload {
	return &Upload{
		client: client,
		csv:    csv,
		nav:    navigatorOrNop(nav),
		log:    logging.New("upload"),
		guard:  newInflight(),
	}
}

// HandleFile uploads f. Files that are not text/csv are rejected before any
// request is made.
func (u *Upload) HandleFile(ctx context.Context, f *api.File) error {
	if !u.guard.begin() {
		return ErrBusy
	}
	defer u.guard.end()

	if f == nil || !f.IsCSV() {
		u.set(UploadFailed, MsgInvalidCSV)
		return invalid(MsgInvalidCSV)
	}

	u.set(UploadInProgress, "")
	u.log.Info("uploading file", "name", f.Name)

	res, err := u.client.UploadFile(ctx, *f)
	if err == nil && !res.Success {
		err = errors.New(MsgUploadFailed)
	}
	if err != nil {
		u.log.Warn("upload failed", "name", f.Name, "error", err)
		if u.Mounted() {
			msg := api.Message(err)
			if msg == "" {
				msg = MsgUploadFailed
			}
			u.set(UploadFailed, msg)
		}
		return err
	}

	if issues := table.CheckShape(res.Data); len(issues) > 0 {
		u.log.Warn("uploaded rows differ in shape", "rows", len(res.Data), "irregular", len(issues))
	}
	// The working set outlives the view; only view state is skipped once
	// unmounted.
	u.csv.Replace(res.Filename, res.Data, res.Stats, res.ColumnDescriptions)
	u.log.Info("upload complete", "filename", res.Filename, "rows", len(res.Data))
	if !u.Mounted() {
		return nil
	}
	u.set(UploadDone, "")
	u.nav.Navigate(RoutePreview)
	return nil
}

// State returns the current state and error message.
func (u *Upload) State() (UploadState, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state, u.errMsg
}

// ErrorText returns the current error message, empty when there is none.
func (u *Upload) ErrorText() string {
	_, msg := u.State()
	return msg
}

func (u *Upload) set(s UploadState, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = s
	u.errMsg = msg
}
