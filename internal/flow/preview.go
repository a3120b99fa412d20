package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"csvdesk/internal/logging"
	"csvdesk/internal/render"
	"csvdesk/internal/session"
	"csvdesk/internal/table"
)

const (
	DefaultDownloadName = "processed_data.csv"
	MsgDownloadFailed   = "Download failed. Please try again."
	MsgNoData           = "No CSV data loaded."
)

// Downloader fetches the processed CSV for a set of rows.
type Downloader interface {
	Download(ctx context.Context, rows []table.Row, filename string) ([]byte, error)
}

// Saver hands a downloaded blob to the user.
type Saver interface {
	Save(filename string, data []byte) error
}

// DirSaver writes downloads into Dir, keeping only the base name.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(filename string, data []byte) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save download: %w", err)
	}
	return nil
}

// Preview shows the working set as a table with per-header description
// panels, and downloads the processed file.
type Preview struct {
	lifecycle

	csv    *session.WorkingSet
	client Downloader
	saver  Saver
	nav    Navigator
	log    *slog.Logger
	guard  *inflight

	mu    sync.Mutex
	open  string
	alert string
}

func NewPreview(csv *session.WorkingSet, client Downloader, saver Saver, nav Navigator) *Preview {
	return &Preview{
		csv:    csv,
		client: client,
		saver:  saver,
		nav:    navigatorOrNop(nav),
		log:    logging.New("preview"),
		guard:  newInflight(),
	}
}

// HasData reports whether there is at least one row to show.
func (p *Preview) HasData() bool { return p.csv.Len() > 0 }

// Headers returns the first row's keys in order.
func (p *Preview) Headers() []string { return table.Headers(p.csv.Rows()) }

// Describe resolves header's description.
func (p *Preview) Describe(header string) string { return Describe(p.csv, header) }

// Toggle opens header's description panel, closing any other. Toggling the
// open header closes it.
func (p *Preview) Toggle(header string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open == header {
		p.open = ""
		return
	}
	p.open = header
}

// Visible returns the header whose panel is open.
func (p *Preview) Visible() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open, p.open != ""
}

// FileName is the name the download is saved under.
func (p *Preview) FileName() string {
	if name := p.csv.FileName(); name != "" {
		return name
	}
	return DefaultDownloadName
}

// Download asks the backend for the processed CSV and saves it. The working
// set is never modified. On failure the alert is set and the error returned.
func (p *Preview) Download(ctx context.Context) error {
	if !p.guard.begin() {
		return ErrBusy
	}
	defer p.guard.end()

	rows := p.csv.Rows()
	if len(rows) == 0 {
		return invalid(MsgNoData)
	}
	filename := p.FileName()

	blob, err := p.client.Download(ctx, rows, filename)
	if err == nil {
		err = p.saver.Save(filename, blob)
	}
	if err != nil {
		p.log.Warn("download failed", "filename", filename, "error", err)
		if p.Mounted() {
			p.setAlert(MsgDownloadFailed)
		}
		return err
	}
	p.log.Info("download saved", "filename", filename, "size", render.FmtBytes(int64(len(blob))))
	return nil
}

// Downloading reports whether a download is in flight.
func (p *Preview) Downloading() bool { return p.guard.busy() }

// Alert returns the pending alert text, if any.
func (p *Preview) Alert() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alert
}

// DismissAlert clears the pending alert.
func (p *Preview) DismissAlert() { p.setAlert("") }

func (p *Preview) setAlert(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alert = msg
}

// Back returns to the upload view.
func (p *Preview) Back() { p.nav.Navigate(RouteUpload) }

// Finalize moves on to the success view.
func (p *Preview) Finalize() { p.nav.Navigate(RouteSuccess) }

// View builds the render model: every row projected onto the headers, plus
// the open panel's description.
func (p *Preview) View() render.Preview {
	snap := p.csv.Snapshot()
	headers := table.Headers(snap.Rows)
	cells := make([][]string, len(snap.Rows))
	for i, r := range snap.Rows {
		cells[i] = table.Project(r, headers)
	}
	v := render.Preview{
		Caption: snap.FileName,
		Headers: headers,
		Cells:   cells,
	}
	if open, ok := p.Visible(); ok {
		v.OpenHeader = open
		v.Description = p.Describe(open)
	}
	return v
}

// Render draws the preview to w.
func (p *Preview) Render(w io.Writer, mode render.Mode) error {
	return render.RenderPreview(w, p.View(), mode)
}
