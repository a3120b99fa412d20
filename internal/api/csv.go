package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"csvdesk/internal/table"
)

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.doJSON(ctx, opHealth, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFile sends f as the multipart field "file". Files without a CSV media
// type are rejected with ErrNotCSV before any request is made.
func (c *Client) UploadFile(ctx context.Context, f File) (*UploadResult, error) {
	if !f.IsCSV() {
		return nil, fmt.Errorf("%s: %w", opUpload.name, ErrNotCSV)
	}
	if f.Body == nil {
		return nil, fmt.Errorf("%s: file %q has no body", opUpload.name, f.Name)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Name)))
	h.Set("Content-Type", f.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("%s: create form part: %w", opUpload.name, err)
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return nil, fmt.Errorf("%s: copy file: %w", opUpload.name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close form: %w", opUpload.name, err)
	}

	resp, err := c.do(ctx, opUpload, http.MethodPost, "/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out UploadResult
	if err := decodeBody(opUpload, resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze sends the full row set to the backend for analysis.
func (c *Client) Analyze(ctx context.Context, rows []table.Row) (*AnalyzeResult, error) {
	var out AnalyzeResult
	if err := c.doJSON(ctx, opAnalyze, http.MethodPost, "/analyze", csvPayload{CSVData: nonNilRows(rows)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate sends the full row set to the backend for validation.
func (c *Client) Validate(ctx context.Context, rows []table.Row) (*ValidateResult, error) {
	var out ValidateResult
	if err := c.doJSON(ctx, opValidate, http.MethodPost, "/validate", csvPayload{CSVData: nonNilRows(rows)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download serializes rows through the backend and returns the resulting
// file as an opaque blob. Saving it under filename is the caller's job.
func (c *Client) Download(ctx context.Context, rows []table.Row, filename string) ([]byte, error) {
	data, err := json.Marshal(csvPayload{CSVData: nonNilRows(rows), Filename: filename})
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", opDownload.name, err)
	}
	resp, err := c.do(ctx, opDownload, http.MethodPost, "/download", "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Operation: opDownload.name, Err: fmt.Errorf("read response: %w", err)}
	}
	return blob, nil
}

func nonNilRows(rows []table.Row) []table.Row {
	if rows == nil {
		return []table.Row{}
	}
	return rows
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
