package api

import (
	"context"
	"net/http"
	"net/url"
)

// SubmitFeedback posts the feedback form as one JSON payload.
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) (*FeedbackResult, error) {
	var out FeedbackResult
	if err := c.doJSON(ctx, opFeedback, http.MethodPost, "/feedback", fb, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFiles returns the files stored by the backend.
func (c *Client) ListFiles(ctx context.Context) (*FileList, error) {
	var out FileList
	if err := c.doJSON(ctx, opListFiles, http.MethodGet, "/files", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFileInfo returns details about one stored file. The name is escaped as
// a single path segment.
func (c *Client) GetFileInfo(ctx context.Context, filename string) (*FileInfoResult, error) {
	var out FileInfoResult
	if err := c.doJSON(ctx, opGetFileInfo, http.MethodGet, "/files/"+url.PathEscape(filename), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
