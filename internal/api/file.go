package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// CSVMediaType is the only media type UploadFile accepts.
const CSVMediaType = "text/csv"

// File is a named, typed file handle ready for upload.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// IsCSV reports whether the file's media type is text/csv. Parameters such
// as charset are ignored.
func (f File) IsCSV() bool {
	mt, _, err := mime.ParseMediaType(f.ContentType)
	return err == nil && mt == CSVMediaType
}

// ReadFile loads path into a File, typing it by extension.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read upload file: %w", err)
	}
	name := filepath.Base(path)
	return File{
		Name:        name,
		ContentType: DetectContentType(name),
		Body:        bytes.NewReader(data),
	}, nil
}

// DetectContentType types a file name the way a browser types a dropped file:
// by extension, with application/octet-stream for unknown extensions.
func DetectContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".csv" {
		return CSVMediaType
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
