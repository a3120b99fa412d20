package mockapi

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"csvdesk/internal/api"
	"csvdesk/internal/table"
)

const msgNoCSVData = "No CSV data provided"

type csvRequest struct {
	CSVData  []table.Row `json:"csvData"`
	Filename string      `json:"filename"`
}

type uploadResponse struct {
	api.UploadResult
	Summary     *api.Stats        `json:"summary,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthStatus{Status: "healthy", Message: "CSV mock backend is running"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer f.Close()
	if hdr.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process CSV: %v", err))
		return
	}
	s.uploads.put(hdr.Filename, data, s.now())

	header, rows, err := parseCSV(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process CSV: %v", err))
		return
	}
	sample := rows
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	stats := &api.Stats{
		Filename:   hdr.Filename,
		NumRows:    len(rows),
		NumColumns: len(header),
		Columns:    header,
		Sample:     sample,
	}
	descriptions := describeColumns(header)

	writeJSON(w, http.StatusOK, uploadResponse{
		UploadResult: api.UploadResult{
			Success:            true,
			Message:            "File uploaded successfully",
			Filename:           hdr.Filename,
			Data:               sample,
			Stats:              stats,
			ColumnDescriptions: descriptions,
		},
		Summary:     stats,
		Annotations: descriptions,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCSVRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, api.AnalyzeResult{
		Success: true,
		Analysis: &api.AnalysisReport{
			TotalRows:    len(req.CSVData),
			TotalColumns: req.CSVData[0].Len(),
			Message:      "Analysis completed",
		},
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCSVRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, api.ValidateResult{
		Success: true,
		Validation: &api.ValidationReport{
			HasData:      true,
			TotalRows:    len(req.CSVData),
			TotalColumns: req.CSVData[0].Len(),
			Message:      "Validation completed",
		},
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCSVRequest(w, r)
	if !ok {
		return
	}
	filename := req.Filename
	if filename == "" {
		filename = "processed_data.csv"
	}
	body, err := writeCSV(req.CSVData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, _ = w.Write(body)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb api.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid feedback payload")
		return
	}
	s.mu.Lock()
	s.feedbacks = append(s.feedbacks, fb)
	s.mu.Unlock()
	s.log.Info("feedback received", "purpose", fb.Purpose)
	writeJSON(w, http.StatusOK, api.FeedbackResult{Success: true, Message: "Feedback submitted successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid login payload")
		return
	}
	if req.Email != s.account.Email || req.Password != s.account.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Invalid credentials",
			"error":   "Invalid credentials",
		})
		return
	}
	user := api.User{ID: 1, Email: s.account.Email, Name: s.account.Name}
	writeJSON(w, http.StatusOK, api.LoginResult{
		Success: true,
		Token:   s.issueToken(user),
		User:    &user,
		Message: "Login successful",
	})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "Token is required")
		return
	}
	user, ok := s.lookupToken(req.Token)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, api.VerifyResult{Success: true, User: &user})
}

func (s *Server) handleListFiles(w http.ResponseWriter, _ *http.Request) {
	files := []api.FileEntry{}
	for _, name := range s.uploads.names() {
		u, ok := s.uploads.get(name)
		if !ok {
			continue
		}
		files = append(files, api.FileEntry{
			Filename:   name,
			Size:       int64(len(u.data)),
			UploadedAt: epochSeconds(u.uploadedAt),
		})
	}
	writeJSON(w, http.StatusOK, api.FileList{Success: true, Files: files})
}

func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["filename"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}
	u, ok := s.uploads.get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	header, rows, err := parseCSV(u.data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error getting file info: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, api.FileInfoResult{
		Success: true,
		FileInfo: &api.FileInfo{
			FileEntry: api.FileEntry{
				Filename:   name,
				Size:       int64(len(u.data)),
				UploadedAt: epochSeconds(u.uploadedAt),
			},
			TotalRows:    len(rows),
			TotalColumns: len(header),
			Columns:      header,
		},
	})
}

func decodeCSVRequest(w http.ResponseWriter, r *http.Request) (csvRequest, bool) {
	var req csvRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return req, false
	}
	if len(req.CSVData) == 0 {
		writeError(w, http.StatusBadRequest, msgNoCSVData)
		return req, false
	}
	return req, true
}

// parseCSV reads a header line and records into ordered rows. Short records
// leave trailing columns empty.
func parseCSV(data []byte) ([]string, []table.Row, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("no columns to parse from file")
	}
	header := records[0]
	rows := make([]table.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		var row table.Row
		for i, col := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row.Set(col, v)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// writeCSV serializes rows with the first row's keys as the header.
func writeCSV(rows []table.Row) ([]byte, error) {
	headers := table.Headers(rows)
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(headers); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := cw.Write(table.Project(r, headers)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}
