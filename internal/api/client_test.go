package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"csvdesk/internal/table"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	client, err := New(server.URL+"/api/", opts...)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://example.test/api/")
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != "http://example.test/api" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}

func TestNew_TimeoutDoesNotMutateSharedClient(t *testing.T) {
	shared := &http.Client{}
	c, err := New("http://example.test/api", WithHTTPClient(shared), WithTimeout(3*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if shared.Timeout != 0 {
		t.Errorf("shared client timeout = %s, want unchanged", shared.Timeout)
	}
	if c.httpClient == shared {
		t.Fatal("client reuses the caller's *http.Client despite a timeout")
	}
	if c.httpClient.Timeout != 3*time.Second {
		t.Errorf("client timeout = %s, want 3s", c.httpClient.Timeout)
	}
}

// --- Upload ---

func TestUploadFile_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "No file part"})
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "people.csv" || header.Header.Get("Content-Type") != "text/csv" {
			t.Errorf("unexpected part: name=%q type=%q", header.Filename, header.Header.Get("Content-Type"))
		}
		if string(body) != "name,age\nAnn,30\n" {
			t.Errorf("unexpected body %q", body)
		}
		io.WriteString(w, `{"success":true,"filename":"people.csv",
			"data":[{"name":"Ann","age":30}],
			"stats":{"filename":"people.csv","num_rows":1,"num_columns":2,"columns":["name","age"]},
			"column_descriptions":{"age":"Age in years."}}`)
	})

	res, err := client.UploadFile(context.Background(), File{
		Name:        "people.csv",
		ContentType: "text/csv",
		Body:        strings.NewReader("name,age\nAnn,30\n"),
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if !res.Success || res.Filename != "people.csv" {
		t.Errorf("unexpected result: %+v", res)
	}
	wantRows := []table.Row{table.NewRow("name", "Ann", "age", "30")}
	if diff := cmp.Diff(wantRows, res.Data); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if res.Stats == nil || res.Stats.NumColumns != 2 {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
	if res.ColumnDescriptions["age"] != "Age in years." {
		t.Errorf("unexpected descriptions: %v", res.ColumnDescriptions)
	}
}

func TestUploadFile_RejectsNonCSVWithoutRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	_, err := client.UploadFile(context.Background(), File{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Body:        strings.NewReader("hi"),
	})
	if !errors.Is(err, ErrNotCSV) {
		t.Fatalf("expected ErrNotCSV, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no HTTP calls, got %d", calls.Load())
	}
}

func TestUploadFile_ErrorField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Failed to process CSV: bad quoting"}`)
	})
	_, err := client.UploadFile(context.Background(), File{Name: "a.csv", ContentType: "text/csv", Body: strings.NewReader("x")})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := Message(err); got != "Failed to process CSV: bad quoting" {
		t.Errorf("Message = %q", got)
	}
	if !HasStatusCode(err, http.StatusInternalServerError) {
		t.Errorf("expected status 500 in %v", err)
	}
}

// --- Failure normalization ---

func TestFailure_DefaultMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"no error field here"}`)
	})
	ctx := context.Background()
	rows := []table.Row{table.NewRow("a", "1")}

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"health", func() error { _, err := client.Health(ctx); return err }, "Health check failed"},
		{"analyze", func() error { _, err := client.Analyze(ctx, rows); return err }, "Analysis failed"},
		{"validate", func() error { _, err := client.Validate(ctx, rows); return err }, "Validation failed"},
		{"download", func() error { _, err := client.Download(ctx, rows, "x.csv"); return err }, "Download failed"},
		{"feedback", func() error { _, err := client.SubmitFeedback(ctx, Feedback{}); return err }, "Feedback submission failed"},
		{"login", func() error { _, err := client.Login(ctx, "a@b.com", "pw"); return err }, "Login failed"},
		{"verify", func() error { _, err := client.VerifyToken(ctx, "t"); return err }, "Token verification failed"},
		{"list files", func() error { _, err := client.ListFiles(ctx); return err }, "Failed to list files"},
		{"file info", func() error { _, err := client.GetFileInfo(ctx, "a.csv"); return err }, "Failed to get file info"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := Message(err); got != tc.want {
				t.Errorf("Message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFailure_NonJSONBodyUsesDefault(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})
	_, err := client.ListFiles(context.Background())
	if got := Message(err); got != "Failed to list files" {
		t.Errorf("Message = %q", got)
	}
}

func TestFailure_NotFoundPredicate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"File not found"}`)
	})
	_, err := client.GetFileInfo(context.Background(), "missing.csv")
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
	if Message(err) != "File not found" {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestFailure_Transport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(url)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Health(context.Background())
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if Message(err) == "" {
		t.Error("expected non-empty transport message")
	}
}

func TestFailure_MalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":tru`)
	})
	_, err := client.Analyze(context.Background(), nil)
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !strings.Contains(Message(err), "decode response") {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestMessage_PlainError(t *testing.T) {
	if Message(nil) != "" {
		t.Error("Message(nil) should be empty")
	}
	if Message(errors.New("boom")) != "boom" {
		t.Error("Message should fall back to Error()")
	}
}

// --- Payloads ---

func TestDownload_SendsRowsAndReturnsBlob(t *testing.T) {
	var received struct {
		CSVData  []table.Row `json:"csvData"`
		Filename string      `json:"filename"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "name,age\r\nAnn,30\r\n")
	})

	rows := []table.Row{table.NewRow("name", "Ann", "age", "30")}
	blob, err := client.Download(context.Background(), rows, "out.csv")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(blob) != "name,age\r\nAnn,30\r\n" {
		t.Errorf("blob = %q", blob)
	}
	if received.Filename != "out.csv" {
		t.Errorf("filename = %q", received.Filename)
	}
	if diff := cmp.Diff(rows, received.CSVData); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_NilRowsSentAsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		io.WriteString(w, `{"success":true,"analysis":{"total_rows":0,"total_columns":0}}`)
	})
	if _, err := client.Analyze(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if string(raw["csvData"]) != "[]" {
		t.Errorf("csvData = %s, want []", raw["csvData"])
	}
}

func TestSubmitFeedback_FieldNames(t *testing.T) {
	var received map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		io.WriteString(w, `{"success":true,"message":"Feedback submitted successfully"}`)
	})
	fb := Feedback{Purpose: "p", Stakeholders: "s", IncorrectFields: "i", Terminology: "t", AdditionalContext: "a"}
	res, err := client.SubmitFeedback(context.Background(), fb)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"purpose": "p", "stakeholders": "s", "incorrectFields": "i", "terminology": "t", "additionalContext": "a"}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if !res.Success {
		t.Error("expected success")
	}
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.com" || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"Invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"success":true,"token":"t","user":{"id":1}}`)
	})
	res, err := client.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	want := &LoginResult{Success: true, Token: "t", User: &User{ID: 1}}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("login mismatch (-want +got):\n%s", diff)
	}

	_, err = client.Login(context.Background(), "a@b.com", "wrong")
	if !IsUnauthorized(err) || Message(err) != "Invalid credentials" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetFileInfo_EscapesName(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		io.WriteString(w, `{"success":true,"file_info":{"filename":"my data.csv","size":12,"uploaded_at":1700000000.5,"total_rows":3,"total_columns":2}}`)
	})
	res, err := client.GetFileInfo(context.Background(), "my data.csv")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/files/my%20data.csv" {
		t.Errorf("path = %q", gotPath)
	}
	if res.FileInfo == nil || res.FileInfo.Filename != "my data.csv" || res.FileInfo.TotalRows != 3 {
		t.Errorf("unexpected info: %+v", res.FileInfo)
	}
	if got := res.FileInfo.UploadedTime().UnixMilli(); got != 1700000000500 {
		t.Errorf("UploadedTime = %d ms", got)
	}
}

func TestHeaders_TokenAndRequestID(t *testing.T) {
	var auth, reqID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-ID")
		io.WriteString(w, `{"status":"healthy"}`)
	}, WithTokenSource(func() string { return "tok-1" }))

	if _, err := client.Health(context.Background()); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", auth)
	}
	if reqID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestHeaders_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		io.WriteString(w, `{"status":"healthy"}`)
	}, WithTokenSource(func() string { return "" }))
	if _, err := client.Health(context.Background()); err != nil {
		t.Fatal(err)
	}
	if auth != "" {
		t.Errorf("Authorization = %q, want empty", auth)
	}
}
