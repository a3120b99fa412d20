package flow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"csvdesk/internal/api"
	"csvdesk/internal/table"
)

// fakeBackend implements every client interface the flows depend on. When
// gate is set every call blocks until it is closed.
type fakeBackend struct {
	mu   sync.Mutex
	gate chan struct{}

	uploadResult *api.UploadResult
	uploadErr    error
	uploadCalls  int

	downloadBlob  []byte
	downloadErr   error
	downloadCalls []string

	analyzeResult  *api.AnalyzeResult
	validateResult *api.ValidateResult
	checkErr       error

	feedbackErr error
	feedbacks   []api.Feedback

	loginResult *api.LoginResult
	loginErr    error
	loginCalls  int
	verify      *api.VerifyResult
	verifyErr   error
}

func (f *fakeBackend) UploadFile(ctx context.Context, _ api.File) (*api.UploadResult, error) {
	f.mu.Lock()
	f.uploadCalls++
	f.mu.Unlock()
	f.hold()
	return f.uploadResult, f.uploadErr
}

func (f *fakeBackend) hold() {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeBackend) Download(_ context.Context, rows []table.Row, filename string) ([]byte, error) {
	f.hold()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadCalls = append(f.downloadCalls, filename)
	return f.downloadBlob, f.downloadErr
}

func (f *fakeBackend) Analyze(context.Context, []table.Row) (*api.AnalyzeResult, error) {
	f.hold()
	return f.analyzeResult, f.checkErr
}

func (f *fakeBackend) Validate(context.Context, []table.Row) (*api.ValidateResult, error) {
	f.hold()
	return f.validateResult, f.checkErr
}

func (f *fakeBackend) SubmitFeedback(_ context.Context, fb api.Feedback) (*api.FeedbackResult, error) {
	f.hold()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbacks = append(f.feedbacks, fb)
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return &api.FeedbackResult{Success: true}, nil
}

func (f *fakeBackend) Login(context.Context, string, string) (*api.LoginResult, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	f.hold()
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) VerifyToken(context.Context, string) (*api.VerifyResult, error) {
	return f.verify, f.verifyErr
}

// memSaver records saved downloads.
type memSaver struct {
	mu    sync.Mutex
	saves map[string][][]byte
	err   error
}

func (s *memSaver) Save(filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.saves == nil {
		s.saves = map[string][][]byte{}
	}
	s.saves[filename] = append(s.saves[filename], append([]byte(nil), data...))
	return nil
}

var errBoom = errors.New("boom")

// apiErrorFor produces a real upload error by running a request against a
// stub server returning status and body.
func apiErrorFor(t *testing.T, status int, body string) error {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.UploadFile(context.Background(), api.File{
		Name:        "stub.csv",
		ContentType: api.CSVMediaType,
		Body:        strings.NewReader("a,b\n1,2\n"),
	})
	if err == nil {
		t.Fatalf("expected error from stub status %d", status)
	}
	return err
}

func csvFile(name string) *api.File {
	return &api.File{Name: name, ContentType: api.CSVMediaType}
}

func sampleRows() []table.Row {
	return []table.Row{
		table.NewRow("name", "Ann", "age", "31"),
		table.NewRow("name", "Bo", "age", "27"),
	}
}
