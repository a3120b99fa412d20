package flow

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvdesk/internal/render"
	"csvdesk/internal/session"
	"csvdesk/internal/table"
)

func loadedSet(name string, descriptions map[string]string) *session.WorkingSet {
	csv := session.NewWorkingSet()
	csv.Replace(name, sampleRows(), nil, descriptions)
	return csv
}

func TestDescribe_PriorityOrder(t *testing.T) {
	csv := loadedSet("p.csv", map[string]string{"age": "Custom", "blank": ""})

	tests := []struct {
		header string
		want   string
	}{
		{"age", "Custom"},
		{"email", "User email address."},
		{"street", "The street name or location info."},
		{"Age", MsgNoDescription},
		{"blank", MsgNoDescription},
		{"unknown", MsgNoDescription},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Describe(csv, tc.header), "header %q", tc.header)
	}
}

func TestPreview_ToggleKeepsAtMostOnePanelOpen(t *testing.T) {
	p := NewPreview(loadedSet("p.csv", nil), &fakeBackend{}, &memSaver{}, nil)

	_, ok := p.Visible()
	assert.False(t, ok)

	p.Toggle("name")
	open, _ := p.Visible()
	assert.Equal(t, "name", open)

	p.Toggle("age")
	open, _ = p.Visible()
	assert.Equal(t, "age", open)

	p.Toggle("age")
	_, ok = p.Visible()
	assert.False(t, ok)
}

func TestPreview_HeadersAndHasData(t *testing.T) {
	p := NewPreview(loadedSet("p.csv", nil), &fakeBackend{}, &memSaver{}, nil)
	assert.True(t, p.HasData())
	assert.Equal(t, []string{"name", "age"}, p.Headers())

	empty := NewPreview(session.NewWorkingSet(), &fakeBackend{}, &memSaver{}, nil)
	assert.False(t, empty.HasData())
	assert.Empty(t, empty.Headers())

	var buf bytes.Buffer
	require.NoError(t, empty.Render(&buf, render.ASCII))
	assert.Equal(t, render.NoDataMessage+"\n", buf.String())
}

func TestPreview_DownloadTwiceSavesTwiceWithoutMutation(t *testing.T) {
	csv := loadedSet("people.csv", map[string]string{"age": "Years"})
	before := csv.Snapshot()
	backend := &fakeBackend{downloadBlob: []byte("name,age\nAnn,31\n")}
	saver := &memSaver{}
	p := NewPreview(csv, backend, saver, nil)

	require.NoError(t, p.Download(context.Background()))
	require.NoError(t, p.Download(context.Background()))

	assert.Equal(t, []string{"people.csv", "people.csv"}, backend.downloadCalls)
	require.Len(t, saver.saves["people.csv"], 2)
	assert.Equal(t, saver.saves["people.csv"][0], saver.saves["people.csv"][1])
	assert.Empty(t, p.Alert())
	if diff := cmp.Diff(before, csv.Snapshot()); diff != "" {
		t.Errorf("working set changed (-before +after):\n%s", diff)
	}
}

func TestPreview_DownloadDefaultFilename(t *testing.T) {
	backend := &fakeBackend{downloadBlob: []byte("x")}
	p := NewPreview(loadedSet("", nil), backend, &memSaver{}, nil)

	require.NoError(t, p.Download(context.Background()))
	assert.Equal(t, []string{DefaultDownloadName}, backend.downloadCalls)
}

func TestPreview_DownloadFailureSetsAlert(t *testing.T) {
	csv := loadedSet("people.csv", nil)
	before := csv.Snapshot()
	p := NewPreview(csv, &fakeBackend{downloadErr: errBoom}, &memSaver{}, nil)

	err := p.Download(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, MsgDownloadFailed, p.Alert())
	assert.False(t, p.Downloading())
	if diff := cmp.Diff(before, csv.Snapshot()); diff != "" {
		t.Errorf("working set changed (-before +after):\n%s", diff)
	}

	p.DismissAlert()
	assert.Empty(t, p.Alert())
}

func TestPreview_SaveFailureSetsAlert(t *testing.T) {
	p := NewPreview(loadedSet("a.csv", nil), &fakeBackend{downloadBlob: []byte("x")}, &memSaver{err: errBoom}, nil)

	require.ErrorIs(t, p.Download(context.Background()), errBoom)
	assert.Equal(t, MsgDownloadFailed, p.Alert())
}

func TestPreview_DownloadWithoutRows(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPreview(session.NewWorkingSet(), backend, &memSaver{}, nil)

	require.ErrorIs(t, p.Download(context.Background()), ErrInvalidInput)
	assert.Empty(t, backend.downloadCalls)
}

func TestPreview_BackAndFinalizeNavigate(t *testing.T) {
	nav := &History{}
	p := NewPreview(loadedSet("a.csv", nil), &fakeBackend{}, &memSaver{}, nav)

	p.Back()
	p.Finalize()
	assert.Equal(t, []Route{RouteUpload, RouteSuccess}, nav.Routes())
}

func TestPreview_ViewProjectsIrregularRows(t *testing.T) {
	csv := session.NewWorkingSet()
	csv.Replace("mixed.csv", []table.Row{
		table.NewRow("name", "Ann", "age", "31"),
		table.NewRow("name", "Bo"),
		table.NewRow("age", "40", "name", "Cy", "extra", "dropped"),
	}, nil, nil)
	p := NewPreview(csv, &fakeBackend{}, &memSaver{}, nil)
	p.Toggle("age")

	want := render.Preview{
		Caption:     "mixed.csv",
		Headers:     []string{"name", "age"},
		Cells:       [][]string{{"Ann", "31"}, {"Bo", ""}, {"Cy", "40"}},
		OpenHeader:  "age",
		Description: "Age in years.",
	}
	if diff := cmp.Diff(want, p.View()); diff != "" {
		t.Errorf("View mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, render.Markdown))
	assert.Contains(t, buf.String(), "age: Age in years.")
}

func TestDirSaver_WritesBaseName(t *testing.T) {
	dir := t.TempDir()
	s := DirSaver{Dir: filepath.Join(dir, "out")}

	require.NoError(t, s.Save("../../escape.csv", []byte("a,b\n")))

	data, err := os.ReadFile(filepath.Join(dir, "out", "escape.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestPreview_ReentrantDownloadIsBusy(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{gate: gate, downloadBlob: []byte("x")}
	saver := &memSaver{}
	p := NewPreview(loadedSet("a.csv", nil), backend, saver, nil)

	done := make(chan error, 1)
	go func() { done <- p.Download(context.Background()) }()
	require.Eventually(t, p.Downloading, time.Second, time.Millisecond)

	require.ErrorIs(t, p.Download(context.Background()), ErrBusy)

	close(gate)
	require.NoError(t, <-done)
	assert.False(t, p.Downloading())
	assert.Len(t, saver.saves["a.csv"], 1)
}
