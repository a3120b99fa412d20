package render_test

import (
	"bytes"
	"strings"
	"testing"

	"csvdesk/internal/render"
)

func TestRenderPreview_ASCII(t *testing.T) {
	var buf bytes.Buffer
	err := render.RenderPreview(&buf, render.Preview{
		Caption: "people.csv",
		Headers: []string{"name", "age"},
		Cells:   [][]string{{"Ann", "30"}, {"Bob", ""}},
	}, render.ASCII)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"people.csv", "NAME", "AGE", "Ann", "30", "Bob", "───"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderPreview_OpenDescription(t *testing.T) {
	var buf bytes.Buffer
	err := render.RenderPreview(&buf, render.Preview{
		Headers:     []string{"name", "age"},
		Cells:       [][]string{{"Ann", "30"}},
		OpenHeader:  "age",
		Description: "Age in years.",
	}, render.Markdown)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "| name") || !strings.Contains(out, "age *") {
		t.Errorf("expected markdown header with open marker:\n%s", out)
	}
	if !strings.Contains(out, "age: Age in years.") {
		t.Errorf("expected description line:\n%s", out)
	}
}

func TestRenderPreview_NoData(t *testing.T) {
	var buf bytes.Buffer
	if err := render.RenderPreview(&buf, render.Preview{}, render.ASCII); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != render.NoDataMessage {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseMode(t *testing.T) {
	if render.ParseMode("markdown") != render.Markdown || render.ParseMode("md") != render.Markdown {
		t.Error("markdown aliases not recognized")
	}
	if render.ParseMode("") != render.ASCII {
		t.Error("default should be ASCII")
	}
}

func TestTable_ModesDiffer(t *testing.T) {
	build := func(m render.Mode) string {
		tb := render.NewTable(m)
		tb.Header("A", "B")
		tb.Row("x", "y")
		return tb.String()
	}
	if build(render.ASCII) == build(render.Markdown) {
		t.Error("ASCII and Markdown output should differ")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 2, "ab"},
	}
	for _, tc := range tests {
		if got := render.Truncate(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestFmtBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range tests {
		if got := render.FmtBytes(tc.in); got != tc.want {
			t.Errorf("FmtBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
