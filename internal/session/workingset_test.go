package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"csvdesk/internal/api"
	"csvdesk/internal/table"
)

func TestWorkingSet_StartsEmpty(t *testing.T) {
	w := NewWorkingSet()
	want := CSVSnapshot{ColumnDescriptions: map[string]string{}}
	if diff := cmp.Diff(want, w.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkingSet_ReplaceSetsAllFields(t *testing.T) {
	w := NewWorkingSet()
	w.SetAnalysis(&api.AnalysisReport{TotalRows: 9})
	rows := []table.Row{table.NewRow("age", "30")}
	stats := &api.Stats{NumRows: 1, NumColumns: 1, Columns: []string{"age"}}

	w.Replace("a.csv", rows, stats, nil)

	want := CSVSnapshot{
		Rows:               []table.Row{table.NewRow("age", "30")},
		FileName:           "a.csv",
		Stats:              &api.Stats{NumRows: 1, NumColumns: 1, Columns: []string{"age"}},
		ColumnDescriptions: map[string]string{},
	}
	if diff := cmp.Diff(want, w.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkingSet_SnapshotIsDeepCopy(t *testing.T) {
	w := NewWorkingSet()
	w.Replace("a.csv", []table.Row{table.NewRow("k", "v")}, &api.Stats{Columns: []string{"k"}}, map[string]string{"k": "d"})

	snap := w.Snapshot()
	snap.Rows[0].Set("k", "changed")
	snap.Stats.Columns[0] = "changed"
	snap.ColumnDescriptions["k"] = "changed"

	again := w.Snapshot()
	if again.Rows[0].Cell("k") != "v" || again.Stats.Columns[0] != "k" || again.ColumnDescriptions["k"] != "d" {
		t.Errorf("working set mutated through snapshot: %+v", again)
	}
}

func TestWorkingSet_IndividualSetters(t *testing.T) {
	w := NewWorkingSet()
	w.SetFileName("b.csv")
	w.SetRows([]table.Row{table.NewRow("x", "1"), table.NewRow("x", "2")})
	w.SetStats(&api.Stats{NumRows: 2})
	w.SetColumnDescriptions(map[string]string{"x": "the x"})
	w.SetValidation(&api.ValidationReport{HasData: true, TotalRows: 2})

	if w.FileName() != "b.csv" || w.Len() != 2 {
		t.Errorf("unexpected state: %+v", w.Snapshot())
	}
	if d, ok := w.Description("x"); !ok || d != "the x" {
		t.Errorf("Description(x) = %q, %v", d, ok)
	}
	if _, ok := w.Description("X"); ok {
		t.Error("description lookup must be case-sensitive")
	}
	if snap := w.Snapshot(); snap.Validation == nil || !snap.Validation.HasData {
		t.Errorf("validation not recorded: %+v", snap.Validation)
	}

	w.Reset()
	if w.Len() != 0 || w.FileName() != "" {
		t.Errorf("Reset left state: %+v", w.Snapshot())
	}
}
