package session

import (
	"sync"

	"csvdesk/internal/api"
	"csvdesk/internal/table"
)

// CSVSnapshot is a deep copy of the working set.
type CSVSnapshot struct {
	Rows               []table.Row
	FileName           string
	Stats              *api.Stats
	ColumnDescriptions map[string]string
	Analysis           *api.AnalysisReport
	Validation         *api.ValidationReport
}

// WorkingSet is the CSV currently being previewed. It lives only as long as
// the process. The four describing fields are independent setters, but
// whoever replaces the rows should use Replace so they stay consistent.
type WorkingSet struct {
	mu                 sync.RWMutex
	rows               []table.Row
	fileName           string
	stats              *api.Stats
	columnDescriptions map[string]string
	analysis           *api.AnalysisReport
	validation         *api.ValidationReport
}

// NewWorkingSet returns an empty working set.
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{columnDescriptions: map[string]string{}}
}

// Replace swaps in a new file wholesale. Nil descriptions become an empty
// map. Earlier analysis and validation reports describe the old rows and are
// dropped.
func (w *WorkingSet) Replace(fileName string, rows []table.Row, stats *api.Stats, descriptions map[string]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fileName = fileName
	w.rows = table.CloneRows(rows)
	w.stats = cloneStats(stats)
	w.columnDescriptions = cloneDescriptions(descriptions)
	w.analysis = nil
	w.validation = nil
}

// Reset empties the working set.
func (w *WorkingSet) Reset() {
	w.Replace("", nil, nil, nil)
}

func (w *WorkingSet) SetRows(rows []table.Row) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = table.CloneRows(rows)
}

func (w *WorkingSet) SetFileName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fileName = name
}

func (w *WorkingSet) SetStats(stats *api.Stats) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats = cloneStats(stats)
}

func (w *WorkingSet) SetColumnDescriptions(d map[string]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.columnDescriptions = cloneDescriptions(d)
}

// SetAnalysis records the latest backend analysis of the current rows.
func (w *WorkingSet) SetAnalysis(r *api.AnalysisReport) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r == nil {
		w.analysis = nil
		return
	}
	cp := *r
	w.analysis = &cp
}

// SetValidation records the latest backend validation of the current rows.
func (w *WorkingSet) SetValidation(r *api.ValidationReport) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r == nil {
		w.validation = nil
		return
	}
	cp := *r
	w.validation = &cp
}

// Rows returns a copy of the current rows.
func (w *WorkingSet) Rows() []table.Row {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return table.CloneRows(w.rows)
}

func (w *WorkingSet) FileName() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fileName
}

// Description returns the backend-supplied description for header.
func (w *WorkingSet) Description(header string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.columnDescriptions[header]
	return d, ok
}

// Len returns the number of rows.
func (w *WorkingSet) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.rows)
}

// Snapshot returns a deep copy of every field.
func (w *WorkingSet) Snapshot() CSVSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := CSVSnapshot{
		Rows:               table.CloneRows(w.rows),
		FileName:           w.fileName,
		Stats:              cloneStats(w.stats),
		ColumnDescriptions: cloneDescriptions(w.columnDescriptions),
	}
	if w.analysis != nil {
		cp := *w.analysis
		s.Analysis = &cp
	}
	if w.validation != nil {
		cp := *w.validation
		s.Validation = &cp
	}
	return s
}

func cloneStats(s *api.Stats) *api.Stats {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Columns != nil {
		cp.Columns = append([]string(nil), s.Columns...)
	}
	cp.Sample = table.CloneRows(s.Sample)
	return &cp
}

func cloneDescriptions(d map[string]string) map[string]string {
	out := make(map[string]string, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
