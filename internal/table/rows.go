package table

// Headers returns the keys of the first row. Later rows are assumed to share
// them; see CheckShape.
func Headers(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// Project returns row's cells in headers order. Missing keys yield "" and keys
// not in headers are dropped.
func Project(row Row, headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = row.Cell(h)
	}
	return out
}

// CloneRows deep-copies rows. A nil input stays nil.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// ShapeIssue describes a row whose key set differs from the header row.
type ShapeIssue struct {
	Index   int
	Missing []string
	Extra   []string
}

// CheckShape compares every row against the first row's key set and reports
// the rows that differ. Display tolerates these rows; the report exists so
// callers can log them.
func CheckShape(rows []Row) []ShapeIssue {
	headers := Headers(rows)
	want := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		want[h] = struct{}{}
	}

	var issues []ShapeIssue
	for i := 1; i < len(rows); i++ {
		var issue ShapeIssue
		for _, h := range headers {
			if _, ok := rows[i].Get(h); !ok {
				issue.Missing = append(issue.Missing, h)
			}
		}
		for _, k := range rows[i].keys {
			if _, ok := want[k]; !ok {
				issue.Extra = append(issue.Extra, k)
			}
		}
		if len(issue.Missing) > 0 || len(issue.Extra) > 0 {
			issue.Index = i
			issues = append(issues, issue)
		}
	}
	return issues
}
