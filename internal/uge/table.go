package uge

import (
	"sort"
	"strings"
)

// column is a named header with its resolved character offset.
type column struct {
	name  string
	start int
}

// ParseTable slices fixed-width tabular output into one record per
// non-blank data line. The character offset of every expected header is
// located in the first line; each data line is then cut between
// consecutive offsets, the last column extending to end of line, and
// every field trimmed of surrounding whitespace.
//
// Headers are matched in scan order: the search for each name starts at
// the previous header's offset, so a name that is a substring of an
// earlier column ("name" inside a hypothetical "jobname") cannot match
// backwards. Headers absent from the header line fail the parse with a
// MissingColumnError listing every missing name.
func ParseTable(stdout string, headers []string) ([]map[string]string, error) {
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil
	}

	headerLine := lines[0]

	columns := make([]column, 0, len(headers))
	var missing []string
	searchFrom := 0
	for _, name := range headers {
		idx := strings.Index(headerLine[searchFrom:], name)
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		start := searchFrom + idx
		columns = append(columns, column{name: name, start: start})
		searchFrom = start
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	sort.Slice(columns, func(i, j int) bool {
		return columns[i].start < columns[j].start
	})

	var records []map[string]string
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isRuleLine(line) {
			continue
		}

		record := make(map[string]string, len(columns))
		for i, col := range columns {
			start := col.start
			if start > len(line) {
				start = len(line)
			}
			end := len(line)
			if i+1 < len(columns) && columns[i+1].start < end {
				end = columns[i+1].start
			}
			if end < start {
				end = start
			}
			record[col.name] = strings.TrimSpace(line[start:end])
		}
		records = append(records, record)
	}

	return records, nil
}

// isRuleLine reports whether the line is a header separator made of
// dashes (qstat prints one between the header and the data).
func isRuleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r != '-' {
			return false
		}
	}
	return true
}
