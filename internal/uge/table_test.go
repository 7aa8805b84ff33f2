package uge

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// jobListLine pads the ten job-list fields to the fixed layout used by
// the fixtures below.
func jobListLine(fields ...string) string {
	return fmt.Sprintf("%-8s%-9s%-10s%-8s%-7s%-21s%-13s%-8s%-7s%s",
		fields[0], fields[1], fields[2], fields[3], fields[4],
		fields[5], fields[6], fields[7], fields[8], fields[9])
}

func jobListFixture(rows ...[]string) string {
	lines := []string{
		jobListLine(JobListColumns...),
		strings.Repeat("-", 100),
	}
	for _, row := range rows {
		lines = append(lines, jobListLine(row...))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestParseTable(t *testing.T) {
	stdout := jobListFixture(
		[]string{"101", "0.50000", "align", "alice", "r", "08/27/2026 10:00:00", "all.q@n001", "", "4", "1"},
		[]string{"102", "0.00000", "preproc", "bob", "qw", "08/27/2026 09:00:00", "", "", "1", "1-100:1"},
	)

	rows, err := ParseTable(stdout, JobListColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first[ColumnJobID] != "101" {
		t.Errorf("unexpected job id: %q", first[ColumnJobID])
	}
	if first[ColumnName] != "align" {
		t.Errorf("unexpected name: %q", first[ColumnName])
	}
	if first[ColumnState] != "r" {
		t.Errorf("unexpected state: %q", first[ColumnState])
	}
	if first[ColumnSubmitStartAt] != "08/27/2026 10:00:00" {
		t.Errorf("unexpected timestamp: %q", first[ColumnSubmitStartAt])
	}
	if first[ColumnJClass] != "" {
		t.Errorf("expected empty jclass, got %q", first[ColumnJClass])
	}

	second := rows[1]
	if second[ColumnTaskID] != "1-100:1" {
		t.Errorf("unexpected task range: %q", second[ColumnTaskID])
	}
	if second[ColumnQueue] != "" {
		t.Errorf("expected empty queue for pending job, got %q", second[ColumnQueue])
	}
}

func TestParseTableShortLine(t *testing.T) {
	// Lines are allowed to end before the last columns; the missing
	// fields come back empty.
	stdout := jobListFixture() +
		jobListLine("103", "0.10000", "short", "carol", "qw", "08/27/2026 09:30:00", "", "", "1", "")[:60] + "\n"

	rows, err := ParseTable(stdout, JobListColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][ColumnJobID] != "103" {
		t.Errorf("unexpected job id: %q", rows[0][ColumnJobID])
	}
	if rows[0][ColumnSlots] != "" {
		t.Errorf("expected empty slots on short line, got %q", rows[0][ColumnSlots])
	}
}

func TestParseTableMissingColumns(t *testing.T) {
	// Header without "state" and "slots".
	header := "job-ID  prior    name      user    submit/start at      queue        jclass  ja-task-ID"

	_, err := ParseTable(header+"\n", JobListColumns)
	if err == nil {
		t.Fatal("expected error for missing columns")
	}

	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %T", err)
	}
	want := []string{ColumnState, ColumnSlots}
	if len(missing.Columns) != len(want) {
		t.Fatalf("expected %v missing, got %v", want, missing.Columns)
	}
	for i, name := range want {
		if missing.Columns[i] != name {
			t.Errorf("missing[%d] = %q, want %q", i, missing.Columns[i], name)
		}
	}
	if !errors.Is(err, &MissingColumnError{}) {
		t.Error("errors.Is should match MissingColumnError")
	}
}

func TestParseTableEmpty(t *testing.T) {
	rows, err := ParseTable("", JobListColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected no rows, got %v", rows)
	}
}
