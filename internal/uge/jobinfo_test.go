package uge

import (
	"errors"
	"testing"
)

func TestParseJobInfoJSON(t *testing.T) {
	stdout := `error reason    1: can't open output file "/no/such/dir": Permission denied
{
  "job_info": [
    {
      "JB_job_number": 4126319,
      "JB_job_name": "align",
      "JB_owner": "alice",
      "JB_ja_structure": {"RN_min": 1, "RN_max": 20, "RN_step": 1}
    }
  ]
}`

	records, errLines, err := ParseJobInfoJSON(stdout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errLines) != 1 {
		t.Fatalf("expected 1 error line, got %d", len(errLines))
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.JobID() != "4126319" {
		t.Errorf("unexpected job id: %q", record.JobID())
	}
	if record.JobName() != "align" {
		t.Errorf("unexpected job name: %q", record.JobName())
	}

	spec, isArray, err := record.ArrayRange()
	if err != nil {
		t.Fatalf("unexpected range error: %v", err)
	}
	if !isArray {
		t.Fatal("expected an array job")
	}
	if spec.Start != 1 || spec.Stop != 20 || spec.Step != 1 {
		t.Errorf("unexpected range: %+v", spec)
	}
}

func TestParseJobInfoJSONUnknownJob(t *testing.T) {
	// The scheduler reports finished jobs as unknown; that is the
	// normal completion signal, not a failure.
	records, errLines, err := ParseJobInfoJSON(`{"unknown jobs": [4126319]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errLines) != 0 {
		t.Fatalf("expected no error lines, got %v", errLines)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestParseJobInfoJSONEmpty(t *testing.T) {
	// Empty output without diagnostics is broken transport, not a
	// finished job: absence must come from a parsed payload.
	_, _, err := ParseJobInfoJSON("")
	if err == nil {
		t.Fatal("expected error for empty output")
	}
	if !errors.Is(err, &MalformedOutputError{}) {
		t.Fatalf("expected MalformedOutputError, got %T", err)
	}
}

func TestParseJobInfoJSONOnlyErrorLines(t *testing.T) {
	records, errLines, err := ParseJobInfoJSON("error reason    1: host unreachable\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errLines) != 1 {
		t.Fatalf("expected 1 error line, got %d", len(errLines))
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestParseJobInfoJSONMalformed(t *testing.T) {
	_, _, err := ParseJobInfoJSON(`{"job_info": [}`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.Is(err, &MalformedOutputError{}) {
		t.Fatalf("expected MalformedOutputError, got %T", err)
	}
}

func TestParseJobInfoText(t *testing.T) {
	stdout := `==============================================================
job_number:                 4126319
job_name:                   align
owner:                      alice
job-array tasks:            1-20:1
`

	records, errLines := ParseJobInfoText(stdout)
	if len(errLines) != 0 {
		t.Fatalf("expected no error lines, got %v", errLines)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.JobID() != "4126319" {
		t.Errorf("unexpected job id: %q", record.JobID())
	}
	if record.JobName() != "align" {
		t.Errorf("unexpected job name: %q", record.JobName())
	}

	spec, isArray, err := record.ArrayRange()
	if err != nil {
		t.Fatalf("unexpected range error: %v", err)
	}
	if !isArray {
		t.Fatal("expected an array job")
	}
	if spec.Start != 1 || spec.Stop != 20 || spec.Step != 1 {
		t.Errorf("unexpected range: %+v", spec)
	}
}
