package uge

import (
	"errors"
	"testing"
)

const jobListJSONFixture = `{
  "queue_info": [
    {
      "queue name": "all.q@node001",
      "running jobs": [
        {
          "JB_job_number": 4126319,
          "JAT_prio": 0.50234,
          "JB_name": "align",
          "JB_owner": "alice",
          "state": "r",
          "queue_name": "all.q@node001",
          "slots": "4",
          "JAT_start_time": "2026-08-27T10:00:00",
          "JAT_task_number": 3
        }
      ]
    }
  ],
  "job_info": [
    {
      "pending jobs": [
        {
          "JB_job_number": 4126320,
          "JAT_prio": 0.0,
          "JB_name": "preproc",
          "JB_owner": "bob",
          "state": "qw",
          "queue_name": "",
          "slots": "1",
          "JB_submission_time": "2026-08-27T09:00:00",
          "tasks": "1-100:1"
        }
      ]
    }
  ]
}`

func TestParseJobListJSON(t *testing.T) {
	records, err := ParseJobListJSON(jobListJSONFixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	running := records[0]
	if running.JobID != "4126319" {
		t.Errorf("unexpected job id: %q", running.JobID)
	}
	if running.JobType != JobTypeRunning {
		t.Errorf("unexpected job type: %q", running.JobType)
	}
	if running.State != "r" {
		t.Errorf("unexpected state: %q", running.State)
	}
	if running.Slots != 4 {
		t.Errorf("unexpected slots: %d", running.Slots)
	}
	if running.TaskID != "3" {
		t.Errorf("unexpected task id: %q", running.TaskID)
	}
	if running.StartTime != "2026-08-27T10:00:00" {
		t.Errorf("unexpected start time: %q", running.StartTime)
	}
	if running.SubmissionTime != "" {
		t.Errorf("running job should have no submission time, got %q", running.SubmissionTime)
	}

	pending := records[1]
	if pending.JobType != JobTypePending {
		t.Errorf("unexpected job type: %q", pending.JobType)
	}
	if pending.TaskID != "1-100:1" {
		t.Errorf("unexpected task range: %q", pending.TaskID)
	}
	if pending.SubmissionTime != "2026-08-27T09:00:00" {
		t.Errorf("unexpected submission time: %q", pending.SubmissionTime)
	}
	if pending.StartTime != "" {
		t.Errorf("pending job should have no start time, got %q", pending.StartTime)
	}
}

func TestParseJobListJSONEmpty(t *testing.T) {
	records, err := ParseJobListJSON(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestParseJobListJSONMalformed(t *testing.T) {
	_, err := ParseJobListJSON(`{"queue_info": [`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.Is(err, &MalformedOutputError{}) {
		t.Fatalf("expected MalformedOutputError, got %T", err)
	}
}

func TestParseJobListText(t *testing.T) {
	stdout := jobListFixture(
		[]string{"4126319", "0.50000", "align", "alice", "r", "08/27/2026 10:00:00", "all.q@n001", "", "4", "3"},
		[]string{"4126320", "0.00000", "preproc", "bob", "qw", "08/27/2026 09:00:00", "", "", "1", "1-100:1"},
		[]string{"4126321", "0.00000", "broken", "carol", "Eqw", "08/27/2026 08:00:00", "", "", "1", ""},
	)

	records, err := ParseJobListText(stdout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].JobType != JobTypeRunning {
		t.Errorf("state r should be a running record, got %q", records[0].JobType)
	}
	if records[0].StartTime != "08/27/2026 10:00:00" {
		t.Errorf("unexpected start time: %q", records[0].StartTime)
	}

	if records[1].JobType != JobTypePending {
		t.Errorf("state qw should be a pending record, got %q", records[1].JobType)
	}
	if records[1].SubmissionTime != "08/27/2026 09:00:00" {
		t.Errorf("unexpected submission time: %q", records[1].SubmissionTime)
	}

	// Error-state jobs sit in the pending section of live output.
	if records[2].JobType != JobTypePending {
		t.Errorf("state Eqw should be a pending record, got %q", records[2].JobType)
	}
}

func TestSplitErrorLines(t *testing.T) {
	stdout := "error reason    1: can't open output file\n" +
		"error reason    2: permission denied\n" +
		"{\"job_info\": []}\n"

	rest, errLines := SplitErrorLines(stdout)
	if len(errLines) != 2 {
		t.Fatalf("expected 2 error lines, got %d", len(errLines))
	}
	if errLines[0] != "error reason    1: can't open output file" {
		t.Errorf("unexpected first error line: %q", errLines[0])
	}
	if rest != "{\"job_info\": []}\n" {
		t.Errorf("unexpected remainder: %q", rest)
	}
}
