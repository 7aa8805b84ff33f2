package uge

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseJobListJSON normalizes `qstat -json` job-list output. Running
// jobs live under queue_info/"running jobs", pending jobs under
// job_info/"pending jobs"; both arrays flatten into JobRecords tagged
// with the job type they came from. Output with neither section yields
// an empty list.
func ParseJobListJSON(stdout string) ([]JobRecord, error) {
	var payload struct {
		QueueInfo []map[string]json.RawMessage `json:"queue_info"`
		JobInfo   []map[string]json.RawMessage `json:"job_info"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return nil, newMalformedOutputError("json", stdout, err)
	}

	var records []JobRecord

	for _, section := range payload.QueueInfo {
		raw, ok := section["running jobs"]
		if !ok {
			continue
		}
		jobs, err := decodeJobArray(raw, stdout)
		if err != nil {
			return nil, err
		}
		for _, job := range jobs {
			records = append(records, extractJobRecord(job, JobTypeRunning))
		}
	}

	for _, section := range payload.JobInfo {
		raw, ok := section["pending jobs"]
		if !ok {
			continue
		}
		jobs, err := decodeJobArray(raw, stdout)
		if err != nil {
			return nil, err
		}
		for _, job := range jobs {
			records = append(records, extractJobRecord(job, JobTypePending))
		}
	}

	return records, nil
}

func decodeJobArray(raw json.RawMessage, stdout string) ([]map[string]any, error) {
	var jobs []map[string]any
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, newMalformedOutputError("json", stdout, err)
	}
	return jobs, nil
}

// extractJobRecord maps the scheduler's JB_/JAT_ field names onto the
// canonical record.
func extractJobRecord(job map[string]any, jobType JobType) JobRecord {
	record := JobRecord{
		JobID:     scalarString(job["JB_job_number"]),
		Priority:  scalarString(job["JAT_prio"]),
		Name:      scalarString(job["JB_name"]),
		Owner:     scalarString(job["JB_owner"]),
		State:     scalarString(job["state"]),
		QueueName: scalarString(job["queue_name"]),
		JobType:   jobType,
	}

	if raw := scalarString(job["slots"]); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			record.Slots = n
		}
	}

	if v, ok := job["JAT_start_time"]; ok {
		record.StartTime = scalarString(v)
	}
	if v, ok := job["JB_submission_time"]; ok {
		record.SubmissionTime = scalarString(v)
	}
	if v, ok := job["tasks"]; ok {
		record.TaskID = scalarString(v)
	} else if v, ok := job["JAT_task_number"]; ok {
		record.TaskID = scalarString(v)
	}

	return record
}

// ParseJobListText normalizes plain `qstat` job-list output via the
// fixed-width table parser. The job type is derived from the state tag
// because text output has no section split; unmapped tags default to
// running so the raw tag still reaches the caller.
func ParseJobListText(stdout string) ([]JobRecord, error) {
	rows, err := ParseTable(stdout, JobListColumns)
	if err != nil {
		return nil, err
	}

	records := make([]JobRecord, 0, len(rows))
	for _, row := range rows {
		record := JobRecord{
			JobID:     row[ColumnJobID],
			Priority:  row[ColumnPriority],
			Name:      row[ColumnName],
			Owner:     row[ColumnUser],
			State:     row[ColumnState],
			QueueName: row[ColumnQueue],
			TaskID:    row[ColumnTaskID],
			JobType:   JobTypeRunning,
		}

		if raw := row[ColumnSlots]; raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				record.Slots = n
			}
		}

		if class, ok := ClassifyState(record.State); ok {
			switch class {
			case StatePending, StateError:
				record.JobType = JobTypePending
				record.SubmissionTime = row[ColumnSubmitStartAt]
			default:
				record.StartTime = row[ColumnSubmitStartAt]
			}
		} else {
			record.StartTime = row[ColumnSubmitStartAt]
		}

		records = append(records, record)
	}

	return records, nil
}

// SplitErrorLines separates "error reason" diagnostic lines from the
// structured remainder of qstat -j output. Diagnostics keep their
// original order; the rest is rejoined for the format decoder.
func SplitErrorLines(stdout string) (rest string, errLines []string) {
	var kept []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(line, errorLinePrefix) {
			errLines = append(errLines, line)
		} else {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), errLines
}
