package uge

import (
	"fmt"
	"strconv"
	"strings"
)

// JobType distinguishes which qstat section a record came from.
type JobType string

const (
	JobTypeRunning JobType = "running"
	JobTypePending JobType = "pending"
)

// JobRecord is one normalized row of a live job list. Identity is the
// (JobID, TaskID) pair; JobID alone identifies an array job's parent.
// Ids stay strings so oversized or formatted scheduler values survive
// a round trip unchanged.
type JobRecord struct {
	JobID          string
	Priority       string
	Name           string
	Owner          string
	State          string // Raw state tag, see ClassifyState
	Slots          int
	QueueName      string
	JobType        JobType
	StartTime      string // Opaque scheduler timestamp, running jobs
	SubmissionTime string // Opaque scheduler timestamp, pending jobs
	TaskID         string // Task ordinal or range string for array jobs
}

// InfoRecord is the detailed per-job view from qstat -j. The scheduler's
// field set is open-ended, so the record is an open mapping from field
// name to string, nested mapping or sequence; unknown fields pass
// through uninterpreted.
type InfoRecord map[string]any

// String returns the value under key as a string, or "" if the key is
// absent or holds a nested structure. Scalar JSON numbers are rendered
// back to their literal form.
func (r InfoRecord) String(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	return scalarString(v)
}

// List returns the value under key as a sequence. A scalar value is
// not promoted; absent or non-sequence values yield nil.
func (r InfoRecord) List(key string) []any {
	v, ok := r[key]
	if !ok {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// Map returns the value under key as a nested mapping, or nil.
func (r InfoRecord) Map(key string) map[string]any {
	v, ok := r[key]
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// JobID extracts the job id across the three detail formats
// (JB_job_number in XML/JSON, job_number in text blocks).
func (r InfoRecord) JobID() string {
	if id := r.String("JB_job_number"); id != "" {
		return id
	}
	if id := r.String("job_number"); id != "" {
		return id
	}
	return r.String(ColumnJobID)
}

// JobName extracts the job name across the three detail formats.
func (r InfoRecord) JobName() string {
	if name := r.String("JB_job_name"); name != "" {
		return name
	}
	if name := r.String("job_name"); name != "" {
		return name
	}
	return r.String("jobname")
}

// ArrayRange returns the task-array range of the job. XML and JSON
// detail output carries it as a JB_ja_structure record with
// RN_min/RN_max/RN_step; plain text as a "job-array tasks" range
// string. Non-array jobs return ok=false.
func (r InfoRecord) ArrayRange() (TaskArraySpec, bool, error) {
	if structure := r.List("JB_ja_structure"); len(structure) > 0 {
		entry, ok := structure[0].(map[string]any)
		if !ok {
			return TaskArraySpec{}, false, fmt.Errorf("unexpected JB_ja_structure shape: %T", structure[0])
		}
		spec, err := rangeSpecFromFields(entry)
		if err != nil {
			return TaskArraySpec{}, false, err
		}
		return spec, true, nil
	}

	// Single nested mapping instead of a sequence (JSON detail shape).
	if entry := r.Map("JB_ja_structure"); entry != nil {
		spec, err := rangeSpecFromFields(entry)
		if err != nil {
			return TaskArraySpec{}, false, err
		}
		return spec, true, nil
	}

	if raw := r.String("job-array tasks"); raw != "" {
		spec, err := ParseRangeSpec(raw)
		if err != nil {
			return TaskArraySpec{}, false, err
		}
		return spec, true, nil
	}

	return TaskArraySpec{}, false, nil
}

func rangeSpecFromFields(entry map[string]any) (TaskArraySpec, error) {
	spec := TaskArraySpec{Step: 1}
	var err error

	if raw := scalarString(entry["RN_min"]); raw != "" {
		if spec.Start, err = strconv.Atoi(raw); err != nil {
			return TaskArraySpec{}, fmt.Errorf("invalid RN_min: %q", raw)
		}
	}
	if raw := scalarString(entry["RN_max"]); raw != "" {
		if spec.Stop, err = strconv.Atoi(raw); err != nil {
			return TaskArraySpec{}, fmt.Errorf("invalid RN_max: %q", raw)
		}
	}
	if raw := scalarString(entry["RN_step"]); raw != "" {
		if spec.Step, err = strconv.Atoi(raw); err != nil {
			return TaskArraySpec{}, fmt.Errorf("invalid RN_step: %q", raw)
		}
	}
	return spec, nil
}

// scalarString renders a scalar value back to its string form.
// JSON numbers decode as float64; integral values drop the fraction.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

// AccountingRecord is one finished task from qacct output: an open
// field-name to value mapping.
type AccountingRecord map[string]string

// ExitStatus returns the recorded exit status of the task, or -1 when
// the field is absent or unparsable.
func (r AccountingRecord) ExitStatus() int {
	raw, ok := r["exit_status"]
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return -1
	}
	return n
}
