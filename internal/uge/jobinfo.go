package uge

import (
	"encoding/json"
	"strings"
)

// ParseJobInfoJSON normalizes `qstat -j <id> -json` detail output.
// Scheduler diagnostics ("error reason …") preceding the JSON payload
// are returned as an ordered list next to the records, never discarded
// and never treated as failures: a job can be valid and still carry a
// submission warning.
//
// A payload reporting "unknown jobs" means the scheduler no longer
// knows the id (the job finished); that yields an empty record list
// and a nil error. Absence must come from a parsed payload: output
// that is empty without even a diagnostic line is malformed, not a
// finished job.
func ParseJobInfoJSON(stdout string) ([]InfoRecord, []string, error) {
	rest, errLines := SplitErrorLines(stdout)

	if strings.TrimSpace(rest) == "" {
		if len(errLines) > 0 {
			return nil, errLines, nil
		}
		return nil, nil, newMalformedOutputError("json", stdout, nil)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rest), &payload); err != nil {
		return nil, errLines, newMalformedOutputError("json", rest, err)
	}

	raw, ok := payload["job_info"]
	if !ok {
		// "unknown jobs" or an empty report: the job is gone.
		return nil, errLines, nil
	}

	var records []InfoRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errLines, newMalformedOutputError("json", rest, err)
	}

	return records, errLines, nil
}

// ParseJobInfoText normalizes plain `qstat -j <id>` detail output via
// the key-value block parser. Diagnostic lines are split off first so
// they cannot corrupt a block.
func ParseJobInfoText(stdout string) ([]InfoRecord, []string) {
	rest, errLines := SplitErrorLines(stdout)

	sections := ParseBlocks(rest, jobInfoKeyWidth)

	records := make([]InfoRecord, 0, len(sections))
	for _, section := range sections {
		record := make(InfoRecord, len(section))
		for key, value := range section {
			record[key] = value
		}
		records = append(records, record)
	}

	return records, errLines
}
