package uge

import (
	"strconv"
	"strings"
)

// TaskArraySpec is a parsed "start-stop:step" array range.
type TaskArraySpec struct {
	Start int
	Stop  int
	Step  int
}

// ParseRangeSpec parses a range string of the form "start-stop:step".
// The step defaults to 1 and a bare ordinal ("7") collapses to a
// single-task range.
func ParseRangeSpec(raw string) (TaskArraySpec, error) {
	spec := TaskArraySpec{Step: 1}

	body := raw
	if idx := strings.IndexByte(raw, ':'); idx >= 0 {
		body = raw[:idx]
		step, err := strconv.Atoi(strings.TrimSpace(raw[idx+1:]))
		if err != nil {
			return TaskArraySpec{}, &MalformedRangeError{Range: raw, Piece: raw[idx+1:]}
		}
		spec.Step = step
	}

	bounds := strings.SplitN(body, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return TaskArraySpec{}, &MalformedRangeError{Range: raw, Piece: bounds[0]}
	}
	spec.Start = start
	spec.Stop = start

	if len(bounds) == 2 {
		stop, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return TaskArraySpec{}, &MalformedRangeError{Range: raw, Piece: bounds[1]}
		}
		spec.Stop = stop
	}

	return spec, nil
}

// TaskArrayCount aggregates the live task states of one array job.
// Running counts distinct running (or suspended) entries; pending and
// error sum the sizes of the reported range strings. For a well-formed
// report running+pending+error never exceeds the array's total;
// finished tasks are simply absent.
type TaskArrayCount struct {
	JobID   string
	Running int
	Pending int
	Error   int
}

// AggregateTaskArrays groups a flat job-list snapshot by job id and
// computes per-array task counts. Running-side states are reported one
// entry per task; pending and error entries carry a range string in
// the task column describing which ordinals share the state. A record
// whose state tag is missing from the tag tables fails the aggregation
// with an UnknownStateError.
func AggregateTaskArrays(jobs []JobRecord) ([]TaskArrayCount, error) {
	counts := make(map[string]*TaskArrayCount)
	var order []string

	for _, job := range jobs {
		class, ok := ClassifyState(job.State)
		if !ok {
			return nil, &UnknownStateError{JobID: job.JobID, Tag: job.State}
		}

		count, seen := counts[job.JobID]
		if !seen {
			count = &TaskArrayCount{JobID: job.JobID}
			counts[job.JobID] = count
			order = append(order, job.JobID)
		}

		switch class {
		case StateRunning, StateSuspended:
			count.Running++
		case StatePending:
			n, err := CountRangeTasks(job.TaskID)
			if err != nil {
				return nil, err
			}
			count.Pending += n
		case StateError:
			n, err := CountRangeTasks(job.TaskID)
			if err != nil {
				return nil, err
			}
			count.Error += n
		}
	}

	out := make([]TaskArrayCount, 0, len(order))
	for _, id := range order {
		out = append(out, *counts[id])
	}
	return out, nil
}

// CountRangeTasks computes how many task ordinals a range string
// covers. Comma-separated pieces are summed; a piece without a dash is
// exactly one task, otherwise "start-stop[:step]" contributes
// stop-start, matching the scheduler's own range arithmetic. An empty
// string denotes a single (non-array) entry.
func CountRangeTasks(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}

	total := 0
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)

		if !strings.Contains(piece, "-") {
			if _, err := strconv.Atoi(piece); err != nil {
				return 0, &MalformedRangeError{Range: raw, Piece: piece}
			}
			total++
			continue
		}

		tokens := splitRangeTokens(piece)
		if len(tokens) != 2 && len(tokens) != 3 {
			return 0, &MalformedRangeError{Range: raw, Piece: piece}
		}

		start, err := strconv.Atoi(tokens[0])
		if err != nil {
			return 0, &MalformedRangeError{Range: raw, Piece: piece}
		}
		stop, err := strconv.Atoi(tokens[1])
		if err != nil {
			return 0, &MalformedRangeError{Range: raw, Piece: piece}
		}
		if len(tokens) == 3 {
			if _, err := strconv.Atoi(tokens[2]); err != nil {
				return 0, &MalformedRangeError{Range: raw, Piece: piece}
			}
		}

		total += stop - start
	}

	return total, nil
}

// splitRangeTokens splits a range piece on the scheduler's range
// delimiters (',', ':', '-', '!').
func splitRangeTokens(piece string) []string {
	return strings.FieldsFunc(piece, func(r rune) bool {
		switch r {
		case ',', ':', '-', '!':
			return true
		}
		return false
	})
}
