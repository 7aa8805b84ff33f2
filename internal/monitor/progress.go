package monitor

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppqm/hpc-funcs/internal/uge"
	"github.com/ppqm/hpc-funcs/internal/utils"
)

// progressBarWidth is the character width of the rendered bar body.
const progressBarWidth = 30

// TaskArrayProgress tracks and renders completion of one task array.
// The task total is fixed at construction from the array range's upper
// bound; the live counts are re-derived from every aggregate snapshot
// instead of being updated incrementally, so a missed state transition
// cannot cause drift.
type TaskArrayProgress struct {
	JobID string
	Title string
	Total int

	running int
	pending int
	errored int

	out io.Writer
}

// NewTaskArrayProgress creates a tracker for a job with a known task
// total, rendering to out.
func NewTaskArrayProgress(jobID, title string, total int, out io.Writer) *TaskArrayProgress {
	if title == "" {
		title = jobID
	}
	if total < 1 {
		total = 1
	}
	return &TaskArrayProgress{
		JobID:   jobID,
		Title:   title,
		Total:   total,
		pending: total,
		out:     out,
	}
}

// NewTaskArrayProgressFromInfo derives the task total from a detail
// record's array range. A job without an array range is a single-task
// job.
func NewTaskArrayProgressFromInfo(info uge.InfoRecord, out io.Writer) (*TaskArrayProgress, error) {
	jobID := info.JobID()
	if jobID == "" {
		return nil, fmt.Errorf("job detail record has no job id")
	}

	total := 1
	if spec, isArray, err := info.ArrayRange(); err != nil {
		return nil, err
	} else if isArray {
		total = spec.Stop
	}

	return NewTaskArrayProgress(jobID, info.JobName(), total, out), nil
}

// Update re-derives the counts from the latest aggregate snapshot and
// redraws. A job id absent from the snapshot has no live tasks left:
// the array is fully finished.
func (p *TaskArrayProgress) Update(counts []uge.TaskArrayCount) {
	p.running, p.pending, p.errored = 0, 0, 0
	for _, count := range counts {
		if count.JobID == p.JobID {
			p.running = count.Running
			p.pending = count.Pending
			p.errored = count.Error
			break
		}
	}
	p.render()
}

// Finish forces the display to a fully-complete state, used when the
// monitor independently confirms the job left live status.
func (p *TaskArrayProgress) Finish() {
	p.running, p.pending, p.errored = 0, 0, 0
	p.render()
	fmt.Fprintln(p.out)
}

// Completed is the displayed completed-task count. Error tasks count
// as finished (failed), not pending.
func (p *TaskArrayProgress) Completed() int {
	done := p.Total - p.pending - p.running
	if done < 0 {
		done = 0
	}
	return done
}

// IsFinished reports whether the displayed count has reached the total.
func (p *TaskArrayProgress) IsFinished() bool {
	return p.Completed() >= p.Total
}

// render redraws the bar in place:
//
//	4126319 (3) [==================>           ] 12/20 err:2
func (p *TaskArrayProgress) render() {
	done := p.Completed()

	filled := progressBarWidth * done / p.Total
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := strings.Repeat("=", filled)
	if filled > 0 && filled < progressBarWidth {
		bar = bar[:filled-1] + ">"
	}
	bar += strings.Repeat(" ", progressBarWidth-filled)

	line := fmt.Sprintf("%s (%d) [%s] %d/%d",
		utils.StyleName(p.Title), p.running, bar, done, p.Total)

	if p.errored > 0 {
		line += " " + utils.StyleError(fmt.Sprintf("err:%d", p.errored))
	}

	fmt.Fprintf(p.out, "\r%s", line)
}
