package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppqm/hpc-funcs/internal/config"
	"github.com/ppqm/hpc-funcs/internal/monitor"
	"github.com/ppqm/hpc-funcs/internal/uge"
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var watchOpts struct {
	interval   time.Duration
	progress   bool
	reportExit bool
}

var watchCmd = &cobra.Command{
	Use:     "watch <job-id> [job-id...]",
	Aliases: []string{"wait"},
	Short:   "Wait until jobs leave live scheduler status",
	Long: `Poll the scheduler until every given job has finished.

A job is finished when live status no longer reports it. Task arrays
get a progress bar; totals come from the array range, completion from
the per-state task counts. Ctrl-C stops monitoring without touching
the jobs.`,
	Example: `  hpcq watch 4126319
  hpcq watch 4126319 4126320 --interval 10s
  hpcq watch 4126319 --report-exit   # qacct exit statuses afterwards`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVarP(&watchOpts.interval, "interval", "i", 0, "Poll interval (default from config)")
	watchCmd.Flags().BoolVar(&watchOpts.progress, "progress", true, "Render task-array progress bars")
	watchCmd.Flags().BoolVar(&watchOpts.reportExit, "report-exit", false, "Report accounting exit statuses after completion")
}

func runWatch(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.Available(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobIDs := splitCSV(args)

	interval := watchOpts.interval
	if interval <= 0 {
		interval = config.Global.PollInterval
	}
	if interval <= 0 {
		interval = monitor.DefaultPollInterval
	}

	var bars map[string]*monitor.TaskArrayProgress
	if watchOpts.progress && utils.IsInteractiveShell() {
		bars = buildProgressBars(ctx, client, jobIDs)
	}

	mon := &monitor.Monitor{
		Status:   client.IsLive,
		Interval: interval,
	}
	if len(bars) > 0 {
		// Refresh the bars between rounds so the display moves while
		// every job is still live.
		mon.Sleep = func(ctx context.Context, d time.Duration) error {
			refreshProgressBars(ctx, client, bars)
			return sleepContext(ctx, d)
		}
	}

	finished := 0
	for jobID := range mon.Wait(ctx, jobIDs) {
		finished++
		if bar, ok := bars[jobID]; ok {
			bar.Finish()
			delete(bars, jobID)
		}
		utils.PrintSuccess("Job %s finished", utils.StyleName(jobID))

		if watchOpts.reportExit {
			reportExitStatuses(ctx, client, jobID)
		}
	}

	if finished < len(jobIDs) {
		// The monitor already reported the cancellation.
		return nil
	}
	utils.PrintSuccess("All %s job(s) finished", utils.StyleNumber(finished))
	return nil
}

// buildProgressBars queries the detail view of every job to size a
// progress bar per task array. A job whose detail query fails still
// gets monitored, just without a bar.
func buildProgressBars(ctx context.Context, client *uge.Client, jobIDs []string) map[string]*monitor.TaskArrayProgress {
	bars := make(map[string]*monitor.TaskArrayProgress, len(jobIDs))

	for _, jobID := range jobIDs {
		records, errLines, err := client.JobInfo(ctx, jobID, uge.FormatJSON)
		if err != nil {
			utils.PrintWarning("Detail query for job %s failed: %v", utils.StyleName(jobID), err)
			continue
		}
		for _, line := range errLines {
			utils.PrintWarning("%s", line)
		}
		if len(records) == 0 {
			// Already gone; the first poll round will yield it.
			continue
		}

		bar, err := monitor.NewTaskArrayProgressFromInfo(records[0], os.Stderr)
		if err != nil {
			utils.PrintWarning("Cannot track progress of job %s: %v", utils.StyleName(jobID), err)
			continue
		}
		bars[jobID] = bar
	}

	return bars
}

// refreshProgressBars redraws every bar from one live-status snapshot.
// Snapshot errors only skip the redraw; completion detection stays
// with the monitor's per-job queries.
func refreshProgressBars(ctx context.Context, client *uge.Client, bars map[string]*monitor.TaskArrayProgress) {
	if len(bars) == 0 {
		return
	}

	jobIDs := make([]string, 0, len(bars))
	for jobID := range bars {
		jobIDs = append(jobIDs, jobID)
	}

	jobs, err := client.JobList(ctx, uge.QueryOptions{Users: uge.AllUsers, JobIDs: jobIDs})
	if err != nil {
		utils.PrintDebug("Progress snapshot failed: %v", err)
		return
	}

	counts, err := uge.AggregateTaskArrays(jobs)
	if err != nil {
		utils.PrintDebug("Progress snapshot failed: %v", err)
		return
	}

	for _, bar := range bars {
		bar.Update(counts)
	}
}

// reportExitStatuses pulls the accounting records of a finished job
// and surfaces failed tasks.
func reportExitStatuses(ctx context.Context, client *uge.Client, jobID string) {
	records, err := client.Accounting(ctx, jobID)
	if err != nil {
		utils.PrintWarning("Accounting query for job %s failed: %v", utils.StyleName(jobID), err)
		return
	}
	if len(records) == 0 {
		utils.PrintNote("No accounting records for job %s yet", utils.StyleName(jobID))
		return
	}

	failed := 0
	for _, record := range records {
		if record.ExitStatus() > 0 {
			failed++
		}
	}
	if failed > 0 {
		utils.PrintWarning("Job %s: %s of %s task(s) exited non-zero",
			utils.StyleName(jobID), utils.StyleNumber(failed), utils.StyleNumber(len(records)))
		return
	}
	utils.PrintMessage("Job %s: all %s task(s) exited zero",
		utils.StyleName(jobID), utils.StyleNumber(len(records)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
