package cmd

import (
	"strconv"

	"github.com/ppqm/hpc-funcs/internal/uge"
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var statusOpts struct {
	users     []string
	jobIDs    []string
	queues    []string
	resources string
	allUsers  bool
	text      bool
	arrays    bool
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st", "jobs"},
	Short:   "List jobs currently known to the scheduler",
	Long: `List running and pending jobs from live scheduler status.

By default only the calling user's jobs are shown. Use --all for every
user, or filter by user, job id, queue, or resource attributes.`,
	Example: `  hpcq status                    # My jobs
  hpcq status --all              # Everyone's jobs
  hpcq status -u alice -u bob    # Jobs of specific users
  hpcq status -j 4126319         # A specific job
  hpcq status --arrays           # Per-array task counts`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringArrayVarP(&statusOpts.users, "user", "u", nil, "Show jobs of this user (repeatable)")
	statusCmd.Flags().StringArrayVarP(&statusOpts.jobIDs, "job", "j", nil, "Show only this job id (repeatable)")
	statusCmd.Flags().StringArrayVarP(&statusOpts.queues, "queue", "Q", nil, "Show jobs in this queue (repeatable)")
	statusCmd.Flags().StringVarP(&statusOpts.resources, "resources", "l", "", "Resource filter, e.g. gpu=1,mem_free=8G")
	statusCmd.Flags().BoolVarP(&statusOpts.allUsers, "all", "a", false, "Show jobs of all users")
	statusCmd.Flags().BoolVar(&statusOpts.text, "text", false, "Parse plain column output instead of JSON")
	statusCmd.Flags().BoolVar(&statusOpts.arrays, "arrays", false, "Aggregate task arrays into per-job counts")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.Available(); err != nil {
		return err
	}

	opts := uge.QueryOptions{
		Users:          splitCSV(statusOpts.users),
		JobIDs:         splitCSV(statusOpts.jobIDs),
		Queues:         splitCSV(statusOpts.queues),
		ResourceFilter: statusOpts.resources,
	}
	if statusOpts.allUsers {
		opts.Users = uge.AllUsers
	}

	var (
		jobs []uge.JobRecord
		err  error
	)
	if statusOpts.text {
		jobs, err = client.JobListText(cmd.Context(), opts)
	} else {
		jobs, err = client.JobList(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		utils.PrintMessage("No jobs found.")
		return nil
	}

	if statusOpts.arrays {
		return renderTaskArrays(jobs)
	}

	renderJobList(jobs)
	return nil
}

func renderJobList(jobs []uge.JobRecord) {
	table := newTable([]string{"JOB-ID", "NAME", "USER", "STATE", "QUEUE", "SLOTS", "TASKS", "SINCE"})

	running, pending := 0, 0
	for _, job := range jobs {
		since := job.StartTime
		if job.JobType == uge.JobTypePending {
			since = job.SubmissionTime
			pending++
		} else {
			running++
		}

		table.Append([]string{
			job.JobID,
			job.Name,
			job.Owner,
			styleStateTag(job.State),
			job.QueueName,
			formatSlots(job.Slots),
			job.TaskID,
			since,
		})
	}
	table.Render()

	utils.PrintMessage("%s running, %s pending",
		utils.StyleNumber(running), utils.StyleNumber(pending))
}

func renderTaskArrays(jobs []uge.JobRecord) error {
	counts, err := uge.AggregateTaskArrays(jobs)
	if err != nil {
		return err
	}

	table := newTable([]string{"JOB-ID", "RUNNING", "PENDING", "ERROR"})
	for _, count := range counts {
		table.Append([]string{
			count.JobID,
			formatSlots(count.Running),
			formatSlots(count.Pending),
			formatSlots(count.Error),
		})
	}
	table.Render()
	return nil
}

// styleStateTag colors a raw state tag by its lifecycle class. Unknown
// tags render unstyled; the listing is a display surface, not a parser.
func styleStateTag(tag string) string {
	class, ok := uge.ClassifyState(tag)
	if !ok {
		return tag
	}
	switch class {
	case uge.StateRunning:
		return utils.StyleSuccess(tag)
	case uge.StateError:
		return utils.StyleError(tag)
	case uge.StateSuspended:
		return utils.StyleWarning(tag)
	default:
		return tag
	}
}

func formatSlots(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
