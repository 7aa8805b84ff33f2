package cmd

import (
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var acctOpts struct {
	failedOnly bool
}

var acctCmd = &cobra.Command{
	Use:   "acct <job-id> [job-id...]",
	Short: "Show accounting records of finished jobs",
	Long: `Show the scheduler's historical accounting records for finished
jobs: one row per task with its host, runtime and exit status.

Live jobs have no accounting records yet; see "hpcq status".`,
	Example: `  hpcq acct 4126319
  hpcq acct 4126319 --failed   # Only tasks that exited non-zero`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAcct,
}

func init() {
	rootCmd.AddCommand(acctCmd)

	acctCmd.Flags().BoolVar(&acctOpts.failedOnly, "failed", false, "Show only tasks with a non-zero exit status")
}

func runAcct(cmd *cobra.Command, args []string) error {
	client := newClient()

	table := newTable([]string{"JOB-ID", "TASK", "NAME", "HOST", "QUEUE", "WALLCLOCK", "MAXVMEM", "EXIT"})

	shown := 0
	for _, jobID := range splitCSV(args) {
		records, err := client.Accounting(cmd.Context(), jobID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			utils.PrintNote("No accounting records for job %s (still live or already aged out?)", utils.StyleName(jobID))
			continue
		}

		for _, record := range records {
			exit := record.ExitStatus()
			if acctOpts.failedOnly && exit <= 0 {
				continue
			}
			shown++

			exitCell := record["exit_status"]
			if exit > 0 {
				exitCell = utils.StyleError(exitCell)
			}

			table.Append([]string{
				record["jobnumber"],
				record["taskid"],
				record["jobname"],
				record["hostname"],
				record["qname"],
				record["ru_wallclock"],
				record["maxvmem"],
				exitCell,
			})
		}
	}

	if shown == 0 {
		if acctOpts.failedOnly {
			utils.PrintSuccess("No failed tasks.")
		}
		return nil
	}

	table.Render()
	return nil
}
