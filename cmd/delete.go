package cmd

import (
	"fmt"

	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <job-id> [job-id...]",
	Aliases: []string{"del", "rm"},
	Short:   "Remove jobs from the scheduler",
	Long: `Ask the scheduler to remove jobs. Running tasks are signalled,
pending tasks are dropped from the queue. The scheduler's own
confirmation output is passed through.`,
	Example: `  hpcq delete 4126319
  hpcq delete 4126319 4126320`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.Available(); err != nil {
		return err
	}

	failed := 0
	for _, jobID := range splitCSV(args) {
		if err := client.Delete(cmd.Context(), jobID); err != nil {
			utils.PrintError("Failed to delete job %s: %v", utils.StyleName(jobID), err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d deletion(s) failed", failed)
	}
	return nil
}
