package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppqm/hpc-funcs/internal/uge"
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var infoOpts struct {
	format string
	full   bool
}

var infoCmd = &cobra.Command{
	Use:     "info <job-id> [job-id...]",
	Aliases: []string{"show"},
	Short:   "Show detailed information about a job",
	Long: `Show the scheduler's detailed view of one or more jobs.

Scheduler diagnostics (error reason lines) are printed as warnings
before the job fields. A job the scheduler no longer knows has
finished; use "hpcq acct" for its historical record.`,
	Example: `  hpcq info 4126319
  hpcq info 4126319 --format xml
  hpcq info 4126319 --full       # Every reported field`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoOpts.format, "format", "f", "json", "Detail format to request: json, xml, or text")
	infoCmd.Flags().BoolVar(&infoOpts.full, "full", false, "Print every field instead of the summary set")
}

func runInfo(cmd *cobra.Command, args []string) error {
	format, err := parseInfoFormat(infoOpts.format)
	if err != nil {
		return err
	}

	client := newClient()
	if err := client.Available(); err != nil {
		return err
	}

	for i, jobID := range args {
		if i > 0 {
			fmt.Println()
		}
		if err := showJobInfo(cmd, client, jobID, format); err != nil {
			return err
		}
	}
	return nil
}

func showJobInfo(cmd *cobra.Command, client *uge.Client, jobID string, format uge.InfoFormat) error {
	records, errLines, err := client.JobInfo(cmd.Context(), jobID, format)
	if err != nil {
		return err
	}

	for _, line := range errLines {
		utils.PrintWarning("%s", line)
	}

	if len(records) == 0 {
		utils.PrintMessage("Job %s is not in live status (finished or never existed).", utils.StyleName(jobID))
		utils.PrintMessage("Try: %s", utils.StyleCommand("hpcq acct "+jobID))
		return nil
	}

	for _, record := range records {
		if infoOpts.full {
			printFullRecord(record)
		} else {
			printRecordSummary(record)
		}
	}
	return nil
}

func parseInfoFormat(raw string) (uge.InfoFormat, error) {
	switch strings.ToLower(raw) {
	case "json":
		return uge.FormatJSON, nil
	case "xml":
		return uge.FormatXML, nil
	case "text":
		return uge.FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, xml, or text)", raw)
	}
}

// summaryFields are the detail fields shown by default, in display
// order. Names differ per format; aliases are tried in order.
var summaryFields = []struct {
	label   string
	aliases []string
}{
	{"Owner", []string{"JB_owner", "owner"}},
	{"Group", []string{"JB_group", "group"}},
	{"Submitted", []string{"JB_submission_time", "submission_time"}},
	{"Working dir", []string{"JB_cwd", "cwd", "sge_o_workdir"}},
	{"Script", []string{"JB_script_file", "script_file"}},
	{"Hard queue", []string{"JB_hard_queue_list", "hard_queue_list"}},
	{"Account", []string{"JB_account", "account"}},
}

func printRecordSummary(record uge.InfoRecord) {
	fmt.Printf("Job %s", utils.StyleNumber(record.JobID()))
	if name := record.JobName(); name != "" {
		fmt.Printf(" (%s)", utils.StyleName(name))
	}
	fmt.Println()

	for _, field := range summaryFields {
		for _, alias := range field.aliases {
			if value := record.String(alias); value != "" {
				fmt.Printf("  %-13s%s\n", field.label+":", value)
				break
			}
		}
	}

	if spec, isArray, err := record.ArrayRange(); err != nil {
		utils.PrintWarning("Unreadable task-array range: %v", err)
	} else if isArray {
		fmt.Printf("  %-13s%d-%d:%d\n", "Task array:", spec.Start, spec.Stop, spec.Step)
	}
}

func printFullRecord(record uge.InfoRecord) {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("%-28s%s\n", key, formatInfoValue(record[key]))
	}
}

// formatInfoValue renders a detail value on one line. Nested mappings
// and sequences come from the XML and JSON detail formats.
func formatInfoValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, formatInfoValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+"="+formatInfoValue(value[key]))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return fmt.Sprintf("%v", value)
	}
}
