package cmd

import (
	"github.com/ppqm/hpc-funcs/internal/uge"
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var hostsOpts struct {
	hostnames []string
	resources []string
	users     []string
	filter    string
	jobs      bool
	queues    bool
}

var hostsCmd = &cobra.Command{
	Use:     "hosts",
	Aliases: []string{"host", "nodes"},
	Short:   "List execution hosts and their load",
	Long: `List the cluster's execution hosts with architecture, slot and
memory figures. Site-specific resources (GPUs, licenses) appear when
requested with --resource.`,
	Example: `  hpcq hosts
  hpcq hosts -h node001,node002
  hpcq hosts --resource gpu --filter gpu=1
  hpcq hosts -u alice          # Hosts running alice's jobs`,
	RunE: runHosts,
}

func init() {
	rootCmd.AddCommand(hostsCmd)

	hostsCmd.Flags().StringArrayVarP(&hostsOpts.hostnames, "host", "H", nil, "Show only this host (repeatable)")
	hostsCmd.Flags().StringArrayVarP(&hostsOpts.resources, "resource", "F", nil, "Also report this resource attribute (repeatable)")
	hostsCmd.Flags().StringArrayVarP(&hostsOpts.users, "user", "u", nil, "Show jobs of this user per host (repeatable)")
	hostsCmd.Flags().StringVarP(&hostsOpts.filter, "filter", "l", "", "Resource filter, e.g. gpu=1")
	hostsCmd.Flags().BoolVarP(&hostsOpts.jobs, "jobs", "j", false, "Include per-host job summaries")
	hostsCmd.Flags().BoolVarP(&hostsOpts.queues, "queues", "q", false, "Include per-host queue summaries")
}

func runHosts(cmd *cobra.Command, args []string) error {
	client := newClient()

	hosts, err := client.Hosts(cmd.Context(), uge.HostQueryOptions{
		Hostnames:          splitCSV(hostsOpts.hostnames),
		ResourceAttributes: splitCSV(hostsOpts.resources),
		Users:              splitCSV(hostsOpts.users),
		ResourceFilter:     hostsOpts.filter,
		ShowJobs:           hostsOpts.jobs,
		ShowQueues:         hostsOpts.queues,
	})
	if err != nil {
		return err
	}

	if len(hosts) == 0 {
		utils.PrintMessage("No execution hosts reported.")
		return nil
	}

	header := []string{"HOSTNAME", "ARCH", "NCPU", "LOAD", "MEMTOT", "MEMUSE"}
	showJobs := hostsOpts.jobs || len(hostsOpts.users) > 0
	if showJobs {
		header = append(header, "JOBS", "JOB-SLOTS")
	}
	if hostsOpts.queues {
		header = append(header, "QUEUES", "Q-SLOTS")
	}
	for _, resource := range splitCSV(hostsOpts.resources) {
		header = append(header, resource)
	}

	table := newTable(header)
	for _, host := range hosts {
		row := []string{
			host.Hostname(),
			hostField(host, "arch_string", "arch"),
			hostField(host, "num_proc"),
			hostField(host, "load_avg", "load"),
			hostField(host, "mem_total"),
			hostField(host, "mem_used"),
		}
		if showJobs {
			row = append(row, hostField(host, "num_jobs"), hostField(host, "job_slots_used"))
		}
		if hostsOpts.queues {
			row = append(row, hostField(host, "queue_names"), hostField(host, "queue_slots_used"))
		}
		for _, resource := range splitCSV(hostsOpts.resources) {
			row = append(row, hostField(host, "resource_"+resource))
		}
		table.Append(row)
	}
	table.Render()

	utils.PrintMessage("%s host(s)", utils.StyleNumber(len(hosts)))
	return nil
}

// hostField returns the first present field among aliases, or "-".
// qhost field names vary slightly across scheduler versions.
func hostField(host uge.HostRecord, aliases ...string) string {
	for _, alias := range aliases {
		if value, ok := host[alias]; ok && value != "" {
			return value
		}
	}
	return "-"
}
