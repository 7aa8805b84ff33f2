package uge

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppqm/hpc-funcs/internal/shell"
	"github.com/ppqm/hpc-funcs/internal/utils"
)

// Runner executes a scheduler command line and returns its output.
// It is satisfied by the shell package and by test fakes.
type Runner func(ctx context.Context, command string, opts *shell.Options) (shell.Result, error)

// InfoFormat selects the serialization of a detail query.
type InfoFormat string

const (
	FormatJSON InfoFormat = "json"
	FormatXML  InfoFormat = "xml"
	FormatText InfoFormat = "text"
)

// ClientOptions configures a Client. The binary directory and timeout
// come from explicit configuration; there is no process-wide cached
// discovery.
type ClientOptions struct {
	// BinDir is prepended to every scheduler command. Empty means the
	// commands are resolved via PATH.
	BinDir string

	// Timeout bounds each individual command invocation. The monitor
	// loop itself is never bounded here.
	Timeout time.Duration

	// Runner overrides command execution, mainly for tests.
	Runner Runner
}

// Client queries the Grid Engine frontend commands. All methods build
// the same command strings the scheduler documents and hand raw output
// to the format parsers; records are constructed fresh per call.
type Client struct {
	binDir  string
	timeout time.Duration
	run     Runner
}

// NewClient creates a Client for the given options.
func NewClient(opts ClientOptions) *Client {
	run := opts.Runner
	if run == nil {
		run = shell.Run
	}
	return &Client{
		binDir:  opts.BinDir,
		timeout: opts.Timeout,
		run:     run,
	}
}

// Available verifies the qstat binary can be resolved. A missing
// scheduler surfaces as shell.ErrCommandNotFound rather than failing
// later mid-query.
func (c *Client) Available() error {
	if c.binDir != "" {
		_, err := shell.Which(filepath.Join(c.binDir, CommandStatus))
		return err
	}
	_, err := shell.Which(CommandStatus)
	return err
}

// QueryOptions filter a job-list query.
type QueryOptions struct {
	Users          []string
	JobIDs         []string
	Queues         []string
	ResourceFilter string // "attr=val,..." resource filter
}

// AllUsers queries jobs of every user instead of only the caller's.
var AllUsers = []string{`"*"`}

// JobList returns the current job list via `qstat -json`.
func (c *Client) JobList(ctx context.Context, opts QueryOptions) ([]JobRecord, error) {
	cmd := c.command(CommandStatus, "-json")
	cmd = appendQueryFlags(cmd, opts)

	res, err := c.run(ctx, cmd, &shell.Options{Timeout: c.timeout, Check: true})
	if err != nil {
		return nil, err
	}
	warnStderr(CommandStatus, res.Stderr)

	return ParseJobListJSON(res.Stdout)
}

// JobListText returns the current job list via plain `qstat`,
// the column-positional fallback for installations without JSON
// support.
func (c *Client) JobListText(ctx context.Context, opts QueryOptions) ([]JobRecord, error) {
	cmd := appendQueryFlags(c.command(CommandStatus), opts)

	res, err := c.run(ctx, cmd, &shell.Options{Timeout: c.timeout, Check: true})
	if err != nil {
		return nil, err
	}
	warnStderr(CommandStatus, res.Stderr)

	return ParseJobListText(res.Stdout)
}

// JobInfo returns the detailed records of one job via
// `qstat -j <id> -nenv` in the requested format, plus any scheduler
// diagnostic lines. A finished (unknown) job yields an empty slice.
func (c *Client) JobInfo(ctx context.Context, jobID string, format InfoFormat) ([]InfoRecord, []string, error) {
	cmd := c.command(CommandStatus, "-j", jobID, "-nenv")
	switch format {
	case FormatJSON:
		cmd += " -json"
	case FormatXML:
		cmd += " -xml"
	}

	// qstat exits non-zero for unknown jobs while still printing the
	// payload, so the invocation is tolerant and the parser decides.
	res, err := c.run(ctx, cmd, &shell.Options{Timeout: c.timeout})
	if err != nil {
		return nil, nil, err
	}
	warnStderr(CommandStatus, res.Stderr)

	switch format {
	case FormatXML:
		return ParseJobInfoXML(res.Stdout)
	case FormatText:
		records, errLines := ParseJobInfoText(res.Stdout)
		return records, errLines, nil
	default:
		return ParseJobInfoJSON(res.Stdout)
	}
}

// IsLive reports whether the scheduler still lists the job id. The
// scheduler purges finished jobs from live status, so absence is the
// completion signal the monitor polls for.
func (c *Client) IsLive(ctx context.Context, jobID string) (bool, error) {
	records, _, err := c.JobInfo(ctx, jobID, FormatJSON)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// Accounting returns the historical per-task records of a finished job
// via `qacct -j <id>`, including exit statuses.
func (c *Client) Accounting(ctx context.Context, jobID string) ([]AccountingRecord, error) {
	cmd := c.command(CommandAccounting, "-j", jobID)

	res, err := c.run(ctx, cmd, &shell.Options{Timeout: c.timeout, Check: true})
	if err != nil {
		return nil, err
	}
	warnStderr(CommandAccounting, res.Stderr)

	return ParseAccounting(res.Stdout), nil
}

// HostQueryOptions filter a host-list query.
type HostQueryOptions struct {
	Hostnames          []string
	ResourceAttributes []string // resources to display (-F)
	Users              []string // implies showing jobs
	ResourceFilter     string   // "attr=val,..." filter (-l)
	ShowJobs           bool
	ShowQueues         bool
}

// Hosts returns the cluster's execution hosts via `qhost -json`.
func (c *Client) Hosts(ctx context.Context, opts HostQueryOptions) ([]HostRecord, error) {
	cmd := c.command(CommandHost, "-json")

	if len(opts.Hostnames) > 0 {
		cmd += " -h " + strings.Join(opts.Hostnames, ",")
	}
	if len(opts.ResourceAttributes) > 0 {
		cmd += " -F " + strings.Join(opts.ResourceAttributes, ",")
	}
	if opts.ResourceFilter != "" {
		cmd += " -l " + opts.ResourceFilter
	}
	showJobs := opts.ShowJobs
	if len(opts.Users) > 0 {
		cmd += " -u " + strings.Join(opts.Users, ",")
		showJobs = true
	}
	if showJobs {
		cmd += " -j"
	}
	if opts.ShowQueues {
		cmd += " -q"
	}

	res, err := c.run(ctx, cmd, &shell.Options{Timeout: c.timeout, Check: true})
	if err != nil {
		return nil, err
	}
	warnStderr(CommandHost, res.Stderr)

	return ParseHostsJSON(res.Stdout)
}

// Delete asks the scheduler to remove a job. Scheduler feedback is
// logged; qdel reports both acceptance and refusal on its streams.
func (c *Client) Delete(ctx context.Context, jobID string) error {
	cmd := c.command(CommandDelete, jobID)

	res, err := c.run(ctx, cmd, &shell.Options{Timeout: c.timeout, Check: true})
	if err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		if line != "" {
			utils.PrintMessage("%s", line)
		}
	}
	warnStderr(CommandDelete, res.Stderr)

	return nil
}

// command assembles "<binDir>/<name> <args...>".
func (c *Client) command(name string, args ...string) string {
	if c.binDir != "" {
		name = filepath.Join(c.binDir, name)
	}
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func appendQueryFlags(cmd string, opts QueryOptions) string {
	if len(opts.Users) > 0 {
		cmd += " -u " + strings.Join(opts.Users, ",")
	}
	if len(opts.JobIDs) > 0 {
		cmd += " -j " + strings.Join(opts.JobIDs, ",")
	}
	if len(opts.Queues) > 0 {
		cmd += " -q " + strings.Join(opts.Queues, ",")
	}
	if opts.ResourceFilter != "" {
		cmd += " -l " + opts.ResourceFilter
	}
	return cmd
}

func warnStderr(command, stderr string) {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		utils.PrintWarning("%s stderr: %s", command, stderr)
	}
}
