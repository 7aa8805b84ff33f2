package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ppqm/hpc-funcs/internal/config"
	"github.com/ppqm/hpc-funcs/internal/shell"
	"github.com/ppqm/hpc-funcs/internal/uge"
)

// newClient builds a scheduler client from the resolved global config.
// Queries retry on transient failures when retries are configured;
// busy scheduler masters drop connections under load.
func newClient() *uge.Client {
	opts := uge.ClientOptions{
		BinDir:  config.Global.BinDir,
		Timeout: config.Global.CommandTimeout,
	}

	if retries := config.Global.MaxRetries; retries > 0 {
		delay := config.Global.RetryDelay
		opts.Runner = func(ctx context.Context, command string, runOpts *shell.Options) (shell.Result, error) {
			return shell.RunWithRetry(ctx, command, runOpts, retries, delay)
		}
	}

	return uge.NewClient(opts)
}

// newTable creates a stdout table with the plain style used for all
// listing output.
func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// splitCSV splits a repeatable comma-separated flag value.
func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, piece := range strings.Split(v, ",") {
			piece = strings.TrimSpace(piece)
			if piece != "" {
				out = append(out, piece)
			}
		}
	}
	return out
}
