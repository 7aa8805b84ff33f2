package uge

import (
	"context"
	"testing"
	"time"

	"github.com/ppqm/hpc-funcs/internal/shell"
)

// fakeRunner records the command lines it receives and replays canned
// results in order.
type fakeRunner struct {
	commands []string
	checked  []bool
	results  []shell.Result
	errs     []error
}

func (f *fakeRunner) run(ctx context.Context, command string, opts *shell.Options) (shell.Result, error) {
	f.commands = append(f.commands, command)
	checked := opts != nil && opts.Check
	f.checked = append(f.checked, checked)

	i := len(f.commands) - 1
	var res shell.Result
	if i < len(f.results) {
		res = f.results[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func newFakeClient(fake *fakeRunner) *Client {
	return NewClient(ClientOptions{
		Timeout: 5 * time.Second,
		Runner:  fake.run,
	})
}

func TestClientJobListCommand(t *testing.T) {
	fake := &fakeRunner{results: []shell.Result{{Stdout: `{}`}}}
	client := newFakeClient(fake)

	_, err := client.JobList(context.Background(), QueryOptions{
		Users:          AllUsers,
		Queues:         []string{"all.q"},
		ResourceFilter: "gpu=1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `qstat -json -u "*" -q all.q -l gpu=1`
	if fake.commands[0] != want {
		t.Errorf("command = %q, want %q", fake.commands[0], want)
	}
	if !fake.checked[0] {
		t.Error("job list query should check the exit status")
	}
}

func TestClientJobListBinDir(t *testing.T) {
	fake := &fakeRunner{results: []shell.Result{{Stdout: `{}`}}}
	client := NewClient(ClientOptions{
		BinDir: "/opt/uge/bin",
		Runner: fake.run,
	})

	if _, err := client.JobList(context.Background(), QueryOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.commands[0] != "/opt/uge/bin/qstat -json" {
		t.Errorf("command = %q", fake.commands[0])
	}
}

func TestClientJobInfoCommand(t *testing.T) {
	tests := []struct {
		format InfoFormat
		stdout string
		want   string
	}{
		{FormatJSON, `{"unknown jobs": [4126319]}`, "qstat -j 4126319 -nenv -json"},
		{FormatXML, "<detailed_job_info><djob_info/></detailed_job_info>", "qstat -j 4126319 -nenv -xml"},
		{FormatText, "", "qstat -j 4126319 -nenv"},
	}

	for _, tt := range tests {
		fake := &fakeRunner{results: []shell.Result{{Stdout: tt.stdout}}}
		client := newFakeClient(fake)

		if _, _, err := client.JobInfo(context.Background(), "4126319", tt.format); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fake.commands[0] != tt.want {
			t.Errorf("command = %q, want %q", fake.commands[0], tt.want)
		}
		// qstat exits non-zero for finished jobs; the detail query must
		// tolerate that and let the parser decide.
		if fake.checked[0] {
			t.Errorf("detail query for %s must not check the exit status", tt.format)
		}
	}
}

func TestClientIsLive(t *testing.T) {
	fake := &fakeRunner{results: []shell.Result{
		{Stdout: `{"job_info": [{"JB_job_number": 4126319}]}`},
		{Stdout: `{"unknown jobs": [4126319]}`, ExitCode: 1},
	}}
	client := newFakeClient(fake)

	live, err := client.IsLive(context.Background(), "4126319")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !live {
		t.Error("expected job to be live")
	}

	live, err = client.IsLive(context.Background(), "4126319")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if live {
		t.Error("expected job to be finished")
	}
}

func TestClientIsLiveSurfacesTransportErrors(t *testing.T) {
	// A hung or failed query must reach the monitor as an error so the
	// job stays in the working set; silence here would report a live
	// job as finished.
	fake := &fakeRunner{
		results: []shell.Result{{}, {}},
		errs: []error{
			context.DeadlineExceeded,
			nil,
		},
	}
	client := newFakeClient(fake)

	if _, err := client.IsLive(context.Background(), "4126319"); err == nil {
		t.Fatal("expected error when the query fails")
	}

	// Empty output with no diagnostics is malformed, never absence.
	if _, err := client.IsLive(context.Background(), "4126319"); err == nil {
		t.Fatal("expected error for empty query output")
	}
}

func TestClientHostsCommand(t *testing.T) {
	fake := &fakeRunner{results: []shell.Result{{Stdout: `{"qhost": []}`}}}
	client := newFakeClient(fake)

	_, err := client.Hosts(context.Background(), HostQueryOptions{
		Hostnames:          []string{"node001", "node002"},
		ResourceAttributes: []string{"gpu"},
		Users:              []string{"alice"},
		ShowQueues:         true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "qhost -json -h node001,node002 -F gpu -u alice -j -q"
	if fake.commands[0] != want {
		t.Errorf("command = %q, want %q", fake.commands[0], want)
	}
}

func TestClientAccountingCommand(t *testing.T) {
	fake := &fakeRunner{results: []shell.Result{{Stdout: qacctFixture}}}
	client := newFakeClient(fake)

	records, err := client.Accounting(context.Background(), "4126319")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.commands[0] != "qacct -j 4126319" {
		t.Errorf("command = %q", fake.commands[0])
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestClientDeleteCommand(t *testing.T) {
	fake := &fakeRunner{results: []shell.Result{{Stdout: "alice has registered the job 4126319 for deletion\n"}}}
	client := newFakeClient(fake)

	if err := client.Delete(context.Background(), "4126319"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.commands[0] != "qdel 4126319" {
		t.Errorf("command = %q", fake.commands[0])
	}
}
