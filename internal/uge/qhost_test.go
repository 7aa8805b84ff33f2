package uge

import (
	"errors"
	"testing"
)

const qhostJSONFixture = `{
  "qhost": [
    {
      "name": "global",
      "host_values": []
    },
    {
      "name": "node001",
      "host_values": [
        {"name": "arch_string", "value": "lx-amd64"},
        {"name": "num_proc", "value": "64"},
        {"name": "load_avg", "value": "12.03"},
        {"name": "mem_total", "value": "503.6G"},
        {"name": "mem_used", "value": "120.1G"}
      ],
      "resource_values": [
        {"name": "gpu", "value": "4", "dominance": "hl"}
      ],
      "queues": [
        {"name": "all.q", "slots_total": 64, "slots_used": 12},
        {"name": "gpu.q", "slots_total": 8, "slots_used": 4}
      ],
      "jobs": [
        {"job_number": 4126319, "slots": 4},
        {"job_number": 4126320, "slots": 1}
      ]
    }
  ]
}`

func TestParseHostsJSON(t *testing.T) {
	hosts, err := ParseHostsJSON(qhostJSONFixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hosts) != 1 {
		t.Fatalf("expected 1 host (global dropped), got %d", len(hosts))
	}

	host := hosts[0]
	if host.Hostname() != "node001" {
		t.Errorf("unexpected hostname: %q", host.Hostname())
	}
	if host["arch_string"] != "lx-amd64" {
		t.Errorf("unexpected arch: %q", host["arch_string"])
	}
	if host["resource_gpu"] != "4" {
		t.Errorf("unexpected gpu resource: %q", host["resource_gpu"])
	}
	if host["resource_gpu_dominance"] != "hl" {
		t.Errorf("unexpected gpu dominance: %q", host["resource_gpu_dominance"])
	}
	if host["num_queues"] != "2" {
		t.Errorf("unexpected queue count: %q", host["num_queues"])
	}
	if host["queue_slots_total"] != "72" {
		t.Errorf("unexpected total queue slots: %q", host["queue_slots_total"])
	}
	if host["queue_slots_used"] != "16" {
		t.Errorf("unexpected used queue slots: %q", host["queue_slots_used"])
	}
	if host["num_jobs"] != "2" {
		t.Errorf("unexpected job count: %q", host["num_jobs"])
	}
	if host["job_ids"] != "4126319,4126320" {
		t.Errorf("unexpected job ids: %q", host["job_ids"])
	}
	if host["job_slots_used"] != "5" {
		t.Errorf("unexpected job slots: %q", host["job_slots_used"])
	}
}

func TestParseHostsJSONMalformed(t *testing.T) {
	_, err := ParseHostsJSON(`{"qhost": [`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.Is(err, &MalformedOutputError{}) {
		t.Fatalf("expected MalformedOutputError, got %T", err)
	}
}

func TestParseMemoryValue(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "503.6G", want: 503.6},
		{raw: "1024M", want: 1},
		{raw: "2T", want: 2048},
		{raw: "-", want: 0},
		{raw: "", want: 0},
		{raw: "12", want: 12},
		{raw: "abcQ", wantErr: true},
		{raw: "1X", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMemoryValue(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMemoryValue(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMemoryValue(%q): unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMemoryValue(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
