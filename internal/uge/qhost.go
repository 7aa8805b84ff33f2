package uge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HostRecord is one normalized row of qhost output: an open mapping
// from field name to value so site-specific resources pass through.
type HostRecord map[string]string

// Hostname returns the host's name field.
func (r HostRecord) Hostname() string { return r["hostname"] }

// ParseHostsJSON normalizes `qhost -json` output into one open record
// per host. Host values (arch, num_proc, load, memory) map directly;
// resource values gain a "resource_" prefix, with dominance stored
// alongside when reported. Queue and job sections, when requested from
// the scheduler, collapse into summary fields. The leading "global"
// summary row is dropped.
func ParseHostsJSON(stdout string) ([]HostRecord, error) {
	var payload struct {
		Hosts []struct {
			Name       string `json:"name"`
			HostValues []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"host_values"`
			ResourceValues []struct {
				Name      string `json:"name"`
				Value     string `json:"value"`
				Dominance string `json:"dominance"`
			} `json:"resource_values"`
			Queues []struct {
				Name       string `json:"name"`
				SlotsTotal int    `json:"slots_total"`
				SlotsUsed  int    `json:"slots_used"`
			} `json:"queues"`
			Jobs []struct {
				JobNumber json.Number `json:"job_number"`
				Slots     int         `json:"slots"`
			} `json:"jobs"`
		} `json:"qhost"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return nil, newMalformedOutputError("json", stdout, err)
	}

	var records []HostRecord
	for _, host := range payload.Hosts {
		if host.Name == "global" {
			continue
		}

		record := HostRecord{"hostname": host.Name}

		for _, item := range host.HostValues {
			if item.Name != "" {
				record[item.Name] = item.Value
			}
		}

		for _, item := range host.ResourceValues {
			if item.Name == "" {
				continue
			}
			record["resource_"+item.Name] = item.Value
			if item.Dominance != "" {
				record["resource_"+item.Name+"_dominance"] = item.Dominance
			}
		}

		if len(host.Queues) > 0 {
			names := make([]string, 0, len(host.Queues))
			totalSlots, usedSlots := 0, 0
			for _, q := range host.Queues {
				names = append(names, q.Name)
				totalSlots += q.SlotsTotal
				usedSlots += q.SlotsUsed
			}
			record["num_queues"] = strconv.Itoa(len(host.Queues))
			record["queue_names"] = strings.Join(names, ",")
			record["queue_slots_total"] = strconv.Itoa(totalSlots)
			record["queue_slots_used"] = strconv.Itoa(usedSlots)
		}

		if len(host.Jobs) > 0 {
			ids := make([]string, 0, len(host.Jobs))
			jobSlots := 0
			for _, j := range host.Jobs {
				ids = append(ids, j.JobNumber.String())
				jobSlots += j.Slots
			}
			record["num_jobs"] = strconv.Itoa(len(host.Jobs))
			record["job_ids"] = strings.Join(ids, ",")
			record["job_slots_used"] = strconv.Itoa(jobSlots)
		}

		records = append(records, record)
	}

	return records, nil
}

// ParseMemoryValue converts a qhost memory string ("503.6G", "1024M",
// "2T", "-") into gigabytes. Unknown or empty values yield 0.
func ParseMemoryValue(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0, nil
	}

	unit := raw[len(raw)-1]
	if unit >= '0' && unit <= '9' {
		// No unit suffix, assume GB.
		return strconv.ParseFloat(raw, 64)
	}

	number, err := strconv.ParseFloat(raw[:len(raw)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory value %q: %w", raw, err)
	}

	switch unit {
	case 'K', 'k':
		return number / (1024 * 1024), nil
	case 'M', 'm':
		return number / 1024, nil
	case 'G', 'g':
		return number, nil
	case 'T', 't':
		return number * 1024, nil
	default:
		return 0, fmt.Errorf("invalid memory unit in %q", raw)
	}
}
