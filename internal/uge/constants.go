// Package uge queries Univa/Altair Grid Engine command-line tools and
// normalizes their text, JSON and XML output into canonical job and
// host records.
package uge

// Grid Engine frontend commands used by this package.
const (
	CommandStatus     = "qstat"
	CommandAccounting = "qacct"
	CommandHost       = "qhost"
	CommandDelete     = "qdel"
)

// State tag tables as reported in live qstat output. Tags are matched
// exactly; a tag outside these tables is a parsing gap, never a silent
// fallback.
var (
	TagsPending   = []string{"qw", "hqw", "hRwq"}
	TagsRunning   = []string{"r", "t", "Rr", "Rt", "x"}
	TagsSuspended = []string{"s", "ts", "S", "tS", "T", "tT", "Rs", "Rts", "RS", "RtS", "RT", "RtT"}
	TagsError     = []string{"Eqw", "Ehqw", "EhRqw"}
	TagsDeleted   = []string{"dr", "dt", "dRr", "dRt", "ds", "dS", "dT", "dRs", "dRS", "dRT"}
)

// Expected column headers of the plain `qstat` job list, in layout order.
// Offsets are derived from the header line at parse time because
// installations reorder and resize columns.
var JobListColumns = []string{
	ColumnJobID,
	ColumnPriority,
	ColumnName,
	ColumnUser,
	ColumnState,
	ColumnSubmitStartAt,
	ColumnQueue,
	ColumnJClass,
	ColumnSlots,
	ColumnTaskID,
}

// Column header names of the plain qstat job list.
const (
	ColumnJobID         = "job-ID"
	ColumnPriority      = "prior"
	ColumnName          = "name"
	ColumnUser          = "user"
	ColumnState         = "state"
	ColumnSubmitStartAt = "submit/start at"
	ColumnQueue         = "queue"
	ColumnJClass        = "jclass"
	ColumnSlots         = "slots"
	ColumnTaskID        = "ja-task-ID"
)

// Key column widths of the `key<pad>value` block formats. The value
// starts at a fixed character offset that differs per command.
const (
	accountingKeyWidth = 13 // qacct -j
	jobInfoKeyWidth    = 28 // qstat -j (plain text)
)

// errorLinePrefix marks scheduler diagnostic lines interleaved before
// structured qstat -j payloads, e.g.
//
//	error reason   1: can't open output file "/no/such/dir": Permission denied
const errorLinePrefix = "error reason"
