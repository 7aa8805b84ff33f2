package uge

// ParseAccounting parses `qacct -j <id>` output into one record per
// finished task. The format is the column-split block layout with '='
// rule lines between tasks; every field passes through as-is so new
// accounting fields never break the parse.
func ParseAccounting(stdout string) []AccountingRecord {
	sections := ParseBlocks(stdout, accountingKeyWidth)

	records := make([]AccountingRecord, 0, len(sections))
	for _, section := range sections {
		records = append(records, AccountingRecord(section))
	}
	return records
}
