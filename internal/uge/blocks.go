package uge

import "strings"

// sectionRule is the substring marking a record separator line in
// block-formatted output (qacct prints a full row of '=').
const sectionRule = "==========="

// minPairsPerSection guards against separator-looking lines inside a
// section's free-text value: a new section only starts once the
// current one holds at least two key-value pairs.
const minPairsPerSection = 2

// ParseBlocks parses column-split "key<pad>value" output into one
// ordered mapping per section. Everything before keyWidth on a line is
// the key (with a trailing colon stripped), the remainder the value;
// lines with a blank key are skipped. Sections are separated by rule
// lines of '=' characters.
func ParseBlocks(stdout string, keyWidth int) []map[string]string {
	sections := []map[string]string{{}}

	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, sectionRule) {
			if len(sections[len(sections)-1]) >= minPairsPerSection {
				sections = append(sections, map[string]string{})
			}
			continue
		}

		var key, value string
		if len(line) > keyWidth {
			key = line[:keyWidth]
			value = line[keyWidth:]
		} else {
			key = line
		}

		key = strings.TrimSuffix(strings.TrimSpace(key), ":")
		value = strings.TrimSpace(value)

		if key == "" {
			continue
		}

		sections[len(sections)-1][key] = value
	}

	// Drop a trailing empty section left by a final separator line.
	if last := sections[len(sections)-1]; len(last) == 0 {
		sections = sections[:len(sections)-1]
	}

	return sections
}
