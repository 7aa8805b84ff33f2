package uge

import (
	"encoding/xml"
	"strings"
)

// xmlNode is a generic element tree: Grid Engine XML output never uses
// attributes, so tag, text and children carry all information.
type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

// listTag is the scheduler's generic "repeated item" wrapper. Its
// presence among an element's children is the only signal that the
// element encodes a sequence rather than a record.
const listTag = "element"

// jobDetailTag is the node holding one record per queried job in
// `qstat -j -xml` output.
const jobDetailTag = "djob_info"

// ParseJobInfoXML normalizes `qstat -j <id> -xml` detail output.
// Diagnostic lines preceding the XML are split off like in the JSON
// path. Every element child of a djob_info node becomes one InfoRecord;
// a job node that does not normalize to a mapping means the output is
// structurally broken and fails the parse.
func ParseJobInfoXML(stdout string) ([]InfoRecord, []string, error) {
	rest, errLines := SplitErrorLines(stdout)

	if strings.TrimSpace(rest) == "" {
		if len(errLines) > 0 {
			return nil, errLines, nil
		}
		return nil, nil, newMalformedOutputError("xml", stdout, nil)
	}

	var root xmlNode
	if err := xml.Unmarshal([]byte(rest), &root); err != nil {
		return nil, errLines, newMalformedOutputError("xml", rest, err)
	}

	var records []InfoRecord
	for _, detail := range findNodes(root, jobDetailTag) {
		for _, child := range detail.Children {
			if child.XMLName.Local != listTag {
				continue
			}
			value := normalizeElement(child)
			mapping, ok := value.(map[string]any)
			if !ok {
				return nil, errLines, newMalformedOutputError("xml", rest, nil)
			}
			records = append(records, InfoRecord(mapping))
		}
	}

	return records, errLines, nil
}

// normalizeElement recursively converts an attribute-less element into
// a trimmed string (no children), a flat sequence (a child tagged
// "element" exists) or a mapping (children grouped by tag, repeated
// tags becoming sequences).
func normalizeElement(node xmlNode) any {
	if len(node.Children) == 0 {
		return strings.TrimSpace(node.Text)
	}

	if hasListChild(node) {
		return elementToList(node)
	}

	return elementToMap(node)
}

func hasListChild(node xmlNode) bool {
	for _, child := range node.Children {
		if child.XMLName.Local == listTag {
			return true
		}
	}
	return false
}

// elementToList visits each "element" child and flattens single-level
// sequences, so repeated leaf or record items merge into one flat
// sequence instead of nesting.
func elementToList(node xmlNode) []any {
	out := []any{}
	for _, child := range node.Children {
		if child.XMLName.Local != listTag {
			continue
		}
		value := normalizeElement(child)
		if nested, ok := value.([]any); ok {
			out = append(out, nested...)
		} else {
			out = append(out, value)
		}
	}
	return out
}

// elementToMap groups children by tag: a tag seen once maps to its
// normalized value, a tag seen multiple times maps to a sequence of
// them, in document order.
func elementToMap(node xmlNode) map[string]any {
	grouped := make(map[string][]any)
	order := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		tag := child.XMLName.Local
		if _, seen := grouped[tag]; !seen {
			order = append(order, tag)
		}
		grouped[tag] = append(grouped[tag], normalizeElement(child))
	}

	out := make(map[string]any, len(order))
	for _, tag := range order {
		values := grouped[tag]
		if len(values) == 1 {
			out[tag] = values[0]
		} else {
			out[tag] = values
		}
	}
	return out
}

// findNodes collects every node with the given tag, depth first.
func findNodes(node xmlNode, tag string) []xmlNode {
	var found []xmlNode
	if node.XMLName.Local == tag {
		found = append(found, node)
	}
	for _, child := range node.Children {
		found = append(found, findNodes(child, tag)...)
	}
	return found
}
