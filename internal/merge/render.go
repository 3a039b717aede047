package merge

import "strings"

// SegmentKind classifies one unit of merge output
type SegmentKind string

const (
	SegmentLiteral    SegmentKind = "literal"
	SegmentResolved   SegmentKind = "resolved"
	SegmentUnresolved SegmentKind = "unresolved"
)

// Segment is one atomic unit in the ordered breakdown of a merged
// template: a run of literal text, or one placeholder occurrence with
// its substituted value. Concatenating the Text of all segments yields
// the flat rendering.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text"`
	Name string      `json:"name,omitempty"` // placeholder name, empty for literals
	Key  string      `json:"key,omitempty"`  // resolution key, empty for literals
}

const diagnosticHeader = "\n\n---\nNote: The following placeholders could not be resolved:\n"

// Render substitutes every placeholder in template with its resolved
// value and returns the flat document. Unresolved placeholders become
// empty text and are listed in a diagnostic block appended to the end.
// Export always succeeds; gaps are visible, never fatal.
func Render(template string, data Data) string {
	var b strings.Builder
	for _, seg := range RenderSegments(template, data) {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// RenderSegments walks template left to right and emits one segment per
// literal run and one per physical placeholder occurrence (repeated names
// produce repeated segments). When any occurrence is unresolved the
// diagnostic block is appended as a trailing literal segment so the
// interactive preview shows the same warning as the export.
func RenderSegments(template string, data Data) []Segment {
	occs := scan(template)
	if len(occs) == 0 {
		return []Segment{{Kind: SegmentLiteral, Text: template}}
	}

	resolved := make(map[string]Resolution, len(occs))
	for _, occ := range occs {
		if _, ok := resolved[occ.name]; !ok {
			resolved[occ.name] = Resolve(occ.name, data)
		}
	}

	var segs []Segment
	var missing []string
	missingSeen := make(map[string]bool)
	pos := 0
	for _, occ := range occs {
		if occ.start > pos {
			segs = append(segs, Segment{Kind: SegmentLiteral, Text: template[pos:occ.start]})
		}
		res := resolved[occ.name]
		if res.Found {
			segs = append(segs, Segment{Kind: SegmentResolved, Text: res.Value, Name: occ.name, Key: res.Key})
		} else {
			segs = append(segs, Segment{Kind: SegmentUnresolved, Text: "", Name: occ.name, Key: res.Key})
			if !missingSeen[occ.name] {
				missingSeen[occ.name] = true
				missing = append(missing, occ.name)
			}
		}
		pos = occ.end
	}
	if pos < len(template) {
		segs = append(segs, Segment{Kind: SegmentLiteral, Text: template[pos:]})
	}

	if len(missing) > 0 {
		var b strings.Builder
		b.WriteString(diagnosticHeader)
		for _, name := range missing {
			b.WriteString("- {{" + name + "}}\n")
		}
		segs = append(segs, Segment{Kind: SegmentLiteral, Text: b.String()})
	}

	return segs
}
