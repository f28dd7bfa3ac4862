package codegen

import (
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
)

// Extract scans text for every descriptor's pattern and returns prior updated
// with the values it found. Only the first match of each pattern counts.
// Names with no match, unparseable numbers or enum values outside the allowed
// set keep their prior value. Extract never fails and never mutates prior.
func Extract(text string, prior *params.Set) *params.Set {
	out := prior.Clone()
	for _, d := range params.Descriptors() {
		m := d.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// Rejected values leave the previous entry in place.
		_ = out.Set(d.Name, m[1])
	}
	return out
}

// Changed lists the names whose values differ between a and b, in header order.
func Changed(a, b *params.Set) []string {
	var names []string
	for _, name := range params.Names() {
		if a.Value(name) != b.Value(name) {
			names = append(names, name)
		}
	}
	return names
}
