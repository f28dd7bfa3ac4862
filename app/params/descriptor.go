package params

import (
	"fmt"
	"regexp"
	"strings"
)

// -----------------------------------------------------------------------------
// [PARAMS] Descriptor table shared by the generator and the extractor
// -----------------------------------------------------------------------------

// Kind is the semantic type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// EditMark is appended to every generated parameter line so non-experts can
// spot which values they are allowed to touch.
const EditMark = "← edit"

// Descriptor describes one editable parameter. The table is fixed at build
// time; the rest of the engine iterates it instead of hard-coding names.
type Descriptor struct {
	Name      string   // identifier used in the generated source (self.<Name>)
	Label     string   // human label for the structured form
	Kind      Kind     // float or enum
	Precision int      // fixed decimal places for floats
	Min       float64  // inclusive lower bound for floats
	Max       float64  // inclusive upper bound for floats
	Step      float64  // increment used by +/- in the form
	Allowed   []string // allowed values for enums, in display order
	Default   string   // canonical default value

	// Pattern captures the value of the first assignment (group 1).
	Pattern *regexp.Regexp
	// Replace captures everything up to the value (group 1) so the value can
	// be swapped without touching the surrounding text.
	Replace *regexp.Regexp
	// Template renders the full header line; it holds exactly one %s verb.
	Template string
}

// Line renders the header line for the given canonical value.
func (d Descriptor) Line(value string) string {
	return fmt.Sprintf(d.Template, value)
}

// Format renders a number with the descriptor's fixed precision.
func (d Descriptor) Format(f float64) string {
	return formatFloat(f, d.Precision)
}

// Literal renders the value the way it appears right after "=" in source,
// quoting enums.
func (d Descriptor) Literal(value string) string {
	if d.Kind == KindEnum {
		return `"` + value + `"`
	}
	return value
}

// Hint is the short range/choice description shown next to the form field.
func (d Descriptor) Hint() string {
	if d.Kind == KindEnum {
		return strings.Join(d.Allowed, "|")
	}
	return fmt.Sprintf("%s..%s", formatFloat(d.Min, d.Precision), formatFloat(d.Max, d.Precision))
}

func floatParam(name, label string, precision int, min, max, step, def float64, pad int, unit string) Descriptor {
	q := regexp.QuoteMeta(name)
	return Descriptor{
		Name:      name,
		Label:     label,
		Kind:      KindFloat,
		Precision: precision,
		Min:       min,
		Max:       max,
		Step:      step,
		Default:   formatFloat(def, precision),
		Pattern:   regexp.MustCompile(`self\.` + q + `\s*=\s*([\d.]+)`),
		Replace:   regexp.MustCompile(`(self\.` + q + `\s*=\s*)[\d.]+`),
		Template:  "self." + name + " = %s" + strings.Repeat(" ", pad) + "# " + unit + "  " + EditMark,
	}
}

func enumParam(name, label string, allowed []string, def string, pad int) Descriptor {
	q := regexp.QuoteMeta(name)
	return Descriptor{
		Name:     name,
		Label:    label,
		Kind:     KindEnum,
		Allowed:  allowed,
		Default:  def,
		Pattern:  regexp.MustCompile(`self\.` + q + `\s*=\s*"([^"]+)"`),
		Replace:  regexp.MustCompile(`(self\.` + q + `\s*=\s*)"[^"]*"`),
		Template: "self." + name + ` = "%s"` + strings.Repeat(" ", pad) + "# " + strings.Join(allowed, "|") + "  " + EditMark,
	}
}

// table is the single source of truth for every parameter. Padding keeps the
// comments roughly aligned in the generated header.
var table = []Descriptor{
	floatParam("forward_speed", "Forward Speed (m/s)", 2, 0.01, 2.0, 0.05, 0.30, 7, "m/s"),
	floatParam("backward_speed", "Backward Speed (m/s)", 2, 0.01, 2.0, 0.05, 0.20, 6, "m/s"),
	floatParam("turn_speed", "Turn Speed (rad/s)", 2, 0.1, 3.0, 0.1, 1.00, 10, "rad/s"),
	floatParam("obstacle_distance", "Obstacle Distance (m)", 2, 0.10, 2.0, 0.05, 0.30, 3, "metres"),
	floatParam("turn_cw_deg", "Turn Clockwise (deg)", 1, 0, 360, 5, 90.0, 9, "degrees CW"),
	floatParam("turn_acw_deg", "Turn Anti-Clockwise (deg)", 1, 0, 360, 5, 90.0, 8, "degrees ACW"),
	enumParam("colour_detection", "Colour Detection", []string{"Red", "Blue", "Yellow", "Green"}, "Red", 3),
}

var byName = func() map[string]int {
	m := make(map[string]int, len(table))
	for i, d := range table {
		m[d.Name] = i
	}
	return m
}()

// Descriptors returns the parameter table in header order. The returned slice
// is a copy; descriptors themselves are immutable.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(table))
	copy(out, table)
	return out
}

// Lookup finds a descriptor by name.
func Lookup(name string) (Descriptor, bool) {
	i, ok := byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return table[i], true
}

// Names returns the parameter names in header order.
func Names() []string {
	names := make([]string, len(table))
	for i, d := range table {
		names[i] = d.Name
	}
	return names
}
