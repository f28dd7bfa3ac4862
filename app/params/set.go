package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownParameter is returned for names missing from the descriptor table.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidValue is returned when a value cannot be parsed or is not allowed.
	ErrInvalidValue = errors.New("invalid parameter value")
)

// Set maps every descriptor name to its canonical (already formatted) value.
// A Set never has a missing entry: it starts from the defaults and values are
// only ever replaced.
type Set struct {
	values map[string]string
}

// Defaults returns a Set populated with every descriptor's default value.
func Defaults() *Set {
	s := &Set{values: make(map[string]string, len(table))}
	for _, d := range table {
		s.values[d.Name] = d.Default
	}
	return s
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := &Set{values: make(map[string]string, len(s.values))}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

// Get returns the canonical value for name.
func (s *Set) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Value returns the canonical value for name or "" if the name is unknown.
func (s *Set) Value(name string) string {
	return s.values[name]
}

// Float returns a float parameter as a number. Enums and unknown names yield 0.
func (s *Set) Float(name string) float64 {
	f, err := strconv.ParseFloat(s.values[name], 64)
	if err != nil {
		return 0
	}
	return f
}

// Set parses raw according to the descriptor and stores the canonical form.
// Floats are clamped to [Min, Max] and rounded to Precision. Enums must match
// an allowed value exactly.
func (s *Set) Set(name, raw string) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	canonical, err := normalize(d, raw)
	if err != nil {
		return err
	}
	s.values[name] = canonical
	return nil
}

// SetFloat stores a numeric value for a float parameter.
func (s *Set) SetFloat(name string, f float64) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	if d.Kind != KindFloat {
		return fmt.Errorf("%w: %s is not numeric", ErrInvalidValue, name)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidValue, name)
	}
	s.values[name] = formatFloat(clamp(f, d.Min, d.Max), d.Precision)
	return nil
}

// Step moves a parameter by n increments. Floats move by Step and clamp at
// the bounds; enums cycle through Allowed.
func (s *Set) Step(name string, n int) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	switch d.Kind {
	case KindEnum:
		idx := 0
		for i, a := range d.Allowed {
			if a == s.values[name] {
				idx = i
				break
			}
		}
		size := len(d.Allowed)
		idx = ((idx+n)%size + size) % size
		s.values[name] = d.Allowed[idx]
		return nil
	default:
		return s.SetFloat(name, s.Float(name)+float64(n)*d.Step)
	}
}

// Equal reports whether both sets hold the same canonical values.
func (s *Set) Equal(o *Set) bool {
	if o == nil || len(s.values) != len(o.values) {
		return false
	}
	for k, v := range s.values {
		if o.values[k] != v {
			return false
		}
	}
	return true
}

// String renders "name=value" pairs in table order, mostly for logs.
func (s *Set) String() string {
	parts := make([]string, 0, len(table))
	for _, d := range table {
		parts = append(parts, d.Name+"="+s.values[d.Name])
	}
	return strings.Join(parts, " ")
}

func normalize(d Descriptor, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if d.Kind == KindEnum {
		raw = strings.Trim(raw, `"`)
		for _, a := range d.Allowed {
			if a == raw {
				return a, nil
			}
		}
		return "", fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidValue, d.Name, strings.Join(d.Allowed, ", "), raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidValue, d.Name, raw)
	}
	return formatFloat(clamp(f, d.Min, d.Max), d.Precision), nil
}

func clamp(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}

func formatFloat(f float64, precision int) string {
	scale := math.Pow(10, float64(precision))
	return strconv.FormatFloat(math.Round(f*scale)/scale, 'f', precision, 64)
}
