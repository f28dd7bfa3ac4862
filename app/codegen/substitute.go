package codegen

import (
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
)

// Substitute rewrites the first assignment of every parameter in text so it
// carries the value from p. Later assignments of the same name are left alone.
// It returns the new text and the number of assignments whose value changed.
func Substitute(text string, p *params.Set) (string, int) {
	out, _, n := SubstituteAt(text, p, len(text))
	return out, n
}

// SubstituteAt behaves like Substitute and also moves cursor (a byte offset)
// so it keeps pointing at the same surrounding text. A cursor inside a
// rewritten value is clamped to the end of the new value.
func SubstituteAt(text string, p *params.Set, cursor int) (string, int, int) {
	changed := 0
	for _, d := range params.Descriptors() {
		loc := d.Replace.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		prefix := text[loc[2]:loc[3]]
		replacement := prefix + d.Literal(p.Value(d.Name))
		if text[loc[0]:loc[1]] == replacement {
			continue
		}
		text = text[:loc[0]] + replacement + text[loc[1]:]
		changed++

		newEnd := loc[0] + len(replacement)
		switch {
		case cursor >= loc[1]:
			cursor += newEnd - loc[1]
		case cursor > newEnd:
			cursor = newEnd
		}
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	if cursor < 0 {
		cursor = 0
	}
	return text, cursor, changed
}
