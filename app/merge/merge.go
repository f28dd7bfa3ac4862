package merge

import (
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
)

// -----------------------------------------------------------------------------
// [MERGE] Header/logic reconciliation between the structured view and the artifact
// -----------------------------------------------------------------------------

// markerSpan holds byte offsets of the logic region inside an artifact.
type markerSpan struct {
	start int // first byte of the start marker line
	logic int // first byte after the start marker line
	end   int // first byte of the end marker line
}

// locateMarkers finds the first start marker line and the first end marker
// line after it. Both must match as whole lines.
func locateMarkers(text string) (markerSpan, bool) {
	span := markerSpan{start: -1, end: -1}
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		bare := strings.TrimRight(line, "\r\n")
		switch {
		case span.start < 0 && bare == codegen.StartMarker:
			span.start = offset
			span.logic = offset + len(line)
		case span.start >= 0 && bare == codegen.EndMarker:
			span.end = offset
			return span, true
		}
		offset += len(line)
	}
	return span, false
}

// HasMarkers reports whether text carries a usable start/end marker pair.
func HasMarkers(text string) bool {
	_, ok := locateMarkers(text)
	return ok
}

// Reconcile produces the artifact to persist from the current parameters and
// the previously persisted text. With both markers present the header is
// replaced by a fresh render, the logic region is kept verbatim apart from
// trailing blank lines, and everything from the end marker on is kept as is.
// Without markers the result is exactly codegen.Render(p). The boolean
// reports which of the two happened.
func Reconcile(p *params.Set, prior string) (string, bool) {
	span, ok := locateMarkers(prior)
	if !ok {
		return codegen.Render(p), false
	}
	var b strings.Builder
	b.WriteString(codegen.RenderHeader(p))
	b.WriteString(codegen.StartMarker + "\n")
	if logic := TrimTrailingBlankLines(prior[span.logic:span.end]); logic != "" {
		b.WriteString(logic + "\n")
	}
	b.WriteString(prior[span.end:])
	return b.String(), true
}

// LogicRegion returns the text between the markers of an artifact.
func LogicRegion(artifact string) (string, bool) {
	span, ok := locateMarkers(artifact)
	if !ok {
		return "", false
	}
	return TrimTrailingBlankLines(artifact[span.logic:span.end]), true
}

// SpliceLogic swaps the logic region of an artifact for logic, leaving the
// header and the tail untouched. Artifacts without markers are returned as is.
func SpliceLogic(artifact, logic string) (string, bool) {
	span, ok := locateMarkers(artifact)
	if !ok {
		return artifact, false
	}
	logic = TrimTrailingBlankLines(logic)
	if logic != "" {
		logic += "\n"
	}
	return artifact[:span.logic] + logic + artifact[span.end:], true
}

// ExtractLogicRegion returns everything after the separator line of a
// structured document, with trailing blank lines removed. The boolean is false
// when the separator is missing, i.e. the document was never generated.
func ExtractLogicRegion(doc string) (string, bool) {
	offset := 0
	for _, line := range strings.SplitAfter(doc, "\n") {
		offset += len(line)
		if strings.Contains(line, codegen.Separator) {
			return TrimTrailingBlankLines(doc[offset:]), true
		}
	}
	return "", false
}

// Loaded is the structured view assembled from a persisted artifact.
type Loaded struct {
	Document  string
	Params    *params.Set
	Logic     string
	Preserved bool // false when the artifact had no markers and defaults were used
}

// LoadDocument rebuilds the structured document from an artifact. Parameters
// are read back from the header above the start marker so edits made in the
// raw view carry over; the logic comes from between the markers. Without
// markers the default logic is used and p is returned unchanged.
func LoadDocument(p *params.Set, artifact string) Loaded {
	artifact = strings.ReplaceAll(artifact, "\r\n", "\n")
	span, ok := locateMarkers(artifact)
	if !ok {
		return Loaded{
			Document: codegen.RenderDocument(p, codegen.DefaultLogic),
			Params:   p.Clone(),
			Logic:    codegen.DefaultLogic,
		}
	}
	next := codegen.Extract(artifact[:span.start], p)
	logic := TrimTrailingBlankLines(artifact[span.logic:span.end])
	return Loaded{
		Document:  codegen.RenderDocument(next, logic),
		Params:    next,
		Logic:     logic,
		Preserved: true,
	}
}

// TrimTrailingBlankLines drops trailing lines that contain only whitespace,
// along with the final newline.
func TrimTrailingBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
