package codegen

import (
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
)

// -----------------------------------------------------------------------------
// [GENERATE] Canonical source text rendered from a parameter set
// -----------------------------------------------------------------------------

const (
	// Indent is the body indentation of control_loop and __init__.
	Indent = "        "

	// Separator ends the generated header in both the structured document and
	// the artifact. Everything after it is user logic.
	Separator = "# === Movement Logic ==="

	// BoundarySentinel marks the first line where structural insertions are
	// allowed to follow.
	BoundarySentinel = "def control_loop"

	// StartMarker and EndMarker delimit the preserved logic region inside the
	// persisted artifact. They are matched as whole lines, indentation included.
	StartMarker = Indent + "# user control_loop logic below"
	EndMarker   = Indent + "# end user control_loop logic"
)

// DefaultLogic is the control_loop body used for fresh projects.
const DefaultLogic = Indent + "if self.obstacle_in_front():\n" +
	Indent + "    self.stop()                       # stop movement\n" +
	Indent + "    self.turn_cw(self.turn_cw_deg)    # turn clockwise  " + params.EditMark + "\n" +
	Indent + "else:\n" +
	Indent + "    self.move(self.forward_speed)     # drive forward  " + params.EditMark

const artifactFooter = "\n\nif __name__ == \"__main__\":\n    Movement().run()\n"

// RenderHeader renders everything up to and including the separator line. The
// result depends on p alone.
func RenderHeader(p *params.Set) string {
	var b strings.Builder
	b.WriteString("from codebotair import Robot\n\n")
	b.WriteString("class Movement(Robot):\n")
	b.WriteString("    def __init__(self):\n")
	b.WriteString(Indent + "super().__init__()\n")
	b.WriteString(Indent + "# === Editable Parameters ===\n")
	for _, d := range params.Descriptors() {
		b.WriteString(Indent)
		b.WriteString(d.Line(p.Value(d.Name)))
		b.WriteString("\n")
	}
	b.WriteString("\n    # vvv Drag and drop functions below vvv\n\n")
	b.WriteString("    " + BoundarySentinel + "(self):\n")
	b.WriteString(Indent + Separator + "\n")
	return b.String()
}

// RenderDocument renders the structured view: header followed by logic.
func RenderDocument(p *params.Set, logic string) string {
	if logic == "" {
		return RenderHeader(p)
	}
	return RenderHeader(p) + logic + "\n"
}

// RenderArtifact renders a complete persisted artifact with logic wrapped in
// the start and end markers.
func RenderArtifact(p *params.Set, logic string) string {
	var b strings.Builder
	b.WriteString(RenderHeader(p))
	b.WriteString(StartMarker + "\n")
	if logic != "" {
		b.WriteString(logic + "\n")
	}
	b.WriteString(EndMarker + "\n")
	b.WriteString(artifactFooter)
	return b.String()
}

// Render is the full default render used for new projects.
func Render(p *params.Set) string {
	return RenderArtifact(p, DefaultLogic)
}
