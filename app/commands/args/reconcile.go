package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/merge"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// ReconcileCommand regenerates the header of the artifact in place.
type ReconcileCommand struct{}

func init() {
	RegisterCommand(&ReconcileCommand{})
}

func (c *ReconcileCommand) Name() string { return "reconcile" }

func (c *ReconcileCommand) Description() string {
	return "Rewrites the parameter header of the movement file and keeps the logic between the markers."
}

func (c *ReconcileCommand) Usage() string { return "" }

func (c *ReconcileCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *ReconcileCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *ReconcileCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		preserved := merge.HasMarkers(s.Workspace.Raw())
		if err := s.Workspace.SaveAs(history.TriggerCLI); err != nil {
			return err
		}
		s.MarkSaved()
		if preserved {
			fmt.Fprintf(Stdout, "Reconciled %s, logic preserved.\n", s.Workspace.Path())
		} else {
			fmt.Fprintf(Stdout, "No logic markers in %s, regenerated with the default logic.\n", s.Workspace.Path())
		}
		return nil
	})
}
