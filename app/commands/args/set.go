package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// SetCommand changes one parameter and saves the artifact.
type SetCommand struct{}

func init() {
	RegisterCommand(&SetCommand{})
}

func (c *SetCommand) Name() string { return "set" }

func (c *SetCommand) Description() string {
	return "Sets a parameter and rewrites the header of the movement file, keeping the control loop logic."
}

func (c *SetCommand) Usage() string { return "<name> <value>" }

func (c *SetCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{
		{Name: "name", Description: "Parameter name, see `codebot params`.", Required: true},
		{Name: "value", Description: "New value; numbers are clamped and rounded, colours must match exactly.", Required: true},
	}
}

func (c *SetCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *SetCommand) Execute(args cli.CommandArgs) error {
	name, value := args.Variables[0], args.Variables[1]
	return withSession(args, func(s *session.Session) error {
		if err := s.Workspace.SetParam(name, value); err != nil {
			return err
		}
		return saveAndReport(s, name)
	})
}

// saveAndReport persists the workspace and prints the header line of name.
func saveAndReport(s *session.Session, name string) error {
	if err := s.Workspace.SaveAs(history.TriggerCLI); err != nil {
		return err
	}
	s.MarkSaved()
	d, _ := params.Lookup(name)
	fmt.Fprintf(Stdout, "%s\n", d.Line(s.Workspace.Params().Value(name)))
	return nil
}
