package args

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// StepCommand nudges a parameter by whole increments, like the form's +/- keys.
type StepCommand struct{}

func init() {
	RegisterCommand(&StepCommand{})
}

func (c *StepCommand) Name() string { return "step" }

func (c *StepCommand) Description() string {
	return "Steps a parameter up or down by its increment; colours cycle through their values."
}

func (c *StepCommand) Usage() string { return "<name> [+n|-n]" }

func (c *StepCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{
		{Name: "name", Description: "Parameter name.", Required: true},
		{Name: "count", Description: "Number of increments, negative to step down (default 1).", Required: false},
	}
}

func (c *StepCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *StepCommand) Execute(args cli.CommandArgs) error {
	name := args.Variables[0]
	n := 1
	if len(args.Variables) > 1 {
		v, err := strconv.Atoi(strings.TrimPrefix(args.Variables[1], "+"))
		if err != nil {
			return fmt.Errorf("count must be a whole number, got %q", args.Variables[1])
		}
		n = v
	}
	return withSession(args, func(s *session.Session) error {
		if err := s.Workspace.StepParam(name, n); err != nil {
			return err
		}
		return saveAndReport(s, name)
	})
}
